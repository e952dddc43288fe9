package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	stats := m.stats()
	width := (m.width - 4) / 2

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(stats, width),
		m.renderCandidatePanel(stats, width),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderDaysPanel(stats, width),
		m.renderLogsPanel(width),
	)

	sections := []string{
		m.renderLogo(),
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) renderLogo() string {
	logo := `
╔════════════════════════════════════════════╗
║  T W E E T I D S  ·  timeline id harvester  ║
╚════════════════════════════════════════════╝`
	return logoStyle.Width(m.width).Render(logo)
}

func (m *Model) renderStatsPanel(s Stats, width int) string {
	title := titleStyle.Render(" RUN STATS ")

	percent := 0.0
	if s.Total > 0 {
		percent = float64(s.Done) / float64(s.Total)
	}
	bar := m.runBar
	bar.Width = width - 8

	status := m.spinner.View() + " running"
	switch {
	case s.Finished:
		status = successStyle.Render("✓ finished")
	case s.Paused:
		status = warningStyle.Render("⏸  PAUSED")
	}

	lines := []string{
		status,
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(s.Elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Candidates:"), statsValueStyle.Render(fmt.Sprintf("%d/%d (%d skipped)", s.Done, s.Total, s.Skipped))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Tweet IDs:"), statsValueStyle.Render(fmt.Sprintf("%d scraped, %d stored", s.IDsScraped, s.Stored))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Stale:"), GetStaleStyle(s.Stale, s.IDsScraped).Render(fmt.Sprintf("%d", s.Stale))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(formatDuration(s.ETA))),
		bar.ViewAs(percent),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")),
	)
}

func (m *Model) renderCandidatePanel(s Stats, width int) string {
	title := titleStyle.Render(" CURRENT CANDIDATE ")

	if s.Active == nil {
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("Waiting for the next candidate")),
		)
	}

	c := s.Active
	percent := 0.0
	if c.Days > 0 {
		percent = float64(c.DaysDone) / float64(c.Days)
	}
	bar := m.candidateBar
	bar.Width = width - 8

	lines := []string{
		activeStyle.Render(fmt.Sprintf("%s  @%s", c.Name, c.Handle)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Days:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", c.DaysDone, c.Days))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(time.Since(c.StartTime)))),
		bar.ViewAs(percent),
	}
	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")),
	)
}

func (m *Model) renderDaysPanel(s Stats, width int) string {
	title := titleStyle.Render(" RECENT DAYS ")

	if len(s.RecentDays) == 0 {
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, dimStyle.Render("No days searched yet")),
		)
	}

	var rows []string
	for i := len(s.RecentDays) - 1; i >= 0; i-- {
		d := s.RecentDays[i]
		row := fmt.Sprintf("%s @%s  %3d found  %3d ids", d.Since, d.Handle, d.Found, d.IDs)
		if d.Stale > 0 {
			row += "  " + GetStaleStyle(d.Stale, d.Found).Render(fmt.Sprintf("%d stale", d.Stale))
		}
		rows = append(rows, dayStyle.Render(row))
	}
	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n")),
	)
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" SYSTEM LOGS ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		text := log.Message
		if maxLen := width - 25; maxLen > 3 && len(text) > maxLen {
			text = text[:maxLen-3] + "..."
		}
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(text)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = dimStyle.Render("No logs yet...")
	}

	logsHeight := m.height - 30
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

func (m *Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    p/P      - Pause/Resume before the next page load
    ctrl+l   - Clear logs
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - No stale items
    ` + warningStyle.Render("Orange") + `   - Some stale items
    ` + errorStyle.Render("Red") + `      - Many stale items
`
	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration as a clock
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
