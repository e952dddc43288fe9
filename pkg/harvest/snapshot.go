package harvest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is what ExtractSnapshot found in a page
type Snapshot struct {
	Found   int
	IDs     []string
	Missing int
}

// ExtractSnapshot reads identifiers out of a rendered page. Each element
// matching itemSel contributes the last path segment of attr on its first
// descendant matching idSel.
func ExtractSnapshot(html, itemSel, idSel, attr string) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse page html: %w", err)
	}

	var snap Snapshot
	doc.Find(itemSel).Each(func(_ int, item *goquery.Selection) {
		snap.Found++
		value, ok := item.Find(idSel).First().Attr(attr)
		id := lastSegment(value)
		if !ok || id == "" {
			snap.Missing++
			return
		}
		snap.IDs = append(snap.IDs, id)
	})
	return snap, nil
}

// lastSegment returns the final path element of a link
func lastSegment(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
