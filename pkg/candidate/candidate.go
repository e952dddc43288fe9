// Package candidate reads and writes the JSON lines candidate lists that
// drive a scrape run.
package candidate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingHandle is returned for a record without a twitter field
var ErrMissingHandle = errors.New("candidate record has no twitter field")

// Candidate is one input record. Raw holds the original JSON object so that
// checkpoints reproduce exactly what was read.
type Candidate struct {
	Raw     json.RawMessage
	Twitter string
	fields  map[string]json.RawMessage
}

// Parse decodes a single JSON object line
func Parse(line []byte) (Candidate, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return Candidate{}, fmt.Errorf("invalid candidate record: %w", err)
	}

	rawHandle, ok := fields["twitter"]
	if !ok {
		return Candidate{}, ErrMissingHandle
	}

	c := Candidate{
		Raw:    append(json.RawMessage(nil), bytes.TrimSpace(line)...),
		fields: fields,
	}
	var handle string
	if err := json.Unmarshal(rawHandle, &handle); err == nil {
		c.Twitter = handle
	}
	return c, nil
}

// HasHandle reports whether the twitter field is truthy. Null, false, zero
// and blank strings all mean the candidate has no account to search.
func (c Candidate) HasHandle() bool {
	return strings.TrimSpace(c.Twitter) != ""
}

// Handle returns the twitter handle lowercased
func (c Candidate) Handle() string {
	return strings.ToLower(strings.TrimSpace(c.Twitter))
}

// Name returns a display label for progress output
func (c Candidate) Name() string {
	for _, key := range []string{"name", "id"} {
		raw, ok := c.fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	if c.HasHandle() {
		return c.Twitter
	}
	return "<unnamed>"
}

// Read parses JSON lines from r. Blank lines are ignored.
func Read(r io.Reader) ([]Candidate, error) {
	var out []Candidate

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return out, nil
}

// ReadFile reads a JSON lines candidate file
func ReadFile(path string) ([]Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cands, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cands, nil
}

// Write emits one JSON object per line
func Write(w io.Writer, cands []Candidate) error {
	bw := bufio.NewWriter(w)
	for _, c := range cands {
		if _, err := bw.Write(c.Raw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile atomically replaces path with the given candidates
func WriteFile(path string, cands []Candidate) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := path + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := Write(f, cands); err != nil {
		f.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write candidates: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to sync candidates: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
