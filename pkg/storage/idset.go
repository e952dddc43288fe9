package storage

import "sort"

// IDSet is an unordered set of tweet identifiers
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, dropping duplicates
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

// Add inserts ids and returns how many were new
func (s IDSet) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if _, ok := s[id]; ok {
			continue
		}
		s[id] = struct{}{}
		added++
	}
	return added
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Sorted returns the members in lexical order
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
