package startup

import "github.com/danieljhkim/slnstart/internal/guid"

// Selection is an ordered set of canonical project identities.
// Insertion order is preserved and duplicates are collapsed.
type Selection struct {
	ids  []string
	seen map[string]struct{}
}

// NewSelection builds a Selection from ids, canonicalising each one.
func NewSelection(ids ...string) (*Selection, error) {
	s := &Selection{}
	for _, id := range ids {
		if _, err := s.Add(id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts id unless an equal identity is already present.
// It reports whether the selection grew.
func (s *Selection) Add(id string) (bool, error) {
	canonical, err := guid.Canonical(id)
	if err != nil {
		return false, err
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[canonical]; ok {
		return false, nil
	}
	s.seen[canonical] = struct{}{}
	s.ids = append(s.ids, canonical)
	return true, nil
}

// Contains reports whether id is part of the selection.
func (s *Selection) Contains(id string) bool {
	canonical, err := guid.Canonical(id)
	if err != nil {
		return false
	}
	_, ok := s.seen[canonical]
	return ok
}

// IDs returns a copy of the identities in insertion order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of identities.
func (s *Selection) Len() int {
	return len(s.ids)
}
