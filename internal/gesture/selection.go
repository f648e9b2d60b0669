package gesture

import "sort"

// Selection tracks the set of selected event ids on the displayed
// calendar. The shift modifier is threaded in explicitly by callers; the
// package holds no ambient key state.
type Selection struct {
	ids map[string]bool
}

// Click applies the selection rules for a click on an event:
// with shift, toggle membership without touching the rest; without,
// a click on the sole selected event deselects it, anything else
// replaces the selection.
func (s *Selection) Click(id string, shift bool) {
	if s.ids == nil {
		s.ids = map[string]bool{}
	}
	if shift {
		if s.ids[id] {
			delete(s.ids, id)
		} else {
			s.ids[id] = true
		}
		return
	}
	if len(s.ids) == 1 && s.ids[id] {
		delete(s.ids, id)
		return
	}
	s.ids = map[string]bool{id: true}
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) Has(id string) bool {
	return s.ids[id]
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids sorted for deterministic batch commits.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Drop removes ids that no longer exist (e.g. after a batch delete).
func (s *Selection) Drop(ids []string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}
