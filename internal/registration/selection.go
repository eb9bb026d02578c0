package registration

import (
	"fmt"
	"strings"

	"legalbooks/internal/upstream"
)

// DefaultMaxDisplayed caps how many names the selection summary lists before
// collapsing the rest into an "and N more" suffix.
const DefaultMaxDisplayed = 5

// Selection models the practice-area selector: one parent checkbox per
// practice plus child checkboxes per specialization, over a shared id space.
// Selection state is ordered (the primary area stays at the front) and
// deduplicated.
//
// Contract for dismissal: only Commit writes the selection back to the
// draft; closing the selector without committing discards pending changes.
type Selection struct {
	practices []upstream.Practice
	selected  []int
}

// NewSelection starts a selection over the catalog's practices from an
// existing id list. When primary is non-zero, the primary practice and all
// of its specializations are auto-included.
func NewSelection(practices []upstream.Practice, existing []int, primary int) *Selection {
	s := &Selection{practices: practices}
	for _, id := range existing {
		s.add(id)
	}
	if primary != 0 {
		if p, ok := practiceByID(practices, primary); ok {
			s.add(p.ID)
			for _, spec := range p.Specializations {
				s.add(spec.ID)
			}
		}
	}
	return s
}

// IsPracticeSelected reports whether the practice renders as checked: its
// own id is selected and every one of its specialization ids is selected.
// Partial selection renders the parent unchecked.
func (s *Selection) IsPracticeSelected(p upstream.Practice) bool {
	if !s.contains(p.ID) {
		return false
	}
	for _, spec := range p.Specializations {
		if !s.contains(spec.ID) {
			return false
		}
	}
	return true
}

// TogglePractice selects or deselects the practice id and all of its
// specialization ids as one atomic action.
func (s *Selection) TogglePractice(practiceID int) error {
	p, ok := practiceByID(s.practices, practiceID)
	if !ok {
		return fmt.Errorf("unknown practice id %d", practiceID)
	}
	if s.IsPracticeSelected(p) {
		s.remove(p.ID)
		for _, spec := range p.Specializations {
			s.remove(spec.ID)
		}
		return nil
	}
	s.add(p.ID)
	for _, spec := range p.Specializations {
		s.add(spec.ID)
	}
	return nil
}

// ToggleSpecialization adds or removes one specialization id, maintaining
// the invariant that the owning practice id is present exactly when all of
// its specialization ids are present.
func (s *Selection) ToggleSpecialization(specID int) error {
	p, ok := practiceOfSpecialization(s.practices, specID)
	if !ok {
		return fmt.Errorf("unknown specialization id %d", specID)
	}
	if s.contains(specID) {
		s.remove(specID)
		s.remove(p.ID)
		return nil
	}
	s.add(specID)
	all := true
	for _, spec := range p.Specializations {
		if !s.contains(spec.ID) {
			all = false
			break
		}
	}
	if all {
		s.add(p.ID)
	}
	return nil
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.selected = nil
}

// IDs returns a copy of the selected id list in selection order.
func (s *Selection) IDs() []int {
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// Summary renders the human-readable recap: selected practice names followed
// by selected specialization names, truncated to maxDisplayed with an
// "and N more" suffix when exceeded. maxDisplayed ≤ 0 falls back to the
// default.
func (s *Selection) Summary(maxDisplayed int) string {
	if maxDisplayed <= 0 {
		maxDisplayed = DefaultMaxDisplayed
	}

	var names []string
	for _, p := range s.practices {
		if s.contains(p.ID) {
			names = append(names, p.Name)
		}
	}
	for _, p := range s.practices {
		for _, spec := range p.Specializations {
			if s.contains(spec.ID) {
				names = append(names, spec.Name)
			}
		}
	}

	if len(names) <= maxDisplayed {
		return strings.Join(names, "; ")
	}
	shown := strings.Join(names[:maxDisplayed], "; ")
	return fmt.Sprintf("%s and %d more", shown, len(names)-maxDisplayed)
}

// Commit returns the final id list and summary for the caller to store.
func (s *Selection) Commit(maxDisplayed int) ([]int, string) {
	return s.IDs(), s.Summary(maxDisplayed)
}

func (s *Selection) contains(id int) bool {
	for _, got := range s.selected {
		if got == id {
			return true
		}
	}
	return false
}

func (s *Selection) add(id int) {
	if !s.contains(id) {
		s.selected = append(s.selected, id)
	}
}

func (s *Selection) remove(id int) {
	for i, got := range s.selected {
		if got == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

func practiceByID(practices []upstream.Practice, id int) (upstream.Practice, bool) {
	for _, p := range practices {
		if p.ID == id {
			return p, true
		}
	}
	return upstream.Practice{}, false
}

func practiceOfSpecialization(practices []upstream.Practice, specID int) (upstream.Practice, bool) {
	for _, p := range practices {
		for _, spec := range p.Specializations {
			if spec.ID == specID {
				return p, true
			}
		}
	}
	return upstream.Practice{}, false
}
