package scheduling

import "time"

// Shift represents the time window of a shift as seen by conflict detection.
type Shift struct {
	ID         string
	EmployeeID string
	Start      time.Time
	End        time.Time
}

// Conflict details an overlapping shift relation that callers can present to users.
type Conflict struct {
	WithShiftID string
	EmployeeID  string
	Start       time.Time
	End         time.Time
}

// Overlaps reports whether two shift windows intersect. Windows are half-open,
// so a shift ending exactly when another starts does not overlap.
func Overlaps(a, b Shift) bool {
	if a.Start.IsZero() || a.End.IsZero() || b.Start.IsZero() || b.End.IsZero() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// DetectConflicts identifies existing shifts whose windows collide with the
// candidate. The candidate itself is skipped when it appears in existing.
func DetectConflicts(existing []Shift, candidate Shift) []Conflict {
	var conflicts []Conflict
	for _, shift := range existing {
		if shift.ID != "" && shift.ID == candidate.ID {
			continue
		}
		if !Overlaps(shift, candidate) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			WithShiftID: shift.ID,
			EmployeeID:  shift.EmployeeID,
			Start:       shift.Start,
			End:         shift.End,
		})
	}
	return conflicts
}
