package scheduling

import (
	"testing"
	"time"
)

var base = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func window(startOffset, endOffset time.Duration) (time.Time, time.Time) {
	return base.Add(startOffset), base.Add(endOffset)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name             string
		aStart, aEnd     time.Duration
		bStart, bEnd     time.Duration
		want             bool
	}{
		{name: "identical windows", aStart: 0, aEnd: 8 * time.Hour, bStart: 0, bEnd: 8 * time.Hour, want: true},
		{name: "partial overlap", aStart: 0, aEnd: 8 * time.Hour, bStart: 4 * time.Hour, bEnd: 12 * time.Hour, want: true},
		{name: "contained", aStart: 0, aEnd: 8 * time.Hour, bStart: 2 * time.Hour, bEnd: 4 * time.Hour, want: true},
		{name: "back to back", aStart: 0, aEnd: 8 * time.Hour, bStart: 8 * time.Hour, bEnd: 16 * time.Hour, want: false},
		{name: "disjoint", aStart: 0, aEnd: 4 * time.Hour, bStart: 6 * time.Hour, bEnd: 10 * time.Hour, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Shift{ID: "a"}
			a.Start, a.End = window(tc.aStart, tc.aEnd)
			b := Shift{ID: "b"}
			b.Start, b.End = window(tc.bStart, tc.bEnd)

			if got := Overlaps(a, b); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := Overlaps(b, a); got != tc.want {
				t.Fatalf("Overlaps is not symmetric: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverlapsIgnoresZeroWindows(t *testing.T) {
	a := Shift{ID: "a"}
	b := Shift{ID: "b"}
	b.Start, b.End = window(0, 8*time.Hour)

	if Overlaps(a, b) {
		t.Fatal("zero window should never overlap")
	}
}

func TestDetectConflicts(t *testing.T) {
	candidate := Shift{ID: "candidate", EmployeeID: "emp-1"}
	candidate.Start, candidate.End = window(0, 8*time.Hour)

	overlapping := Shift{ID: "held", EmployeeID: "emp-1"}
	overlapping.Start, overlapping.End = window(6*time.Hour, 14*time.Hour)

	disjoint := Shift{ID: "later", EmployeeID: "emp-1"}
	disjoint.Start, disjoint.End = window(9*time.Hour, 17*time.Hour)

	conflicts := DetectConflicts([]Shift{overlapping, disjoint}, candidate)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].WithShiftID != "held" {
		t.Fatalf("conflict reported against %q, want %q", conflicts[0].WithShiftID, "held")
	}
	if conflicts[0].EmployeeID != "emp-1" {
		t.Fatalf("conflict employee %q, want %q", conflicts[0].EmployeeID, "emp-1")
	}
}

func TestDetectConflictsSkipsSelf(t *testing.T) {
	candidate := Shift{ID: "shift-1", EmployeeID: "emp-1"}
	candidate.Start, candidate.End = window(0, 8*time.Hour)

	conflicts := DetectConflicts([]Shift{candidate}, candidate)
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts against self, got %d", len(conflicts))
	}
}
