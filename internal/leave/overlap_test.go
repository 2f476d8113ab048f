package leave

import (
	"testing"
	"time"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func TestFindOverlaps(t *testing.T) {
	existing := []Record{
		{ID: "leave-1", EmployeeID: "emp-1", StartDate: day(time.June, 2), EndDate: day(time.June, 6)},
		{ID: "leave-2", EmployeeID: "emp-1", StartDate: day(time.August, 4), EndDate: day(time.August, 22)},
		{ID: "leave-3", EmployeeID: "emp-2", StartDate: day(time.June, 2), EndDate: day(time.June, 6)},
	}

	t.Run("disjoint interval has no overlaps", func(t *testing.T) {
		candidate := Record{EmployeeID: "emp-1", StartDate: day(time.June, 9), EndDate: day(time.June, 13)}
		if got := FindOverlaps(candidate, existing); got != nil {
			t.Fatalf("FindOverlaps() = %v, want none", got)
		}
	})

	t.Run("shared boundary day counts as an overlap", func(t *testing.T) {
		candidate := Record{EmployeeID: "emp-1", StartDate: day(time.June, 6), EndDate: day(time.June, 10)}
		got := FindOverlaps(candidate, existing)
		if len(got) != 1 || got[0].WithID != "leave-1" {
			t.Fatalf("FindOverlaps() = %v, want leave-1", got)
		}
	})

	t.Run("other employees never conflict", func(t *testing.T) {
		candidate := Record{EmployeeID: "emp-3", StartDate: day(time.June, 2), EndDate: day(time.June, 6)}
		if got := FindOverlaps(candidate, existing); got != nil {
			t.Fatalf("FindOverlaps() = %v, want none", got)
		}
	})

	t.Run("the candidate itself is skipped on update", func(t *testing.T) {
		candidate := Record{ID: "leave-2", EmployeeID: "emp-1", StartDate: day(time.August, 4), EndDate: day(time.August, 22)}
		if got := FindOverlaps(candidate, existing); got != nil {
			t.Fatalf("FindOverlaps() = %v, want none", got)
		}
	})

	t.Run("a wide candidate reports every intersected record", func(t *testing.T) {
		candidate := Record{EmployeeID: "emp-1", StartDate: day(time.May, 1), EndDate: day(time.December, 31)}
		got := FindOverlaps(candidate, existing)
		if len(got) != 2 {
			t.Fatalf("FindOverlaps() returned %d overlaps, want 2", len(got))
		}
	})
}
