package leave

import "time"

// Overlap reports an interval collision between a candidate record and one
// already stored for the same employee.
type Overlap struct {
	WithID string
	Start  time.Time
	End    time.Time
}

// FindOverlaps returns the stored records whose inclusive interval intersects
// the candidate's. Records for other employees and the candidate itself are
// ignored, so the check is safe on updates too.
func FindOverlaps(candidate Record, existing []Record) []Overlap {
	var overlaps []Overlap
	for _, record := range existing {
		if record.EmployeeID != candidate.EmployeeID || record.ID == candidate.ID {
			continue
		}
		if record.EndDate.Before(candidate.StartDate) || record.StartDate.After(candidate.EndDate) {
			continue
		}
		overlaps = append(overlaps, Overlap{WithID: record.ID, Start: record.StartDate, End: record.EndDate})
	}
	return overlaps
}
