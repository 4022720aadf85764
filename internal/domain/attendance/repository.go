package attendance

import "context"

// AttendanceRepository exposes the read-only attendance aggregation payroll
// consumes. Check-in/out and verification workflows live in the attendance
// service.
type AttendanceRepository interface {
	// CountByStatusForMonth returns the number of attendance rows per status
	// for the given user and calendar month. Statuses with no rows are absent
	// from the map.
	CountByStatusForMonth(ctx context.Context, userID string, year, month int) (map[Status]int, error)
}
