package attendance

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusLeave   Status = "leave"
)

// Attendance is one day of attendance for a login identity.
// One row per (user, date), enforced by the attendance service.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
