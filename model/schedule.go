package model

import "time"

// AvailabilityWindow is a recurring weekly bookable range. Weekday is
// 0=Monday .. 6=Sunday. StartTime/EndTime are wall-clock "15:04" values.
type AvailabilityWindow struct {
	ID          string `json:"id"`
	CaregiverID string `json:"caregiver_id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// TimeOff is a date-range exception that overrides availability.
type TimeOff struct {
	ID          string    `json:"id"`
	CaregiverID string    `json:"caregiver_id"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	Reason      string    `json:"reason,omitempty"`
}

// WeekdayIndex maps a timestamp to the Monday-based weekday used by
// availability windows.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AvailabilityWindowReq is one recurring window in a caregiver's schedule
// swagger:model AvailabilityWindowReq
type AvailabilityWindowReq struct {
	Weekday   int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// SetAvailabilityReq replaces the caregiver's weekly schedule
// swagger:model SetAvailabilityReq
type SetAvailabilityReq struct {
	Windows []AvailabilityWindowReq `json:"windows" validate:"required,dive"`
}

// TimeOffReq represents a time-off creation payload
// swagger:model TimeOffReq
type TimeOffReq struct {
	DateFrom string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"required,datetime=2006-01-02"`
	Reason   string `json:"reason"`
}
