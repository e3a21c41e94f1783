package scheduling

import (
	"context"
	"time"

	"petcare/model"
)

type ScheduleRepo interface {
	ListWindows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error)
	ListTimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error)
}

type BookingOverlapRepo interface {
	HasOverlap(ctx context.Context, caregiverID string, start, end time.Time) (bool, error)
}

// Resolver answers whether a caregiver can be booked for a time window. It
// has no side effects; callers own the start < end precondition.
type Resolver struct {
	sched    ScheduleRepo
	bookings BookingOverlapRepo
}

func NewResolver(sched ScheduleRepo, bookings BookingOverlapRepo) *Resolver {
	return &Resolver{sched: sched, bookings: bookings}
}

// IsAvailable runs the three checks in order and short-circuits on the first
// failure: a recurring weekly window must cover the request, no time-off range
// may contain it, and no pending/accepted booking may overlap it.
func (r *Resolver) IsAvailable(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	windows, err := r.sched.ListWindows(ctx, caregiverID)
	if err != nil {
		return false, err
	}
	if !AnyWindowCovers(windows, start, end) {
		return false, nil
	}

	timeOff, err := r.sched.ListTimeOff(ctx, caregiverID)
	if err != nil {
		return false, err
	}
	if AnyTimeOffBlocks(timeOff, start, end) {
		return false, nil
	}

	overlap, err := r.bookings.HasOverlap(ctx, caregiverID, start, end)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

// AnyWindowCovers reports whether some recurring window on start's weekday
// contains both endpoints' time-of-day, bounds inclusive. A request that
// crosses midnight is only matched against the start day's windows, so its
// end time-of-day is earlier than its start and no window can cover both.
func AnyWindowCovers(windows []model.AvailabilityWindow, start, end time.Time) bool {
	weekday := model.WeekdayIndex(start)
	startMin := minuteOfDay(start)
	endMin := minuteOfDay(end)
	for _, w := range windows {
		if w.Weekday != weekday {
			continue
		}
		ws, err1 := ParseClock(w.StartTime)
		we, err2 := ParseClock(w.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if ws <= startMin && endMin <= we {
			return true
		}
	}
	return false
}

// AnyTimeOffBlocks reports whether a time-off range contains the request's
// date span, bounds inclusive.
func AnyTimeOffBlocks(timeOff []model.TimeOff, start, end time.Time) bool {
	startDate := dateOnly(start)
	endDate := dateOnly(end)
	for _, t := range timeOff {
		if !dateOnly(t.DateFrom).After(startDate) && !dateOnly(t.DateTo).Before(endDate) {
			return true
		}
	}
	return false
}

// ParseClock converts an "HH:MM" wall-clock value to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
