package scheduling_test

import (
	"context"
	"testing"
	"time"

	"petcare/model"
	"petcare/service/scheduling"

	"github.com/stretchr/testify/require"
)

type schedMock struct {
	windows []model.AvailabilityWindow
	timeOff []model.TimeOff
}

func (m *schedMock) ListWindows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error) {
	return m.windows, nil
}

func (m *schedMock) ListTimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error) {
	return m.timeOff, nil
}

type overlapMock struct {
	bookings [][2]time.Time
}

func (m *overlapMock) HasOverlap(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	for _, b := range m.bookings {
		if b[0].Before(end) && b[1].After(start) {
			return true, nil
		}
	}
	return false, nil
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func fixture() (*schedMock, *overlapMock) {
	sched := &schedMock{
		windows: []model.AvailabilityWindow{
			{ID: "w1", CaregiverID: "c1", Weekday: 0, StartTime: "08:00", EndTime: "20:00"},
		},
		timeOff: []model.TimeOff{
			{ID: "t1", CaregiverID: "c1", DateFrom: monday.AddDate(0, 0, 7), DateTo: monday.AddDate(0, 0, 7)},
		},
	}
	overlaps := &overlapMock{
		bookings: [][2]time.Time{{at(monday, 10, 0), at(monday, 11, 0)}},
	}
	return sched, overlaps
}

func TestIsAvailable_FreeSlotSameDay(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	ok, err := r.IsAvailable(context.Background(), "c1", at(monday, 14, 0), at(monday, 15, 0))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIsAvailable_OverlapRejected(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	for _, span := range [][2]time.Time{
		{at(monday, 10, 0), at(monday, 11, 0)},  // exact
		{at(monday, 10, 30), at(monday, 11, 30)}, // tail overlap
		{at(monday, 9, 30), at(monday, 10, 30)},  // head overlap
		{at(monday, 9, 0), at(monday, 12, 0)},    // containing
	} {
		ok, err := r.IsAvailable(context.Background(), "c1", span[0], span[1])
		require.NoError(t, err)
		require.False(t, ok, "span %v-%v", span[0], span[1])
	}
}

func TestIsAvailable_AdjacentBookingAllowed(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	// [start, end) intervals: touching endpoints do not overlap.
	ok, err := r.IsAvailable(context.Background(), "c1", at(monday, 11, 0), at(monday, 12, 0))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIsAvailable_TimeOffBlocks(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	nextMonday := monday.AddDate(0, 0, 7)
	ok, err := r.IsAvailable(context.Background(), "c1", at(nextMonday, 14, 0), at(nextMonday, 15, 0))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsAvailable_OutsideWindow(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	cases := [][2]time.Time{
		{at(monday, 6, 0), at(monday, 7, 0)},   // before window
		{at(monday, 19, 30), at(monday, 20, 30)}, // runs past window end
	}
	for _, span := range cases {
		ok, err := r.IsAvailable(context.Background(), "c1", span[0], span[1])
		require.NoError(t, err)
		require.False(t, ok, "span %v-%v", span[0], span[1])
	}

	// Tuesday has no window at all.
	tuesday := monday.AddDate(0, 0, 1)
	ok, err := r.IsAvailable(context.Background(), "c1", at(tuesday, 14, 0), at(tuesday, 15, 0))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsAvailable_WindowBoundsInclusive(t *testing.T) {
	sched, overlaps := fixture()
	r := scheduling.NewResolver(sched, overlaps)

	ok, err := r.IsAvailable(context.Background(), "c1", at(monday, 8, 0), at(monday, 9, 0))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsAvailable(context.Background(), "c1", at(monday, 19, 0), at(monday, 20, 0))
	require.NoError(t, err)
	require.True(t, ok)
}

// A request crossing midnight is matched against the start day's windows
// only, so it cannot satisfy the inclusive time-of-day check.
func TestIsAvailable_MidnightCrossing(t *testing.T) {
	sched, overlaps := fixture()
	sched.windows = append(sched.windows, model.AvailabilityWindow{
		ID: "w2", CaregiverID: "c1", Weekday: 1, StartTime: "00:00", EndTime: "23:59",
	})
	r := scheduling.NewResolver(sched, overlaps)

	ok, err := r.IsAvailable(context.Background(), "c1", at(monday, 23, 30), at(monday.AddDate(0, 0, 1), 0, 30))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAnyTimeOffBlocks_PartialCoverDoesNotBlock(t *testing.T) {
	// The range must contain the whole request span to block it.
	timeOff := []model.TimeOff{{DateFrom: monday, DateTo: monday}}
	start := at(monday, 23, 0)
	end := at(monday.AddDate(0, 0, 1), 1, 0)
	require.False(t, scheduling.AnyTimeOffBlocks(timeOff, start, end))
	require.True(t, scheduling.AnyTimeOffBlocks(timeOff, at(monday, 9, 0), at(monday, 10, 0)))
}
