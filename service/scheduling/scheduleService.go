package scheduling

import (
	"context"
	"errors"
	"time"

	"petcare/model"
	schedulerepo "petcare/repository/schedule"

	"github.com/google/uuid"
)

var (
	ErrBadWindow = errors.New("window start must be before end")
	ErrBadRange  = errors.New("date_from must not be after date_to")
	ErrNotFound  = errors.New("time off not found")
)

// Service manages a caregiver's recurring schedule and time-off exceptions.
type Service interface {
	SetWindows(ctx context.Context, caregiverID string, req model.SetAvailabilityReq) ([]model.AvailabilityWindow, error)
	Windows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error)
	AddTimeOff(ctx context.Context, caregiverID string, req model.TimeOffReq) (*model.TimeOff, error)
	RemoveTimeOff(ctx context.Context, caregiverID, id string) error
	TimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error)
}

type service struct {
	r schedulerepo.Repo
}

func New(r schedulerepo.Repo) Service { return &service{r: r} }

func (s *service) SetWindows(ctx context.Context, caregiverID string, req model.SetAvailabilityReq) ([]model.AvailabilityWindow, error) {
	windows := make([]model.AvailabilityWindow, 0, len(req.Windows))
	for _, in := range req.Windows {
		ws, err := ParseClock(in.StartTime)
		if err != nil {
			return nil, ErrBadWindow
		}
		we, err := ParseClock(in.EndTime)
		if err != nil {
			return nil, ErrBadWindow
		}
		if ws >= we {
			return nil, ErrBadWindow
		}
		windows = append(windows, model.AvailabilityWindow{
			ID:          uuid.NewString(),
			CaregiverID: caregiverID,
			Weekday:     in.Weekday,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
		})
	}
	if err := s.r.ReplaceWindows(ctx, caregiverID, windows); err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *service) Windows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error) {
	return s.r.ListWindows(ctx, caregiverID)
}

func (s *service) AddTimeOff(ctx context.Context, caregiverID string, req model.TimeOffReq) (*model.TimeOff, error) {
	from, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return nil, ErrBadRange
	}
	to, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return nil, ErrBadRange
	}
	if from.After(to) {
		return nil, ErrBadRange
	}

	t := &model.TimeOff{
		ID:          uuid.NewString(),
		CaregiverID: caregiverID,
		DateFrom:    from,
		DateTo:      to,
		Reason:      req.Reason,
	}
	if err := s.r.AddTimeOff(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) RemoveTimeOff(ctx context.Context, caregiverID, id string) error {
	ok, err := s.r.RemoveTimeOff(ctx, id, caregiverID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) TimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error) {
	return s.r.ListTimeOff(ctx, caregiverID)
}
