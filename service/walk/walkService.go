package walksvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petcare/model"
	authrepo "petcare/repository/auth"
	bookingrepo "petcare/repository/booking"
	caregiverrepo "petcare/repository/caregiver"
	walkrepo "petcare/repository/walk"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrCode string

const (
	ErrBookingNotFound ErrCode = "BOOKING_NOT_FOUND"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrNotStartable    ErrCode = "NOT_STARTABLE"
	ErrBadField        ErrCode = "BAD_FIELD"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// CreateSession opens a session on an accepted booking; only the booking's
	// caregiver may do so.
	CreateSession(ctx context.Context, caregiverUserID string, req model.CreateWalkSessionReq) (*model.WalkSession, error)
	UpdateSession(ctx context.Context, caregiverUserID, sessionID string, req model.UpdateWalkSessionReq) (*model.WalkSession, error)
	AddPhoto(ctx context.Context, caregiverUserID, sessionID string, req model.AddWalkPhotoReq) (*model.WalkPhoto, error)

	// SessionsForBooking is readable by both booking participants.
	SessionsForBooking(ctx context.Context, actorUserID, bookingID string) ([]model.WalkSession, error)
	Photos(ctx context.Context, actorUserID, sessionID string) ([]model.WalkPhoto, error)
}

type service struct {
	r          walkrepo.Repo
	bookings   bookingrepo.Repo
	profiles   authrepo.Repo
	caregivers caregiverrepo.Repo
}

func New(r walkrepo.Repo, bookings bookingrepo.Repo, profiles authrepo.Repo, caregivers caregiverrepo.Repo) Service {
	return &service{r: r, bookings: bookings, profiles: profiles, caregivers: caregivers}
}

func (s *service) CreateSession(ctx context.Context, caregiverUserID string, req model.CreateWalkSessionReq) (*model.WalkSession, error) {
	b, err := s.bookingByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.mustBeBookingCaregiver(ctx, caregiverUserID, b); err != nil {
		return nil, err
	}
	if b.Status != model.BookingAccepted && b.Status != model.BookingCompleted {
		return nil, makeErr(ErrNotStartable)
	}

	session := &model.WalkSession{
		ID:        uuid.NewString(),
		BookingID: b.ID,
	}
	if err := s.r.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) UpdateSession(ctx context.Context, caregiverUserID, sessionID string, req model.UpdateWalkSessionReq) (*model.WalkSession, error) {
	session, b, err := s.sessionWithBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.mustBeBookingCaregiver(ctx, caregiverUserID, b); err != nil {
		return nil, err
	}

	if req.StartedAt != nil {
		ts, err := time.Parse(time.RFC3339, *req.StartedAt)
		if err != nil {
			return nil, makeErr(ErrBadField)
		}
		session.StartedAt = &ts
	}
	if req.EndedAt != nil {
		ts, err := time.Parse(time.RFC3339, *req.EndedAt)
		if err != nil {
			return nil, makeErr(ErrBadField)
		}
		session.EndedAt = &ts
	}
	if session.StartedAt != nil && session.EndedAt != nil && session.EndedAt.Before(*session.StartedAt) {
		return nil, makeErr(ErrBadField)
	}
	if req.DistanceMeters != nil {
		d, err := decimal.NewFromString(*req.DistanceMeters)
		if err != nil || d.IsNegative() {
			return nil, makeErr(ErrBadField)
		}
		session.DistanceMeters = &d
	}
	if req.RouteGeoJSON != nil {
		session.RouteGeoJSON = req.RouteGeoJSON
	}
	if req.PeeEvents != nil {
		session.PeeEvents = *req.PeeEvents
	}
	if req.PooEvents != nil {
		session.PooEvents = *req.PooEvents
	}
	if req.FoodGiven != nil {
		session.FoodGiven = *req.FoodGiven
	}
	if req.WaterGiven != nil {
		session.WaterGiven = *req.WaterGiven
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}

	if err := s.r.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) AddPhoto(ctx context.Context, caregiverUserID, sessionID string, req model.AddWalkPhotoReq) (*model.WalkPhoto, error) {
	_, b, err := s.sessionWithBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.mustBeBookingCaregiver(ctx, caregiverUserID, b); err != nil {
		return nil, err
	}

	p := &model.WalkPhoto{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		URL:       req.URL,
	}
	if err := s.r.AddPhoto(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) SessionsForBooking(ctx context.Context, actorUserID, bookingID string) ([]model.WalkSession, error) {
	b, err := s.bookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.mustBeParticipant(ctx, actorUserID, b); err != nil {
		return nil, err
	}
	return s.r.ListByBooking(ctx, bookingID)
}

func (s *service) Photos(ctx context.Context, actorUserID, sessionID string) ([]model.WalkPhoto, error) {
	_, b, err := s.sessionWithBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.mustBeParticipant(ctx, actorUserID, b); err != nil {
		return nil, err
	}
	return s.r.ListPhotos(ctx, sessionID)
}

func (s *service) bookingByID(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) sessionWithBooking(ctx context.Context, sessionID string) (*model.WalkSession, *model.Booking, error) {
	session, err := s.r.SessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, makeErr(ErrSessionNotFound)
		}
		return nil, nil, err
	}
	b, err := s.bookingByID(ctx, session.BookingID)
	if err != nil {
		return nil, nil, err
	}
	return session, b, nil
}

func (s *service) mustBeBookingCaregiver(ctx context.Context, actorUserID string, b *model.Booking) error {
	caregiver, err := s.caregivers.ByID(ctx, b.CaregiverID)
	if err != nil {
		return err
	}
	if caregiver.UserID != actorUserID {
		return makeErr(ErrForbidden)
	}
	return nil
}

func (s *service) mustBeParticipant(ctx context.Context, actorUserID string, b *model.Booking) error {
	caregiver, err := s.caregivers.ByID(ctx, b.CaregiverID)
	if err == nil && caregiver.UserID == actorUserID {
		return nil
	}
	owner, err := s.profiles.OwnerByUserID(ctx, actorUserID)
	if err == nil && owner.ID == b.OwnerID {
		return nil
	}
	return makeErr(ErrForbidden)
}
