package walksvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"petcare/model"
	caregiverrepo "petcare/repository/caregiver"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type walkRepoFake struct {
	sessions map[string]*model.WalkSession
	photos   map[string][]model.WalkPhoto
}

func newWalkRepoFake() *walkRepoFake {
	return &walkRepoFake{
		sessions: map[string]*model.WalkSession{},
		photos:   map[string][]model.WalkPhoto{},
	}
}

func (f *walkRepoFake) CreateSession(_ context.Context, s *model.WalkSession) error {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *walkRepoFake) SessionByID(_ context.Context, id string) (*model.WalkSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *walkRepoFake) UpdateSession(_ context.Context, s *model.WalkSession) error {
	stored, ok := f.sessions[s.ID]
	if !ok {
		return sql.ErrNoRows
	}
	cp := *s
	cp.UpdatedAt = time.Now()
	*stored = cp
	return nil
}

func (f *walkRepoFake) ListByBooking(_ context.Context, bookingID string) ([]model.WalkSession, error) {
	var out []model.WalkSession
	for _, s := range f.sessions {
		if s.BookingID == bookingID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *walkRepoFake) AddPhoto(_ context.Context, p *model.WalkPhoto) error {
	p.CreatedAt = time.Now()
	f.photos[p.SessionID] = append(f.photos[p.SessionID], *p)
	return nil
}

func (f *walkRepoFake) ListPhotos(_ context.Context, sessionID string) ([]model.WalkPhoto, error) {
	return f.photos[sessionID], nil
}

type bookingsMock struct {
	byID map[string]*model.Booking
}

func (m bookingsMock) InsertUnlessOverlap(_ context.Context, _ *model.Booking) (bool, error) {
	return false, nil
}

func (m bookingsMock) ByID(_ context.Context, id string) (*model.Booking, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return b, nil
}

func (m bookingsMock) UpdateStatusIfCurrent(_ context.Context, _ string, _, _ model.BookingStatus) (bool, error) {
	return false, nil
}

func (m bookingsMock) MarkPaidAndCredit(_ context.Context, _, _ string, _ decimal.Decimal, _ string) (bool, error) {
	return false, nil
}

func (m bookingsMock) HasOverlap(_ context.Context, _ string, _, _ time.Time) (bool, error) {
	return false, nil
}

func (m bookingsMock) ListByOwner(_ context.Context, _ string, _ model.BookingStatus) ([]model.Booking, error) {
	return nil, nil
}

func (m bookingsMock) ListByCaregiver(_ context.Context, _ string, _ model.BookingStatus) ([]model.Booking, error) {
	return nil, nil
}

func (m bookingsMock) InsertRecurringRule(_ context.Context, _ *model.BookingRecurringRule) error {
	return nil
}

type profilesMock struct{}

func (profilesMock) ByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (profilesMock) CreateOwner(_ context.Context, _ *model.User, _ *model.OwnerProfile) error {
	return nil
}

func (profilesMock) CreateCaregiver(_ context.Context, _ *model.User, _ *model.CaregiverProfile) error {
	return nil
}

func (profilesMock) OwnerByUserID(_ context.Context, userID string) (*model.OwnerProfile, error) {
	if userID == "owner-user" {
		return &model.OwnerProfile{ID: "o1", UserID: "owner-user"}, nil
	}
	return nil, sql.ErrNoRows
}

func (profilesMock) CaregiverByUserID(_ context.Context, userID string) (*model.CaregiverProfile, error) {
	if userID == "care-user" {
		return &model.CaregiverProfile{ID: "c1", UserID: "care-user"}, nil
	}
	return nil, sql.ErrNoRows
}

type caregiversMock struct{}

func (caregiversMock) ByID(_ context.Context, id string) (*model.CaregiverProfile, error) {
	if id == "c1" {
		return &model.CaregiverProfile{ID: "c1", UserID: "care-user"}, nil
	}
	return nil, sql.ErrNoRows
}

func (caregiversMock) List(_ context.Context, _ caregiverrepo.Filter) ([]model.CaregiverProfile, error) {
	return nil, nil
}

func fixture(status model.BookingStatus) (Service, *walkRepoFake) {
	repo := newWalkRepoFake()
	bookings := bookingsMock{byID: map[string]*model.Booking{
		"b1": {ID: "b1", OwnerID: "o1", CaregiverID: "c1", Status: status},
	}}
	return New(repo, bookings, profilesMock{}, caregiversMock{}), repo
}

func TestCreateSession(t *testing.T) {
	svc, repo := fixture(model.BookingAccepted)

	s, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.NoError(t, err)
	require.Equal(t, "b1", s.BookingID)
	require.Contains(t, repo.sessions, s.ID)

	_, err = svc.CreateSession(context.Background(), "owner-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.Equal(t, ErrForbidden, Code(err))

	_, err = svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "missing"})
	require.Equal(t, ErrBookingNotFound, Code(err))
}

func TestCreateSessionRequiresAcceptedBooking(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingPending, model.BookingRejected, model.BookingCancelled} {
		svc, _ := fixture(status)
		_, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
		require.Equal(t, ErrNotStartable, Code(err), "status %s", status)
	}

	svc, _ := fixture(model.BookingCompleted)
	_, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.NoError(t, err)
}

func TestUpdateSession(t *testing.T) {
	svc, _ := fixture(model.BookingAccepted)

	s, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.NoError(t, err)

	started := "2026-09-07T10:00:00Z"
	ended := "2026-09-07T10:45:00Z"
	distance := "2400.5"
	pee := 2
	s, err = svc.UpdateSession(context.Background(), "care-user", s.ID, model.UpdateWalkSessionReq{
		StartedAt:      &started,
		EndedAt:        &ended,
		DistanceMeters: &distance,
		PeeEvents:      &pee,
	})
	require.NoError(t, err)
	require.Equal(t, 2, s.PeeEvents)
	require.Equal(t, "2400.5", s.DistanceMeters.String())
	require.True(t, s.EndedAt.After(*s.StartedAt))
}

func TestUpdateSessionValidation(t *testing.T) {
	svc, _ := fixture(model.BookingAccepted)

	s, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.NoError(t, err)

	bad := "not-a-time"
	_, err = svc.UpdateSession(context.Background(), "care-user", s.ID, model.UpdateWalkSessionReq{StartedAt: &bad})
	require.Equal(t, ErrBadField, Code(err))

	started := "2026-09-07T11:00:00Z"
	ended := "2026-09-07T10:00:00Z"
	_, err = svc.UpdateSession(context.Background(), "care-user", s.ID, model.UpdateWalkSessionReq{StartedAt: &started, EndedAt: &ended})
	require.Equal(t, ErrBadField, Code(err))

	negative := "-5"
	_, err = svc.UpdateSession(context.Background(), "care-user", s.ID, model.UpdateWalkSessionReq{DistanceMeters: &negative})
	require.Equal(t, ErrBadField, Code(err))

	_, err = svc.UpdateSession(context.Background(), "owner-user", s.ID, model.UpdateWalkSessionReq{})
	require.Equal(t, ErrForbidden, Code(err))
}

func TestPhotosAndVisibility(t *testing.T) {
	svc, _ := fixture(model.BookingAccepted)

	s, err := svc.CreateSession(context.Background(), "care-user", model.CreateWalkSessionReq{BookingID: "b1"})
	require.NoError(t, err)

	_, err = svc.AddPhoto(context.Background(), "care-user", s.ID, model.AddWalkPhotoReq{URL: "https://cdn.example.com/walk1.jpg"})
	require.NoError(t, err)

	_, err = svc.AddPhoto(context.Background(), "owner-user", s.ID, model.AddWalkPhotoReq{URL: "https://cdn.example.com/walk2.jpg"})
	require.Equal(t, ErrForbidden, Code(err))

	// both participants can read, strangers cannot
	photos, err := svc.Photos(context.Background(), "owner-user", s.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	sessions, err := svc.SessionsForBooking(context.Background(), "care-user", "b1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	_, err = svc.SessionsForBooking(context.Background(), "stranger", "b1")
	require.Equal(t, ErrForbidden, Code(err))
}
