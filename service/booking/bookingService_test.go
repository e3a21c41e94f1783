package bookingsvc_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"petcare/model"
	authrepo "petcare/repository/auth"
	bookingrepo "petcare/repository/booking"
	caregiverrepo "petcare/repository/caregiver"
	catalogrepo "petcare/repository/catalog"
	petrepo "petcare/repository/pet"
	bookingsvc "petcare/service/booking"
	"petcare/service/commission"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// --- stateful booking repo fake ---

type bookingRepoFake struct {
	byID    map[string]*model.Booking
	credits []decimal.Decimal
	inserts int
	// when set, UpdateStatusIfCurrent pretends another writer won the race
	loseRace bool
}

var _ bookingrepo.Repo = (*bookingRepoFake)(nil)

func newBookingRepoFake() *bookingRepoFake {
	return &bookingRepoFake{byID: map[string]*model.Booking{}}
}

func (f *bookingRepoFake) InsertUnlessOverlap(ctx context.Context, b *model.Booking) (bool, error) {
	ok, _ := f.HasOverlap(ctx, b.CaregiverID, b.StartAt, b.EndAt)
	if ok {
		return false, nil
	}
	cp := *b
	f.byID[b.ID] = &cp
	f.inserts++
	return true, nil
}

func (f *bookingRepoFake) ByID(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *bookingRepoFake) UpdateStatusIfCurrent(ctx context.Context, id string, from, to model.BookingStatus) (bool, error) {
	if f.loseRace {
		return false, nil
	}
	b, ok := f.byID[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *bookingRepoFake) MarkPaidAndCredit(ctx context.Context, bookingID, userID string, amount decimal.Decimal, description string) (bool, error) {
	b, ok := f.byID[bookingID]
	if !ok {
		return false, sql.ErrNoRows
	}
	if b.PaymentStatus == model.PaymentPaid {
		return false, nil
	}
	b.PaymentStatus = model.PaymentPaid
	f.credits = append(f.credits, amount)
	return true, nil
}

func (f *bookingRepoFake) HasOverlap(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	for _, b := range f.byID {
		if b.CaregiverID != caregiverID {
			continue
		}
		if b.Status != model.BookingPending && b.Status != model.BookingAccepted {
			continue
		}
		if b.StartAt.Before(end) && b.EndAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *bookingRepoFake) ListByOwner(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.OwnerID == ownerID && (status == "" || b.Status == status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *bookingRepoFake) ListByCaregiver(ctx context.Context, caregiverID string, status model.BookingStatus) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.CaregiverID == caregiverID && (status == "" || b.Status == status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *bookingRepoFake) InsertRecurringRule(ctx context.Context, rule *model.BookingRecurringRule) error {
	return nil
}

// --- fixed-return collaborator mocks ---

type profilesMock struct{}

var _ authrepo.Repo = (*profilesMock)(nil)

func (profilesMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (profilesMock) CreateOwner(ctx context.Context, u *model.User, p *model.OwnerProfile) error {
	return nil
}
func (profilesMock) CreateCaregiver(ctx context.Context, u *model.User, p *model.CaregiverProfile) error {
	return nil
}
func (profilesMock) OwnerByUserID(ctx context.Context, userID string) (*model.OwnerProfile, error) {
	if userID != "owner-user" {
		return nil, sql.ErrNoRows
	}
	return &model.OwnerProfile{ID: "o1", UserID: "owner-user"}, nil
}
func (profilesMock) CaregiverByUserID(ctx context.Context, userID string) (*model.CaregiverProfile, error) {
	if userID != "care-user" {
		return nil, sql.ErrNoRows
	}
	return &model.CaregiverProfile{ID: "c1", UserID: "care-user"}, nil
}

type caregiversMock struct{}

var _ caregiverrepo.Repo = (*caregiversMock)(nil)

func (caregiversMock) ByID(ctx context.Context, id string) (*model.CaregiverProfile, error) {
	if id != "c1" {
		return nil, sql.ErrNoRows
	}
	return &model.CaregiverProfile{ID: "c1", UserID: "care-user"}, nil
}
func (caregiversMock) List(ctx context.Context, f caregiverrepo.Filter) ([]model.CaregiverProfile, error) {
	return nil, nil
}

type petsMock struct{}

var _ petrepo.Repo = (*petsMock)(nil)

func (petsMock) Create(ctx context.Context, p *model.Pet) error { return nil }
func (petsMock) ByID(ctx context.Context, id string) (*model.Pet, error) {
	if id != "p1" {
		return nil, sql.ErrNoRows
	}
	return &model.Pet{ID: "p1", OwnerID: "o1", Name: "Fido"}, nil
}
func (petsMock) ListByOwner(ctx context.Context, ownerID string) ([]model.Pet, error) {
	return nil, nil
}
func (petsMock) Update(ctx context.Context, p *model.Pet) error { return nil }
func (petsMock) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	return false, nil
}

type catalogMock struct{}

var _ catalogrepo.Repo = (*catalogMock)(nil)

func (catalogMock) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	return nil, nil
}
func (catalogMock) ServiceTypeByCode(ctx context.Context, code string) (*model.ServiceType, error) {
	switch code {
	case "dog_walk":
		return &model.ServiceType{ID: "st1", Code: "dog_walk", BaseDurationMinutes: 60}, nil
	case "boarding":
		// known type, but c1 has no offering for it
		return &model.ServiceType{ID: "st2", Code: "boarding", BaseDurationMinutes: 120}, nil
	}
	return nil, sql.ErrNoRows
}
func (catalogMock) CreateCaregiverService(ctx context.Context, cs *model.CaregiverService) error {
	return nil
}
func (catalogMock) ListByCaregiver(ctx context.Context, caregiverID string) ([]model.CaregiverService, error) {
	return nil, nil
}
func (catalogMock) ActiveService(ctx context.Context, caregiverID, serviceTypeID string) (*model.CaregiverService, error) {
	if caregiverID != "c1" || serviceTypeID != "st1" {
		return nil, sql.ErrNoRows
	}
	return &model.CaregiverService{
		ID: "cs1", CaregiverID: "c1", ServiceTypeID: "st1",
		PricePerUnit: decimal.RequireFromString("30.00"), IsActive: true,
	}, nil
}
func (catalogMock) SetServiceActive(ctx context.Context, id, caregiverID string, active bool) (bool, error) {
	return false, nil
}

type resolverMock struct{ available bool }

func (m resolverMock) IsAvailable(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	return m.available, nil
}

// --- helpers ---

func newService(repo *bookingRepoFake, available bool) bookingsvc.Service {
	calc := commission.NewCalculator(decimal.RequireFromString("0.15"))
	return bookingsvc.New(repo, profilesMock{}, caregiversMock{}, petsMock{}, catalogMock{}, resolverMock{available: available}, calc)
}

func validReq(start time.Time) model.CreateBookingReq {
	return model.CreateBookingReq{
		PetID:           "p1",
		CaregiverID:     "c1",
		ServiceTypeCode: "dog_walk",
		StartAt:         start.Format(time.RFC3339),
		DurationMinutes: 60,
	}
}

func futureStart() time.Time { return time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second) }

// --- tests ---

func TestCreate_Success(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)

	b, err := svc.Create(context.Background(), "owner-user", validReq(futureStart()))
	require.NoError(t, err)
	require.Equal(t, model.BookingPending, b.Status)
	require.Equal(t, model.PaymentPending, b.PaymentStatus)
	require.Equal(t, 60, b.DurationMinutes)
	require.True(t, b.EndAt.Equal(b.StartAt.Add(time.Hour)))
	require.True(t, b.PlatformFee.Add(b.CaregiverEarnings).Equal(b.PriceSubtotal))
	require.True(t, b.PriceSubtotal.Equal(decimal.RequireFromString("30.00")))
	require.True(t, b.PlatformFee.Equal(decimal.RequireFromString("4.50")))
	require.Equal(t, 1, repo.inserts)
}

func TestCreate_ValidationFailuresPersistNothing(t *testing.T) {
	cases := []struct {
		name string
		user string
		mut  func(*model.CreateBookingReq)
		want bookingsvc.ErrCode
	}{
		{"not an owner", "care-user", func(r *model.CreateBookingReq) {}, bookingsvc.ErrOwnerOnly},
		{"pet missing", "owner-user", func(r *model.CreateBookingReq) { r.PetID = "nope" }, bookingsvc.ErrPetNotFound},
		{"caregiver missing", "owner-user", func(r *model.CreateBookingReq) { r.CaregiverID = "nope" }, bookingsvc.ErrCaregiverNotFound},
		{"service missing", "owner-user", func(r *model.CreateBookingReq) { r.ServiceTypeCode = "grooming" }, bookingsvc.ErrServiceNotFound},
		{"service not offered", "owner-user", func(r *model.CreateBookingReq) { r.ServiceTypeCode = "boarding" }, bookingsvc.ErrServiceNotOffered},
		{"start in past", "owner-user", func(r *model.CreateBookingReq) {
			r.StartAt = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
		}, bookingsvc.ErrStartInPast},
		{"duration over cap", "owner-user", func(r *model.CreateBookingReq) { r.DurationMinutes = 241 }, bookingsvc.ErrDurationTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newBookingRepoFake()
			svc := newService(repo, true)

			req := validReq(futureStart())
			tc.mut(&req)
			_, err := svc.Create(context.Background(), tc.user, req)
			require.Error(t, err)
			require.Equal(t, tc.want, bookingsvc.Code(err))
			require.Zero(t, repo.inserts)
		})
	}
}

func TestCreate_DurationAtCapAllowed(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)

	req := validReq(futureStart())
	req.DurationMinutes = 240 // 4 x base 60
	_, err := svc.Create(context.Background(), "owner-user", req)
	require.NoError(t, err)
}

func TestCreate_UnavailablePersistsNothing(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, false)

	_, err := svc.Create(context.Background(), "owner-user", validReq(futureStart()))
	require.Equal(t, bookingsvc.ErrNotAvailable, bookingsvc.Code(err))
	require.Zero(t, repo.inserts)
	require.Empty(t, repo.credits)
}

func TestCreate_RacingOverlapRejected(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true) // resolver says free, but the insert guard sees an overlap

	start := futureStart()
	_, err := svc.Create(context.Background(), "owner-user", validReq(start))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "owner-user", validReq(start.Add(30*time.Minute)))
	require.Equal(t, bookingsvc.ErrNotAvailable, bookingsvc.Code(err))
	require.Equal(t, 1, repo.inserts)
}

func seedBooking(t *testing.T, repo *bookingRepoFake, status model.BookingStatus) *model.Booking {
	t.Helper()
	b := &model.Booking{
		ID:                "b1",
		OwnerID:           "o1",
		CaregiverID:       "c1",
		Status:            status,
		PaymentStatus:     model.PaymentPending,
		PriceSubtotal:     decimal.RequireFromString("30.00"),
		PlatformFee:       decimal.RequireFromString("4.50"),
		CaregiverEarnings: decimal.RequireFromString("25.50"),
		StartAt:           time.Now().Add(time.Hour),
		EndAt:             time.Now().Add(2 * time.Hour),
	}
	repo.byID[b.ID] = b
	return b
}

func TestChangeStatus_LegalPath(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)
	seedBooking(t, repo, model.BookingPending)

	b, err := svc.ChangeStatus(context.Background(), "care-user", "b1", model.BookingAccepted)
	require.NoError(t, err)
	require.Equal(t, model.BookingAccepted, b.Status)

	b, err = svc.ChangeStatus(context.Background(), "care-user", "b1", model.BookingCompleted)
	require.NoError(t, err)
	require.Equal(t, model.BookingCompleted, b.Status)
}

func TestChangeStatus_IllegalEdgesLeaveStatusUntouched(t *testing.T) {
	cases := []struct {
		from model.BookingStatus
		to   model.BookingStatus
	}{
		{model.BookingPending, model.BookingCompleted},
		{model.BookingAccepted, model.BookingRejected},
		{model.BookingCompleted, model.BookingCancelled},
		{model.BookingCompleted, model.BookingAccepted},
		{model.BookingCancelled, model.BookingAccepted},
		{model.BookingRejected, model.BookingCompleted},
	}
	for _, tc := range cases {
		repo := newBookingRepoFake()
		svc := newService(repo, true)
		seedBooking(t, repo, tc.from)

		_, err := svc.ChangeStatus(context.Background(), "care-user", "b1", tc.to)
		require.Equal(t, bookingsvc.ErrInvalidTransition, bookingsvc.Code(err), "%s -> %s", tc.from, tc.to)
		require.Equal(t, tc.from, repo.byID["b1"].Status, "%s -> %s must not write", tc.from, tc.to)
	}
}

func TestChangeStatus_Authorization(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)
	seedBooking(t, repo, model.BookingPending)

	// owners cannot accept
	_, err := svc.ChangeStatus(context.Background(), "owner-user", "b1", model.BookingAccepted)
	require.Equal(t, bookingsvc.ErrForbidden, bookingsvc.Code(err))

	// owners can cancel
	b, err := svc.ChangeStatus(context.Background(), "owner-user", "b1", model.BookingCancelled)
	require.NoError(t, err)
	require.Equal(t, model.BookingCancelled, b.Status)
}

func TestChangeStatus_LostRaceReportsConflict(t *testing.T) {
	repo := newBookingRepoFake()
	repo.loseRace = true
	svc := newService(repo, true)
	seedBooking(t, repo, model.BookingPending)

	_, err := svc.ChangeStatus(context.Background(), "care-user", "b1", model.BookingAccepted)
	require.Equal(t, bookingsvc.ErrConflict, bookingsvc.Code(err))
}

func TestMarkPaid_Idempotent(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)
	seedBooking(t, repo, model.BookingAccepted)

	require.NoError(t, svc.MarkPaid(context.Background(), "owner-user", "b1"))
	require.NoError(t, svc.MarkPaid(context.Background(), "owner-user", "b1"))

	require.Len(t, repo.credits, 1)
	require.True(t, repo.credits[0].Equal(decimal.RequireFromString("25.50")))
	require.Equal(t, model.PaymentPaid, repo.byID["b1"].PaymentStatus)
}

func TestMarkPaid_OnlyBookingOwnerMayPay(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)
	seedBooking(t, repo, model.BookingAccepted)

	// neither the caregiver nor an unrelated user can confirm payment
	for _, user := range []string{"care-user", "stranger"} {
		err := svc.MarkPaid(context.Background(), user, "b1")
		require.Equal(t, bookingsvc.ErrForbidden, bookingsvc.Code(err), "user %q", user)
	}

	require.Empty(t, repo.credits)
	require.Equal(t, model.PaymentPending, repo.byID["b1"].PaymentStatus)
}

func TestMarkPaid_NotFound(t *testing.T) {
	repo := newBookingRepoFake()
	svc := newService(repo, true)

	err := svc.MarkPaid(context.Background(), "owner-user", "missing")
	require.Equal(t, bookingsvc.ErrNotFound, bookingsvc.Code(err))
}
