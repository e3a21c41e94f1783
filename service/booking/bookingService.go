package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petcare/model"
	authrepo "petcare/repository/auth"
	bookingrepo "petcare/repository/booking"
	caregiverrepo "petcare/repository/caregiver"
	catalogrepo "petcare/repository/catalog"
	petrepo "petcare/repository/pet"
	"petcare/service/commission"

	"github.com/google/uuid"
)

// errors used by controllers

type ErrCode string

const (
	ErrOwnerOnly         ErrCode = "OWNER_ONLY"
	ErrPetNotFound       ErrCode = "PET_NOT_FOUND"
	ErrCaregiverNotFound ErrCode = "CAREGIVER_NOT_FOUND"
	ErrServiceNotFound   ErrCode = "SERVICE_NOT_FOUND"
	ErrServiceNotOffered ErrCode = "SERVICE_NOT_OFFERED"
	ErrStartInPast       ErrCode = "START_IN_PAST"
	ErrDurationTooLong   ErrCode = "DURATION_TOO_LONG"
	ErrNotAvailable      ErrCode = "NOT_AVAILABLE"
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrConflict          ErrCode = "CONFLICT"
	ErrBadStart          ErrCode = "BAD_START"
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

// MaxDurationFactor caps a booking at this multiple of the service type's
// base duration.
const MaxDurationFactor = 4

type Resolver interface {
	IsAvailable(ctx context.Context, caregiverID string, start, end time.Time) (bool, error)
}

type Service interface {
	// Create validates references, time and availability, prices the booking
	// and persists it in pending state. Nothing is written on any failure.
	Create(ctx context.Context, ownerUserID string, req model.CreateBookingReq) (*model.Booking, error)

	// ChangeStatus moves the booking along the allowed transition edges on
	// behalf of actorUserID.
	ChangeStatus(ctx context.Context, actorUserID, bookingID string, to model.BookingStatus) (*model.Booking, error)

	// MarkPaid is idempotent: the first call credits the caregiver's earnings
	// to the ledger, repeats are no-ops. Only the booking's owner — the payer —
	// may confirm payment.
	MarkPaid(ctx context.Context, actorUserID, bookingID string) error

	ByID(ctx context.Context, actorUserID, bookingID string) (*model.Booking, error)
	ListMine(ctx context.Context, userID string, asCaregiver bool, status model.BookingStatus) ([]model.Booking, error)
	AddRecurrence(ctx context.Context, actorUserID, bookingID string, req model.RecurrenceReq) (*model.BookingRecurringRule, error)
	IsAvailable(ctx context.Context, caregiverID string, start, end time.Time) (bool, error)
}

type service struct {
	bookings   bookingrepo.Repo
	profiles   authrepo.Repo
	caregivers caregiverrepo.Repo
	pets       petrepo.Repo
	catalog    catalogrepo.Repo
	resolver   Resolver
	calc       commission.Calculator
	now        func() time.Time
}

func New(
	bookings bookingrepo.Repo,
	profiles authrepo.Repo,
	caregivers caregiverrepo.Repo,
	pets petrepo.Repo,
	catalog catalogrepo.Repo,
	resolver Resolver,
	calc commission.Calculator,
) Service {
	return &service{
		bookings:   bookings,
		profiles:   profiles,
		caregivers: caregivers,
		pets:       pets,
		catalog:    catalog,
		resolver:   resolver,
		calc:       calc,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, ownerUserID string, req model.CreateBookingReq) (*model.Booking, error) {
	owner, err := s.profiles.OwnerByUserID(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrOwnerOnly)
		}
		return nil, err
	}

	pet, err := s.pets.ByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPetNotFound)
		}
		return nil, err
	}
	if pet.OwnerID != owner.ID {
		return nil, makeErr(ErrPetNotFound)
	}

	caregiver, err := s.caregivers.ByID(ctx, req.CaregiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrCaregiverNotFound)
		}
		return nil, err
	}

	serviceType, err := s.catalog.ServiceTypeByCode(ctx, req.ServiceTypeCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrServiceNotFound)
		}
		return nil, err
	}

	offering, err := s.catalog.ActiveService(ctx, caregiver.ID, serviceType.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrServiceNotOffered)
		}
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, makeErr(ErrBadStart)
	}
	if start.Before(s.now()) {
		return nil, makeErr(ErrStartInPast)
	}
	if req.DurationMinutes > serviceType.BaseDurationMinutes*MaxDurationFactor {
		return nil, makeErr(ErrDurationTooLong)
	}
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	ok, err := s.resolver.IsAvailable(ctx, caregiver.ID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotAvailable)
	}

	fee, earnings, err := s.calc.Split(offering.PricePerUnit)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		ID:                uuid.NewString(),
		OwnerID:           owner.ID,
		CaregiverID:       caregiver.ID,
		PetID:             pet.ID,
		ServiceTypeID:     serviceType.ID,
		StartAt:           start,
		EndAt:             end,
		DurationMinutes:   req.DurationMinutes,
		Status:            model.BookingPending,
		PaymentStatus:     model.PaymentPending,
		OwnerNotes:        req.OwnerNotes,
		PriceSubtotal:     offering.PricePerUnit,
		PlatformFee:       fee,
		CaregiverEarnings: earnings,
		CreatedAt:         s.now(),
		UpdatedAt:         s.now(),
	}

	// the insert re-checks overlap under a per-caregiver lock, so a racing
	// request that passed the resolver a moment ago cannot double-book
	inserted, err := s.bookings.InsertUnlessOverlap(ctx, b)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, makeErr(ErrNotAvailable)
	}
	return b, nil
}

func (s *service) ChangeStatus(ctx context.Context, actorUserID, bookingID string, to model.BookingStatus) (*model.Booking, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if err := s.authorizeTransition(ctx, actorUserID, b, to); err != nil {
		return nil, err
	}

	if !model.CanTransition(b.Status, to) {
		return nil, makeErr(ErrInvalidTransition)
	}

	applied, err := s.bookings.UpdateStatusIfCurrent(ctx, bookingID, b.Status, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		// lost the race against a concurrent transition; nothing was written
		return nil, makeErr(ErrConflict)
	}
	b.Status = to
	return b, nil
}

// authorizeTransition mirrors who may drive each edge: the caregiver accepts,
// rejects and completes; owner or caregiver cancel.
func (s *service) authorizeTransition(ctx context.Context, actorUserID string, b *model.Booking, to model.BookingStatus) error {
	caregiver, err := s.caregivers.ByID(ctx, b.CaregiverID)
	if err != nil {
		return err
	}

	switch to {
	case model.BookingAccepted, model.BookingRejected, model.BookingCompleted:
		if caregiver.UserID != actorUserID {
			return makeErr(ErrForbidden)
		}
	case model.BookingCancelled:
		if caregiver.UserID == actorUserID {
			return nil
		}
		owner, err := s.profiles.OwnerByUserID(ctx, actorUserID)
		if err != nil || owner.ID != b.OwnerID {
			return makeErr(ErrForbidden)
		}
	default:
		return makeErr(ErrInvalidTransition)
	}
	return nil
}

func (s *service) MarkPaid(ctx context.Context, actorUserID, bookingID string) error {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	owner, err := s.profiles.OwnerByUserID(ctx, actorUserID)
	if err != nil || owner.ID != b.OwnerID {
		return makeErr(ErrForbidden)
	}

	if b.PaymentStatus == model.PaymentPaid {
		return nil
	}

	caregiver, err := s.caregivers.ByID(ctx, b.CaregiverID)
	if err != nil {
		return err
	}

	// a concurrent duplicate call makes this return false; either way exactly
	// one ledger credit exists afterwards
	_, err = s.bookings.MarkPaidAndCredit(ctx, b.ID, caregiver.UserID, b.CaregiverEarnings, "Booking payout")
	return err
}

func (s *service) ByID(ctx context.Context, actorUserID, bookingID string) (*model.Booking, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if err := s.authorizeParticipant(ctx, actorUserID, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) authorizeParticipant(ctx context.Context, actorUserID string, b *model.Booking) error {
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

func (s *service) ListMine(ctx context.Context, userID string, asCaregiver bool, status model.BookingStatus) ([]model.Booking, error) {
	if asCaregiver {
		caregiver, err := s.profiles.CaregiverByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrForbidden)
			}
			return nil, err
		}
		return s.bookings.ListByCaregiver(ctx, caregiver.ID, status)
	}
	owner, err := s.profiles.OwnerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrForbidden)
		}
		return nil, err
	}
	return s.bookings.ListByOwner(ctx, owner.ID, status)
}

func (s *service) AddRecurrence(ctx context.Context, actorUserID, bookingID string, req model.RecurrenceReq) (*model.BookingRecurringRule, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	owner, err := s.profiles.OwnerByUserID(ctx, actorUserID)
	if err != nil || owner.ID != b.OwnerID {
		return nil, makeErr(ErrForbidden)
	}

	var endDate *time.Time
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, makeErr(ErrBadStart)
		}
		endDate = &d
	}

	rule := &model.BookingRecurringRule{
		ID:             uuid.NewString(),
		BookingID:      b.ID,
		RecurrenceType: req.RecurrenceType,
		Weekdays:       req.Weekdays,
		EndDate:        endDate,
		IsActive:       true,
	}
	// stored only; future bookings are never materialized from rules
	if err := s.bookings.InsertRecurringRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) IsAvailable(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, makeErr(ErrBadStart)
	}
	return s.resolver.IsAvailable(ctx, caregiverID, start, end)
}
