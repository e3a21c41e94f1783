package reviewsvc

import (
	"context"
	"database/sql"
	"errors"

	"petcare/model"
	bookingrepo "petcare/repository/booking"
	reviewrepo "petcare/repository/review"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrBookingNotFound ErrCode = "BOOKING_NOT_FOUND"
	ErrNotCompleted    ErrCode = "NOT_COMPLETED"
	ErrNotBookingOwner ErrCode = "NOT_BOOKING_OWNER"
	ErrDuplicateReview ErrCode = "DUPLICATE_REVIEW"
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

type OwnerResolver interface {
	OwnerByUserID(ctx context.Context, userID string) (*model.OwnerProfile, error)
}

type Service interface {
	// Create persists a review for a completed booking and recomputes the
	// target caregiver's rating aggregate as part of the same write.
	Create(ctx context.Context, authorUserID string, req model.CreateReviewReq) (*model.Review, error)
	ListByCaregiver(ctx context.Context, caregiverID string) ([]model.Review, error)
}

type service struct {
	reviews  reviewrepo.Repo
	bookings bookingrepo.Repo
	owners   OwnerResolver
}

func New(reviews reviewrepo.Repo, bookings bookingrepo.Repo, owners OwnerResolver) Service {
	return &service{reviews: reviews, bookings: bookings, owners: owners}
}

func (s *service) Create(ctx context.Context, authorUserID string, req model.CreateReviewReq) (*model.Review, error) {
	b, err := s.bookings.ByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	if b.Status != model.BookingCompleted {
		return nil, makeErr(ErrNotCompleted)
	}

	owner, err := s.owners.OwnerByUserID(ctx, authorUserID)
	if err != nil || owner.ID != b.OwnerID {
		return nil, makeErr(ErrNotBookingOwner)
	}

	rev := &model.Review{
		ID:              uuid.NewString(),
		BookingID:       b.ID,
		AuthorUserID:    authorUserID,
		TargetCaregiver: b.CaregiverID,
		Rating:          req.Rating,
		Comment:         req.Comment,
	}
	if err := s.reviews.CreateAndRecalc(ctx, rev); err != nil {
		// the unique index on booking_id backstops the 1:1 rule under races
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicateReview)
		}
		return nil, err
	}
	return rev, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (s *service) ListByCaregiver(ctx context.Context, caregiverID string) ([]model.Review, error) {
	return s.reviews.ListByCaregiver(ctx, caregiverID, 50)
}
