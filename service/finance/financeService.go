package financesvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petcare/model"
	financerepo "petcare/repository/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrCode string

const (
	ErrNotCaregiver      ErrCode = "NOT_CAREGIVER"
	ErrPayoutNotFound    ErrCode = "PAYOUT_NOT_FOUND"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrBadAmount         ErrCode = "BAD_AMOUNT"
	ErrConflict          ErrCode = "CONFLICT"
	ErrForbidden         ErrCode = "FORBIDDEN"
)

// RoleAdmin matches the role claim minted for back-office tokens. Owner and
// caregiver tokens never carry it, so payout state stays operator-driven.
const RoleAdmin = "admin"

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

type CaregiverResolver interface {
	CaregiverByUserID(ctx context.Context, userID string) (*model.CaregiverProfile, error)
}

type Service interface {
	// Summary aggregates the user's ledger and, for caregivers, their queued
	// payouts. Pure read; eventually consistent with concurrent writes.
	Summary(ctx context.Context, userID string, windowDays int) (*model.FinanceSummary, error)
	Ledger(ctx context.Context, userID string) ([]model.TransactionLog, error)

	RequestPayout(ctx context.Context, caregiverUserID string, req model.RequestPayoutReq) (*model.Payout, error)
	// AdvancePayout moves a payout through its lifecycle. Restricted to the
	// admin role; owners and caregivers only ever read payout state.
	AdvancePayout(ctx context.Context, actorRole, payoutID string, to model.PayoutStatus) (*model.Payout, error)
	MyPayouts(ctx context.Context, caregiverUserID string) ([]model.Payout, error)
}

type service struct {
	r          financerepo.Repo
	caregivers CaregiverResolver
	now        func() time.Time
}

func New(r financerepo.Repo, caregivers CaregiverResolver) Service {
	return &service{r: r, caregivers: caregivers, now: time.Now}
}

func (s *service) Summary(ctx context.Context, userID string, windowDays int) (*model.FinanceSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	total, err := s.r.TotalCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.r.CreditsSince(ctx, userID, s.now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	upcoming := decimal.Zero
	if caregiver, err := s.caregivers.CaregiverByUserID(ctx, userID); err == nil {
		upcoming, err = s.r.SumPayouts(ctx, caregiver.ID, []model.PayoutStatus{model.PayoutPending, model.PayoutProcessing})
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &model.FinanceSummary{
		TotalEarnings:   total.Round(2),
		UpcomingPayouts: upcoming.Round(2),
		Last30Days:      recent.Round(2),
	}, nil
}

func (s *service) Ledger(ctx context.Context, userID string) ([]model.TransactionLog, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) RequestPayout(ctx context.Context, caregiverUserID string, req model.RequestPayoutReq) (*model.Payout, error) {
	caregiver, err := s.caregivers.CaregiverByUserID(ctx, caregiverUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotCaregiver)
		}
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, makeErr(ErrBadAmount)
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	p := &model.Payout{
		ID:          uuid.NewString(),
		CaregiverID: caregiver.ID,
		Amount:      amount.Round(2),
		Currency:    currency,
		Status:      model.PayoutPending,
	}
	if err := s.r.CreatePayout(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) AdvancePayout(ctx context.Context, actorRole, payoutID string, to model.PayoutStatus) (*model.Payout, error) {
	if actorRole != RoleAdmin {
		return nil, makeErr(ErrForbidden)
	}

	p, err := s.r.PayoutByID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPayoutNotFound)
		}
		return nil, err
	}

	if !model.PayoutCanTransition(p.Status, to) {
		return nil, makeErr(ErrInvalidTransition)
	}

	var paidAt *time.Time
	if to == model.PayoutPaid {
		now := s.now()
		paidAt = &now
	}

	applied, err := s.r.UpdatePayoutStatusIfCurrent(ctx, payoutID, p.Status, to, paidAt)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, makeErr(ErrConflict)
	}
	p.Status = to
	p.PaidAt = paidAt
	return p, nil
}

func (s *service) MyPayouts(ctx context.Context, caregiverUserID string) ([]model.Payout, error) {
	caregiver, err := s.caregivers.CaregiverByUserID(ctx, caregiverUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotCaregiver)
		}
		return nil, err
	}
	return s.r.ListPayoutsByCaregiver(ctx, caregiver.ID)
}
