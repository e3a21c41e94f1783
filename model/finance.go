package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// TransactionLog is an append-only ledger row. Entries are never updated or
// deleted; corrections are new entries in the opposite direction.
type TransactionLog struct {
	ID          string          `json:"id"`
	BookingID   *string         `json:"booking_id,omitempty"`
	UserID      *string         `json:"user_id,omitempty"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutPaid       PayoutStatus = "paid"
	PayoutFailed     PayoutStatus = "failed"
)

// PayoutCanTransition reports whether a payout status move is legal:
// pending -> processing -> paid|failed.
func PayoutCanTransition(from, to PayoutStatus) bool {
	switch from {
	case PayoutPending:
		return to == PayoutProcessing
	case PayoutProcessing:
		return to == PayoutPaid || to == PayoutFailed
	default:
		return false
	}
}

// Payout is a caregiver-directed disbursement with a lifecycle independent of
// bookings.
type Payout struct {
	ID          string          `json:"id"`
	CaregiverID string          `json:"caregiver_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      PayoutStatus    `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FinanceSummary is the read-side aggregate over the ledger and payouts.
type FinanceSummary struct {
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	UpcomingPayouts decimal.Decimal `json:"upcoming_payouts"`
	Last30Days      decimal.Decimal `json:"last_30_days"`
}

// RequestPayoutReq represents a caregiver payout request
// swagger:model RequestPayoutReq
type RequestPayoutReq struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}
