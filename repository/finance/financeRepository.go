package financerepo

import (
	"context"
	"database/sql"
	"time"

	"petcare/model"

	"github.com/shopspring/decimal"
)

// Repo is append-only on the transaction log: there is deliberately no update
// or delete method for ledger rows.
type Repo interface {
	Append(ctx context.Context, e *model.TransactionLog) error
	ListByUser(ctx context.Context, userID string) ([]model.TransactionLog, error)
	TotalCredits(ctx context.Context, userID string) (decimal.Decimal, error)
	CreditsSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error)

	CreatePayout(ctx context.Context, p *model.Payout) error
	PayoutByID(ctx context.Context, id string) (*model.Payout, error)
	// UpdatePayoutStatusIfCurrent applies an optimistic payout status move.
	UpdatePayoutStatusIfCurrent(ctx context.Context, id string, from, to model.PayoutStatus, paidAt *time.Time) (bool, error)
	ListPayoutsByCaregiver(ctx context.Context, caregiverID string) ([]model.Payout, error)
	SumPayouts(ctx context.Context, caregiverID string, statuses []model.PayoutStatus) (decimal.Decimal, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Append(ctx context.Context, e *model.TransactionLog) error {
	const q = `
INSERT INTO transaction_log (id, booking_id, user_id, direction, amount, description)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q,
		e.ID, e.BookingID, e.UserID, e.Direction, e.Amount, e.Description,
	).Scan(&e.CreatedAt)
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]model.TransactionLog, error) {
	const q = `
SELECT id, booking_id, user_id, direction, amount, description, created_at
FROM transaction_log
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TransactionLog
	for rows.Next() {
		var e model.TransactionLog
		if err := rows.Scan(&e.ID, &e.BookingID, &e.UserID, &e.Direction, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repo) TotalCredits(ctx context.Context, userID string) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(amount), 0)
FROM transaction_log
WHERE user_id = $1 AND direction = 'credit'`
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&total)
	return total, err
}

func (r *repo) CreditsSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(amount), 0)
FROM transaction_log
WHERE user_id = $1 AND direction = 'credit' AND created_at >= $2`
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, userID, since).Scan(&total)
	return total, err
}

func (r *repo) CreatePayout(ctx context.Context, p *model.Payout) error {
	const q = `
INSERT INTO payouts (id, caregiver_id, amount, currency, status)
VALUES ($1,$2,$3,$4,$5)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q, p.ID, p.CaregiverID, p.Amount, p.Currency, p.Status).Scan(&p.CreatedAt)
}

func (r *repo) PayoutByID(ctx context.Context, id string) (*model.Payout, error) {
	const q = `
SELECT id, caregiver_id, amount, currency, status, paid_at, created_at
FROM payouts
WHERE id = $1`
	var p model.Payout
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.CaregiverID, &p.Amount, &p.Currency, &p.Status, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) UpdatePayoutStatusIfCurrent(ctx context.Context, id string, from, to model.PayoutStatus, paidAt *time.Time) (bool, error) {
	const q = `
UPDATE payouts
SET status = $3, paid_at = COALESCE($4, paid_at)
WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, from, to, paidAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) ListPayoutsByCaregiver(ctx context.Context, caregiverID string) ([]model.Payout, error) {
	const q = `
SELECT id, caregiver_id, amount, currency, status, paid_at, created_at
FROM payouts
WHERE caregiver_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, caregiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payout
	for rows.Next() {
		var p model.Payout
		if err := rows.Scan(&p.ID, &p.CaregiverID, &p.Amount, &p.Currency, &p.Status, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) SumPayouts(ctx context.Context, caregiverID string, statuses []model.PayoutStatus) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(amount), 0)
FROM payouts
WHERE caregiver_id = $1 AND status = ANY($2)`
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, caregiverID, ss).Scan(&total)
	return total, err
}
