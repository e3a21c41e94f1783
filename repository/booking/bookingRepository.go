package bookingrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"petcare/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repo interface {
	// InsertUnlessOverlap persists the booking only when no pending/accepted
	// booking of the same caregiver overlaps [StartAt, EndAt). An advisory
	// lock on the caregiver id serializes racing inserts, so the overlap
	// check always sees the other transaction's row.
	InsertUnlessOverlap(ctx context.Context, b *model.Booking) (bool, error)
	ByID(ctx context.Context, id string) (*model.Booking, error)
	// UpdateStatusIfCurrent applies an optimistic status move: the write only
	// happens when the stored status still equals from.
	UpdateStatusIfCurrent(ctx context.Context, id string, from, to model.BookingStatus) (bool, error)
	// MarkPaidAndCredit flips payment_status to paid and appends the payout
	// credit to the transaction log in one transaction. Returns false without
	// writing anything when the booking was already paid.
	MarkPaidAndCredit(ctx context.Context, bookingID, userID string, amount decimal.Decimal, description string) (bool, error)
	HasOverlap(ctx context.Context, caregiverID string, start, end time.Time) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.Booking, error)
	ListByCaregiver(ctx context.Context, caregiverID string, status model.BookingStatus) ([]model.Booking, error)
	InsertRecurringRule(ctx context.Context, rule *model.BookingRecurringRule) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) InsertUnlessOverlap(ctx context.Context, b *model.Booking) (ok bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Under READ COMMITTED two concurrent guarded inserts could each miss the
	// other's uncommitted row. The xact-scoped advisory lock makes the second
	// insert wait until the first commits.
	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, b.CaregiverID); err != nil {
		return false, err
	}

	const q = `
INSERT INTO bookings
  (id, owner_id, caregiver_id, pet_id, service_type_id, start_at, end_at, duration_minutes,
   status, payment_status, owner_notes, caregiver_notes, price_subtotal, platform_fee, caregiver_earnings)
SELECT $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
WHERE NOT EXISTS (
    SELECT 1 FROM bookings
    WHERE caregiver_id = $3
      AND status IN ('pending','accepted')
      AND start_at < $7
      AND end_at > $6
)`
	res, err := tx.ExecContext(ctx, q,
		b.ID, b.OwnerID, b.CaregiverID, b.PetID, b.ServiceTypeID, b.StartAt, b.EndAt, b.DurationMinutes,
		b.Status, b.PaymentStatus, b.OwnerNotes, b.CaregiverNotes,
		b.PriceSubtotal, b.PlatformFee, b.CaregiverEarnings,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

const selectBooking = `
SELECT id, owner_id, caregiver_id, pet_id, service_type_id, start_at, end_at, duration_minutes,
       status, payment_status, owner_notes, caregiver_notes,
       price_subtotal, platform_fee, caregiver_earnings, created_at, updated_at
FROM bookings`

func scanBooking(row interface{ Scan(dest ...any) error }, b *model.Booking) error {
	return row.Scan(
		&b.ID, &b.OwnerID, &b.CaregiverID, &b.PetID, &b.ServiceTypeID,
		&b.StartAt, &b.EndAt, &b.DurationMinutes, &b.Status, &b.PaymentStatus,
		&b.OwnerNotes, &b.CaregiverNotes,
		&b.PriceSubtotal, &b.PlatformFee, &b.CaregiverEarnings, &b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, selectBooking+` WHERE id = $1`, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) UpdateStatusIfCurrent(ctx context.Context, id string, from, to model.BookingStatus) (bool, error) {
	const q = `
UPDATE bookings
SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkPaidAndCredit(ctx context.Context, bookingID, userID string, amount decimal.Decimal, description string) (ok bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q1 = `
UPDATE bookings
SET payment_status = 'paid', updated_at = NOW()
WHERE id = $1 AND payment_status <> 'paid'`
	res, err := tx.ExecContext(ctx, q1, bookingID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// already paid; nothing to write
		_ = tx.Rollback()
		return false, nil
	}

	const q2 = `
INSERT INTO transaction_log (id, booking_id, user_id, direction, amount, description)
VALUES ($1,$2,$3,'credit',$4,$5)`
	if _, err = tx.ExecContext(ctx, q2, uuid.NewString(), bookingID, userID, amount, description); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) HasOverlap(ctx context.Context, caregiverID string, start, end time.Time) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE caregiver_id = $1
      AND status IN ('pending','accepted')
      AND start_at < $3
      AND end_at > $2
)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, caregiverID, start, end).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string, status model.BookingStatus) ([]model.Booking, error) {
	return r.list(ctx, `owner_id`, ownerID, status)
}

func (r *repo) ListByCaregiver(ctx context.Context, caregiverID string, status model.BookingStatus) ([]model.Booking, error) {
	return r.list(ctx, `caregiver_id`, caregiverID, status)
}

func (r *repo) list(ctx context.Context, col, id string, status model.BookingStatus) ([]model.Booking, error) {
	q := selectBooking + ` WHERE ` + col + ` = $1`
	args := []any{id}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY start_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) InsertRecurringRule(ctx context.Context, rule *model.BookingRecurringRule) error {
	days, err := json.Marshal(rule.Weekdays)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO booking_recurring_rules (id, booking_id, recurrence_type, weekdays, end_date, is_active)
VALUES ($1,$2,$3,$4,$5,$6)`
	_, err = r.db.ExecContext(ctx, q, rule.ID, rule.BookingID, rule.RecurrenceType, days, rule.EndDate, rule.IsActive)
	return err
}
