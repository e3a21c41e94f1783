package reviewrepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	// CreateAndRecalc inserts the review and rewrites the target caregiver's
	// rating aggregate from the reviews table, all in one transaction. The
	// caregiver row is locked first so concurrent recomputes serialize and the
	// settled aggregate is always exact.
	CreateAndRecalc(ctx context.Context, rev *model.Review) error
	ListByCaregiver(ctx context.Context, caregiverID string, limit int) ([]model.Review, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) CreateAndRecalc(ctx context.Context, rev *model.Review) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQ = `SELECT id FROM caregiver_profiles WHERE id = $1 FOR UPDATE`
	var locked string
	if err = tx.QueryRowContext(ctx, lockQ, rev.TargetCaregiver).Scan(&locked); err != nil {
		return err
	}

	const insQ = `
INSERT INTO reviews (id, booking_id, author_user_id, target_caregiver_id, rating, comment)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`
	if err = tx.QueryRowContext(ctx, insQ,
		rev.ID, rev.BookingID, rev.AuthorUserID, rev.TargetCaregiver, rev.Rating, rev.Comment,
	).Scan(&rev.CreatedAt); err != nil {
		return err
	}

	const ratingsQ = `SELECT rating FROM reviews WHERE target_caregiver_id = $1`
	rows, err := tx.QueryContext(ctx, ratingsQ, rev.TargetCaregiver)
	if err != nil {
		return err
	}
	var ratings []int
	for rows.Next() {
		var v int
		if err = rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		ratings = append(ratings, v)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	avg, count := model.AggregateRatings(ratings)

	const updQ = `
UPDATE caregiver_profiles
SET rating_average = $2, rating_count = $3
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updQ, rev.TargetCaregiver, avg, count); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) ListByCaregiver(ctx context.Context, caregiverID string, limit int) ([]model.Review, error) {
	const q = `
SELECT id, booking_id, author_user_id, target_caregiver_id, rating, comment, created_at
FROM reviews
WHERE target_caregiver_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, caregiverID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.AuthorUserID, &rev.TargetCaregiver, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
