package schedulerepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	// ReplaceWindows swaps the caregiver's whole weekly schedule atomically.
	ReplaceWindows(ctx context.Context, caregiverID string, windows []model.AvailabilityWindow) error
	ListWindows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error)
	AddTimeOff(ctx context.Context, t *model.TimeOff) error
	RemoveTimeOff(ctx context.Context, id, caregiverID string) (bool, error)
	ListTimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ReplaceWindows(ctx context.Context, caregiverID string, windows []model.AvailabilityWindow) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM caregiver_availability WHERE caregiver_id = $1`, caregiverID); err != nil {
		return err
	}

	const q = `
INSERT INTO caregiver_availability (id, caregiver_id, weekday, start_time, end_time)
VALUES ($1,$2,$3,$4,$5)`
	for _, w := range windows {
		if _, err = tx.ExecContext(ctx, q, w.ID, w.CaregiverID, w.Weekday, w.StartTime, w.EndTime); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *repo) ListWindows(ctx context.Context, caregiverID string) ([]model.AvailabilityWindow, error) {
	const q = `
SELECT id, caregiver_id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
FROM caregiver_availability
WHERE caregiver_id = $1
ORDER BY weekday, start_time`
	rows, err := r.db.QueryContext(ctx, q, caregiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AvailabilityWindow
	for rows.Next() {
		var w model.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.CaregiverID, &w.Weekday, &w.StartTime, &w.EndTime); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *repo) AddTimeOff(ctx context.Context, t *model.TimeOff) error {
	const q = `
INSERT INTO time_off (id, caregiver_id, date_from, date_to, reason)
VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.CaregiverID, t.DateFrom, t.DateTo, t.Reason)
	return err
}

func (r *repo) RemoveTimeOff(ctx context.Context, id, caregiverID string) (bool, error) {
	const q = `DELETE FROM time_off WHERE id = $1 AND caregiver_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, caregiverID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) ListTimeOff(ctx context.Context, caregiverID string) ([]model.TimeOff, error) {
	const q = `
SELECT id, caregiver_id, date_from, date_to, reason
FROM time_off
WHERE caregiver_id = $1
ORDER BY date_from`
	rows, err := r.db.QueryContext(ctx, q, caregiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeOff
	for rows.Next() {
		var t model.TimeOff
		if err := rows.Scan(&t.ID, &t.CaregiverID, &t.DateFrom, &t.DateTo, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
