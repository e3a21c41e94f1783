package walkrepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	CreateSession(ctx context.Context, s *model.WalkSession) error
	SessionByID(ctx context.Context, id string) (*model.WalkSession, error)
	UpdateSession(ctx context.Context, s *model.WalkSession) error
	ListByBooking(ctx context.Context, bookingID string) ([]model.WalkSession, error)
	AddPhoto(ctx context.Context, p *model.WalkPhoto) error
	ListPhotos(ctx context.Context, sessionID string) ([]model.WalkPhoto, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) CreateSession(ctx context.Context, s *model.WalkSession) error {
	const q = `
INSERT INTO walk_sessions (id, booking_id, route_geojson)
VALUES ($1,$2,'[]'::jsonb)
RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, q, s.ID, s.BookingID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

const selectSession = `
SELECT id, booking_id, started_at, ended_at, distance_meters, route_geojson,
       pee_events, poo_events, food_given, water_given, notes, created_at, updated_at
FROM walk_sessions`

func (r *repo) SessionByID(ctx context.Context, id string) (*model.WalkSession, error) {
	var s model.WalkSession
	err := r.db.QueryRowContext(ctx, selectSession+` WHERE id = $1`, id).Scan(
		&s.ID, &s.BookingID, &s.StartedAt, &s.EndedAt, &s.DistanceMeters, &s.RouteGeoJSON,
		&s.PeeEvents, &s.PooEvents, &s.FoodGiven, &s.WaterGiven, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) UpdateSession(ctx context.Context, s *model.WalkSession) error {
	const q = `
UPDATE walk_sessions
SET started_at = $2,
    ended_at = $3,
    distance_meters = $4,
    route_geojson = $5,
    pee_events = $6,
    poo_events = $7,
    food_given = $8,
    water_given = $9,
    notes = $10,
    updated_at = NOW()
WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.StartedAt, s.EndedAt, s.DistanceMeters, s.RouteGeoJSON,
		s.PeeEvents, s.PooEvents, s.FoodGiven, s.WaterGiven, s.Notes,
	)
	return err
}

func (r *repo) ListByBooking(ctx context.Context, bookingID string) ([]model.WalkSession, error) {
	rows, err := r.db.QueryContext(ctx, selectSession+` WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WalkSession
	for rows.Next() {
		var s model.WalkSession
		if err := rows.Scan(
			&s.ID, &s.BookingID, &s.StartedAt, &s.EndedAt, &s.DistanceMeters, &s.RouteGeoJSON,
			&s.PeeEvents, &s.PooEvents, &s.FoodGiven, &s.WaterGiven, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) AddPhoto(ctx context.Context, p *model.WalkPhoto) error {
	const q = `
INSERT INTO walk_photos (id, session_id, url)
VALUES ($1,$2,$3)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q, p.ID, p.SessionID, p.URL).Scan(&p.CreatedAt)
}

func (r *repo) ListPhotos(ctx context.Context, sessionID string) ([]model.WalkPhoto, error) {
	const q = `
SELECT id, session_id, url, created_at
FROM walk_photos
WHERE session_id = $1
ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WalkPhoto
	for rows.Next() {
		var p model.WalkPhoto
		if err := rows.Scan(&p.ID, &p.SessionID, &p.URL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
