package authrepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	// CreateOwner inserts the user and the owner profile in one transaction.
	CreateOwner(ctx context.Context, u *model.User, p *model.OwnerProfile) error
	CreateCaregiver(ctx context.Context, u *model.User, p *model.CaregiverProfile) error
	OwnerByUserID(ctx context.Context, userID string) (*model.OwnerProfile, error)
	CaregiverByUserID(ctx context.Context, userID string) (*model.CaregiverProfile, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, first_name, last_name, email, username, password_hash, created_at
FROM users
WHERE email = $1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const insertUser = `
INSERT INTO users (id, first_name, last_name, email, username, password_hash)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`

func (r *repo) CreateOwner(ctx context.Context, u *model.User, p *model.OwnerProfile) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowContext(ctx, insertUser,
		u.ID, u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash,
	).Scan(&u.CreatedAt); err != nil {
		return err
	}

	const q = `
INSERT INTO owner_profiles (id, user_id, phone, country, city, address_line1, address_line2, postal_code)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err = tx.ExecContext(ctx, q,
		p.ID, p.UserID, p.Phone, p.Country, p.City, p.AddressLine1, p.AddressLine2, p.PostalCode,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) CreateCaregiver(ctx context.Context, u *model.User, p *model.CaregiverProfile) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowContext(ctx, insertUser,
		u.ID, u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash,
	).Scan(&u.CreatedAt); err != nil {
		return err
	}

	const q = `
INSERT INTO caregiver_profiles
  (id, user_id, phone, city, bio, years_experience, hourly_rate_base, max_pets,
   accepts_large_dogs, accepts_aggressive, gps_radius_km)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	if _, err = tx.ExecContext(ctx, q,
		p.ID, p.UserID, p.Phone, p.City, p.Bio, p.YearsExperience, p.HourlyRateBase,
		p.MaxPets, p.AcceptsLargeDogs, p.AcceptsAggressive, p.GPSRadiusKm,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) OwnerByUserID(ctx context.Context, userID string) (*model.OwnerProfile, error) {
	const q = `
SELECT id, user_id, phone, country, city, address_line1, address_line2, postal_code
FROM owner_profiles
WHERE user_id = $1`
	var p model.OwnerProfile
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.ID, &p.UserID, &p.Phone, &p.Country, &p.City, &p.AddressLine1, &p.AddressLine2, &p.PostalCode,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) CaregiverByUserID(ctx context.Context, userID string) (*model.CaregiverProfile, error) {
	const q = `
SELECT id, user_id, phone, city, bio, years_experience, hourly_rate_base, max_pets,
       accepts_large_dogs, accepts_aggressive, verified, rating_average, rating_count, gps_radius_km
FROM caregiver_profiles
WHERE user_id = $1`
	var p model.CaregiverProfile
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.ID, &p.UserID, &p.Phone, &p.City, &p.Bio, &p.YearsExperience, &p.HourlyRateBase,
		&p.MaxPets, &p.AcceptsLargeDogs, &p.AcceptsAggressive, &p.Verified,
		&p.RatingAverage, &p.RatingCount, &p.GPSRadiusKm,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
