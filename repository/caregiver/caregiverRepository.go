package caregiverrepo

import (
	"context"
	"database/sql"
	"strconv"

	"petcare/model"

	"github.com/shopspring/decimal"
)

// Filter narrows the caregiver directory listing.
type Filter struct {
	City        string
	ServiceCode string
	MinRating   *decimal.Decimal
}

type Repo interface {
	ByID(ctx context.Context, id string) (*model.CaregiverProfile, error)
	List(ctx context.Context, f Filter) ([]model.CaregiverProfile, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const selectProfile = `
SELECT cp.id, cp.user_id, cp.phone, cp.city, cp.bio, cp.years_experience, cp.hourly_rate_base,
       cp.max_pets, cp.accepts_large_dogs, cp.accepts_aggressive, cp.verified,
       cp.rating_average, cp.rating_count, cp.gps_radius_km
FROM caregiver_profiles cp`

func (r *repo) ByID(ctx context.Context, id string) (*model.CaregiverProfile, error) {
	var p model.CaregiverProfile
	err := r.db.QueryRowContext(ctx, selectProfile+` WHERE cp.id = $1`, id).Scan(
		&p.ID, &p.UserID, &p.Phone, &p.City, &p.Bio, &p.YearsExperience, &p.HourlyRateBase,
		&p.MaxPets, &p.AcceptsLargeDogs, &p.AcceptsAggressive, &p.Verified,
		&p.RatingAverage, &p.RatingCount, &p.GPSRadiusKm,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.CaregiverProfile, error) {
	q := selectProfile
	args := []any{}
	where := ` WHERE 1=1`
	if f.City != "" {
		args = append(args, f.City)
		where += ` AND cp.city = $1`
	}
	if f.MinRating != nil {
		args = append(args, *f.MinRating)
		where += ` AND cp.rating_average >= $` + itoa(len(args))
	}
	if f.ServiceCode != "" {
		args = append(args, f.ServiceCode)
		where += ` AND EXISTS (
    SELECT 1 FROM caregiver_services cs
    JOIN service_types st ON st.id = cs.service_type_id
    WHERE cs.caregiver_id = cp.id AND cs.is_active AND st.code = $` + itoa(len(args)) + `)`
	}
	q += where + ` ORDER BY cp.rating_average DESC, cp.rating_count DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CaregiverProfile
	for rows.Next() {
		var p model.CaregiverProfile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Phone, &p.City, &p.Bio, &p.YearsExperience, &p.HourlyRateBase,
			&p.MaxPets, &p.AcceptsLargeDogs, &p.AcceptsAggressive, &p.Verified,
			&p.RatingAverage, &p.RatingCount, &p.GPSRadiusKm,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func itoa(n int) string { return strconv.Itoa(n) }
