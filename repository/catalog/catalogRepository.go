package catalogrepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	ListServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	ServiceTypeByCode(ctx context.Context, code string) (*model.ServiceType, error)
	CreateCaregiverService(ctx context.Context, cs *model.CaregiverService) error
	ListByCaregiver(ctx context.Context, caregiverID string) ([]model.CaregiverService, error)
	// ActiveService returns the caregiver's active offering of a service type.
	ActiveService(ctx context.Context, caregiverID, serviceTypeID string) (*model.CaregiverService, error)
	SetServiceActive(ctx context.Context, id, caregiverID string, active bool) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ListServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	const q = `
SELECT id, code, name, description, base_duration_minutes, default_base_price
FROM service_types
ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ServiceType
	for rows.Next() {
		var st model.ServiceType
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Description, &st.BaseDurationMinutes, &st.DefaultBasePrice); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *repo) ServiceTypeByCode(ctx context.Context, code string) (*model.ServiceType, error) {
	const q = `
SELECT id, code, name, description, base_duration_minutes, default_base_price
FROM service_types
WHERE code = $1`
	var st model.ServiceType
	err := r.db.QueryRowContext(ctx, q, code).Scan(
		&st.ID, &st.Code, &st.Name, &st.Description, &st.BaseDurationMinutes, &st.DefaultBasePrice,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *repo) CreateCaregiverService(ctx context.Context, cs *model.CaregiverService) error {
	const q = `
INSERT INTO caregiver_services (id, caregiver_id, service_type_id, price_per_unit, is_active)
VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.ExecContext(ctx, q, cs.ID, cs.CaregiverID, cs.ServiceTypeID, cs.PricePerUnit, cs.IsActive)
	return err
}

func (r *repo) ListByCaregiver(ctx context.Context, caregiverID string) ([]model.CaregiverService, error) {
	const q = `
SELECT cs.id, cs.caregiver_id, cs.service_type_id, st.code, cs.price_per_unit, cs.is_active
FROM caregiver_services cs
JOIN service_types st ON st.id = cs.service_type_id
WHERE cs.caregiver_id = $1
ORDER BY st.code`
	rows, err := r.db.QueryContext(ctx, q, caregiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CaregiverService
	for rows.Next() {
		var cs model.CaregiverService
		if err := rows.Scan(&cs.ID, &cs.CaregiverID, &cs.ServiceTypeID, &cs.ServiceCode, &cs.PricePerUnit, &cs.IsActive); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *repo) ActiveService(ctx context.Context, caregiverID, serviceTypeID string) (*model.CaregiverService, error) {
	const q = `
SELECT id, caregiver_id, service_type_id, price_per_unit, is_active
FROM caregiver_services
WHERE caregiver_id = $1 AND service_type_id = $2 AND is_active`
	var cs model.CaregiverService
	err := r.db.QueryRowContext(ctx, q, caregiverID, serviceTypeID).Scan(
		&cs.ID, &cs.CaregiverID, &cs.ServiceTypeID, &cs.PricePerUnit, &cs.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *repo) SetServiceActive(ctx context.Context, id, caregiverID string, active bool) (bool, error) {
	const q = `
UPDATE caregiver_services
SET is_active = $3
WHERE id = $1 AND caregiver_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, caregiverID, active)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
