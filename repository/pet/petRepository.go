package petrepo

import (
	"context"
	"database/sql"

	"petcare/model"
)

type Repo interface {
	Create(ctx context.Context, p *model.Pet) error
	ByID(ctx context.Context, id string) (*model.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Pet, error)
	Update(ctx context.Context, p *model.Pet) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, p *model.Pet) error {
	const q = `
INSERT INTO pets
  (id, owner_id, name, species, breed, sex, birthdate, weight_kg, is_neutered, medical_notes, behavior_notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		p.ID, p.OwnerID, p.Name, p.Species, p.Breed, p.Sex, p.Birthdate,
		p.WeightKg, p.IsNeutered, p.MedicalNotes, p.BehaviorNotes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

const selectPet = `
SELECT id, owner_id, name, species, breed, sex, birthdate, weight_kg,
       is_neutered, medical_notes, behavior_notes, created_at, updated_at
FROM pets`

func (r *repo) ByID(ctx context.Context, id string) (*model.Pet, error) {
	var p model.Pet
	err := r.db.QueryRowContext(ctx, selectPet+` WHERE id = $1`, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.Sex, &p.Birthdate,
		&p.WeightKg, &p.IsNeutered, &p.MedicalNotes, &p.BehaviorNotes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]model.Pet, error) {
	rows, err := r.db.QueryContext(ctx, selectPet+` WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Pet
	for rows.Next() {
		var p model.Pet
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.Sex, &p.Birthdate,
			&p.WeightKg, &p.IsNeutered, &p.MedicalNotes, &p.BehaviorNotes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable pet fields only. Species and sex stay as
// created.
func (r *repo) Update(ctx context.Context, p *model.Pet) error {
	const q = `
UPDATE pets
SET breed = $2,
    weight_kg = $3,
    is_neutered = $4,
    medical_notes = $5,
    behavior_notes = $6,
    updated_at = NOW()
WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Breed, p.WeightKg, p.IsNeutered, p.MedicalNotes, p.BehaviorNotes)
	return err
}

func (r *repo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	const q = `DELETE FROM pets WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
