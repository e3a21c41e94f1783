package petsvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"petcare/model"

	"github.com/stretchr/testify/require"
)

type petRepoFake struct {
	pets map[string]*model.Pet
}

func newPetRepoFake() *petRepoFake { return &petRepoFake{pets: map[string]*model.Pet{}} }

func (f *petRepoFake) Create(_ context.Context, p *model.Pet) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.pets[p.ID] = &cp
	return nil
}

func (f *petRepoFake) ByID(_ context.Context, id string) (*model.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *petRepoFake) ListByOwner(_ context.Context, ownerID string) ([]model.Pet, error) {
	var out []model.Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *petRepoFake) Update(_ context.Context, p *model.Pet) error {
	stored, ok := f.pets[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Breed = p.Breed
	stored.WeightKg = p.WeightKg
	stored.IsNeutered = p.IsNeutered
	stored.MedicalNotes = p.MedicalNotes
	stored.BehaviorNotes = p.BehaviorNotes
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *petRepoFake) Delete(_ context.Context, id, ownerID string) (bool, error) {
	p, ok := f.pets[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(f.pets, id)
	return true, nil
}

type ownersMock struct{}

func (ownersMock) ByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (ownersMock) CreateOwner(_ context.Context, _ *model.User, _ *model.OwnerProfile) error {
	return nil
}

func (ownersMock) CreateCaregiver(_ context.Context, _ *model.User, _ *model.CaregiverProfile) error {
	return nil
}

func (ownersMock) OwnerByUserID(_ context.Context, userID string) (*model.OwnerProfile, error) {
	switch userID {
	case "owner-user":
		return &model.OwnerProfile{ID: "o1", UserID: "owner-user"}, nil
	case "other-owner":
		return &model.OwnerProfile{ID: "o2", UserID: "other-owner"}, nil
	}
	return nil, sql.ErrNoRows
}

func (ownersMock) CaregiverByUserID(_ context.Context, _ string) (*model.CaregiverProfile, error) {
	return nil, sql.ErrNoRows
}

func createReq() model.CreatePetReq {
	bd := "2022-05-01"
	w := "8.40"
	return model.CreatePetReq{
		Name:      "Miko",
		Species:   "dog",
		Breed:     "corgi",
		Sex:       "M",
		Birthdate: &bd,
		WeightKg:  &w,
	}
}

func TestCreatePet(t *testing.T) {
	svc := New(newPetRepoFake(), ownersMock{})

	p, err := svc.Create(context.Background(), "owner-user", createReq())
	require.NoError(t, err)
	require.Equal(t, "o1", p.OwnerID)
	require.Equal(t, model.SpeciesDog, p.Species)
	require.Equal(t, "2022-05-01", p.Birthdate.Format("2006-01-02"))
	require.Equal(t, "8.40", p.WeightKg.StringFixed(2))

	_, err = svc.Create(context.Background(), "care-user", createReq())
	require.Equal(t, ErrNotOwner, Code(err))

	bad := createReq()
	badWeight := "-1"
	bad.WeightKg = &badWeight
	_, err = svc.Create(context.Background(), "owner-user", bad)
	require.Equal(t, ErrBadWeight, Code(err))
}

func TestUpdatePetKeepsImmutableFields(t *testing.T) {
	repo := newPetRepoFake()
	svc := New(repo, ownersMock{})

	p, err := svc.Create(context.Background(), "owner-user", createReq())
	require.NoError(t, err)

	breed := "pembroke corgi"
	neutered := true
	updated, err := svc.Update(context.Background(), "owner-user", p.ID, model.UpdatePetReq{
		Breed:      &breed,
		IsNeutered: &neutered,
	})
	require.NoError(t, err)
	require.Equal(t, "pembroke corgi", updated.Breed)
	require.True(t, updated.IsNeutered)
	require.Equal(t, model.SpeciesDog, updated.Species)
	require.Equal(t, model.SexMale, updated.Sex)
}

func TestPetOwnershipEnforced(t *testing.T) {
	repo := newPetRepoFake()
	svc := New(repo, ownersMock{})

	p, err := svc.Create(context.Background(), "owner-user", createReq())
	require.NoError(t, err)

	_, err = svc.ByID(context.Background(), "other-owner", p.ID)
	require.Equal(t, ErrForbidden, Code(err))

	err = svc.Delete(context.Background(), "other-owner", p.ID)
	require.Equal(t, ErrNotFound, Code(err))

	err = svc.Delete(context.Background(), "owner-user", p.ID)
	require.NoError(t, err)

	_, err = svc.ByID(context.Background(), "owner-user", p.ID)
	require.Equal(t, ErrNotFound, Code(err))
}
