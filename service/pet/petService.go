package petsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petcare/model"
	authrepo "petcare/repository/auth"
	petrepo "petcare/repository/pet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrCode string

const (
	ErrNotOwner  ErrCode = "NOT_OWNER"
	ErrNotFound  ErrCode = "PET_NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrBadWeight ErrCode = "BAD_WEIGHT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	Create(ctx context.Context, ownerUserID string, req model.CreatePetReq) (*model.Pet, error)
	ByID(ctx context.Context, ownerUserID, petID string) (*model.Pet, error)
	ListMine(ctx context.Context, ownerUserID string) ([]model.Pet, error)
	Update(ctx context.Context, ownerUserID, petID string, req model.UpdatePetReq) (*model.Pet, error)
	Delete(ctx context.Context, ownerUserID, petID string) error
}

type service struct {
	r      petrepo.Repo
	owners authrepo.Repo
}

func New(r petrepo.Repo, owners authrepo.Repo) Service {
	return &service{r: r, owners: owners}
}

func (s *service) Create(ctx context.Context, ownerUserID string, req model.CreatePetReq) (*model.Pet, error) {
	owner, err := s.ownerOf(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	p := &model.Pet{
		ID:            uuid.NewString(),
		OwnerID:       owner.ID,
		Name:          req.Name,
		Species:       model.Species(req.Species),
		Breed:         req.Breed,
		Sex:           model.Sex(req.Sex),
		IsNeutered:    req.IsNeutered,
		MedicalNotes:  req.MedicalNotes,
		BehaviorNotes: req.BehaviorNotes,
	}

	if req.Birthdate != nil {
		bd, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			return nil, err
		}
		p.Birthdate = &bd
	}
	if req.WeightKg != nil {
		w, err := parseWeight(*req.WeightKg)
		if err != nil {
			return nil, err
		}
		p.WeightKg = w
	}

	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ByID(ctx context.Context, ownerUserID, petID string) (*model.Pet, error) {
	_, p, err := s.ownedPet(ctx, ownerUserID, petID)
	return p, err
}

func (s *service) ListMine(ctx context.Context, ownerUserID string) ([]model.Pet, error) {
	owner, err := s.ownerOf(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.r.ListByOwner(ctx, owner.ID)
}

func (s *service) Update(ctx context.Context, ownerUserID, petID string, req model.UpdatePetReq) (*model.Pet, error) {
	_, p, err := s.ownedPet(ctx, ownerUserID, petID)
	if err != nil {
		return nil, err
	}

	if req.Breed != nil {
		p.Breed = *req.Breed
	}
	if req.WeightKg != nil {
		w, err := parseWeight(*req.WeightKg)
		if err != nil {
			return nil, err
		}
		p.WeightKg = w
	}
	if req.IsNeutered != nil {
		p.IsNeutered = *req.IsNeutered
	}
	if req.MedicalNotes != nil {
		p.MedicalNotes = *req.MedicalNotes
	}
	if req.BehaviorNotes != nil {
		p.BehaviorNotes = *req.BehaviorNotes
	}

	if err := s.r.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, ownerUserID, petID string) error {
	owner, err := s.ownerOf(ctx, ownerUserID)
	if err != nil {
		return err
	}
	deleted, err := s.r.Delete(ctx, petID, owner.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) ownerOf(ctx context.Context, userID string) (*model.OwnerProfile, error) {
	owner, err := s.owners.OwnerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotOwner)
		}
		return nil, err
	}
	return owner, nil
}

func (s *service) ownedPet(ctx context.Context, userID, petID string) (*model.OwnerProfile, *model.Pet, error) {
	owner, err := s.ownerOf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.r.ByID(ctx, petID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, makeErr(ErrNotFound)
		}
		return nil, nil, err
	}
	if p.OwnerID != owner.ID {
		return nil, nil, makeErr(ErrForbidden)
	}
	return owner, p, nil
}

func parseWeight(v string) (*decimal.Decimal, error) {
	w, err := decimal.NewFromString(v)
	if err != nil || !w.IsPositive() {
		return nil, makeErr(ErrBadWeight)
	}
	return &w, nil
}
