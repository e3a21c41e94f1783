package caregiversvc

import (
	"context"
	"database/sql"
	"errors"

	"petcare/model"
	caregiverrepo "petcare/repository/caregiver"
)

var ErrNotFound = errors.New("caregiver not found")

// Service is the public caregiver directory.
type Service interface {
	Directory(ctx context.Context, f caregiverrepo.Filter) ([]model.CaregiverProfile, error)
	ByID(ctx context.Context, id string) (*model.CaregiverProfile, error)
}

type service struct {
	r caregiverrepo.Repo
}

func New(r caregiverrepo.Repo) Service { return &service{r: r} }

func (s *service) Directory(ctx context.Context, f caregiverrepo.Filter) ([]model.CaregiverProfile, error) {
	return s.r.List(ctx, f)
}

func (s *service) ByID(ctx context.Context, id string) (*model.CaregiverProfile, error) {
	p, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
