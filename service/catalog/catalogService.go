package catalogsvc

import (
	"context"
	"database/sql"
	"errors"

	"petcare/model"
	authrepo "petcare/repository/auth"
	catalogrepo "petcare/repository/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type ErrCode string

const (
	ErrNotCaregiver     ErrCode = "NOT_CAREGIVER"
	ErrServiceNotFound  ErrCode = "SERVICE_NOT_FOUND"
	ErrServiceExists    ErrCode = "SERVICE_EXISTS"
	ErrBadPrice         ErrCode = "BAD_PRICE"
	ErrOfferingNotFound ErrCode = "OFFERING_NOT_FOUND"
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
	ServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	SetService(ctx context.Context, caregiverUserID string, req model.SetServiceReq) (*model.CaregiverService, error)
	MyServices(ctx context.Context, caregiverUserID string) ([]model.CaregiverService, error)
	SetActive(ctx context.Context, caregiverUserID, offeringID string, active bool) error
}

type service struct {
	r          catalogrepo.Repo
	caregivers authrepo.Repo
}

func New(r catalogrepo.Repo, caregivers authrepo.Repo) Service {
	return &service{r: r, caregivers: caregivers}
}

func (s *service) ServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	return s.r.ListServiceTypes(ctx)
}

func (s *service) SetService(ctx context.Context, caregiverUserID string, req model.SetServiceReq) (*model.CaregiverService, error) {
	caregiver, err := s.caregiverOf(ctx, caregiverUserID)
	if err != nil {
		return nil, err
	}

	st, err := s.r.ServiceTypeByCode(ctx, req.ServiceTypeCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrServiceNotFound)
		}
		return nil, err
	}

	price, err := decimal.NewFromString(req.PricePerUnit)
	if err != nil || !price.IsPositive() {
		return nil, makeErr(ErrBadPrice)
	}

	cs := &model.CaregiverService{
		ID:            uuid.NewString(),
		CaregiverID:   caregiver.ID,
		ServiceTypeID: st.ID,
		ServiceCode:   st.Code,
		PricePerUnit:  price.Round(2),
		IsActive:      true,
	}
	if err := s.r.CreateCaregiverService(ctx, cs); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrServiceExists)
		}
		return nil, err
	}
	return cs, nil
}

func (s *service) MyServices(ctx context.Context, caregiverUserID string) ([]model.CaregiverService, error) {
	caregiver, err := s.caregiverOf(ctx, caregiverUserID)
	if err != nil {
		return nil, err
	}
	return s.r.ListByCaregiver(ctx, caregiver.ID)
}

func (s *service) SetActive(ctx context.Context, caregiverUserID, offeringID string, active bool) error {
	caregiver, err := s.caregiverOf(ctx, caregiverUserID)
	if err != nil {
		return err
	}
	updated, err := s.r.SetServiceActive(ctx, offeringID, caregiver.ID, active)
	if err != nil {
		return err
	}
	if !updated {
		return makeErr(ErrOfferingNotFound)
	}
	return nil
}

func (s *service) caregiverOf(ctx context.Context, userID string) (*model.CaregiverProfile, error) {
	caregiver, err := s.caregivers.CaregiverByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotCaregiver)
		}
		return nil, err
	}
	return caregiver, nil
}
