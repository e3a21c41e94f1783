package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"petcare/config"
	"petcare/model"
	authrepo "petcare/repository/auth"
	"petcare/util/hash"
	"petcare/util/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type ErrCode string

const (
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrUsernameTaken ErrCode = "USERNAME_TAKEN"
	ErrBadCredential ErrCode = "BAD_CREDENTIAL"
	ErrBadRate       ErrCode = "BAD_RATE"
	ErrNotFound      ErrCode = "NOT_FOUND"
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

const (
	RoleOwner     = "owner"
	RoleCaregiver = "caregiver"
)

// AuthResult is returned on successful register or login.
type AuthResult struct {
	Token string      `json:"token"`
	Role  string      `json:"role"`
	User  *model.User `json:"user"`
}

// Me is the authenticated user's view of themselves. Exactly one of Owner and
// Caregiver is set, matching Role.
type Me struct {
	Role      string                  `json:"role"`
	Owner     *model.OwnerProfile     `json:"owner,omitempty"`
	Caregiver *model.CaregiverProfile `json:"caregiver,omitempty"`
}

type Service interface {
	RegisterOwner(ctx context.Context, req model.RegisterOwnerReq) (*AuthResult, error)
	RegisterCaregiver(ctx context.Context, req model.RegisterCaregiverReq) (*AuthResult, error)
	Login(ctx context.Context, req model.LoginReq) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*Me, error)
}

type service struct {
	r   authrepo.Repo
	cfg *config.App
}

func New(r authrepo.Repo, cfg *config.App) Service {
	return &service{r: r, cfg: cfg}
}

func (s *service) RegisterOwner(ctx context.Context, req model.RegisterOwnerReq) (*AuthResult, error) {
	u, err := s.newUser(req.FirstName, req.LastName, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	p := &model.OwnerProfile{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		Phone:        req.Phone,
		Country:      req.Country,
		City:         req.City,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		PostalCode:   req.PostalCode,
	}
	if err := s.r.CreateOwner(ctx, u, p); err != nil {
		return nil, mapDuplicateErr(err)
	}
	return s.result(u, RoleOwner)
}

func (s *service) RegisterCaregiver(ctx context.Context, req model.RegisterCaregiverReq) (*AuthResult, error) {
	u, err := s.newUser(req.FirstName, req.LastName, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	rate, err := decimal.NewFromString(req.HourlyRateBase)
	if err != nil || rate.IsNegative() {
		return nil, makeErr(ErrBadRate)
	}

	p := &model.CaregiverProfile{
		ID:                uuid.NewString(),
		UserID:            u.ID,
		Phone:             req.Phone,
		City:              req.City,
		Bio:               req.Bio,
		YearsExperience:   req.YearsExperience,
		HourlyRateBase:    rate.Round(2),
		MaxPets:           req.MaxPets,
		AcceptsLargeDogs:  req.AcceptsLargeDogs,
		AcceptsAggressive: req.AcceptsAggressive,
		GPSRadiusKm:       decimal.NewFromFloat(req.GPSRadiusKm),
	}
	if err := s.r.CreateCaregiver(ctx, u, p); err != nil {
		return nil, mapDuplicateErr(err)
	}
	return s.result(u, RoleCaregiver)
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*AuthResult, error) {
	u, err := s.r.ByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBadCredential)
		}
		return nil, err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, makeErr(ErrBadCredential)
	}

	role := RoleOwner
	if _, err := s.r.CaregiverByUserID(ctx, u.ID); err == nil {
		role = RoleCaregiver
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return s.result(u, role)
}

func (s *service) Profile(ctx context.Context, userID string) (*Me, error) {
	if caregiver, err := s.r.CaregiverByUserID(ctx, userID); err == nil {
		return &Me{Role: RoleCaregiver, Caregiver: caregiver}, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	owner, err := s.r.OwnerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return &Me{Role: RoleOwner, Owner: owner}, nil
}

func (s *service) newUser(firstName, lastName, email, username, password string) (*model.User, error) {
	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(email),
		Username:     username,
		PasswordHash: hashed,
	}, nil
}

func (s *service) result(u *model.User, role string) (*AuthResult, error) {
	token, err := jwt.Issue(s.cfg.JWTSecret, u.ID, role, s.cfg.JWTTTLHours)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Role: role, User: u}, nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return makeErr(ErrUsernameTaken)
		}
		return makeErr(ErrEmailTaken)
	}
	return err
}
