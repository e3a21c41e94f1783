package auth

import (
	"log/slog"
	"net/http"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	authsvc "petcare/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a pet owner
// @Summary      Register owner
// @Description  Register a new pet owner with email/username uniqueness checks
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterOwnerReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email/username already taken"
// @Router       /v1/users/register/owner [post]
func (ct *Controller) RegisterOwner(c echo.Context) error {
	var req model.RegisterOwnerReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	res, err := ct.Svc.RegisterOwner(c.Request().Context(), req)
	if err != nil {
		return ct.mapErr(c, err, "register owner")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"token":   res.Token,
		"role":    res.Role,
		"user":    res.User,
	})
}

// Register a caregiver
// @Summary      Register caregiver
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterCaregiverReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /v1/users/register/caregiver [post]
func (ct *Controller) RegisterCaregiver(c echo.Context) error {
	var req model.RegisterCaregiverReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	res, err := ct.Svc.RegisterCaregiver(c.Request().Context(), req)
	if err != nil {
		return ct.mapErr(c, err, "register caregiver")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"token":   res.Token,
		"role":    res.Role,
		"user":    res.User,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /v1/users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	res, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return ct.mapErr(c, err, "login")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   res.Token,
		"role":    res.Role,
	})
}

// Me returns the caller's profile
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/users/me [get]
func (ct *Controller) Me(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	me, err := ct.Svc.Profile(c.Request().Context(), uid)
	if err != nil {
		return ct.mapErr(c, err, "profile")
	}
	return c.JSON(http.StatusOK, me)
}

func (ct *Controller) mapErr(c echo.Context, err error, op string) error {
	switch authsvc.Code(err) {
	case authsvc.ErrEmailTaken:
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case authsvc.ErrUsernameTaken:
		return echo.NewHTTPError(http.StatusConflict, "username already taken")
	case authsvc.ErrBadCredential:
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case authsvc.ErrBadRate:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hourly rate")
	case authsvc.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
