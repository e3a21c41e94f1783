package finance

import (
	"log/slog"
	"net/http"
	"strconv"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	financesvc "petcare/service/finance"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc financesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/finance/summary?window_days=30
func (ct *Controller) Summary(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	windowDays := 0
	if raw := c.QueryParam("window_days"); raw != "" {
		windowDays, err = strconv.Atoi(raw)
		if err != nil || windowDays < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid window_days")
		}
	}

	sum, err := ct.Svc.Summary(c.Request().Context(), uid, windowDays)
	if err != nil {
		return ct.mapErr(c, err, "finance summary")
	}
	return c.JSON(http.StatusOK, sum)
}

// GET /v1/finance/ledger
func (ct *Controller) Ledger(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := ct.Svc.Ledger(c.Request().Context(), uid)
	if err != nil {
		return ct.mapErr(c, err, "ledger")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/finance/payouts
func (ct *Controller) RequestPayout(c echo.Context) error {
	var req model.RequestPayoutReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	p, err := ct.Svc.RequestPayout(c.Request().Context(), uid, req)
	if err != nil {
		return ct.mapErr(c, err, "request payout")
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /v1/finance/payouts
func (ct *Controller) MyPayouts(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := ct.Svc.MyPayouts(c.Request().Context(), uid)
	if err != nil {
		return ct.mapErr(c, err, "list payouts")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

type advanceReq struct {
	Status string `json:"status" validate:"required,oneof=processing paid failed"`
}

// POST /v1/finance/payouts/:id/advance
func (ct *Controller) AdvancePayout(c echo.Context) error {
	var req advanceReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	if _, err := jwtx.UserIDFromContext(c); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	role, err := jwtx.RoleFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	p, err := ct.Svc.AdvancePayout(c.Request().Context(), role, c.Param("id"), model.PayoutStatus(req.Status))
	if err != nil {
		return ct.mapErr(c, err, "advance payout")
	}
	return c.JSON(http.StatusOK, p)
}

func (ct *Controller) mapErr(c echo.Context, err error, op string) error {
	switch financesvc.Code(err) {
	case financesvc.ErrNotCaregiver:
		return echo.NewHTTPError(http.StatusForbidden, "caregiver account required")
	case financesvc.ErrPayoutNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "payout not found")
	case financesvc.ErrInvalidTransition:
		return echo.NewHTTPError(http.StatusConflict, "transition not allowed")
	case financesvc.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	case financesvc.ErrBadAmount:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	case financesvc.ErrConflict:
		return echo.NewHTTPError(http.StatusConflict, "payout changed concurrently, retry")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
