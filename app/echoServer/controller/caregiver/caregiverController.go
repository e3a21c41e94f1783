package caregiver

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	caregiverrepo "petcare/repository/caregiver"
	bookingsvc "petcare/service/booking"
	caregiversvc "petcare/service/caregiver"
	catalogsvc "petcare/service/catalog"
	reviewsvc "petcare/service/review"
	"petcare/service/scheduling"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProfileResolver maps an authenticated user to their caregiver profile.
type ProfileResolver interface {
	CaregiverByUserID(ctx context.Context, userID string) (*model.CaregiverProfile, error)
}

type Controller struct {
	Directory caregiversvc.Service
	Catalog   catalogsvc.Service
	Schedule  scheduling.Service
	Reviews   reviewsvc.Service
	Bookings  bookingsvc.Service
	Profiles  ProfileResolver
	V         *validator.Validate
	Log       *slog.Logger
}

// GET /v1/caregivers
func (ct *Controller) List(c echo.Context) error {
	f := caregiverrepo.Filter{
		City:        c.QueryParam("city"),
		ServiceCode: c.QueryParam("service"),
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_rating")
		}
		f.MinRating = &min
	}

	rows, err := ct.Directory.Directory(c.Request().Context(), f)
	if err != nil {
		return ct.internal(c, err, "caregiver list")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/caregivers/:id
func (ct *Controller) Detail(c echo.Context) error {
	p, err := ct.Directory.ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, caregiversvc.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "caregiver not found")
		}
		return ct.internal(c, err, "caregiver detail")
	}
	return c.JSON(http.StatusOK, p)
}

// GET /v1/caregivers/:id/reviews
func (ct *Controller) ListReviews(c echo.Context) error {
	rows, err := ct.Reviews.ListByCaregiver(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ct.internal(c, err, "caregiver reviews")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/caregivers/:id/availability?start=...&end=...
//
// Pre-flight check only; booking creation re-validates atomically.
func (ct *Controller) CheckAvailability(c echo.Context) error {
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end")
	}

	ok, err := ct.Bookings.IsAvailable(c.Request().Context(), c.Param("id"), start, end)
	if err != nil {
		if bookingsvc.Code(err) == bookingsvc.ErrBadStart {
			return echo.NewHTTPError(http.StatusBadRequest, "start must be before end")
		}
		return ct.internal(c, err, "availability check")
	}
	return c.JSON(http.StatusOK, echo.Map{"available": ok})
}

// GET /v1/service-types
func (ct *Controller) ServiceTypes(c echo.Context) error {
	rows, err := ct.Catalog.ServiceTypes(c.Request().Context())
	if err != nil {
		return ct.internal(c, err, "service types")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/caregivers/me/services
func (ct *Controller) SetService(c echo.Context) error {
	var req model.SetServiceReq
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

	cs, err := ct.Catalog.SetService(c.Request().Context(), uid, req)
	if err != nil {
		return ct.mapCatalogErr(c, err, "set service")
	}
	return c.JSON(http.StatusCreated, cs)
}

// GET /v1/caregivers/me/services
func (ct *Controller) MyServices(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := ct.Catalog.MyServices(c.Request().Context(), uid)
	if err != nil {
		return ct.mapCatalogErr(c, err, "my services")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

type setActiveReq struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// PATCH /v1/caregivers/me/services/:id
func (ct *Controller) SetServiceActive(c echo.Context) error {
	var req setActiveReq
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

	if err := ct.Catalog.SetActive(c.Request().Context(), uid, c.Param("id"), *req.IsActive); err != nil {
		return ct.mapCatalogErr(c, err, "toggle service")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// PUT /v1/caregivers/me/availability
func (ct *Controller) SetAvailability(c echo.Context) error {
	var req model.SetAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	caregiverID, err := ct.callerCaregiverID(c)
	if err != nil {
		return err
	}

	windows, err := ct.Schedule.SetWindows(c.Request().Context(), caregiverID, req)
	if err != nil {
		if errors.Is(err, scheduling.ErrBadWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, "window start must be before end")
		}
		return ct.internal(c, err, "set availability")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": windows})
}

// GET /v1/caregivers/:id/windows
func (ct *Controller) ListWindows(c echo.Context) error {
	rows, err := ct.Schedule.Windows(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ct.internal(c, err, "list windows")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/caregivers/me/time-off
func (ct *Controller) AddTimeOff(c echo.Context) error {
	var req model.TimeOffReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	caregiverID, err := ct.callerCaregiverID(c)
	if err != nil {
		return err
	}

	t, err := ct.Schedule.AddTimeOff(c.Request().Context(), caregiverID, req)
	if err != nil {
		if errors.Is(err, scheduling.ErrBadRange) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date range")
		}
		return ct.internal(c, err, "add time off")
	}
	return c.JSON(http.StatusCreated, t)
}

// DELETE /v1/caregivers/me/time-off/:id
func (ct *Controller) RemoveTimeOff(c echo.Context) error {
	caregiverID, err := ct.callerCaregiverID(c)
	if err != nil {
		return err
	}
	if err := ct.Schedule.RemoveTimeOff(c.Request().Context(), caregiverID, c.Param("id")); err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "time off not found")
		}
		return ct.internal(c, err, "remove time off")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// GET /v1/caregivers/me/time-off
func (ct *Controller) ListTimeOff(c echo.Context) error {
	caregiverID, err := ct.callerCaregiverID(c)
	if err != nil {
		return err
	}
	rows, err := ct.Schedule.TimeOff(c.Request().Context(), caregiverID)
	if err != nil {
		return ct.internal(c, err, "list time off")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// callerCaregiverID resolves the authenticated user to their caregiver
// profile id; schedule writes address the profile, not the user.
func (ct *Controller) callerCaregiverID(c echo.Context) (string, error) {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	p, err := ct.Profiles.CaregiverByUserID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", echo.NewHTTPError(http.StatusForbidden, "caregiver account required")
		}
		return "", ct.internal(c, err, "caregiver lookup")
	}
	return p.ID, nil
}

func (ct *Controller) mapCatalogErr(c echo.Context, err error, op string) error {
	switch catalogsvc.Code(err) {
	case catalogsvc.ErrNotCaregiver:
		return echo.NewHTTPError(http.StatusForbidden, "caregiver account required")
	case catalogsvc.ErrServiceNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "service type not found")
	case catalogsvc.ErrServiceExists:
		return echo.NewHTTPError(http.StatusConflict, "service already offered")
	case catalogsvc.ErrBadPrice:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	case catalogsvc.ErrOfferingNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "offering not found")
	default:
		return ct.internal(c, err, op)
	}
}

func (ct *Controller) internal(c echo.Context, err error, op string) error {
	rid := c.Response().Header().Get(echo.HeaderXRequestID)
	ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
