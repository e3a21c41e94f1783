package walk

import (
	"log/slog"
	"net/http"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	walksvc "petcare/service/walk"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc walksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/walks
func (ct *Controller) CreateSession(c echo.Context) error {
	var req model.CreateWalkSessionReq
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

	s, err := ct.Svc.CreateSession(c.Request().Context(), uid, req)
	if err != nil {
		return ct.mapErr(c, err, "walk create")
	}
	return c.JSON(http.StatusCreated, s)
}

// PATCH /v1/walks/:id
func (ct *Controller) UpdateSession(c echo.Context) error {
	var req model.UpdateWalkSessionReq
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

	s, err := ct.Svc.UpdateSession(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return ct.mapErr(c, err, "walk update")
	}
	return c.JSON(http.StatusOK, s)
}

// POST /v1/walks/:id/photos
func (ct *Controller) AddPhoto(c echo.Context) error {
	var req model.AddWalkPhotoReq
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

	p, err := ct.Svc.AddPhoto(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return ct.mapErr(c, err, "walk photo")
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /v1/walks/:id/photos
func (ct *Controller) ListPhotos(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := ct.Svc.Photos(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return ct.mapErr(c, err, "walk photos")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/:id/walks
func (ct *Controller) ListByBooking(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	rows, err := ct.Svc.SessionsForBooking(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return ct.mapErr(c, err, "walk list")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (ct *Controller) mapErr(c echo.Context, err error, op string) error {
	switch walksvc.Code(err) {
	case walksvc.ErrBookingNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	case walksvc.ErrSessionNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case walksvc.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case walksvc.ErrNotStartable:
		return echo.NewHTTPError(http.StatusConflict, "booking is not active")
	case walksvc.ErrBadField:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid field value")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
