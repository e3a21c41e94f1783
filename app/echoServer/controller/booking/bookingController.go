package booking

import (
	"log/slog"
	"net/http"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	bookingsvc "petcare/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Create a booking
// @Summary      Create booking
// @Description  Book a caregiver's service; the slot is validated and priced atomically
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.CreateBookingReq  true  "Booking payload"
// @Success      201  {object}  model.Booking
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "slot no longer available"
// @Router       /v1/bookings [post]
func (ct *Controller) Create(c echo.Context) error {
	var req model.CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	b, err := ct.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		return ct.mapErr(c, err, "booking create")
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /v1/bookings/:id
func (ct *Controller) Detail(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	b, err := ct.Svc.ByID(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return ct.mapErr(c, err, "booking detail")
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/bookings/my?as=caregiver&status=pending
func (ct *Controller) ListMine(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	asCaregiver := c.QueryParam("as") == "caregiver"
	status := model.BookingStatus(c.QueryParam("status"))

	rows, err := ct.Svc.ListMine(c.Request().Context(), uid, asCaregiver, status)
	if err != nil {
		return ct.mapErr(c, err, "booking list")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/bookings/:id/accept
func (ct *Controller) Accept(c echo.Context) error {
	return ct.transition(c, model.BookingAccepted)
}

// POST /v1/bookings/:id/reject
func (ct *Controller) Reject(c echo.Context) error {
	return ct.transition(c, model.BookingRejected)
}

// POST /v1/bookings/:id/cancel
func (ct *Controller) Cancel(c echo.Context) error {
	return ct.transition(c, model.BookingCancelled)
}

// POST /v1/bookings/:id/complete
func (ct *Controller) Complete(c echo.Context) error {
	return ct.transition(c, model.BookingCompleted)
}

func (ct *Controller) transition(c echo.Context, to model.BookingStatus) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	b, err := ct.Svc.ChangeStatus(c.Request().Context(), uid, c.Param("id"), to)
	if err != nil {
		return ct.mapErr(c, err, "booking "+string(to))
	}
	return c.JSON(http.StatusOK, b)
}

// POST /v1/bookings/:id/mark-paid
func (ct *Controller) MarkPaid(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	if err := ct.Svc.MarkPaid(c.Request().Context(), uid, c.Param("id")); err != nil {
		return ct.mapErr(c, err, "booking mark paid")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "paid"})
}

// POST /v1/bookings/:id/recurrence
func (ct *Controller) AddRecurrence(c echo.Context) error {
	var req model.RecurrenceReq
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

	rule, err := ct.Svc.AddRecurrence(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return ct.mapErr(c, err, "booking recurrence")
	}
	return c.JSON(http.StatusCreated, rule)
}

func (ct *Controller) mapErr(c echo.Context, err error, op string) error {
	switch bookingsvc.Code(err) {
	case bookingsvc.ErrOwnerOnly:
		return echo.NewHTTPError(http.StatusForbidden, "owner account required")
	case bookingsvc.ErrPetNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "pet not found")
	case bookingsvc.ErrCaregiverNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "caregiver not found")
	case bookingsvc.ErrServiceNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "service type not found")
	case bookingsvc.ErrServiceNotOffered:
		return echo.NewHTTPError(http.StatusConflict, "caregiver does not offer this service")
	case bookingsvc.ErrBadStart:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start time")
	case bookingsvc.ErrStartInPast:
		return echo.NewHTTPError(http.StatusBadRequest, "start is in the past")
	case bookingsvc.ErrDurationTooLong:
		return echo.NewHTTPError(http.StatusBadRequest, "duration exceeds the allowed maximum")
	case bookingsvc.ErrNotAvailable:
		return echo.NewHTTPError(http.StatusConflict, "caregiver not available for this slot")
	case bookingsvc.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	case bookingsvc.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case bookingsvc.ErrInvalidTransition:
		return echo.NewHTTPError(http.StatusConflict, "transition not allowed")
	case bookingsvc.ErrConflict:
		return echo.NewHTTPError(http.StatusConflict, "booking changed concurrently, retry")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
