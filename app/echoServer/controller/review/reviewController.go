package review

import (
	"log/slog"
	"net/http"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	reviewsvc "petcare/service/review"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc reviewsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Create a review
// @Summary      Review a completed booking
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.CreateReviewReq  true  "Review payload"
// @Success      201  {object}  model.Review
// @Failure      409  {object}  map[string]any "booking already reviewed"
// @Router       /v1/reviews [post]
func (ct *Controller) Create(c echo.Context) error {
	var req model.CreateReviewReq
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

	rev, err := ct.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		switch reviewsvc.Code(err) {
		case reviewsvc.ErrBookingNotFound:
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		case reviewsvc.ErrNotCompleted:
			return echo.NewHTTPError(http.StatusConflict, "booking is not completed")
		case reviewsvc.ErrNotBookingOwner:
			return echo.NewHTTPError(http.StatusForbidden, "only the booking owner may review")
		case reviewsvc.ErrDuplicateReview:
			return echo.NewHTTPError(http.StatusConflict, "booking already reviewed")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("review create failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
	return c.JSON(http.StatusCreated, rev)
}
