package pet

import (
	"log/slog"
	"net/http"

	"petcare/app/echoServer/jwtx"
	"petcare/model"
	petsvc "petcare/service/pet"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc petsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/pets
func (ct *Controller) Create(c echo.Context) error {
	var req model.CreatePetReq
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

	p, err := ct.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		return ct.mapErr(c, err, "pet create")
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /v1/pets
func (ct *Controller) List(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	pets, err := ct.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return ct.mapErr(c, err, "pet list")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": pets})
}

// GET /v1/pets/:id
func (ct *Controller) Detail(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	p, err := ct.Svc.ByID(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return ct.mapErr(c, err, "pet detail")
	}
	return c.JSON(http.StatusOK, p)
}

// PATCH /v1/pets/:id
func (ct *Controller) Update(c echo.Context) error {
	var req model.UpdatePetReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	p, err := ct.Svc.Update(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return ct.mapErr(c, err, "pet update")
	}
	return c.JSON(http.StatusOK, p)
}

// DELETE /v1/pets/:id
func (ct *Controller) Delete(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	if err := ct.Svc.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return ct.mapErr(c, err, "pet delete")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (ct *Controller) mapErr(c echo.Context, err error, op string) error {
	switch petsvc.Code(err) {
	case petsvc.ErrNotOwner:
		return echo.NewHTTPError(http.StatusForbidden, "owner account required")
	case petsvc.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "pet not found")
	case petsvc.ErrForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case petsvc.ErrBadWeight:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid weight")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error(op+" failed", "err", err, "req_id", rid, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
