// Package main petcare API.
//
// @title           Petcare API
// @version         1.0
// @description     pet care marketplace (caregivers, bookings, reviews, payouts).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"petcare/app/echoServer"
	authctrl "petcare/app/echoServer/controller/auth"
	bookingctrl "petcare/app/echoServer/controller/booking"
	caregiverctrl "petcare/app/echoServer/controller/caregiver"
	financectrl "petcare/app/echoServer/controller/finance"
	petctrl "petcare/app/echoServer/controller/pet"
	reviewctrl "petcare/app/echoServer/controller/review"
	walkctrl "petcare/app/echoServer/controller/walk"
	"petcare/app/echoServer/validation"
	"petcare/config"
	authrepo "petcare/repository/auth"
	bookingrepo "petcare/repository/booking"
	caregiverrepo "petcare/repository/caregiver"
	catalogrepo "petcare/repository/catalog"
	financerepo "petcare/repository/finance"
	petrepo "petcare/repository/pet"
	reviewrepo "petcare/repository/review"
	schedulerepo "petcare/repository/schedule"
	walkrepo "petcare/repository/walk"
	authsvc "petcare/service/auth"
	bookingsvc "petcare/service/booking"
	caregiversvc "petcare/service/caregiver"
	catalogsvc "petcare/service/catalog"
	"petcare/service/commission"
	financesvc "petcare/service/finance"
	petsvc "petcare/service/pet"
	reviewsvc "petcare/service/review"
	"petcare/service/scheduling"
	walksvc "petcare/service/walk"
	"petcare/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	cr := caregiverrepo.New(db)
	pr := petrepo.New(db)
	ctr := catalogrepo.New(db)
	sr := schedulerepo.New(db)
	br := bookingrepo.New(db)
	rr := reviewrepo.New(db)
	fr := financerepo.New(db)
	wr := walkrepo.New(db)

	// services
	calc := commission.NewCalculator(cfg.PlatformFeePercent)
	resolver := scheduling.NewResolver(sr, br)

	as := authsvc.New(ar, &cfg)
	dirs := caregiversvc.New(cr)
	ps := petsvc.New(pr, ar)
	cs := catalogsvc.New(ctr, ar)
	ss := scheduling.New(sr)
	bs := bookingsvc.New(br, ar, cr, pr, ctr, resolver, calc)
	rs := reviewsvc.New(rr, br, ar)
	fs := financesvc.New(fr, ar)
	ws := walksvc.New(wr, br, ar, cr)

	// controllers
	val := validation.New()
	v := val.Underlying()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	petC := &petctrl.Controller{Svc: ps, V: v, Log: log}
	caregiverC := &caregiverctrl.Controller{
		Directory: dirs,
		Catalog:   cs,
		Schedule:  ss,
		Reviews:   rs,
		Bookings:  bs,
		Profiles:  ar,
		V:         v,
		Log:       log,
	}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	reviewC := &reviewctrl.Controller{Svc: rs, V: v, Log: log}
	walkC := &walkctrl.Controller{Svc: ws, V: v, Log: log}
	financeC := &financectrl.Controller{Svc: fs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = val

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Pet:       petC,
		Caregiver: caregiverC,
		Booking:   bookingC,
		Review:    reviewC,
		Walk:      walkC,
		Finance:   financeC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
