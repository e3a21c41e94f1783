package echoServer

import (
	"petcare/app/echoServer/controller/auth"
	"petcare/app/echoServer/controller/booking"
	"petcare/app/echoServer/controller/caregiver"
	"petcare/app/echoServer/controller/finance"
	"petcare/app/echoServer/controller/pet"
	"petcare/app/echoServer/controller/review"
	"petcare/app/echoServer/controller/walk"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Pet       *pet.Controller
	Caregiver *caregiver.Controller
	Booking   *booking.Controller
	Review    *review.Controller
	Walk      *walk.Controller
	Finance   *finance.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register/owner", c.Auth.RegisterOwner)
	pub.POST("/users/register/caregiver", c.Auth.RegisterCaregiver)
	pub.POST("/users/login", c.Auth.Login)

	// directory browsing needs no account
	pub.GET("/service-types", c.Caregiver.ServiceTypes)
	pub.GET("/caregivers", c.Caregiver.List)
	pub.GET("/caregivers/:id", c.Caregiver.Detail)
	pub.GET("/caregivers/:id/reviews", c.Caregiver.ListReviews)
	pub.GET("/caregivers/:id/windows", c.Caregiver.ListWindows)
	pub.GET("/caregivers/:id/availability", c.Caregiver.CheckAvailability)

	// Auth
	priv := e.Group("/v1")
	priv.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	}))

	priv.GET("/users/me", c.Auth.Me)

	// Pets
	priv.POST("/pets", c.Pet.Create)
	priv.GET("/pets", c.Pet.List)
	priv.GET("/pets/:id", c.Pet.Detail)
	priv.PATCH("/pets/:id", c.Pet.Update)
	priv.DELETE("/pets/:id", c.Pet.Delete)

	// Caregiver self-service
	priv.POST("/caregivers/me/services", c.Caregiver.SetService)
	priv.GET("/caregivers/me/services", c.Caregiver.MyServices)
	priv.PATCH("/caregivers/me/services/:id", c.Caregiver.SetServiceActive)
	priv.PUT("/caregivers/me/availability", c.Caregiver.SetAvailability)
	priv.POST("/caregivers/me/time-off", c.Caregiver.AddTimeOff)
	priv.GET("/caregivers/me/time-off", c.Caregiver.ListTimeOff)
	priv.DELETE("/caregivers/me/time-off/:id", c.Caregiver.RemoveTimeOff)

	// Bookings
	priv.POST("/bookings", c.Booking.Create)
	priv.GET("/bookings/my", c.Booking.ListMine)
	priv.GET("/bookings/:id", c.Booking.Detail)
	priv.POST("/bookings/:id/accept", c.Booking.Accept)
	priv.POST("/bookings/:id/reject", c.Booking.Reject)
	priv.POST("/bookings/:id/cancel", c.Booking.Cancel)
	priv.POST("/bookings/:id/complete", c.Booking.Complete)
	priv.POST("/bookings/:id/mark-paid", c.Booking.MarkPaid)
	priv.POST("/bookings/:id/recurrence", c.Booking.AddRecurrence)
	priv.GET("/bookings/:id/walks", c.Walk.ListByBooking)

	// Reviews
	priv.POST("/reviews", c.Review.Create)

	// Walk sessions
	priv.POST("/walks", c.Walk.CreateSession)
	priv.PATCH("/walks/:id", c.Walk.UpdateSession)
	priv.POST("/walks/:id/photos", c.Walk.AddPhoto)
	priv.GET("/walks/:id/photos", c.Walk.ListPhotos)

	// Finance
	priv.GET("/finance/summary", c.Finance.Summary)
	priv.GET("/finance/ledger", c.Finance.Ledger)
	priv.POST("/finance/payouts", c.Finance.RequestPayout)
	priv.GET("/finance/payouts", c.Finance.MyPayouts)
	priv.POST("/finance/payouts/:id/advance", c.Finance.AdvancePayout)
}
