package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalkSession is the operational record of a visit. It is independent of the
// booking state machine: a booking completes with or without sessions.
type WalkSession struct {
	ID             string           `json:"id"`
	BookingID      string           `json:"booking_id"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	EndedAt        *time.Time       `json:"ended_at,omitempty"`
	DistanceMeters *decimal.Decimal `json:"distance_meters,omitempty"`
	RouteGeoJSON   []byte           `json:"route_geojson,omitempty"`
	PeeEvents      int              `json:"pee_events"`
	PooEvents      int              `json:"poo_events"`
	FoodGiven      bool             `json:"food_given"`
	WaterGiven     bool             `json:"water_given"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// WalkPhoto stores photo metadata only; upload handling lives elsewhere.
type WalkPhoto struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateWalkSessionReq starts a walk session for a booking
// swagger:model CreateWalkSessionReq
type CreateWalkSessionReq struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

// UpdateWalkSessionReq updates a walk session in progress
// swagger:model UpdateWalkSessionReq
type UpdateWalkSessionReq struct {
	StartedAt      *string `json:"started_at"`
	EndedAt        *string `json:"ended_at"`
	DistanceMeters *string `json:"distance_meters"`
	RouteGeoJSON   []byte  `json:"route_geojson"`
	PeeEvents      *int    `json:"pee_events" validate:"omitempty,gte=0"`
	PooEvents      *int    `json:"poo_events" validate:"omitempty,gte=0"`
	FoodGiven      *bool   `json:"food_given"`
	WaterGiven     *bool   `json:"water_given"`
	Notes          *string `json:"notes"`
}

// AddWalkPhotoReq attaches a photo record to a session
// swagger:model AddWalkPhotoReq
type AddWalkPhotoReq struct {
	URL string `json:"url" validate:"required,url"`
}
