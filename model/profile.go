package model

import "github.com/shopspring/decimal"

type OwnerProfile struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	City         string `json:"city"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	PostalCode   string `json:"postal_code"`
}

// CaregiverProfile carries the caregiver's capability flags plus the cached
// rating aggregate. RatingAverage and RatingCount are derived from the reviews
// table and rewritten only by the review service's recompute; they are never a
// source of truth and no other write path may touch them.
type CaregiverProfile struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Phone             string          `json:"phone"`
	City              string          `json:"city"`
	Bio               string          `json:"bio,omitempty"`
	YearsExperience   int             `json:"years_experience"`
	HourlyRateBase    decimal.Decimal `json:"hourly_rate_base"`
	MaxPets           int             `json:"max_pets"`
	AcceptsLargeDogs  bool            `json:"accepts_large_dogs"`
	AcceptsAggressive bool            `json:"accepts_aggressive"`
	Verified          bool            `json:"verified"`
	RatingAverage     decimal.Decimal `json:"rating_average"`
	RatingCount       int             `json:"rating_count"`
	GPSRadiusKm       decimal.Decimal `json:"gps_radius_km"`
}
