package model

import "time"

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterOwnerReq represents pet-owner registration payload
// swagger:model RegisterOwnerReq
type RegisterOwnerReq struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone" validate:"required"`
	Country      string `json:"country" validate:"required"`
	City         string `json:"city" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	PostalCode   string `json:"postal_code" validate:"required"`
}

// RegisterCaregiverReq represents caregiver registration payload
// swagger:model RegisterCaregiverReq
type RegisterCaregiverReq struct {
	FirstName        string  `json:"first_name" validate:"required"`
	LastName         string  `json:"last_name" validate:"required"`
	Email            string  `json:"email" validate:"required,email"`
	Username         string  `json:"username" validate:"required"`
	Password         string  `json:"password" validate:"required,min=6"`
	Phone            string  `json:"phone" validate:"required"`
	City             string  `json:"city" validate:"required"`
	Bio              string  `json:"bio"`
	YearsExperience  int     `json:"years_experience" validate:"gte=0"`
	HourlyRateBase   string  `json:"hourly_rate_base" validate:"required"`
	MaxPets          int     `json:"max_pets" validate:"gte=1"`
	AcceptsLargeDogs bool    `json:"accepts_large_dogs"`
	AcceptsAggressive bool   `json:"accepts_aggressive"`
	GPSRadiusKm      float64 `json:"gps_radius_km" validate:"gte=0"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
