package model

import "github.com/shopspring/decimal"

type ServiceType struct {
	ID                  string          `json:"id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	BaseDurationMinutes int             `json:"base_duration_minutes"`
	DefaultBasePrice    decimal.Decimal `json:"default_base_price"`
}

// CaregiverService is the caregiver's offering of a service type at their own
// price. Unique per (caregiver, service_type).
type CaregiverService struct {
	ID            string          `json:"id"`
	CaregiverID   string          `json:"caregiver_id"`
	ServiceTypeID string          `json:"service_type_id"`
	ServiceCode   string          `json:"service_code,omitempty"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	IsActive      bool            `json:"is_active"`
}

// SetServiceReq represents a caregiver adding a service offering
// swagger:model SetServiceReq
type SetServiceReq struct {
	ServiceTypeCode string `json:"service_type_code" validate:"required"`
	PricePerUnit    string `json:"price_per_unit" validate:"required"`
}
