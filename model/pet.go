package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

type Pet struct {
	ID            string           `json:"id"`
	OwnerID       string           `json:"owner_id"`
	Name          string           `json:"name"`
	Species       Species          `json:"species"`
	Breed         string           `json:"breed,omitempty"`
	Sex           Sex              `json:"sex"`
	Birthdate     *time.Time       `json:"birthdate,omitempty"`
	WeightKg      *decimal.Decimal `json:"weight_kg,omitempty"`
	IsNeutered    bool             `json:"is_neutered"`
	MedicalNotes  string           `json:"medical_notes,omitempty"`
	BehaviorNotes string           `json:"behavior_notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreatePetReq represents pet creation payload
// swagger:model CreatePetReq
type CreatePetReq struct {
	Name          string  `json:"name" validate:"required"`
	Species       string  `json:"species" validate:"required,oneof=dog cat other"`
	Breed         string  `json:"breed"`
	Sex           string  `json:"sex" validate:"required,oneof=M F"`
	Birthdate     *string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	WeightKg      *string `json:"weight_kg"`
	IsNeutered    bool    `json:"is_neutered"`
	MedicalNotes  string  `json:"medical_notes"`
	BehaviorNotes string  `json:"behavior_notes"`
}

// UpdatePetReq represents pet update payload. Species and sex are immutable
// after creation and deliberately absent here.
// swagger:model UpdatePetReq
type UpdatePetReq struct {
	Breed         *string `json:"breed"`
	WeightKg      *string `json:"weight_kg"`
	IsNeutered    *bool   `json:"is_neutered"`
	MedicalNotes  *string `json:"medical_notes"`
	BehaviorNotes *string `json:"behavior_notes"`
}
