package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// CanTransition reports whether a booking status move is legal.
// rejected, cancelled and completed are terminal.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingPending:
		return to == BookingAccepted || to == BookingRejected || to == BookingCancelled
	case BookingAccepted:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

// ActiveBookingStatuses are the statuses that block a caregiver's calendar.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingAccepted}

// Booking is the central transactional entity. Money fields satisfy
// PriceSubtotal == PlatformFee + CaregiverEarnings and are immutable after
// creation; Status moves only through CanTransition.
type Booking struct {
	ID                string          `json:"id"`
	OwnerID           string          `json:"owner_id"`
	CaregiverID       string          `json:"caregiver_id"`
	PetID             string          `json:"pet_id"`
	ServiceTypeID     string          `json:"service_type_id"`
	StartAt           time.Time       `json:"start_at"`
	EndAt             time.Time       `json:"end_at"`
	DurationMinutes   int             `json:"duration_minutes"`
	Status            BookingStatus   `json:"status"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	OwnerNotes        string          `json:"owner_notes,omitempty"`
	CaregiverNotes    string          `json:"caregiver_notes,omitempty"`
	PriceSubtotal     decimal.Decimal `json:"price_subtotal"`
	PlatformFee       decimal.Decimal `json:"platform_fee"`
	CaregiverEarnings decimal.Decimal `json:"caregiver_earnings"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BookingRecurringRule is stored with a booking but never expanded into
// future bookings here.
type BookingRecurringRule struct {
	ID             string     `json:"id"`
	BookingID      string     `json:"booking_id"`
	RecurrenceType string     `json:"recurrence_type"`
	Weekdays       []int      `json:"weekdays"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	IsActive       bool       `json:"is_active"`
}

// CreateBookingReq represents booking creation payload
// swagger:model CreateBookingReq
type CreateBookingReq struct {
	PetID           string `json:"pet_id" validate:"required,uuid4"`
	CaregiverID     string `json:"caregiver_id" validate:"required,uuid4"`
	ServiceTypeCode string `json:"service_type_code" validate:"required"`
	StartAt         string `json:"start_at" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	OwnerNotes      string `json:"owner_notes"`
}

// RecurrenceReq attaches a recurrence descriptor to a booking
// swagger:model RecurrenceReq
type RecurrenceReq struct {
	RecurrenceType string  `json:"recurrence_type" validate:"required,oneof=weekly biweekly monthly"`
	Weekdays       []int   `json:"weekdays" validate:"dive,gte=0,lte=6"`
	EndDate        *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}
