package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is 1:1 with a completed booking; the target is always the booking's
// caregiver.
type Review struct {
	ID              string    `json:"id"`
	BookingID       string    `json:"booking_id"`
	AuthorUserID    string    `json:"author_user_id"`
	TargetCaregiver string    `json:"target_caregiver_id"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AggregateRatings computes the cached rating aggregate for a caregiver:
// arithmetic mean of ratings rounded to 2 places, 0.00 when empty.
func AggregateRatings(ratings []int) (decimal.Decimal, int) {
	if len(ratings) == 0 {
		return decimal.Zero.Round(2), 0
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
	return avg, len(ratings)
}

// CreateReviewReq represents review creation payload
// swagger:model CreateReviewReq
type CreateReviewReq struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}
