package suggestions

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// --------------------------------------------------
// STATUS MACHINE
// --------------------------------------------------

// Status is the suggestion lifecycle state. Transitions are strictly
// forward-only; the transition table below is the single source of truth
// and the repositories guard every UPDATE with the expected current status.
type Status string

const (
	StatusGenerated        Status = "generated"
	StatusNotifiedVendor   Status = "notified_vendor"
	StatusFeedbackReceived Status = "feedback_received"
	StatusDealPosted       Status = "deal_posted"
	StatusDealPostFailed   Status = "deal_post_failed"
	StatusExpired          Status = "expired"
)

// transitions holds the allowed forward edges. Terminal statuses have no
// entry. Expiry is reachable from every non-terminal status (validity
// window sweep).
var transitions = map[Status][]Status{
	StatusGenerated:        {StatusNotifiedVendor, StatusFeedbackReceived, StatusExpired},
	StatusNotifiedVendor:   {StatusFeedbackReceived, StatusExpired},
	StatusFeedbackReceived: {StatusDealPosted, StatusDealPostFailed, StatusExpired},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further automated transition exists.
// deal_post_failed is terminal for the pipeline; only an explicit operator
// reset re-opens it.
func (s Status) Terminal() bool {
	switch s {
	case StatusDealPosted, StatusDealPostFailed, StatusExpired:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusGenerated, StatusNotifiedVendor, StatusFeedbackReceived,
		StatusDealPosted, StatusDealPostFailed, StatusExpired:
		return true
	}
	return false
}

var ErrIllegalTransition = errors.New("illegal status transition")

// --------------------------------------------------
// VENDOR FEEDBACK
// --------------------------------------------------

type Feedback string

const (
	FeedbackPending  Feedback = "pending"
	FeedbackAccepted Feedback = "accepted"
	FeedbackRejected Feedback = "rejected"
)

func (f Feedback) Valid() bool {
	return f == FeedbackAccepted || f == FeedbackRejected
}

// --------------------------------------------------
// DISCOUNT
// --------------------------------------------------

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixedAmount
}

// SuggestedPrice derives the deal price from the original price and the
// discount shape. The result is rounded to 2 decimals and must land in
// [0, originalPrice]; anything else is rejected before persisting.
func SuggestedPrice(originalPrice float64, dt DiscountType, value float64) (float64, error) {
	if originalPrice <= 0 {
		return 0, fmt.Errorf("original price must be positive, got %.2f", originalPrice)
	}
	if value <= 0 {
		return 0, fmt.Errorf("discount value must be positive, got %.2f", value)
	}

	var price float64
	switch dt {
	case DiscountPercentage:
		if value > 100 {
			return 0, fmt.Errorf("percentage discount out of range: %.2f", value)
		}
		price = originalPrice * (1 - value/100)
	case DiscountFixedAmount:
		price = originalPrice - value
	default:
		return 0, fmt.Errorf("unknown discount type %q", dt)
	}

	price = math.Round(price*100) / 100
	if price < 0 || price > originalPrice {
		return 0, fmt.Errorf("suggested price %.2f outside [0, %.2f]", price, originalPrice)
	}
	return price, nil
}

// --------------------------------------------------
// SUGGESTION (PERSISTED ENTITY)
// --------------------------------------------------

// Suggestion is a generated candidate deal tied to one event and one
// inventory item. Rows are never deleted; raw external payloads are kept
// verbatim for audit.
type Suggestion struct {
	ID       int64  `json:"id"`
	VendorID string `json:"vendor_id"`
	EventID  int64  `json:"event_id"`
	SKU      string `json:"suggested_product_sku"`

	GenerationPrompt string `json:"generation_prompt,omitempty"`
	DealText         string `json:"deal_details_suggestion_text"`

	DiscountType   DiscountType `json:"suggested_discount_type"`
	DiscountValue  float64      `json:"suggested_discount_value"`
	OriginalPrice  float64      `json:"original_price"`
	SuggestedPrice float64      `json:"suggested_price"`

	ModelName     string          `json:"model_name,omitempty"`
	RawAIResponse json.RawMessage `json:"raw_ai_response,omitempty"`

	VendorFeedback Feedback `json:"vendor_feedback"`
	Status         Status   `json:"status"`

	PublishClaimedAt *time.Time      `json:"publish_claimed_at,omitempty"`
	PublishRequest   json.RawMessage `json:"publish_request,omitempty"`
	PublishResponse  json.RawMessage `json:"publish_response,omitempty"`
	PublishError     *string         `json:"publish_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
