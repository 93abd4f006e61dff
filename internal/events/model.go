package events

import (
	"time"

	"github.com/google/uuid"
)

// TriggerPoint is the closed set of real-world signals that can raise an event.
type TriggerPoint string

const (
	TriggerWeather          TriggerPoint = "weather"
	TriggerProductExpiry    TriggerPoint = "product_expiry"
	TriggerHolidaySpecial   TriggerPoint = "holiday_special"
	TriggerLocalEvent       TriggerPoint = "local_event"
	TriggerCompetitorAction TriggerPoint = "competitor_action"
	TriggerStockLevel       TriggerPoint = "stock_level"
)

func (t TriggerPoint) Valid() bool {
	switch t {
	case TriggerWeather, TriggerProductExpiry, TriggerHolidaySpecial,
		TriggerLocalEvent, TriggerCompetitorAction, TriggerStockLevel:
		return true
	}
	return false
}

// Event is a sensed real-world trigger awaiting deal generation.
//
// ProcessedForSuggestion flips false -> true exactly once, by a successful
// claim, and is never reset. Rows are never deleted; a claimed event that
// produced no suggestion stays behind as the audit trail of the failure.
type Event struct {
	ID           int64          `json:"id"`
	VendorID     string         `json:"vendor_id"`
	LocationUUID uuid.UUID      `json:"location_uuid"`
	ActivityID   *string        `json:"activity_id,omitempty"`
	TriggerPoint TriggerPoint   `json:"event_trigger_point"`
	Details      map[string]any `json:"event_details_text"`
	Latitude     float64        `json:"event_location_latitude"`
	Longitude    float64        `json:"event_location_longitude"`
	Timestamp    time.Time      `json:"event_timestamp"`

	ProcessedForSuggestion bool       `json:"processed_for_suggestion"`
	ClaimedAt              *time.Time `json:"claimed_at,omitempty"`
	SuggestionID           *int64     `json:"suggestion_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
