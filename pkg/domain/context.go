package domain

import (
	"github.com/mitchellh/mapstructure"
)

// Priority levels assigned by the human proxy when preparing a handoff.
const (
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

// Action types describing why a turn could not complete autonomously.
const (
	ActionEscalate        = "ESCALATE"
	ActionErrorRecovery   = "ERROR_RECOVERY"
	ActionHumanEscalation = "HUMAN_ESCALATION"
)

// HotelPreferences are advisory hints extracted from user messages.
type HotelPreferences struct {
	Location  string   `json:"location,omitempty" mapstructure:"location"`
	RoomType  string   `json:"room_type,omitempty" mapstructure:"room_type"`
	Amenities []string `json:"amenities,omitempty" mapstructure:"amenities"`
}

// RentalPreferences are advisory hints for car rental requests.
type RentalPreferences struct {
	Location string   `json:"location,omitempty" mapstructure:"location"`
	CarType  string   `json:"car_type,omitempty" mapstructure:"car_type"`
	Features []string `json:"features,omitempty" mapstructure:"features"`
}

// ExcursionPreferences are advisory hints for activity bookings.
type ExcursionPreferences struct {
	Location     string   `json:"location,omitempty" mapstructure:"location"`
	ActivityType string   `json:"activity_type,omitempty" mapstructure:"activity_type"`
	Interests    []string `json:"interests,omitempty" mapstructure:"interests"`
}

// FlightIntents flags what a user seems to want from the flight desk.
type FlightIntents struct {
	NewBooking   bool `json:"new_booking" mapstructure:"new_booking"`
	Modification bool `json:"modification" mapstructure:"modification"`
	Cancellation bool `json:"cancellation" mapstructure:"cancellation"`
	Information  bool `json:"information" mapstructure:"information"`
}

// Context carries per-conversation routing signals and extracted domain
// preferences. Named fields cover everything the routing core inspects;
// Extra is an open map for forward-compatible extension.
type Context struct {
	UserID             string `json:"user_id,omitempty"`
	ErrorCount         int    `json:"error_count,omitempty"`
	FailedAttempts     int    `json:"failed_attempts,omitempty"`
	PreviousDepartment string `json:"previous_department,omitempty"`
	RoutingReason      string `json:"routing_reason,omitempty"`
	PriorityLevel      string `json:"priority_level,omitempty"`
	EscalationReason   string `json:"escalation_reason,omitempty"`
	CaseSummary        string `json:"case_summary,omitempty"`
	NeedsHumanReview   bool   `json:"needs_human_review,omitempty"`

	Hotel     *HotelPreferences     `json:"hotel_preferences,omitempty"`
	Rental    *RentalPreferences    `json:"rental_preferences,omitempty"`
	Excursion *ExcursionPreferences `json:"excursion_preferences,omitempty"`
	Flight    *FlightIntents        `json:"booking_intents,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a deep copy. Preference records are copied by value;
// Extra is copied one level deep (values are treated as immutable).
func (c Context) Clone() Context {
	out := c
	if c.Hotel != nil {
		h := *c.Hotel
		h.Amenities = append([]string(nil), c.Hotel.Amenities...)
		out.Hotel = &h
	}
	if c.Rental != nil {
		r := *c.Rental
		r.Features = append([]string(nil), c.Rental.Features...)
		out.Rental = &r
	}
	if c.Excursion != nil {
		e := *c.Excursion
		e.Interests = append([]string(nil), c.Excursion.Interests...)
		out.Excursion = &e
	}
	if c.Flight != nil {
		f := *c.Flight
		out.Flight = &f
	}
	if c.Extra != nil {
		out.Extra = cloneExtra(c.Extra)
	}
	return out
}

func cloneExtra(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneExtra(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeExtra decodes a value stored under key in Extra into target using
// mapstructure tags. Missing keys are a no-op so callers can treat every
// residual read as optional.
func (c Context) DecodeExtra(key string, target any) error {
	raw, ok := c.Extra[key]
	if !ok {
		return nil
	}
	return mapstructure.Decode(raw, target)
}

// SetExtra stores a residual value, allocating the map on first use.
func (c *Context) SetExtra(key string, value any) {
	if c.Extra == nil {
		c.Extra = make(map[string]any)
	}
	c.Extra[key] = value
}
