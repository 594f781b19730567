package responder

import (
	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/agenthub/agenthub/pkg/ports"
)

// NewFlightBooking creates the flight desk responder.
func NewFlightBooking(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &bookingDesk{
		base:      newBase(domain.NodeFlightBooking, completion, opts...),
		promptFmt: flightPromptFmt,
		extract:   extractFlightIntents,
	}
}

// NewHotelBooking creates the hotel desk responder.
func NewHotelBooking(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &bookingDesk{
		base:      newBase(domain.NodeHotelBooking, completion, opts...),
		promptFmt: hotelPromptFmt,
		extract:   extractHotelPreferences,
	}
}

// NewCarRental creates the car rental desk responder.
func NewCarRental(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &bookingDesk{
		base:      newBase(domain.NodeCarRental, completion, opts...),
		promptFmt: carRentalPromptFmt,
		extract:   extractRentalPreferences,
	}
}

// NewExcursion creates the excursion desk responder.
func NewExcursion(completion ports.CompletionService, opts ...BaseOption) Responder {
	return &bookingDesk{
		base:      newBase(domain.NodeExcursion, completion, opts...),
		promptFmt: excursionPromptFmt,
		extract:   extractExcursionPreferences,
	}
}

// extractFlightIntents flags what the user seems to want from the
// flight desk. Several intents can be true at once ("cancel and
// rebook").
func extractFlightIntents(message string, ctx *domain.Context) {
	intents := &domain.FlightIntents{}
	if containsAny(message, []string{"book", "reserve", "new flight", "schedule"}) {
		intents.NewBooking = true
	}
	if containsAny(message, []string{"change", "modify", "reschedule", "update"}) {
		intents.Modification = true
	}
	if containsAny(message, []string{"cancel", "refund", "void"}) {
		intents.Cancellation = true
	}
	if containsAny(message, []string{"info", "detail", "status", "when", "what time"}) {
		intents.Information = true
	}
	ctx.Flight = intents
}

var (
	roomTypes      = []string{"single", "double", "suite", "family"}
	hotelAmenities = []string{"wifi", "pool", "gym", "breakfast", "parking"}

	carTypes    = []string{"compact", "sedan", "suv", "luxury", "van"}
	carFeatures = []string{"automatic", "manual", "gps", "bluetooth", "child seat"}

	activityTypes = []string{
		"sightseeing", "adventure", "cultural", "food",
		"nature", "sports", "relaxation", "shopping",
	}
	excursionInterests = []string{"museum", "beach", "hiking", "wine", "history", "local"}
)

func extractHotelPreferences(message string, ctx *domain.Context) {
	prefs := &domain.HotelPreferences{
		Location:  extractLocation(message),
		RoomType:  firstMatch(message, roomTypes),
		Amenities: allMatches(message, hotelAmenities),
	}
	ctx.Hotel = prefs
}

func extractRentalPreferences(message string, ctx *domain.Context) {
	prefs := &domain.RentalPreferences{
		Location: extractLocation(message),
		CarType:  firstMatch(message, carTypes),
		Features: allMatches(message, carFeatures),
	}
	ctx.Rental = prefs
}

func extractExcursionPreferences(message string, ctx *domain.Context) {
	prefs := &domain.ExcursionPreferences{
		Location:     extractLocation(message),
		ActivityType: firstMatch(message, activityTypes),
		Interests:    allMatches(message, excursionInterests),
	}
	ctx.Excursion = prefs
}
