package responder

import (
	"context"
	"testing"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightBooking_ExtractsIntents(t *testing.T) {
	stub := &stubCompletion{reply: "Sure, I can cancel the old ticket and book a new one."}
	desk := NewFlightBooking(stub)

	state := userState("u1", "Cancel my flight and book a new one for Friday")
	update, err := desk.Process(context.Background(), state)
	require.NoError(t, err)

	require.NotNil(t, update.Context)
	intents := update.Context.Flight
	require.NotNil(t, intents)
	assert.True(t, intents.NewBooking)
	assert.True(t, intents.Cancellation)
	assert.False(t, intents.Modification)
	assert.Equal(t, domain.NodeFlightBooking, update.Context.PreviousDepartment)
	require.Len(t, update.Messages, 1)
	assert.Empty(t, update.Next, "booking desks answer in place")
}

func TestHotelBooking_ExtractsPreferences(t *testing.T) {
	stub := &stubCompletion{reply: "I found three options matching that."}
	desk := NewHotelBooking(stub)

	state := userState("u1", "I want a double room in lisbon with wifi and breakfast")
	update, err := desk.Process(context.Background(), state)
	require.NoError(t, err)

	prefs := update.Context.Hotel
	require.NotNil(t, prefs)
	assert.Equal(t, "double", prefs.RoomType)
	assert.Contains(t, prefs.Location, "lisbon")
	assert.ElementsMatch(t, []string{"wifi", "breakfast"}, prefs.Amenities)
}

func TestCarRental_ExtractsPreferences(t *testing.T) {
	stub := &stubCompletion{reply: "An automatic SUV is available."}
	desk := NewCarRental(stub)

	state := userState("u1", "I'd like an automatic suv with gps near porto")
	update, err := desk.Process(context.Background(), state)
	require.NoError(t, err)

	prefs := update.Context.Rental
	require.NotNil(t, prefs)
	assert.Equal(t, "suv", prefs.CarType)
	assert.Contains(t, prefs.Location, "porto")
	assert.ElementsMatch(t, []string{"automatic", "gps"}, prefs.Features)
}

func TestExcursion_ExtractsPreferences(t *testing.T) {
	stub := &stubCompletion{reply: "The wine country tour runs daily."}
	desk := NewExcursion(stub)

	state := userState("u1", "any food tours around florence? we love wine and local history")
	update, err := desk.Process(context.Background(), state)
	require.NoError(t, err)

	prefs := update.Context.Excursion
	require.NotNil(t, prefs)
	assert.Equal(t, "food", prefs.ActivityType)
	assert.Contains(t, prefs.Location, "florence")
	assert.ElementsMatch(t, []string{"wine", "history", "local"}, prefs.Interests)
}

func TestBookingDesk_FailureKeepsExtraction(t *testing.T) {
	stub := &stubCompletion{err: domain.ErrCompletionUnavailable}
	desk := NewHotelBooking(stub)

	state := userState("u1", "a suite in rome please")
	update, err := desk.Process(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, domain.NodeCustomerService, update.Next)
	assert.Equal(t, domain.ActionErrorRecovery, update.ActionType)
	assert.Equal(t, 1, update.Context.ErrorCount)
	// The reroute keeps what was already understood.
	require.NotNil(t, update.Context.Hotel)
	assert.Equal(t, "suite", update.Context.Hotel.RoomType)
	assert.Contains(t, update.Context.Hotel.Location, "rome")
}

func TestExtractLocation(t *testing.T) {
	assert.Equal(t, "lisbon", extractLocation("a hotel in lisbon"))
	assert.Equal(t, "", extractLocation("a hotel, any city"))
}
