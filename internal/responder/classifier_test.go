package responder

import (
	"testing"

	"github.com/agenthub/agenthub/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Keywords(t *testing.T) {
	c := NewClassifier(nil)

	cases := []struct {
		message string
		want    string
	}{
		{"What are the prices of your products?", domain.NodeProduct},
		{"my app crashed with an error", domain.NodeTechnical},
		{"I have a question about my invoice", domain.NodeCustomerService},
		{"I need a flight to Madrid", domain.NodeFlightBooking},
		{"looking for a hotel with a pool", domain.NodeHotelBooking},
		{"can I rent a car at the airport?", domain.NodeCarRental},
		{"any sightseeing tours tomorrow?", domain.NodeExcursion},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.message, domain.Context{}))
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(nil)
	ctx := domain.Context{PreviousDepartment: domain.NodeTechnical}

	first := c.Classify("setup keeps failing with an error", ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("setup keeps failing with an error", ctx))
	}
}

func TestClassifier_NoMatchDefaultsToCustomerService(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, domain.NodeCustomerService, c.Classify("qwerty", domain.Context{}))
}

func TestClassifier_PreviousDepartmentBias(t *testing.T) {
	c := NewClassifier(nil)

	// "room availability" matches both product (availab) and hotel
	// (room); the sticky bias decides the tie whichever way the user
	// was last handled.
	msg := "is the room still availab?"
	assert.Equal(t, domain.NodeProduct,
		c.Classify(msg, domain.Context{PreviousDepartment: domain.NodeProduct}))
	assert.Equal(t, domain.NodeHotelBooking,
		c.Classify(msg, domain.Context{PreviousDepartment: domain.NodeHotelBooking}))
}

func TestClassifier_ErrorCountBias(t *testing.T) {
	table, err := CompilePatterns(map[string]map[string]float64{
		domain.NodeProduct:         {`widget`: 1.0},
		domain.NodeCustomerService: {`widget`: 0.9},
	})
	require.NoError(t, err)
	c := NewClassifier(table)

	msg := "the widget again"
	assert.Equal(t, domain.NodeProduct, c.Classify(msg, domain.Context{}))
	// A struggling conversation leans toward customer service.
	assert.Equal(t, domain.NodeCustomerService, c.Classify(msg, domain.Context{ErrorCount: 3}))
}

func TestClassifier_TieBreakOrder(t *testing.T) {
	table, err := CompilePatterns(map[string]map[string]float64{
		domain.NodeTechnical:    {`widget`: 1.0},
		domain.NodeProduct:      {`widget`: 1.0},
		domain.NodeHotelBooking: {`widget`: 1.0},
	})
	require.NoError(t, err)

	c := NewClassifier(table)
	assert.Equal(t, domain.NodeProduct, c.Classify("tell me about the widget", domain.Context{}))
}

func TestClassifier_ConfiguredExtraDepartment(t *testing.T) {
	table, err := CompilePatterns(map[string]map[string]float64{
		domain.NodeProduct:    {`price`: 1.0},
		domain.NodeHumanProxy: {`complaint|lawyer`: 2.0},
	})
	require.NoError(t, err)
	c := NewClassifier(table)

	assert.Equal(t, domain.NodeHumanProxy, c.Classify("I want to file a complaint", domain.Context{}))
	// The fixed priority still wins a tie.
	assert.Equal(t, domain.NodeProduct, c.Classify("price", domain.Context{}))
}

func TestCompilePatterns_Invalid(t *testing.T) {
	_, err := CompilePatterns(map[string]map[string]float64{
		domain.NodeProduct: {`([`: 1.0},
	})
	assert.Error(t, err)
}
