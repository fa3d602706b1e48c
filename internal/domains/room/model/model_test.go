package model_test

import (
	"testing"

	"innkeeper/internal/domains/room/model"

	"github.com/stretchr/testify/assert"
)

func TestSplitPlanCode(t *testing.T) {
	tests := []struct {
		name              string
		planCode          string
		fallbackOccupancy string
		expectedCode      string
		expectedOccupancy string
	}{
		{
			name:              "double suffix is split off",
			planCode:          "DELUXE_DOUBLE",
			fallbackOccupancy: model.OccupancySingle,
			expectedCode:      "DELUXE",
			expectedOccupancy: model.OccupancyDouble,
		},
		{
			name:              "single suffix is split off",
			planCode:          "STANDARD_SINGLE",
			fallbackOccupancy: model.OccupancyDouble,
			expectedCode:      "STANDARD",
			expectedOccupancy: model.OccupancySingle,
		},
		{
			name:              "underscores inside the code are kept",
			planCode:          "SUPER_DELUXE_DOUBLE",
			fallbackOccupancy: model.OccupancySingle,
			expectedCode:      "SUPER_DELUXE",
			expectedOccupancy: model.OccupancyDouble,
		},
		{
			name:              "bare code falls back to the given occupancy",
			planCode:          "DELUXE",
			fallbackOccupancy: model.OccupancyDouble,
			expectedCode:      "DELUXE",
			expectedOccupancy: model.OccupancyDouble,
		},
		{
			name:              "unrecognized suffix is not an occupancy",
			planCode:          "DELUXE_PREMIUM",
			fallbackOccupancy: model.OccupancySingle,
			expectedCode:      "DELUXE_PREMIUM",
			expectedOccupancy: model.OccupancySingle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, occupancy := model.SplitPlanCode(tt.planCode, tt.fallbackOccupancy)
			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedOccupancy, occupancy)
		})
	}
}

func TestRateFor(t *testing.T) {
	plan := model.Plan{SinglePrice: 2000, DoublePrice: 2500}

	assert.InDelta(t, 2500.0, plan.RateFor(model.OccupancyDouble), 0.001)
	assert.InDelta(t, 2000.0, plan.RateFor(model.OccupancySingle), 0.001)
	assert.InDelta(t, 2000.0, plan.RateFor(""), 0.001)
}
