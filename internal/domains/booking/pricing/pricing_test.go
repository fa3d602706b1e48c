package pricing_test

import (
	"testing"
	"time"

	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/pricing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func stay(nights int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	return checkIn, checkIn.AddDate(0, 0, nights)
}

func TestNights(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		expected int
	}{
		{
			name:     "two full days",
			checkOut: base.Add(48 * time.Hour),
			expected: 2,
		},
		{
			name:     "just under two days rounds up",
			checkOut: base.Add(47 * time.Hour),
			expected: 2,
		},
		{
			name:     "exactly one day",
			checkOut: base.Add(24 * time.Hour),
			expected: 1,
		},
		{
			name:     "short stay still bills one night",
			checkOut: base.Add(2 * time.Hour),
			expected: 1,
		},
		{
			name:     "zero duration bills one night",
			checkOut: base,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pricing.Nights(base, tt.checkOut))
		})
	}
}

func TestRecomputePlanPricing(t *testing.T) {
	checkIn, checkOut := stay(2)

	booking := model.Booking{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		PricingType:     model.PricingTypePlan,
		GSTEnabled:      true,
		DiscountPercent: 10,
		DiscountScope:   model.DiscountScopeTotal,
	}

	err := pricing.Recompute(&booking, nil, nil, pricing.FoodSummary{}, 2500)
	assert.NoError(t, err)

	assert.Equal(t, 2, booking.Nights)
	assert.InDelta(t, 5000.0, booking.RoomBase, 0.001)
	assert.InDelta(t, 500.0, booking.RoomDiscount, 0.001)
	assert.InDelta(t, 225.0, booking.RoomGST, 0.001)
	assert.InDelta(t, 4725.0, booking.RoomTotal, 0.001)
	assert.InDelta(t, 112.5, booking.CGST, 0.001)
	assert.InDelta(t, 112.5, booking.SGST, 0.001)
	assert.InDelta(t, 4725.0, booking.GrandTotal, 0.001)
	assert.InDelta(t, 4725.0, booking.BalanceDue, 0.001)
	assert.False(t, booking.FinalPaymentReceived)
	assert.InDelta(t, 0.0, booking.FinalPaymentAmount, 0.001)
}

func TestRecomputeFinalInclusive(t *testing.T) {
	checkIn, checkOut := stay(1)

	tests := []struct {
		name            string
		gstEnabled      bool
		price           float64
		discountPercent float64
		expectedBase    float64
		expectedGST     float64
		expectedTot     float64
	}{
		{
			name:         "gst is split back out of the quoted price",
			gstEnabled:   true,
			price:        1050,
			expectedBase: 1000,
			expectedGST:  50,
			expectedTot:  1050,
		},
		{
			name:         "the quoted price is split even with gst disabled",
			gstEnabled:   false,
			price:        1050,
			expectedBase: 1000,
			expectedGST:  0,
			expectedTot:  1000,
		},
		{
			name:            "the embedded gst survives a room discount unchanged",
			gstEnabled:      true,
			price:           1050,
			discountPercent: 10,
			expectedBase:    1000,
			expectedGST:     50,
			expectedTot:     950,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{
				CheckIn:         checkIn,
				CheckOut:        checkOut,
				PricingType:     model.PricingTypeFinalInclusive,
				FinalRoomPrice:  tt.price,
				GSTEnabled:      tt.gstEnabled,
				DiscountPercent: tt.discountPercent,
				DiscountScope:   model.DiscountScopeRoom,
			}

			err := pricing.Recompute(&booking, nil, nil, pricing.FoodSummary{}, 0)
			assert.NoError(t, err)

			assert.InDelta(t, tt.expectedBase, booking.RoomBase, 0.001)
			assert.InDelta(t, tt.expectedGST, booking.RoomGST, 0.001)
			assert.InDelta(t, tt.expectedTot, booking.RoomTotal, 0.001)
		})
	}
}

func TestRecomputeDiscountScopes(t *testing.T) {
	checkIn, checkOut := stay(2)

	services := []model.AddedService{
		{Name: "Laundry", Price: 100, Days: pq.Int64Array{1, 2}, GSTEnabled: true},
	}

	tests := []struct {
		name           string
		scope          string
		roomDiscount   float64
		extrasDiscount float64
	}{
		{
			name:           "room scope leaves extras untouched",
			scope:          model.DiscountScopeRoom,
			roomDiscount:   200,
			extrasDiscount: 0,
		},
		{
			name:           "extras scope leaves the room untouched",
			scope:          model.DiscountScopeExtras,
			roomDiscount:   0,
			extrasDiscount: 20,
		},
		{
			name:           "total scope discounts each pool independently",
			scope:          model.DiscountScopeTotal,
			roomDiscount:   200,
			extrasDiscount: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{
				CheckIn:         checkIn,
				CheckOut:        checkOut,
				PricingType:     model.PricingTypeCustom,
				FinalRoomPrice:  1000,
				GSTEnabled:      true,
				DiscountPercent: 10,
				DiscountScope:   tt.scope,
			}

			err := pricing.Recompute(&booking, services, nil, pricing.FoodSummary{}, 0)
			assert.NoError(t, err)

			assert.InDelta(t, tt.roomDiscount, booking.RoomDiscount, 0.001)
			assert.InDelta(t, tt.extrasDiscount, booking.ExtrasDiscount, 0.001)
		})
	}
}

func TestRecomputeExtrasGSTPerService(t *testing.T) {
	checkIn, checkOut := stay(2)

	services := []model.AddedService{
		{Name: "Spa", Price: 500, Days: pq.Int64Array{1}, GSTEnabled: true},
		{Name: "Parking", Price: 200, Days: pq.Int64Array{1, 2}, GSTEnabled: false},
	}

	booking := model.Booking{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		PricingType:   model.PricingTypeCustom,
		GSTEnabled:    true,
		DiscountScope: model.DiscountScopeTotal,
	}

	err := pricing.Recompute(&booking, services, nil, pricing.FoodSummary{}, 0)
	assert.NoError(t, err)

	// Only the spa line is taxable: 500 * 5%.
	assert.InDelta(t, 900.0, booking.ExtrasBase, 0.001)
	assert.InDelta(t, 25.0, booking.ExtrasGST, 0.001)
	assert.InDelta(t, 925.0, booking.ExtrasTotal, 0.001)
}

func TestRecomputeRoundOff(t *testing.T) {
	checkIn, checkOut := stay(1)

	booking := model.Booking{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		PricingType:     model.PricingTypeCustom,
		FinalRoomPrice:  999.49,
		GSTEnabled:      false,
		RoundOffEnabled: true,
		DiscountScope:   model.DiscountScopeTotal,
	}

	err := pricing.Recompute(&booking, nil, nil, pricing.FoodSummary{}, 0)
	assert.NoError(t, err)

	assert.InDelta(t, 999.0, booking.GrandTotal, 0.001)
	assert.InDelta(t, -0.49, booking.RoundOff, 0.001)
	assert.Greater(t, booking.RoundOff, -0.5)
	assert.LessOrEqual(t, booking.RoundOff, 0.5)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	checkIn, checkOut := stay(3)

	services := []model.AddedService{
		{Name: "Breakfast", Price: 250, Days: pq.Int64Array{1, 2, 3}, GSTEnabled: true},
	}
	advances := []model.Advance{
		{Amount: 2000},
	}
	food := pricing.FoodSummary{Subtotal: 800, Discount: 80, GST: 36, Total: 756}

	booking := model.Booking{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		PricingType:     model.PricingTypePlan,
		GSTEnabled:      true,
		DiscountPercent: 5,
		DiscountScope:   model.DiscountScopeTotal,
		RoundOffEnabled: true,
	}

	err := pricing.Recompute(&booking, services, advances, food, 3000)
	assert.NoError(t, err)

	first := booking

	err = pricing.Recompute(&booking, services, advances, food, 3000)
	assert.NoError(t, err)

	assert.Equal(t, first, booking)
}

func TestRecomputeBalanceDueNeverNegative(t *testing.T) {
	checkIn, checkOut := stay(1)

	booking := model.Booking{
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		PricingType:    model.PricingTypeCustom,
		FinalRoomPrice: 1000,
		DiscountScope:  model.DiscountScopeTotal,
	}

	advances := []model.Advance{{Amount: 1500}}

	err := pricing.Recompute(&booking, nil, advances, pricing.FoodSummary{}, 0)
	assert.NoError(t, err)

	assert.InDelta(t, 1500.0, booking.AdvancePaid, 0.001)
	assert.InDelta(t, 0.0, booking.BalanceDue, 0.001)
	assert.True(t, booking.FinalPaymentReceived)
	assert.InDelta(t, 1000.0, booking.FinalPaymentAmount, 0.001)
}

func TestRecomputeRejectsInvalidWindow(t *testing.T) {
	checkIn, _ := stay(1)

	tests := []struct {
		name     string
		checkOut time.Time
	}{
		{
			name:     "checkout equal to check-in",
			checkOut: checkIn,
		},
		{
			name:     "checkout before check-in",
			checkOut: checkIn.Add(-time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{
				CheckIn:        checkIn,
				CheckOut:       tt.checkOut,
				PricingType:    model.PricingTypeCustom,
				FinalRoomPrice: 1000,
				DiscountScope:  model.DiscountScopeTotal,
			}

			err := pricing.Recompute(&booking, nil, nil, pricing.FoodSummary{}, 0)
			assert.Error(t, err)
		})
	}
}

func TestRecomputeNegativeRate(t *testing.T) {
	checkIn, checkOut := stay(1)

	booking := model.Booking{
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		PricingType:    model.PricingTypeCustom,
		FinalRoomPrice: -100,
		DiscountScope:  model.DiscountScopeTotal,
	}

	err := pricing.Recompute(&booking, nil, nil, pricing.FoodSummary{}, 0)
	assert.Error(t, err)
}

func TestValidateServiceDays(t *testing.T) {
	tests := []struct {
		name     string
		services []model.AddedService
		nights   int
		wantErr  bool
	}{
		{
			name: "days inside the stay",
			services: []model.AddedService{
				{Name: "Laundry", Days: pq.Int64Array{1, 2}},
			},
			nights:  2,
			wantErr: false,
		},
		{
			name: "empty days rejected",
			services: []model.AddedService{
				{Name: "Laundry", Days: pq.Int64Array{}},
			},
			nights:  2,
			wantErr: true,
		},
		{
			name: "day beyond the stay rejected",
			services: []model.AddedService{
				{Name: "Laundry", Days: pq.Int64Array{3}},
			},
			nights:  2,
			wantErr: true,
		},
		{
			name: "day zero rejected",
			services: []model.AddedService{
				{Name: "Laundry", Days: pq.Int64Array{0}},
			},
			nights:  2,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pricing.ValidateServiceDays(tt.services, tt.nights)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 10.56, pricing.Round2(10.555), 0.0001)
	assert.InDelta(t, 10.55, pricing.Round2(10.554), 0.0001)
	assert.InDelta(t, -2.5, pricing.Round2(-2.5), 0.0001)
}
