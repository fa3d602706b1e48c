package dto_test

import (
	"testing"
	"time"

	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	gModel "innkeeper/shared/model"
	"innkeeper/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		GuestName: "Asha Verma",
		CheckIn:   "2026-03-10T12:00:00Z",
		CheckOut:  "2026-03-12T11:00:00Z",
	}

	booking, err := req.ToModel("hotel-1", "desk-user")
	assert.NoError(t, err)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, "hotel-1", booking.HotelID)
	assert.Equal(t, req.RoomID, booking.RoomID)
	assert.Equal(t, req.GuestName, booking.GuestName)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), booking.CheckIn.UTC())
	assert.Equal(t, time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC), booking.CheckOut.UTC())

	// Unspecified pricing settings fall back to their defaults.
	assert.Equal(t, model.PricingTypePlan, booking.PricingType)
	assert.Equal(t, "SINGLE", booking.Occupancy)
	assert.Equal(t, model.DiscountScopeTotal, booking.DiscountScope)
	assert.True(t, booking.GSTEnabled)
	assert.True(t, booking.FoodGSTEnabled)

	assert.Equal(t, model.StatusOccupied, booking.Status)
	assert.Equal(t, 1, booking.Version)
	assert.Equal(t, "desk-user", booking.CreatedBy)
	assert.Equal(t, "desk-user", booking.ModifiedBy)
}

func TestCreateBookingRequest_ToModel_InvalidWindow(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		GuestName: "Asha Verma",
		CheckIn:   "not-a-timestamp",
		CheckOut:  "2026-03-12T11:00:00Z",
	}

	_, err := req.ToModel("hotel-1", "desk-user")
	assert.Error(t, err)
}

func TestUpdateRoomBillingRequest_Apply(t *testing.T) {
	price := 1800.0
	pricingType := model.PricingTypeCustom
	gst := false

	req := dto.UpdateRoomBillingRequest{
		PricingType:    &pricingType,
		FinalRoomPrice: &price,
		GSTEnabled:     &gst,
	}

	booking := model.Booking{
		PlanCode:        "EP",
		Occupancy:       "DOUBLE",
		PricingType:     model.PricingTypePlan,
		GSTEnabled:      true,
		DiscountPercent: 10,
	}

	req.Apply(&booking)

	assert.Equal(t, model.PricingTypeCustom, booking.PricingType)
	assert.InDelta(t, 1800.0, booking.FinalRoomPrice, 0.001)
	assert.False(t, booking.GSTEnabled)

	// Fields the request omits stay as they were.
	assert.Equal(t, "EP", booking.PlanCode)
	assert.Equal(t, "DOUBLE", booking.Occupancy)
	assert.InDelta(t, 10.0, booking.DiscountPercent, 0.001)
}

func TestBlockRoomRequest_ToModel(t *testing.T) {
	req := dto.BlockRoomRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-03-10T00:00:00Z",
		CheckOut: "2026-03-12T00:00:00Z",
		Note:     "deep cleaning",
	}

	booking, err := req.ToModel("hotel-1", req.RoomID, "desk-user")
	assert.NoError(t, err)

	assert.Equal(t, model.StatusBlocked, booking.Status)
	assert.Equal(t, "BLOCKED: deep cleaning", booking.GuestName)
	assert.Equal(t, model.PricingTypeCustom, booking.PricingType)
	assert.Zero(t, booking.FinalRoomPrice)
	assert.Equal(t, 1, booking.Version)
}

func TestConvertBookingRequest_Apply(t *testing.T) {
	blocked := model.Booking{
		ID:        "block-1",
		GuestName: "BLOCKED",
		Status:    model.StatusBlocked,
	}

	req := dto.ConvertBookingRequest{
		GuestName: "Rahul Nair",
		PlanCode:  "CP",
	}

	req.Apply(&blocked)

	assert.Equal(t, "Rahul Nair", blocked.GuestName)
	assert.Equal(t, "CP", blocked.PlanCode)
	assert.Equal(t, model.StatusOccupied, blocked.Status)
	assert.Equal(t, model.PricingTypePlan, blocked.PricingType)
	assert.Equal(t, "SINGLE", blocked.Occupancy)
	assert.Equal(t, model.DiscountScopeTotal, blocked.DiscountScope)
	assert.True(t, blocked.GSTEnabled)
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	checkout := time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC)

	booking := model.Booking{
		ID:                 "booking-1",
		RoomID:             "room-1",
		GuestName:          "Asha Verma",
		CheckIn:            time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		CheckOut:           time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC),
		Occupancy:          "SINGLE",
		PricingType:        model.PricingTypePlan,
		GrandTotal:         4725,
		BalanceDue:         4725,
		Status:             model.StatusCheckedOut,
		ActualCheckoutTime: &checkout,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "desk-user",
			ModifiedBy: "desk-user",
		},
	}

	services := []model.AddedService{
		{ID: "svc-1", Name: "Laundry", Price: 100},
	}
	advances := []model.Advance{
		{ID: "adv-1", Amount: 2000, Mode: "CASH", PaidAt: now},
	}

	var response dto.BookingResponse
	response.FromModel(booking, services, advances)

	assert.Equal(t, booking.ID, response.ID)
	assert.Equal(t, booking.GuestName, response.GuestName)
	assert.Equal(t, booking.Status, response.Status)
	assert.NotEmpty(t, response.ActualCheckoutTime)
	assert.InDelta(t, 4725.0, response.Billing.GrandTotal, 0.001)
	assert.Len(t, response.Services, 1)
	assert.Equal(t, "svc-1", response.Services[0].ID)
	assert.Len(t, response.Advances, 1)
	assert.InDelta(t, 2000.0, response.Advances[0].Amount, 0.001)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	models := []model.Booking{
		{ID: "booking-1"},
		{ID: "booking-2"},
	}

	var response dto.GetBookingsResponse
	response.FromModels(models, 15, 10)

	assert.Equal(t, 15, response.TotalData)
	assert.Equal(t, 2, response.TotalPage)
	assert.Len(t, response.Bookings, 2)
	assert.Equal(t, "booking-1", response.Bookings[0].ID)
}
