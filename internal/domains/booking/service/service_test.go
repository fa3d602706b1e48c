package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"innkeeper/config"
	otelMocks "innkeeper/infras/otel/mocks"
	bookingMocks "innkeeper/internal/domains/booking/mocks"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/pricing"
	"innkeeper/internal/domains/booking/service"
	invoiceMocks "innkeeper/internal/domains/invoice/mocks"
	orderMocks "innkeeper/internal/domains/order/mocks"
	roomMocks "innkeeper/internal/domains/room/mocks"
	roomModel "innkeeper/internal/domains/room/model"
	txMocks "innkeeper/internal/domains/transaction/mocks"
	txModel "innkeeper/internal/domains/transaction/model"
	eventsMocks "innkeeper/internal/events/mocks"
	cacheMocks "innkeeper/shared/cache/mocks"
	"innkeeper/shared/constant"
	"innkeeper/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	repo      *bookingMocks.MockBooking
	rooms     *roomMocks.MockRoom
	invoices  *invoiceMocks.MockInvoice
	food      *orderMocks.MockFoodBilling
	ledger    *txMocks.MockLedger
	publisher *eventsMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
}

func newService(ctrl *gomock.Controller) (service.Booking, *serviceMocks) {
	m := &serviceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		invoices:  invoiceMocks.NewMockInvoice(ctrl),
		food:      orderMocks.NewMockFoodBilling(ctrl),
		ledger:    txMocks.NewMockLedger(ctrl),
		publisher: eventsMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Billing.AdvanceTolerance = 2
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.rooms, m.invoices, m.food, m.ledger, m.publisher, cfg, m.cache, otelMocks.NewOtel())

	return svc, m
}

func testContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyHotelID, "hotel-1")

	return context.WithValue(ctx, constant.ContextKeyUserID, "reception")
}

// allowInvalidation keeps the asynchronous cache invalidation from tripping
// the strict mock expectations.
func allowInvalidation(m *serviceMocks) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func window(nights int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	return checkIn, time.Date(2026, 3, 10+nights, 11, 0, 0, 0, time.UTC)
}

func hotelRoom() roomModel.Room {
	return roomModel.Room{
		ID:       "room-1",
		HotelID:  "hotel-1",
		Number:   "101",
		Type:     "DELUXE",
		BaseRate: 2000,
		Status:   roomModel.StatusOccupied,
	}
}

func TestAddAdvance(t *testing.T) {
	t.Run("an advance above the balance due is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newService(ctrl)

		checkIn, checkOut := window(1)
		booking := model.Booking{
			ID:             "booking-1",
			HotelID:        "hotel-1",
			RoomID:         "room-1",
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			PricingType:    model.PricingTypeCustom,
			FinalRoomPrice: 2725,
			Occupancy:      roomModel.OccupancySingle,
			DiscountScope:  model.DiscountScopeTotal,
			Status:         model.StatusOccupied,
			Version:        1,
		}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.repo.EXPECT().GetServices(gomock.Any(), "booking-1").Return(nil, nil)
		m.repo.EXPECT().GetAdvances(gomock.Any(), "booking-1").Return(nil, nil)
		m.food.EXPECT().Summary(gomock.Any(), gomock.Any()).Return(pricing.FoodSummary{}, nil)
		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelRoom(), nil)

		_, err := svc.AddAdvance(testContext(), "booking-1", dto.AdvanceRequest{Amount: 3000, Mode: "CASH"})
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("the occupancy suffix of the plan code resolves the rate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newService(ctrl)
		allowInvalidation(m)

		checkIn, checkOut := window(2)
		booking := model.Booking{
			ID:              "booking-1",
			HotelID:         "hotel-1",
			RoomID:          "room-1",
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			PlanCode:        "DELUXE_DOUBLE",
			Occupancy:       roomModel.OccupancySingle,
			PricingType:     model.PricingTypePlan,
			GSTEnabled:      true,
			DiscountPercent: 10,
			DiscountScope:   model.DiscountScopeTotal,
			Status:          model.StatusOccupied,
			Version:         1,
		}

		plan := roomModel.Plan{ID: "plan-1", RoomID: "room-1", Code: "DELUXE", SinglePrice: 2000, DoublePrice: 2500}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.repo.EXPECT().GetServices(gomock.Any(), "booking-1").Return(nil, nil)
		m.repo.EXPECT().GetAdvances(gomock.Any(), "booking-1").Return(nil, nil)
		m.food.EXPECT().Summary(gomock.Any(), gomock.Any()).Return(pricing.FoodSummary{}, nil).Times(2)
		m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(hotelRoom(), nil).Times(2)
		m.rooms.EXPECT().GetPlanByCode(gomock.Any(), "room-1", "DELUXE").Return(plan, nil).Times(2)
		m.repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
		m.repo.EXPECT().InsertAdvanceTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.ledger.EXPECT().PostTx(gomock.Any(), gomock.Any(), "hotel-1", txModel.TypeCredit, txModel.SourceAdvance, 2000.0, "booking-1", gomock.Any()).Return(nil)

		res, err := svc.AddAdvance(testContext(), "booking-1", dto.AdvanceRequest{Amount: 2000, Mode: "UPI"})
		assert.NoError(t, err)

		// Double occupancy of the DELUXE plan: 2 nights at 2500.
		assert.InDelta(t, 5000.0, res.Billing.RoomBase, 0.001)
		assert.InDelta(t, 225.0, res.Billing.RoomGST, 0.001)
		assert.InDelta(t, 112.5, res.Billing.CGST, 0.001)
		assert.InDelta(t, 112.5, res.Billing.SGST, 0.001)
		assert.InDelta(t, 4725.0, res.Billing.GrandTotal, 0.001)
		assert.InDelta(t, 2000.0, res.Billing.AdvancePaid, 0.001)
		assert.InDelta(t, 2725.0, res.Billing.BalanceDue, 0.001)
	})
}

func TestMutationsRejectFinalizedBooking(t *testing.T) {
	checkIn, checkOut := window(1)
	finalized := model.Booking{
		ID:             "booking-1",
		HotelID:        "hotel-1",
		RoomID:         "room-1",
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		PricingType:    model.PricingTypeCustom,
		FinalRoomPrice: 1000,
		Status:         model.StatusCheckedOut,
		Version:        2,
	}

	t.Run("room billing cannot change after checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newService(ctrl)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finalized, nil)

		_, err := svc.UpdateRoomBilling(testContext(), "booking-1", dto.UpdateRoomBillingRequest{})
		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("no advance lands on a finalized booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newService(ctrl)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finalized, nil)

		_, err := svc.AddAdvance(testContext(), "booking-1", dto.AdvanceRequest{Amount: 100, Mode: "CASH"})
		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestCreateRejectsOverlappingBooking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)

	checkIn, checkOut := window(2)
	holder := model.Booking{
		ID:       "existing",
		HotelID:  "hotel-1",
		RoomID:   "room-1",
		CheckIn:  checkIn.AddDate(0, 0, 1),
		CheckOut: checkOut.AddDate(0, 0, 1),
		Status:   model.StatusConfirmed,
	}

	room := hotelRoom()
	room.Status = roomModel.StatusAvailable

	m.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
	m.repo.EXPECT().WithSerializableTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
		return fn(nil)
	})
	m.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{holder}, nil)

	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		GuestName: "Asha Rao",
		CheckIn:   checkIn.Format(time.RFC3339),
		CheckOut:  checkOut.Format(time.RFC3339),
	}

	_, err := svc.Create(testContext(), req)
	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestCheckoutSkipsAdvanceWhenSettled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newService(ctrl)
	allowInvalidation(m)

	checkIn, checkOut := window(1)
	booking := model.Booking{
		ID:             "booking-1",
		HotelID:        "hotel-1",
		RoomID:         "room-1",
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		PricingType:    model.PricingTypeCustom,
		FinalRoomPrice: 1000,
		Occupancy:      roomModel.OccupancySingle,
		DiscountScope:  model.DiscountScopeTotal,
		Status:         model.StatusOccupied,
		Version:        1,
	}

	advances := []model.Advance{
		{ID: "adv-1", BookingID: "booking-1", Amount: 1000, Mode: "CASH", PaidAt: checkIn},
	}

	m.repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
		return fn(nil)
	})
	m.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
	m.repo.EXPECT().GetServicesTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil, nil)
	m.repo.EXPECT().GetAdvancesTx(gomock.Any(), gomock.Any(), "booking-1").Return(advances, nil)
	m.food.EXPECT().SummaryTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pricing.FoodSummary{}, nil)
	m.rooms.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(hotelRoom(), nil)
	m.food.EXPECT().OrdersTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	m.repo.EXPECT().SaveTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, tx *sqlx.Tx, saved model.Booking) error {
		assert.Equal(t, model.StatusCheckedOut, saved.Status)
		assert.True(t, saved.FinalPaymentReceived)
		assert.InDelta(t, 1000.0, saved.FinalPaymentAmount, 0.001)

		return nil
	})
	m.invoices.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.food.EXPECT().SettleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.rooms.EXPECT().SetStatusTx(gomock.Any(), gomock.Any(), "room-1", roomModel.StatusAvailable, "reception").Return(nil)
	m.ledger.EXPECT().PostTx(gomock.Any(), gomock.Any(), "hotel-1", txModel.TypeCredit, txModel.SourceRoomCheckout, 1000.0, gomock.Any(), gomock.Any()).Return(nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	// The stay is already fully paid, so the advance sent along with the
	// checkout must never be recorded.
	req := dto.CheckoutRequest{
		Advance:            &dto.AdvanceRequest{Amount: 500, Mode: "CASH"},
		ActualCheckoutTime: "2026-03-11T10:30:00Z",
	}

	res, err := svc.Checkout(testContext(), "booking-1", req)
	assert.NoError(t, err)
	assert.NotEmpty(t, res.InvoiceNumber)
	assert.InDelta(t, 0.0, res.Booking.Billing.BalanceDue, 0.001)
	assert.True(t, res.Booking.Billing.FinalPaymentReceived)
}
