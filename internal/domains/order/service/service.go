package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"innkeeper/infras/otel"
	bookingModel "innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/pricing"
	"innkeeper/internal/domains/order/model"
	"innkeeper/internal/domains/order/repository"
	"innkeeper/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// FoodBilling aggregates the food orders a stay is liable for into the
// summary the pricing engine consumes.
type FoodBilling interface {
	Summary(ctx context.Context, booking bookingModel.Booking) (pricing.FoodSummary, error)
	SummaryTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) (pricing.FoodSummary, error)
	OrdersTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) ([]model.Order, error)
	SettleTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) error
}

type serviceImpl struct {
	repo repository.Order
	otel otel.Otel
}

func New(repo repository.Order, otel otel.Otel) FoodBilling {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Summary(ctx context.Context, booking bookingModel.Booking) (res pricing.FoodSummary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FoodSummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	orders, err := s.repo.StayOrders(ctx, booking.HotelID, booking.RoomID, booking.ID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to load stay orders")

		return res, fmt.Errorf("failed to load stay orders: %w", err)
	}

	return Summarize(orders, booking.FoodDiscountPercent, booking.FoodGSTEnabled), nil
}

func (s *serviceImpl) SummaryTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) (res pricing.FoodSummary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FoodSummaryTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	orders, err := s.repo.StayOrdersTx(ctx, tx, booking.HotelID, booking.RoomID, booking.ID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to load stay orders")

		return res, fmt.Errorf("failed to load stay orders: %w", err)
	}

	return Summarize(orders, booking.FoodDiscountPercent, booking.FoodGSTEnabled), nil
}

func (s *serviceImpl) OrdersTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) ([]model.Order, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FoodOrdersTx")
	defer scope.End()

	return s.repo.StayOrdersTx(ctx, tx, booking.HotelID, booking.RoomID, booking.ID, booking.CheckIn, booking.CheckOut) //nolint:wrapcheck
}

func (s *serviceImpl) SettleTx(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FoodSettleTx")
	defer scope.End()

	return s.repo.SettleStayOrdersTx(ctx, tx, booking.HotelID, booking.RoomID, booking.ID, booking.CheckIn, booking.CheckOut) //nolint:wrapcheck
}

// Summarize folds order subtotals into a food bill: discount first, then GST
// on the discounted amount.
func Summarize(orders []model.Order, discountPercent float64, gstEnabled bool) pricing.FoodSummary {
	if discountPercent < 0 {
		discountPercent = 0
	}

	if discountPercent > 100 {
		discountPercent = 100
	}

	subtotal := 0.0
	for _, order := range orders {
		subtotal += order.Subtotal
	}

	subtotal = pricing.Round2(subtotal)
	discount := pricing.Round2(subtotal * discountPercent / 100)
	net := pricing.Round2(subtotal - discount)

	gst := 0.0
	if gstEnabled {
		gst = pricing.Round2(net * pricing.GSTRate)
	}

	return pricing.FoodSummary{
		Subtotal: subtotal,
		Discount: discount,
		GST:      gst,
		Total:    pricing.Round2(net + gst),
	}
}
