package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/pricing"
	"innkeeper/internal/domains/booking/repository"
	"innkeeper/internal/domains/booking/reservation"
	invoiceModel "innkeeper/internal/domains/invoice/model"
	invoiceRepo "innkeeper/internal/domains/invoice/repository"
	orderService "innkeeper/internal/domains/order/service"
	roomModel "innkeeper/internal/domains/room/model"
	roomRepo "innkeeper/internal/domains/room/repository"
	roomService "innkeeper/internal/domains/room/service"
	txModel "innkeeper/internal/domains/transaction/model"
	txService "innkeeper/internal/domains/transaction/service"
	"innkeeper/internal/events"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const msgRoomAlreadyBooked = "ROOM_ALREADY_BOOKED"

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)

	UpdateRoomBilling(ctx context.Context, id string, req dto.UpdateRoomBillingRequest) (dto.BookingResponse, error)
	UpdateServices(ctx context.Context, id string, req dto.UpdateServicesRequest) (dto.BookingResponse, error)
	UpdateFoodBilling(ctx context.Context, id string, req dto.UpdateFoodBillingRequest) (dto.BookingResponse, error)
	GetFoodBilling(ctx context.Context, id string) (dto.FoodBillingResponse, error)

	AddAdvance(ctx context.Context, id string, req dto.AdvanceRequest) (dto.BookingResponse, error)
	RemoveAdvance(ctx context.Context, id, advanceID string) (dto.BookingResponse, error)

	ExtendStay(ctx context.Context, id string, req dto.ExtendStayRequest) (dto.ExtendStayResponse, error)
	Cancel(ctx context.Context, id string) error
	Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (dto.CheckoutResponse, error)

	Block(ctx context.Context, req dto.BlockRoomRequest) (dto.CreateBookingResponse, error)
	BlockSelected(ctx context.Context, req dto.BlockSelectedRoomsRequest) (dto.BlockRoomsResponse, error)
	Convert(ctx context.Context, id string, req dto.ConvertBookingRequest) (dto.BookingResponse, error)
	Unblock(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	rooms     roomRepo.Room
	invoices  invoiceRepo.Invoice
	food      orderService.FoodBilling
	ledger    txService.Ledger
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Booking, rooms roomRepo.Room, invoices invoiceRepo.Invoice, food orderService.FoodBilling, ledger txService.Ledger, publisher events.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		invoices:  invoices,
		food:      food,
		ledger:    ledger,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func bookingFilter(hotelID, id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
				Table:    model.TableName,
			},
		},
	}
}

// holdersFilter selects every booking that currently holds the room.
func holdersFilter(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    model.ActiveStatuses,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)

	booking, err := s.repo.Get(ctx, bookingFilter(hotelID, id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) hotelRoom(ctx context.Context, hotelID, roomID string) (roomModel.Room, error) {
	room, err := s.rooms.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || room.HotelID != hotelID {
		return room, failure.NotFound("room not found") //nolint:wrapcheck
	}

	return room, nil
}

// planRate resolves the nightly rate for plan-priced bookings. A booking
// without a matching plan falls back to the room's base rate; custom and
// final-inclusive bookings carry their own price and resolve to zero here.
func (s *serviceImpl) planRate(ctx context.Context, booking model.Booking, room roomModel.Room) (float64, error) {
	if booking.PricingType != model.PricingTypePlan {
		return 0, nil
	}

	if booking.PlanCode != constant.Empty {
		// Plan codes arrive with the occupancy baked in, e.g. "DELUXE_DOUBLE";
		// the suffix wins over the booking's own occupancy field.
		code, occupancy := roomModel.SplitPlanCode(booking.PlanCode, booking.Occupancy)

		plan, err := s.rooms.GetPlanByCode(ctx, booking.RoomID, code)
		if err != nil {
			log.Error().Err(err).Msg("failed to get room plan")

			return 0, fmt.Errorf("failed to get room plan: %w", err)
		}

		if plan.ID != constant.Empty {
			return plan.RateFor(occupancy), nil
		}
	}

	return room.BaseRate, nil
}

func (s *serviceImpl) recompute(ctx context.Context, booking *model.Booking, services []model.AddedService, advances []model.Advance, food pricing.FoodSummary) error {
	room, err := s.hotelRoom(ctx, booking.HotelID, booking.RoomID)
	if err != nil {
		return err
	}

	rate, err := s.planRate(ctx, *booking, room)
	if err != nil {
		return err
	}

	return pricing.Recompute(booking, services, advances, food, rate) //nolint:wrapcheck
}

// aggregate loads everything the pricing engine needs and recomputes the
// derived fields, so no caller ever sees stale billing figures.
func (s *serviceImpl) aggregate(ctx context.Context, booking *model.Booking) ([]model.AddedService, []model.Advance, error) {
	services, err := s.repo.GetServices(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return nil, nil, fmt.Errorf("failed to get booking services: %w", err)
	}

	advances, err := s.repo.GetAdvances(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking advances")

		return nil, nil, fmt.Errorf("failed to get booking advances: %w", err)
	}

	food, err := s.food.Summary(ctx, *booking)
	if err != nil {
		return nil, nil, err
	}

	if err := s.recompute(ctx, booking, services, advances, food); err != nil {
		return nil, nil, err
	}

	return services, advances, nil
}

func guardMutable(booking model.Booking) error {
	if model.IsTerminal(booking.Status) {
		return failure.Forbidden("booking is finalized and can no longer be modified") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if bookingID != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, bookingID)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, roomService.CacheAvailableRooms)
	}()
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	s.publisher.Publish(ctx, events.BookingEvent{
		Type:       eventType,
		HotelID:    booking.HotelID,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		Status:     booking.Status,
		GrandTotal: booking.GrandTotal,
	})
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(hotelID, user)
	if err != nil {
		return res, failure.BadRequestFromString("check_in and check_out must be valid RFC3339 timestamps") //nolint:wrapcheck
	}

	if !booking.CheckOut.After(booking.CheckIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	room, err := s.hotelRoom(ctx, hotelID, booking.RoomID)
	if err != nil {
		return res, err
	}

	if room.Status == roomModel.StatusMaintenance {
		return res, failure.Conflict("room is under maintenance") //nolint:wrapcheck
	}

	services := make([]model.AddedService, len(req.Services))
	for i, svc := range req.Services {
		services[i] = svc.ToModel(booking.ID, user)
	}

	var advances []model.Advance
	if req.Advance != nil {
		advances = append(advances, req.Advance.ToModel(booking.ID, user))
	}

	rate, err := s.planRate(ctx, booking, room)
	if err != nil {
		return res, err
	}

	if err = pricing.Recompute(&booking, services, advances, pricing.FoodSummary{}, rate); err != nil {
		return res, err
	}

	if req.Advance != nil && req.Advance.Amount > booking.GrandTotal+s.cfg.Billing.AdvanceTolerance {
		return res, failure.BadRequestFromString("advance exceeds the booking total") //nolint:wrapcheck
	}

	err = s.repo.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		existing, txErr := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, holdersFilter(booking.RoomID))
		if txErr != nil {
			return txErr
		}

		if conflict := reservation.FindConflict(existing, booking.CheckIn, booking.CheckOut, constant.Empty); conflict != nil {
			return failure.Conflict(msgRoomAlreadyBooked)
		}

		if txErr = s.repo.InsertTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		if len(services) > 0 {
			if txErr = s.repo.ReplaceServicesTx(ctx, tx, booking.ID, services); txErr != nil {
				return txErr
			}
		}

		for _, adv := range advances {
			if txErr = s.repo.InsertAdvanceTx(ctx, tx, adv); txErr != nil {
				return txErr
			}

			if txErr = s.ledger.PostTx(ctx, tx, hotelID, txModel.TypeCredit, txModel.SourceAdvance, adv.Amount, booking.ID, "advance received"); txErr != nil {
				return txErr
			}
		}

		return s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusOccupied, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, err
	}

	s.publish(ctx, events.TypeBookingCreated, booking)
	s.invalidate(ctx, constant.Empty)

	res.ID = booking.ID

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldHotelID,
		Operator: gDto.FilterOperatorEq,
		Value:    hotelID,
		Table:    model.TableName,
	})

	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	res.FromModel(booking, services, advances)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateRoomBilling(ctx context.Context, id string, req dto.UpdateRoomBillingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateRoomBilling")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	req.Apply(&booking)

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	if err = s.repo.Save(ctx, booking); err != nil {
		return res, err
	}

	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) UpdateServices(ctx context.Context, id string, req dto.UpdateServicesRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	services := make([]model.AddedService, len(req.Services))
	for i, svc := range req.Services {
		services[i] = svc.ToModel(booking.ID, user)
	}

	advances, err := s.repo.GetAdvances(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking advances")

		return res, fmt.Errorf("failed to get booking advances: %w", err)
	}

	food, err := s.food.Summary(ctx, booking)
	if err != nil {
		return res, err
	}

	if err = s.recompute(ctx, &booking, services, advances, food); err != nil {
		return res, err
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.ReplaceServicesTx(ctx, tx, booking.ID, services); txErr != nil {
			return txErr
		}

		return s.repo.SaveTx(ctx, tx, booking)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking services")

		return res, err
	}

	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) UpdateFoodBilling(ctx context.Context, id string, req dto.UpdateFoodBillingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateFoodBilling")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	req.Apply(&booking)

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	if err = s.repo.Save(ctx, booking); err != nil {
		return res, err
	}

	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) GetFoodBilling(ctx context.Context, id string) (res dto.FoodBillingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetFoodBilling")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	summary, err := s.food.Summary(ctx, booking)
	if err != nil {
		return res, err
	}

	res.BookingID = booking.ID
	res.Summary = summary

	return res, nil
}

func (s *serviceImpl) AddAdvance(ctx context.Context, id string, req dto.AdvanceRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddAdvance")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	if req.Amount > booking.BalanceDue+s.cfg.Billing.AdvanceTolerance {
		return res, failure.BadRequestFromString("advance exceeds the balance due") //nolint:wrapcheck
	}

	advance := req.ToModel(booking.ID, user)
	advances = append(advances, advance)

	food, err := s.food.Summary(ctx, booking)
	if err != nil {
		return res, err
	}

	if err = s.recompute(ctx, &booking, services, advances, food); err != nil {
		return res, err
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.InsertAdvanceTx(ctx, tx, advance); txErr != nil {
			return txErr
		}

		if txErr := s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		return s.ledger.PostTx(ctx, tx, booking.HotelID, txModel.TypeCredit, txModel.SourceAdvance, advance.Amount, booking.ID, "advance received")
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to add advance")

		return res, err
	}

	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) RemoveAdvance(ctx context.Context, id, advanceID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveAdvance")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	var removed *model.Advance

	remaining := make([]model.Advance, 0, len(advances))

	for i := range advances {
		if advances[i].ID == advanceID {
			removed = &advances[i]

			continue
		}

		remaining = append(remaining, advances[i])
	}

	if removed == nil {
		return res, failure.NotFound("advance not found") //nolint:wrapcheck
	}

	food, err := s.food.Summary(ctx, booking)
	if err != nil {
		return res, err
	}

	if err = s.recompute(ctx, &booking, services, remaining, food); err != nil {
		return res, err
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.DeleteAdvanceTx(ctx, tx, booking.ID, advanceID); txErr != nil {
			return txErr
		}

		if txErr := s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		return s.ledger.PostTx(ctx, tx, booking.HotelID, txModel.TypeDebit, txModel.SourceRefund, removed.Amount, booking.ID, "advance removed")
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to remove advance")

		return res, err
	}

	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, remaining)

	return res, nil
}

func (s *serviceImpl) ExtendStay(ctx context.Context, id string, req dto.ExtendStayRequest) (res dto.ExtendStayResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExtendStay")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if err = guardMutable(booking); err != nil {
		return res, err
	}

	newCheckOut, err := time.Parse(time.RFC3339, req.CheckOut)
	if err != nil {
		return res, failure.BadRequestFromString("check_out must be a valid RFC3339 timestamp") //nolint:wrapcheck
	}

	if !newCheckOut.After(booking.CheckIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	others, err := s.repo.GetAll(ctx, gDto.QueryParams{}, holdersFilter(booking.RoomID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room bookings")

		return res, fmt.Errorf("failed to get room bookings: %w", err)
	}

	outcome, next := reservation.ClassifyExtension(others, booking.ID, booking.CheckIn, newCheckOut)
	if outcome == reservation.ExtensionConflict {
		return res, failure.Conflict(msgRoomAlreadyBooked) //nolint:wrapcheck
	}

	booking.CheckOut = newCheckOut

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	if err = s.repo.Save(ctx, booking); err != nil {
		return res, err
	}

	s.publish(ctx, events.TypeBookingExtended, booking)
	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.Booking.FromModel(booking, services, advances)

	if outcome == reservation.ExtensionSameDayWarning {
		res.Warning = true
		res.Message = fmt.Sprintf("next booking checks in the same day at %s", timezone.Format(next.CheckIn, time.RFC3339))
	}

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return failure.Conflict(fmt.Sprintf("cannot cancel a %s booking", booking.Status)) //nolint:wrapcheck
	}

	previous := booking.Status
	booking.Status = model.StatusCancelled

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		if previous == model.StatusOccupied || previous == model.StatusBlocked {
			return s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusAvailable, user)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return err
	}

	s.publish(ctx, events.TypeBookingCancelled, booking)
	s.invalidate(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	actualCheckout := timezone.Now()

	if req.ActualCheckoutTime != constant.Empty {
		actualCheckout, err = time.Parse(time.RFC3339, req.ActualCheckoutTime)
		if err != nil {
			return res, failure.BadRequestFromString("actual_checkout_time must be a valid RFC3339 timestamp") //nolint:wrapcheck
		}
	}

	var (
		booking  model.Booking
		invoice  invoiceModel.Invoice
		services []model.AddedService
		advances []model.Advance
	)

	// Everything settles in one transaction: billing freeze, invoice cut, food
	// settlement, room release and the ledger entry all commit or none do.
	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error

		booking, txErr = s.repo.GetTx(ctx, tx, bookingFilter(hotelID, id))
		if txErr != nil {
			return txErr
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found")
		}

		if !model.CanTransition(booking.Status, model.StatusCheckedOut) {
			return failure.Conflict(fmt.Sprintf("cannot check out a %s booking", booking.Status))
		}

		services, txErr = s.repo.GetServicesTx(ctx, tx, booking.ID)
		if txErr != nil {
			return txErr
		}

		advances, txErr = s.repo.GetAdvancesTx(ctx, tx, booking.ID)
		if txErr != nil {
			return txErr
		}

		food, txErr := s.food.SummaryTx(ctx, tx, booking)
		if txErr != nil {
			return txErr
		}

		room, txErr := s.rooms.GetTx(ctx, tx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
		if txErr != nil {
			return txErr
		}

		if room.ID == constant.Empty || room.HotelID != hotelID {
			return failure.NotFound("room not found")
		}

		rate, txErr := s.planRate(ctx, booking, room)
		if txErr != nil {
			return txErr
		}

		if txErr = pricing.Recompute(&booking, services, advances, food, rate); txErr != nil {
			return txErr
		}

		// A settled stay takes no terminal advance even when one is sent along.
		if req.Advance != nil && booking.BalanceDue > 0 {
			if req.Advance.Amount > booking.BalanceDue+s.cfg.Billing.AdvanceTolerance {
				return failure.BadRequestFromString("advance exceeds the balance due")
			}

			advance := req.Advance.ToModel(booking.ID, user)

			if txErr = s.repo.InsertAdvanceTx(ctx, tx, advance); txErr != nil {
				return txErr
			}

			if txErr = s.ledger.PostTx(ctx, tx, hotelID, txModel.TypeCredit, txModel.SourceAdvance, advance.Amount, booking.ID, "advance received at checkout"); txErr != nil {
				return txErr
			}

			advances = append(advances, advance)

			if txErr = pricing.Recompute(&booking, services, advances, food, rate); txErr != nil {
				return txErr
			}
		}

		orders, txErr := s.food.OrdersTx(ctx, tx, booking)
		if txErr != nil {
			return txErr
		}

		booking.Status = model.StatusCheckedOut
		booking.ActualCheckoutTime = &actualCheckout

		if txErr = s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		invoice, txErr = invoiceModel.FromCheckout(booking, room.Number, services, advances, orders, actualCheckout, user)
		if txErr != nil {
			return txErr
		}

		if txErr = s.invoices.InsertTx(ctx, tx, invoice); txErr != nil {
			return txErr
		}

		if txErr = s.food.SettleTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		if txErr = s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusAvailable, user); txErr != nil {
			return txErr
		}

		return s.ledger.PostTx(ctx, tx, hotelID, txModel.TypeCredit, txModel.SourceRoomCheckout, booking.GrandTotal, invoice.ID, "room checkout settlement")
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check out booking")

		return res, err
	}

	s.publish(ctx, events.TypeBookingCheckedOut, booking)
	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.InvoiceID = invoice.ID
	res.InvoiceNumber = invoice.InvoiceNumber
	res.Booking.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) Block(ctx context.Context, req dto.BlockRoomRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BlockRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(hotelID, req.RoomID, user)
	if err != nil {
		return res, failure.BadRequestFromString("check_in and check_out must be valid RFC3339 timestamps") //nolint:wrapcheck
	}

	if !booking.CheckOut.After(booking.CheckIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	if _, err = s.hotelRoom(ctx, hotelID, booking.RoomID); err != nil {
		return res, err
	}

	err = s.repo.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		return s.blockTx(ctx, tx, booking, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to block room")

		return res, err
	}

	s.publish(ctx, events.TypeRoomBlocked, booking)
	s.invalidate(ctx, constant.Empty)

	res.ID = booking.ID

	return res, nil
}

func (s *serviceImpl) blockTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, user string) error {
	existing, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, holdersFilter(booking.RoomID))
	if err != nil {
		return err
	}

	if conflict := reservation.FindConflict(existing, booking.CheckIn, booking.CheckOut, constant.Empty); conflict != nil {
		return failure.Conflict(msgRoomAlreadyBooked)
	}

	if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
		return err
	}

	return s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusBlocked, user)
}

func (s *serviceImpl) BlockSelected(ctx context.Context, req dto.BlockSelectedRoomsRequest) (res dto.BlockRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BlockSelectedRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	blocks := make([]model.Booking, 0, len(req.RoomIDs))

	for _, roomID := range req.RoomIDs {
		blockReq := dto.BlockRoomRequest{RoomID: roomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut}

		booking, reqErr := blockReq.ToModel(hotelID, roomID, user)
		if reqErr != nil {
			return res, failure.BadRequestFromString("check_in and check_out must be valid RFC3339 timestamps") //nolint:wrapcheck
		}

		if !booking.CheckOut.After(booking.CheckIn) {
			return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
		}

		if _, err = s.hotelRoom(ctx, hotelID, roomID); err != nil {
			return res, err
		}

		blocks = append(blocks, booking)
	}

	// All rooms block together or not at all.
	err = s.repo.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		for _, booking := range blocks {
			if txErr := s.blockTx(ctx, tx, booking, user); txErr != nil {
				return txErr
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to block selected rooms")

		return res, err
	}

	res.BookingIDs = make([]string, len(blocks))
	for i, booking := range blocks {
		s.publish(ctx, events.TypeRoomBlocked, booking)

		res.BookingIDs[i] = booking.ID
	}

	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) Convert(ctx context.Context, id string, req dto.ConvertBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConvertBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status != model.StatusBlocked {
		return res, failure.Conflict("only a blocked room can be converted into a stay") //nolint:wrapcheck
	}

	req.Apply(&booking)

	services, advances, err := s.aggregate(ctx, &booking)
	if err != nil {
		return res, err
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		return s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusOccupied, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to convert blocked room")

		return res, err
	}

	s.publish(ctx, events.TypeBookingCreated, booking)
	s.invalidate(ctx, booking.ID)

	booking.Version++
	res.FromModel(booking, services, advances)

	return res, nil
}

func (s *serviceImpl) Unblock(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UnblockRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusBlocked {
		return failure.Conflict("booking is not a room block") //nolint:wrapcheck
	}

	booking.Status = model.StatusCancelled

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if txErr := s.repo.SaveTx(ctx, tx, booking); txErr != nil {
			return txErr
		}

		return s.rooms.SetStatusTx(ctx, tx, booking.RoomID, roomModel.StatusAvailable, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to unblock room")

		return err
	}

	s.publish(ctx, events.TypeRoomUnblocked, booking)
	s.invalidate(ctx, booking.ID)

	return nil
}
