package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeeper/config"
	"innkeeper/infras/otel"
	bookingModel "innkeeper/internal/domains/booking/model"
	bookingRepo "innkeeper/internal/domains/booking/repository"
	"innkeeper/internal/domains/booking/reservation"
	invoiceModel "innkeeper/internal/domains/invoice/model"
	invoiceRepo "innkeeper/internal/domains/invoice/repository"
	"innkeeper/internal/domains/room/model"
	"innkeeper/internal/domains/room/model/dto"
	"innkeeper/internal/domains/room/repository"
	"innkeeper/shared"
	"innkeeper/shared/cache"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"

	"github.com/rs/zerolog/log"
)

// Cache key prefixes. Exported so booking mutations can invalidate the
// availability listings they affect.
const (
	CacheAvailableRooms = "room:available"
	CachePlans          = "room:plans"
	cacheInvoices       = "room:invoices"
)

type Room interface {
	GetAvailable(ctx context.Context, req dto.AvailabilityQuery) (dto.GetAvailableRoomsResponse, error)
	GetPlans(ctx context.Context, roomID string) (dto.GetRoomPlansResponse, error)
	GetInvoices(ctx context.Context, roomID string, params gDto.QueryParams) (dto.GetRoomInvoicesResponse, error)
}

type serviceImpl struct {
	repo     repository.Room
	bookings bookingRepo.Booking
	invoices invoiceRepo.Invoice
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Room, bookings bookingRepo.Booking, invoices invoiceRepo.Invoice, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		invoices: invoices,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) GetAvailable(ctx context.Context, req dto.AvailabilityQuery) (res dto.GetAvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)

	checkIn, err := time.Parse(time.RFC3339, req.CheckIn)
	if err != nil {
		return res, failure.BadRequestFromString("check_in must be a valid RFC3339 timestamp") //nolint:wrapcheck
	}

	checkOut, err := time.Parse(time.RFC3339, req.CheckOut)
	if err != nil {
		return res, failure.BadRequestFromString("check_out must be a valid RFC3339 timestamp") //nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKeyWithQuery(CacheAvailableRooms, hotelID, req)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for available rooms")

		return res, nil
	}

	rooms, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldNumber, SortDir: gDto.SortDirAsc}, roomPoolFilter(hotelID, req.Type))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, holdingBookingsFilter(hotelID, checkIn, checkOut))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for availability")

		return res, fmt.Errorf("failed to get bookings for availability: %w", err)
	}

	byRoom := make(map[string][]bookingModel.Booking, len(rooms))
	for _, booking := range bookings {
		byRoom[booking.RoomID] = append(byRoom[booking.RoomID], booking)
	}

	res.Rooms = make([]dto.AvailableRoomResponse, 0, len(rooms))

	for _, room := range rooms {
		held := byRoom[room.ID]

		if reservation.FindConflict(held, checkIn, checkOut, constant.Empty) != nil {
			continue
		}

		var available dto.AvailableRoomResponse
		available.FromModel(room, sameDayCheckout(held, checkIn))

		res.Rooms = append(res.Rooms, available)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save available rooms to cache")
		}
	}()

	return res, nil
}

// roomPoolFilter selects every bookable room of the hotel, so rooms under
// maintenance never appear in availability results.
func roomPoolFilter(hotelID, roomType string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldHotelID,
			Operator: gDto.FilterOperatorEq,
			Value:    hotelID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorNotEq,
			Value:    model.StatusMaintenance,
			Table:    model.TableName,
		},
	}

	if roomType != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}

// holdingBookingsFilter fetches a superset of the bookings that can touch the
// window; the exact half-open overlap check happens in memory.
func holdingBookingsFilter(hotelID string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    bookingModel.ActiveStatuses,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorLessEq,
				Value:    checkOut,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldCheckOut,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    checkIn,
				Table:    bookingModel.TableName,
			},
		},
	}
}

// sameDayCheckout finds a stay that ends on the requested check-in day at or
// before the requested check-in, so the desk knows the room frees up that day.
func sameDayCheckout(held []bookingModel.Booking, checkIn time.Time) *time.Time {
	for i := range held {
		b := &held[i]

		if b.CheckOut.After(checkIn) {
			continue
		}

		if reservation.SameDay(b.CheckOut, checkIn) {
			return &b.CheckOut
		}
	}

	return nil
}

func (s *serviceImpl) GetPlans(ctx context.Context, roomID string) (res dto.GetRoomPlansResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPlans")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(CachePlans, roomID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room plans")

		return res, nil
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	plans, err := s.repo.GetPlans(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room plans")

		return res, fmt.Errorf("failed to get room plans: %w", err)
	}

	res.FromModels(roomID, plans)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room plans to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetInvoices(ctx context.Context, roomID string, params gDto.QueryParams) (res dto.GetRoomInvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetInvoices")
	defer scope.End()
	defer scope.TraceIfError(err)

	hotelID, _ := ctx.Value(constant.ContextKeyHotelID).(string)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheInvoices, hotelID, roomID, params)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room invoices")

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    invoiceModel.FieldHotelID,
				Operator: gDto.FilterOperatorEq,
				Value:    hotelID,
				Table:    invoiceModel.TableName,
			},
			gDto.Filter{
				Field:    invoiceModel.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    invoiceModel.TableName,
			},
		},
	}

	total, err := s.invoices.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count room invoices")

		return res, fmt.Errorf("failed to count room invoices: %w", err)
	}

	models, err := s.invoices.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room invoices")

		return res, fmt.Errorf("failed to get room invoices: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room invoices to cache")
		}
	}()

	return res, nil
}
