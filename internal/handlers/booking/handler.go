package booking

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/booking/model"
	"innkeeper/internal/domains/booking/model/dto"
	"innkeeper/internal/domains/booking/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)

		routerGroup.Patch("/{id}/room-billing", handler.UpdateRoomBilling)
		routerGroup.Patch("/{id}/services", handler.UpdateServices)
		routerGroup.Patch("/{id}/food-billing", handler.UpdateFoodBilling)
		routerGroup.Get("/{id}/food-billing", handler.GetFoodBilling)

		routerGroup.Post("/{id}/advances", handler.AddAdvance)
		routerGroup.Delete("/{id}/advances/{advanceId}", handler.RemoveAdvance)

		routerGroup.Post("/{id}/extend-stay", handler.ExtendStay)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/checkout", handler.Checkout)

		routerGroup.Post("/block", handler.BlockRoom)
		routerGroup.Post("/block-selected", handler.BlockSelectedRooms)
		routerGroup.Patch("/{id}/convert", handler.ConvertBooking)
		routerGroup.Patch("/unblock/{id}", handler.UnblockRoom)
	})
}

// CreateBooking admits a new stay into a room.
// @Summary Create a new booking
// @Description Admit a stay, with optional extras and an opening advance. The room must be free for the whole window.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Envelope "Booking created"
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Room already booked"
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings lists the bookings of the hotel.
// @Summary Get all bookings
// @Description Retrieve bookings with optional room and status filtering plus pagination.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if roomID := request.URL.Query().Get(model.FieldRoomID); roomID != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	if status := request.URL.Query().Get(model.FieldStatus); status != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookingByID returns one booking with live billing figures.
// @Summary Get a booking
// @Description Retrieve a booking with its services, advances and recomputed billing.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(request, "id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateRoomBilling patches the pricing configuration of a stay.
// @Summary Update room billing
// @Description Change plan, occupancy, pricing type, discount or round-off. Finalized bookings are rejected.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateRoomBillingRequest true "Room billing patch"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope "Booking finalized"
// @Router /v1/bookings/{id}/room-billing [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoomBilling(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoomBilling")
	defer scope.End()

	req := dto.UpdateRoomBillingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UpdateRoomBilling(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room billing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateServices replaces the extras charged to a stay.
// @Summary Update booking services
// @Description Replace the full set of extra services on a stay.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateServicesRequest true "Services"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope "Booking finalized"
// @Router /v1/bookings/{id}/services [patch]
// @Security BearerAuth
func (handler *Handler) UpdateServices(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateServices")
	defer scope.End()

	req := dto.UpdateServicesRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UpdateServices(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking services")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateFoodBilling changes the food discount and GST settings of a stay.
// @Summary Update food billing
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateFoodBillingRequest true "Food billing patch"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope "Booking finalized"
// @Router /v1/bookings/{id}/food-billing [patch]
// @Security BearerAuth
func (handler *Handler) UpdateFoodBilling(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFoodBilling")
	defer scope.End()

	req := dto.UpdateFoodBillingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UpdateFoodBilling(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update food billing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetFoodBilling summarizes the food orders a stay is liable for.
// @Summary Get food billing summary
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /v1/bookings/{id}/food-billing [get]
// @Security BearerAuth
func (handler *Handler) GetFoodBilling(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFoodBilling")
	defer scope.End()

	res, err := handler.service.GetFoodBilling(ctx, chi.URLParam(request, "id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get food billing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// AddAdvance records an advance payment against a stay.
// @Summary Add an advance payment
// @Description Record an advance. Payments beyond the balance due (plus a small tolerance) are rejected.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AdvanceRequest true "Advance"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope "Advance exceeds balance due"
// @Router /v1/bookings/{id}/advances [post]
// @Security BearerAuth
func (handler *Handler) AddAdvance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddAdvance")
	defer scope.End()

	req := dto.AdvanceRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.AddAdvance(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add advance")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// RemoveAdvance deletes a mistaken advance entry.
// @Summary Remove an advance payment
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param advanceId path string true "Advance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /v1/bookings/{id}/advances/{advanceId} [delete]
// @Security BearerAuth
func (handler *Handler) RemoveAdvance(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveAdvance")
	defer scope.End()

	res, err := handler.service.RemoveAdvance(ctx, chi.URLParam(request, "id"), chi.URLParam(request, "advanceId"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove advance")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ExtendStay pushes the checkout of a stay to a later date.
// @Summary Extend a stay
// @Description Move the checkout out. A clash with another booking is rejected; a next-day arrival on the new checkout day succeeds with a warning.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ExtendStayRequest true "New checkout"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Room already booked"
// @Router /v1/bookings/{id}/extend-stay [post]
// @Security BearerAuth
func (handler *Handler) ExtendStay(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendStay")
	defer scope.End()

	req := dto.ExtendStayRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.ExtendStay(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to extend stay")

		response.WithError(writer, err)

		return
	}

	if res.Warning {
		response.WithWarning(writer, http.StatusOK, res, res.Message)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CancelBooking cancels a stay and releases the room.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Lifecycle does not allow cancellation"
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	if err := handler.service.Cancel(ctx, chi.URLParam(request, "id")); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Booking cancelled")
}

// Checkout settles a stay and cuts its invoice.
// @Summary Check out a booking
// @Description Finalize the bill, settle food orders, cut the invoice and release the room, all atomically.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CheckoutRequest true "Checkout details"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Lifecycle does not allow checkout"
// @Router /v1/bookings/{id}/checkout [post]
// @Security BearerAuth
func (handler *Handler) Checkout(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	req := dto.CheckoutRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Checkout(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking checked out by user " + user)

	response.WithJSON(writer, http.StatusOK, res)
}

// BlockRoom holds a room without a guest.
// @Summary Block a room
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BlockRoomRequest true "Block request"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Room already booked"
// @Router /v1/bookings/block [post]
// @Security BearerAuth
func (handler *Handler) BlockRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlockRoom")
	defer scope.End()

	req := dto.BlockRoomRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Block(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to block room")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// BlockSelectedRooms holds several rooms in one shot.
// @Summary Block selected rooms
// @Description Block a set of rooms for the same window. All rooms block together or none do.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BlockSelectedRoomsRequest true "Block request"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "A room is already booked"
// @Router /v1/bookings/block-selected [post]
// @Security BearerAuth
func (handler *Handler) BlockSelectedRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlockSelectedRooms")
	defer scope.End()

	req := dto.BlockSelectedRoomsRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.BlockSelected(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to block selected rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, res)
}

// ConvertBooking turns a blocked room into a live stay.
// @Summary Convert a blocked room
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ConvertBookingRequest true "Guest and pricing details"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Booking is not a block"
// @Router /v1/bookings/{id}/convert [patch]
// @Security BearerAuth
func (handler *Handler) ConvertBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConvertBooking")
	defer scope.End()

	req := dto.ConvertBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Convert(ctx, chi.URLParam(request, "id"), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to convert blocked room")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UnblockRoom releases a blocked room.
// @Summary Unblock a room
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID of the block"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Booking is not a block"
// @Router /v1/bookings/unblock/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UnblockRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnblockRoom")
	defer scope.End()

	if err := handler.service.Unblock(ctx, chi.URLParam(request, "id")); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unblock room")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Room unblocked")
}
