package room

import (
	"net/http"

	"innkeeper/infras/otel"
	"innkeeper/internal/domains/room/model/dto"
	"innkeeper/internal/domains/room/service"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/validator"
	"innkeeper/transport/http/middleware"
	"innkeeper/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Room
	middleware middleware.AppMiddleware
	otel       otel.Otel
}

func New(service service.Room, middleware middleware.AppMiddleware, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.With(handler.middleware.SearchCooldown).Get("/available", handler.GetAvailableRooms)
		routerGroup.Get("/{id}/plans", handler.GetRoomPlans)
		routerGroup.Get("/{id}/invoices", handler.GetRoomInvoices)
	})
}

// GetAvailableRooms lists rooms free for a stay window.
// @Summary Get available rooms
// @Description List rooms free for the requested window, flagging rooms whose current guest checks out the same day.
// @Tags Room
// @Produce json
// @Param check_in query string true "Requested check-in (RFC3339)"
// @Param check_out query string true "Requested check-out (RFC3339)"
// @Param type query string false "Filter by room type"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /v1/rooms/available [get]
// @Security BearerAuth
func (handler *Handler) GetAvailableRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	req := dto.AvailabilityQuery{
		CheckIn:  request.URL.Query().Get("check_in"),
		CheckOut: request.URL.Query().Get("check_out"),
		Type:     request.URL.Query().Get("type"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.GetAvailable(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetRoomPlans lists the rate plans of a room keyed by occupancy.
// @Summary Get room plans
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /v1/rooms/{id}/plans [get]
// @Security BearerAuth
func (handler *Handler) GetRoomPlans(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomPlans")
	defer scope.End()

	res, err := handler.service.GetPlans(ctx, chi.URLParam(request, "id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room plans")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetRoomInvoices lists the checkout invoices cut against a room.
// @Summary Get room invoices
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Envelope
// @Router /v1/rooms/{id}/invoices [get]
// @Security BearerAuth
func (handler *Handler) GetRoomInvoices(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomInvoices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.GetInvoices(ctx, chi.URLParam(request, "id"), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room invoices")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
