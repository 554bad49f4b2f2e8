package record_payment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "неизвестный платежный статус"
	msgBookingNotFound    = "запись не найдена"
	msgTerminalBooking    = "платежный статус завершенной записи изменить нельзя"
	msgVersionConflict    = "запись была изменена параллельным запросом, повторите попытку"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/payment-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{bookingId}/payment-status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RecordPaymentStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%d/payment-status - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ctx := r.Context()
	serviceReq := &models.RecordPaymentStatusRequest{
		TenantID:        middleware.TenantID(ctx),
		BookingID:       bookingID,
		ActorID:         middleware.ActorID(ctx),
		ActorRole:       middleware.ActorRole(ctx),
		PaymentStatus:   req.PaymentStatus,
		ExpectedVersion: req.ExpectedVersion,
	}

	result, err := h.service.RecordPaymentStatus(ctx, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%d/payment-status - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/%d/payment-status - Invalid status: %s", bookingID, req.PaymentStatus)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookingsService.ErrTerminalBooking):
			h.logger.Warn("PATCH /bookings/%d/payment-status - Booking is terminal", bookingID)
			handlers.RespondConflict(w, msgTerminalBooking)

		case errors.Is(err, bookingsService.ErrVersionConflict):
			h.logger.Warn("PATCH /bookings/%d/payment-status - Version conflict", bookingID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/%d/payment-status - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/%d/payment-status - Failed to record status: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/payment-status - Payment status is %s", bookingID, result.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
