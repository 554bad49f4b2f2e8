package confirm_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	confirmHold "github.com/m04kA/SMC-SchedulingService/internal/usecase/confirm_hold"
)

const (
	msgInvalidHoldID   = "некорректный ID холда"
	msgForbidden       = "недостаточно прав для подтверждения холда"
	msgHoldNotFound    = "холд не найден"
	msgHoldExpired     = "срок действия холда истек"
	msgHoldNotActive   = "холд уже подтвержден или отменен"
	msgVersionConflict = "холд был изменен параллельным запросом, повторите попытку"
)

type Handler struct {
	useCase ConfirmHoldUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil || holdID <= 0 {
		h.logger.Warn("POST /holds/{holdId}/confirm - Invalid hold ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	ctx := r.Context()
	useCaseReq := &confirmHold.Request{
		TenantID:  middleware.TenantID(ctx),
		HoldID:    holdID,
		ActorID:   middleware.ActorID(ctx),
		ActorRole: middleware.ActorRole(ctx),
	}

	result, err := h.useCase.Execute(ctx, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, confirmHold.ErrForbidden):
			h.logger.Warn("POST /holds/%d/confirm - Forbidden: actor=%d", holdID, useCaseReq.ActorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmHold.ErrHoldNotFound):
			h.logger.Warn("POST /holds/%d/confirm - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, confirmHold.ErrHoldExpired):
			h.logger.Warn("POST /holds/%d/confirm - Hold expired", holdID)
			handlers.RespondError(w, http.StatusGone, msgHoldExpired)

		case errors.Is(err, confirmHold.ErrHoldNotActive):
			h.logger.Warn("POST /holds/%d/confirm - Hold not active", holdID)
			handlers.RespondConflict(w, msgHoldNotActive)

		case errors.Is(err, confirmHold.ErrVersionConflict):
			h.logger.Warn("POST /holds/%d/confirm - Version conflict", holdID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, confirmHold.ErrInvalidInput):
			h.logger.Warn("POST /holds/%d/confirm - Invalid input: %v", holdID, err)
			handlers.RespondBadRequest(w, msgInvalidHoldID)

		default:
			h.logger.Error("POST /holds/%d/confirm - Failed to confirm hold: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/%d/confirm - Booking created: booking_id=%d", holdID, result.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
