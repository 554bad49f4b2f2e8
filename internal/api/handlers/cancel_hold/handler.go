package cancel_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	holdsService "github.com/m04kA/SMC-SchedulingService/internal/service/holds"
	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

const (
	msgInvalidHoldID   = "некорректный ID холда"
	msgHoldNotFound    = "холд не найден"
	msgAccessDenied    = "недостаточно прав для отмены холда"
	msgHoldNotActive   = "холд уже подтвержден, отменен или истек"
	msgVersionConflict = "холд был изменен параллельным запросом, повторите попытку"
)

type Handler struct {
	service HoldsService
	logger  Logger
}

func NewHandler(service HoldsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/holds/{holdId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil || holdID <= 0 {
		h.logger.Warn("PATCH /holds/{holdId}/cancel - Invalid hold ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	ctx := r.Context()
	req := &models.CancelHoldRequest{
		TenantID:  middleware.TenantID(ctx),
		HoldID:    holdID,
		ActorID:   middleware.ActorID(ctx),
		ActorRole: middleware.ActorRole(ctx),
	}

	result, err := h.service.Cancel(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, holdsService.ErrHoldNotFound):
			h.logger.Warn("PATCH /holds/%d/cancel - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, holdsService.ErrAccessDenied):
			h.logger.Warn("PATCH /holds/%d/cancel - Access denied: actor=%d", holdID, req.ActorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, holdsService.ErrHoldNotActive):
			h.logger.Warn("PATCH /holds/%d/cancel - Hold not active", holdID)
			handlers.RespondConflict(w, msgHoldNotActive)

		case errors.Is(err, holdsService.ErrVersionConflict):
			h.logger.Warn("PATCH /holds/%d/cancel - Version conflict", holdID)
			handlers.RespondConflict(w, msgVersionConflict)

		case errors.Is(err, holdsService.ErrInvalidInput):
			h.logger.Warn("PATCH /holds/%d/cancel - Invalid input: %v", holdID, err)
			handlers.RespondBadRequest(w, msgInvalidHoldID)

		default:
			h.logger.Error("PATCH /holds/%d/cancel - Failed to cancel hold: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /holds/%d/cancel - Hold cancelled", holdID)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
