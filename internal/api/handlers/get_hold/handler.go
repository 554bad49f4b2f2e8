package get_hold

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
	msgInvalidHoldID = "некорректный ID холда"
	msgHoldNotFound  = "холд не найден"
	msgAccessDenied  = "недостаточно прав для просмотра холда"
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

// Handle GET /api/v1/holds/{holdId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdID, err := strconv.ParseInt(mux.Vars(r)["holdId"], 10, 64)
	if err != nil || holdID <= 0 {
		h.logger.Warn("GET /holds/{holdId} - Invalid hold ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	ctx := r.Context()
	req := &models.GetHoldRequest{
		TenantID:  middleware.TenantID(ctx),
		HoldID:    holdID,
		ActorID:   middleware.ActorID(ctx),
		ActorRole: middleware.ActorRole(ctx),
	}

	result, err := h.service.GetByID(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, holdsService.ErrHoldNotFound):
			h.logger.Warn("GET /holds/%d - Hold not found", holdID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, holdsService.ErrAccessDenied):
			h.logger.Warn("GET /holds/%d - Access denied: actor=%d", holdID, req.ActorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /holds/%d - Failed to get hold: %v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
