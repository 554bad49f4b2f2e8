package get_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidPeriod         = "некорректный период, ожидаются параметры from и to в формате RFC3339"
	msgAccessDenied          = "нет прав на просмотр расписания этого специалиста"
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

// Handle GET /api/v1/professionals/{professionalId}/schedule?from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil || professionalID <= 0 {
		h.logger.Warn("GET /professionals/{professionalId}/schedule - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /professionals/%d/schedule - Invalid 'from': %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /professionals/%d/schedule - Invalid 'to': %v", professionalID, err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	ctx := r.Context()
	req := &models.GetScheduleRequest{
		TenantID:       middleware.TenantID(ctx),
		ProfessionalID: professionalID,
		ActorID:        middleware.ActorID(ctx),
		ActorRole:      middleware.ActorRole(ctx),
		From:           from,
		To:             to,
	}

	result, err := h.service.GetSchedule(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("GET /professionals/%d/schedule - Access denied", professionalID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrInvalidTimeRange):
			h.logger.Warn("GET /professionals/%d/schedule - Invalid period", professionalID)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /professionals/%d/schedule - Invalid input: %v", professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)

		default:
			h.logger.Error("GET /professionals/%d/schedule - Failed to get schedule: %v", professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
