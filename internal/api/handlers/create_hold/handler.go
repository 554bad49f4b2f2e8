package create_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	createHold "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается RFC3339"
	msgForbidden           = "недостаточно прав для создания холда"
	msgServiceTypeNotFound = "тип услуги не найден"
	msgServiceTypeInactive = "тип услуги отключен"
	msgInvalidRange        = "конец интервала должен быть позже начала"
	msgPastSlot            = "нельзя резервировать время в прошлом"
	msgTooSoon             = "слишком поздно для резервирования этого времени"
	msgTooFar              = "время слишком далеко в будущем"
	msgBookingConflict     = "у специалиста уже есть запись на это время"
	msgHoldConflict        = "это время уже удерживается другим пациентом"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ctx := r.Context()
	useCaseReq, err := req.ToUseCaseRequest(middleware.TenantID(ctx), middleware.ActorID(ctx), middleware.ActorRole(ctx))
	if err != nil {
		h.logger.Warn("POST /holds - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(ctx, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrForbidden):
			h.logger.Warn("POST /holds - Forbidden: actor=%d", useCaseReq.ActorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createHold.ErrServiceTypeNotFound):
			h.logger.Warn("POST /holds - Service type not found: clinic=%d", req.ClinicID)
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		case errors.Is(err, createHold.ErrServiceTypeInactive):
			h.logger.Warn("POST /holds - Service type inactive: clinic=%d", req.ClinicID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgServiceTypeInactive)

		case errors.Is(err, createHold.ErrInvalidRange):
			h.logger.Warn("POST /holds - Invalid range: professional=%d", req.ProfessionalID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createHold.ErrPastSlot):
			h.logger.Warn("POST /holds - Past slot: professional=%d", req.ProfessionalID)
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, createHold.ErrInsufficientAdvanceNotice):
			h.logger.Warn("POST /holds - Insufficient advance notice: professional=%d", req.ProfessionalID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooSoon)

		case errors.Is(err, createHold.ErrAdvanceWindowExceeded):
			h.logger.Warn("POST /holds - Advance window exceeded: professional=%d", req.ProfessionalID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooFar)

		case errors.Is(err, createHold.ErrBookingConflict):
			h.logger.Warn("POST /holds - Booking conflict: professional=%d", req.ProfessionalID)
			handlers.RespondConflict(w, msgBookingConflict)

		case errors.Is(err, createHold.ErrHoldConflict):
			h.logger.Warn("POST /holds - Hold conflict: professional=%d", req.ProfessionalID)
			handlers.RespondConflict(w, msgHoldConflict)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /holds - Failed to create hold: professional=%d, error=%v",
				req.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds - Hold created: hold_id=%d, professional=%d", result.ID, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
