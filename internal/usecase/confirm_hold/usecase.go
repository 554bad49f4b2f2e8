package confirm_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	holdRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hold"
)

// UseCase use case для подтверждения холда в запись
// Атомарно переводит холд в consumed и создает запись: после фиксации
// транзакции холд больше не участвует в сканировании конфликтов,
// его место занимает запись
type UseCase struct {
	holdStore    HoldStore
	bookingStore BookingStore
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdStore HoldStore,
	bookingStore BookingStore,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdStore:    holdStore,
		bookingStore: bookingStore,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения холда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmHold: tenant=%d, hold=%d, actor=%d", req.TenantID, req.HoldID, req.ActorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем холд с блокировкой строки
		h, err := uc.holdStore.GetByID(txCtx, req.TenantID, req.HoldID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				uc.logger.Warn("ConfirmHold: hold id=%d not found", req.HoldID)
				return ErrHoldNotFound
			}
			uc.logger.Error("ConfirmHold: failed to get hold id=%d: %v", req.HoldID, err)
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		// 2. Авторизация: пациент подтверждает только свой холд
		if err := authorizeActor(req, h); err != nil {
			uc.logger.Warn("ConfirmHold: forbidden for actor=%d role=%s, hold id=%d",
				req.ActorID, req.ActorRole, h.ID)
			return err
		}

		// 3. Холд должен быть активным и не истекшим
		// Ленивая проверка TTL: sweep мог еще не добраться до холда
		if h.Status != domain.HoldStatusActive {
			uc.logger.Warn("ConfirmHold: hold id=%d is %s", h.ID, h.Status)
			return ErrHoldNotActive
		}
		if !now.Before(h.TTLExpiresAt) {
			uc.logger.Warn("ConfirmHold: hold id=%d expired at %s", h.ID, h.TTLExpiresAt)
			return ErrHoldExpired
		}

		// 4. Переводим холд в consumed с проверкой версии
		if _, err := uc.holdStore.UpdateStatus(txCtx, req.TenantID, h.ID, h.Version, domain.HoldStatusConsumed); err != nil {
			if errors.Is(err, holdRepo.ErrVersionConflict) {
				uc.logger.Warn("ConfirmHold: version conflict on hold id=%d", h.ID)
				return ErrVersionConflict
			}
			uc.logger.Error("ConfirmHold: failed to consume hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to consume hold: %v", ErrInternal, err)
		}

		// 5. Создаем запись на месте холда
		// Повторное сканирование конфликтов не требуется: окно держал сам холд
		holdID := h.ID
		booking := &domain.Booking{
			TenantID:               h.TenantID,
			ClinicID:               h.ClinicID,
			ProfessionalID:         h.ProfessionalID,
			OriginalProfessionalID: h.OriginalProfessionalID,
			CoverageID:             h.CoverageID,
			PatientID:              h.PatientID,
			ServiceTypeID:          h.ServiceTypeID,
			StartAt:                h.StartAt,
			EndAt:                  h.EndAt,
			Status:                 domain.StatusScheduled,
			PaymentStatus:          domain.PaymentPending,
			HoldID:                 &holdID,
		}

		created, err := uc.bookingStore.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("ConfirmHold: failed to create booking from hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 6. Публикация события; сбой публикации бизнес-операцию не валит
		event := events.BookingCreated{
			BookingID:               created.ID,
			HoldID:                  created.HoldID,
			TenantID:                created.TenantID,
			ClinicID:                created.ClinicID,
			EffectiveProfessionalID: created.ProfessionalID,
			OriginalProfessionalID:  created.OriginalProfessionalID,
			CoverageID:              created.CoverageID,
			PatientID:               created.PatientID,
			StartAt:                 created.StartAt,
			EndAt:                   created.EndAt,
		}
		if err := uc.publisher.Publish(txCtx, event); err != nil {
			uc.logger.Warn("ConfirmHold: failed to publish %s for booking id=%d: %v",
				event.EventName(), created.ID, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmHold: booking id=%d created from hold id=%d", result.ID, req.HoldID)

	return FromDomainBooking(result), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.HoldID <= 0 {
		return fmt.Errorf("%w: holdID must be positive", ErrInvalidInput)
	}

	if !req.ActorRole.IsKnown() {
		return fmt.Errorf("%w: unknown actor role %q", ErrInvalidInput, req.ActorRole)
	}

	return nil
}

// authorizeActor проверяет право вызывающего подтвердить холд
// Персонал подтверждает любой холд, пациент - только свой
func authorizeActor(req *Request, h *domain.Hold) error {
	if req.ActorRole.IsStaff() {
		return nil
	}

	if req.ActorRole == domain.RolePatient && req.ActorID == h.PatientID {
		return nil
	}

	return ErrForbidden
}
