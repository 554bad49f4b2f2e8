package holds

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	holdRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

// Service сервис для работы с холдами: отмена, просмотр и подметание по TTL
type Service struct {
	holdRepo     HoldRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса холдов
func NewService(
	holdRepo HoldRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		holdRepo:     holdRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает холд по ID
// Пациент видит только свой холд, персонал - любой холд тенанта
func (s *Service) GetByID(ctx context.Context, req *models.GetHoldRequest) (*models.HoldResponse, error) {
	s.logger.Info("GetByID: fetching hold id=%d for actor=%d", req.HoldID, req.ActorID)

	h, err := s.holdRepo.GetByID(ctx, req.TenantID, req.HoldID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("GetByID: hold id=%d not found", req.HoldID)
			return nil, ErrHoldNotFound
		}
		s.logger.Error("GetByID: repository error for hold id=%d: %v", req.HoldID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkActorAccess(h, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d to hold id=%d", req.ActorID, req.HoldID)
		return nil, err
	}

	return models.FromDomainHold(h), nil
}

// Cancel отменяет активный холд и освобождает его временное окно
// Уже потребленный, отмененный или истекший холд отменить нельзя
func (s *Service) Cancel(ctx context.Context, req *models.CancelHoldRequest) (*models.HoldResponse, error) {
	s.logger.Info("Cancel: cancelling hold id=%d by actor=%d", req.HoldID, req.ActorID)

	if req.TenantID <= 0 || req.HoldID <= 0 {
		return nil, fmt.Errorf("%w: tenantID and holdID must be positive", ErrInvalidInput)
	}

	now := s.timeProvider.Now().UTC()

	var cancelled *domain.Hold

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		h, err := s.holdRepo.GetByID(txCtx, req.TenantID, req.HoldID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				s.logger.Warn("Cancel: hold id=%d not found", req.HoldID)
				return ErrHoldNotFound
			}
			s.logger.Error("Cancel: repository error for hold id=%d: %v", req.HoldID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.checkActorAccess(h, req.ActorID, req.ActorRole); err != nil {
			s.logger.Warn("Cancel: access denied for actor=%d to hold id=%d", req.ActorID, req.HoldID)
			return err
		}

		// Просроченный, но еще не подметенный холд тоже не отменяем:
		// его судьбу решает sweep
		if !h.IsActive(now) {
			s.logger.Warn("Cancel: hold id=%d is not active, status=%s", h.ID, h.Status)
			return ErrHoldNotActive
		}

		updated, err := s.holdRepo.UpdateStatus(txCtx, req.TenantID, h.ID, h.Version, domain.HoldStatusCancelled)
		if err != nil {
			if errors.Is(err, holdRepo.ErrVersionConflict) {
				s.logger.Warn("Cancel: version conflict on hold id=%d", h.ID)
				return ErrVersionConflict
			}
			s.logger.Error("Cancel: failed to cancel hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		event := events.HoldCancelled{
			HoldID:         updated.ID,
			TenantID:       updated.TenantID,
			ClinicID:       updated.ClinicID,
			ProfessionalID: updated.ProfessionalID,
			PatientID:      updated.PatientID,
			CancelledBy:    req.ActorID,
		}
		if err := s.publisher.Publish(txCtx, event); err != nil {
			s.logger.Warn("Cancel: failed to publish %s for hold id=%d: %v",
				event.EventName(), updated.ID, err)
		}

		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled hold id=%d", cancelled.ID)
	return models.FromDomainHold(cancelled), nil
}

// ExpireDue переводит все активные холды с истекшим TTL в expired
// и публикует событие по каждому. Возвращает затронутые холды.
// Вызывается фоновым sweep'ом; ленивые проверки TTL в запросах
// закрывают окно между тиками
func (s *Service) ExpireDue(ctx context.Context) ([]*models.HoldResponse, error) {
	now := s.timeProvider.Now().UTC()

	var expired []*domain.Hold

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		due, err := s.holdRepo.ExpireDue(txCtx, now)
		if err != nil {
			s.logger.Error("ExpireDue: repository error: %v", err)
			return fmt.Errorf("%w: ExpireDue - repository error: %v", ErrInternal, err)
		}

		for _, h := range due {
			event := events.HoldExpired{
				HoldID:         h.ID,
				TenantID:       h.TenantID,
				ClinicID:       h.ClinicID,
				ProfessionalID: h.ProfessionalID,
				PatientID:      h.PatientID,
				TTLExpiresAt:   h.TTLExpiresAt,
			}
			if err := s.publisher.Publish(txCtx, event); err != nil {
				s.logger.Warn("ExpireDue: failed to publish %s for hold id=%d: %v",
					event.EventName(), h.ID, err)
			}
		}

		expired = due
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(expired) > 0 {
		s.logger.Info("ExpireDue: expired %d holds", len(expired))
	}

	responses := make([]*models.HoldResponse, 0, len(expired))
	for _, h := range expired {
		responses = append(responses, models.FromDomainHold(h))
	}

	return responses, nil
}

// checkActorAccess проверяет права вызывающего на холд
// Персонал работает с любым холдом тенанта, пациент - только со своим
func (s *Service) checkActorAccess(h *domain.Hold, actorID int64, role domain.Role) error {
	if role.IsStaff() {
		return nil
	}

	if role == domain.RolePatient && h.PatientID == actorID {
		return nil
	}

	return ErrAccessDenied
}
