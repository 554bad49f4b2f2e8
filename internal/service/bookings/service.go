package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с записями: просмотр, отмена,
// платежные статусы и расписание специалиста
type Service struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает запись по ID
// Пациент видит только свою запись, персонал - любую запись тенанта
func (s *Service) GetByID(ctx context.Context, req *models.GetBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", req.BookingID, req.ActorID)

	b, err := s.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkActorAccess(b, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", req.ActorID, req.BookingID)
		return nil, err
	}

	return models.FromDomainBooking(b), nil
}

// Cancel отменяет запись
// Отменить можно только scheduled или confirmed запись; при расхождении
// ожидаемой клиентом версии с текущей отмена отклоняется
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d", req.BookingID, req.ActorID)

	if req.TenantID <= 0 || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: tenantID and bookingID must be positive", ErrInvalidInput)
	}

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, req.TenantID, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.checkActorAccess(b, req.ActorID, req.ActorRole); err != nil {
			s.logger.Warn("Cancel: access denied for actor=%d to booking id=%d", req.ActorID, req.BookingID)
			return err
		}

		if !b.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", b.ID, b.Status)
			return ErrCannotCancel
		}

		if req.ExpectedVersion != nil && *req.ExpectedVersion != b.Version {
			s.logger.Warn("Cancel: stale version for booking id=%d: expected=%d, actual=%d",
				b.ID, *req.ExpectedVersion, b.Version)
			return ErrVersionConflict
		}

		updated, err := s.bookingRepo.Cancel(txCtx, req.TenantID, b.ID, b.Version, req.CancellationReason, req.ActorID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				s.logger.Warn("Cancel: version conflict on booking id=%d", b.ID)
				return ErrVersionConflict
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: failed to cancel booking id=%d: %v", b.ID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		event := events.BookingCancelled{
			BookingID:              updated.ID,
			TenantID:               updated.TenantID,
			ClinicID:               updated.ClinicID,
			ProfessionalID:         updated.ProfessionalID,
			OriginalProfessionalID: updated.OriginalProfessionalID,
			CoverageID:             updated.CoverageID,
			PatientID:              updated.PatientID,
			CancelledBy:            req.ActorID,
			Reason:                 req.CancellationReason,
		}
		if err := s.publisher.Publish(txCtx, event); err != nil {
			s.logger.Warn("Cancel: failed to publish %s for booking id=%d: %v",
				event.EventName(), updated.ID, err)
		}

		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", cancelled.ID)
	return models.FromDomainBooking(cancelled), nil
}

// RecordPaymentStatus фиксирует новый платежный статус записи
// Повторная доставка того же статуса - идемпотентный no-op без события.
// Платежный статус терминальной записи менять нельзя
func (s *Service) RecordPaymentStatus(ctx context.Context, req *models.RecordPaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("RecordPaymentStatus: booking id=%d -> %s by actor=%d",
		req.BookingID, req.PaymentStatus, req.ActorID)

	if req.TenantID <= 0 || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: tenantID and bookingID must be positive", ErrInvalidInput)
	}

	newStatus, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("RecordPaymentStatus: invalid status=%s for booking id=%d", req.PaymentStatus, req.BookingID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.PaymentStatus)
	}

	var result *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, req.TenantID, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("RecordPaymentStatus: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("RecordPaymentStatus: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: RecordPaymentStatus - repository error: %v", ErrInternal, err)
		}

		if b.IsTerminal() {
			s.logger.Warn("RecordPaymentStatus: booking id=%d is terminal, status=%s", b.ID, b.Status)
			return ErrTerminalBooking
		}

		// Идемпотентность: повторная доставка того же статуса
		// не меняет версию и не порождает событие
		if b.PaymentStatus == newStatus {
			s.logger.Info("RecordPaymentStatus: booking id=%d already %s, no-op", b.ID, newStatus)
			result = b
			return nil
		}

		if req.ExpectedVersion != nil && *req.ExpectedVersion != b.Version {
			s.logger.Warn("RecordPaymentStatus: stale version for booking id=%d: expected=%d, actual=%d",
				b.ID, *req.ExpectedVersion, b.Version)
			return ErrVersionConflict
		}

		previous := b.PaymentStatus

		updated, err := s.bookingRepo.UpdatePaymentStatus(txCtx, req.TenantID, b.ID, b.Version, newStatus)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				s.logger.Warn("RecordPaymentStatus: version conflict on booking id=%d", b.ID)
				return ErrVersionConflict
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("RecordPaymentStatus: failed to update booking id=%d: %v", b.ID, err)
			return fmt.Errorf("%w: RecordPaymentStatus - repository error: %v", ErrInternal, err)
		}

		event := events.PaymentStatusChanged{
			BookingID:      updated.ID,
			TenantID:       updated.TenantID,
			ClinicID:       updated.ClinicID,
			ProfessionalID: updated.ProfessionalID,
			PatientID:      updated.PatientID,
			PreviousStatus: string(previous),
			NewStatus:      string(updated.PaymentStatus),
		}
		if err := s.publisher.Publish(txCtx, event); err != nil {
			s.logger.Warn("RecordPaymentStatus: failed to publish %s for booking id=%d: %v",
				event.EventName(), updated.ID, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RecordPaymentStatus: booking id=%d payment status is %s", result.ID, result.PaymentStatus)
	return models.FromDomainBooking(result), nil
}

// GetSchedule возвращает занятые интервалы специалиста за период:
// блокирующие записи и активные холды, отсортированные по началу
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: professional=%d, period=[%s, %s)",
		req.ProfessionalID, req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))

	if req.TenantID <= 0 || req.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: tenantID and professionalID must be positive", ErrInvalidInput)
	}
	if !req.To.After(req.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidTimeRange)
	}

	if err := s.checkScheduleAccess(req.ProfessionalID, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("GetSchedule: access denied for actor=%d role=%s to professional=%d",
			req.ActorID, req.ActorRole, req.ProfessionalID)
		return nil, err
	}

	now := s.timeProvider.Now().UTC()
	from := req.From.UTC()
	to := req.To.UTC()

	var entries []models.ScheduleEntry

	// Согласованный снимок обоих наборов в read-only транзакции
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		bookings, err := s.bookingRepo.ListByProfessionalAndRange(txCtx, req.TenantID, req.ProfessionalID, from, to)
		if err != nil {
			s.logger.Error("GetSchedule: failed to list bookings for professional=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
		}

		holds, err := s.holdRepo.FindActiveOverlap(txCtx, req.TenantID, req.ProfessionalID, from, to, now)
		if err != nil {
			s.logger.Error("GetSchedule: failed to list holds for professional=%d: %v", req.ProfessionalID, err)
			return fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
		}

		entries = make([]models.ScheduleEntry, 0, len(bookings)+len(holds))
		for _, b := range bookings {
			entries = append(entries, models.ScheduleEntry{
				Kind:          "booking",
				ID:            b.ID,
				StartAt:       b.StartAt,
				EndAt:         b.EndAt,
				Status:        string(b.Status),
				PatientID:     b.PatientID,
				ServiceTypeID: b.ServiceTypeID,
			})
		}
		for _, h := range holds {
			entries = append(entries, models.ScheduleEntry{
				Kind:          "hold",
				ID:            h.ID,
				StartAt:       h.StartAt,
				EndAt:         h.EndAt,
				Status:        string(h.Status),
				PatientID:     h.PatientID,
				ServiceTypeID: h.ServiceTypeID,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartAt.Equal(entries[j].StartAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].StartAt.Before(entries[j].StartAt)
	})

	s.logger.Info("GetSchedule: %d entries for professional=%d", len(entries), req.ProfessionalID)

	return &models.ScheduleResponse{
		ProfessionalID: req.ProfessionalID,
		From:           from,
		To:             to,
		Entries:        entries,
	}, nil
}

// checkScheduleAccess проверяет права вызывающего на календарь специалиста
// Персонал видит любой календарь тенанта, специалист - только свой;
// записи календаря содержат ID пациентов, поэтому пациентам он недоступен
func (s *Service) checkScheduleAccess(professionalID, actorID int64, role domain.Role) error {
	if role.IsStaff() {
		return nil
	}

	if role == domain.RoleProfessional && actorID == professionalID {
		return nil
	}

	return ErrAccessDenied
}

// checkActorAccess проверяет права вызывающего на запись
// Персонал работает с любой записью тенанта, пациент - только со своей
func (s *Service) checkActorAccess(b *domain.Booking, actorID int64, role domain.Role) error {
	if role.IsStaff() {
		return nil
	}

	if role == domain.RolePatient && b.PatientID == actorID {
		return nil
	}

	return ErrAccessDenied
}
