package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	clinicRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/clinic"
	serviceTypeRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/servicetype"
)

// UseCase use case для создания холда
// Оркестрирует полный протокол резервирования: авторизация роли, каскад
// настроек, подстановка замещения, валидация окна, сканирование конфликтов,
// вычисление TTL, сохранение и публикация события
type UseCase struct {
	clinicLookup      ClinicSettingsLookup
	serviceTypeLookup ServiceTypeLookup
	coverageLookup    CoverageLookup
	bookingLookup     BookingLookup
	holdStore         HoldStore
	publisher         EventPublisher
	txManager         TransactionManager
	timeProvider      TimeProvider
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	clinicLookup ClinicSettingsLookup,
	serviceTypeLookup ServiceTypeLookup,
	coverageLookup CoverageLookup,
	bookingLookup BookingLookup,
	holdStore HoldStore,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		clinicLookup:      clinicLookup,
		serviceTypeLookup: serviceTypeLookup,
		coverageLookup:    coverageLookup,
		bookingLookup:     bookingLookup,
		holdStore:         holdStore,
		publisher:         publisher,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
	}
}

// Execute выполняет use case создания холда
// Все операции с БД идут в сериализуемой транзакции: сканирование конфликтов
// "прочитал-проверил-вставил" само по себе гонку не закрывает, эксклюзивность
// обеспечивает уровень изоляции хранилища
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: tenant=%d, clinic=%d, professional=%d, patient=%d, window=[%s, %s)",
		req.TenantID, req.ClinicID, req.ProfessionalID, req.PatientID,
		req.StartAt.Format(timeLayout), req.EndAt.Format(timeLayout))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Авторизация роли вызывающего - до любых обращений к БД
	if err := authorizeActor(req); err != nil {
		uc.logger.Warn("CreateHold: forbidden for actor=%d role=%s", req.ActorID, req.ActorRole)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()
	startAt := req.StartAt.UTC()
	endAt := req.EndAt.UTC()

	// 3. Тип услуги (если указан): not-found и inactive отсекаются до транзакции
	var serviceType *domain.ServiceType
	if req.ServiceTypeID != nil {
		st, err := uc.serviceTypeLookup.GetByID(ctx, req.ClinicID, *req.ServiceTypeID)
		if err != nil {
			if errors.Is(err, serviceTypeRepo.ErrServiceTypeNotFound) {
				uc.logger.Warn("CreateHold: service type id=%d not found in clinic=%d", *req.ServiceTypeID, req.ClinicID)
				return nil, ErrServiceTypeNotFound
			}
			uc.logger.Error("CreateHold: failed to get service type id=%d: %v", *req.ServiceTypeID, err)
			return nil, fmt.Errorf("%w: failed to get service type: %v", ErrInternal, err)
		}
		if !st.IsActive {
			uc.logger.Warn("CreateHold: service type id=%d is inactive", st.ID)
			return nil, ErrServiceTypeInactive
		}
		serviceType = st

		// Конец слота можно не передавать, если у услуги задана длительность
		if endAt.IsZero() && st.DurationMinutes > 0 {
			endAt = startAt.Add(minutes(st.DurationMinutes))
		}
	}

	var result *domain.Hold

	// 4. Резервирование в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Настройки клиники; при отсутствии - дефолты движка
		clinicSettings, err := uc.clinicLookup.GetSettings(txCtx, req.TenantID, req.ClinicID)
		if err != nil && !errors.Is(err, clinicRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateHold: failed to get clinic settings: %v", err)
			return fmt.Errorf("%w: failed to get clinic settings: %v", ErrInternal, err)
		}

		if clinicSettings == nil {
			clinicSettings = &domain.ClinicSettings{
				TenantID:          req.TenantID,
				ClinicID:          req.ClinicID,
				HoldTTLMinutes:    domain.DefaultHoldTTLMinutes,
				MinAdvanceMinutes: domain.DefaultMinAdvanceMinutes,
				BufferMinutes:     domain.DefaultBufferMinutes,
			}
			uc.logger.Info("CreateHold: using default settings for tenant=%d, clinic=%d", req.TenantID, req.ClinicID)
		}

		// 4.2. Каскад настроек: услуга > клиника > fallback
		settings := domain.ResolveHoldSettings(clinicSettings, serviceType)

		// 4.3. Подстановка замещения: первое активное пересекающееся замещение
		// перенаправляет холд на замещающего специалиста
		resolution, err := uc.resolveCoverage(txCtx, req, startAt, endAt)
		if err != nil {
			return err
		}

		// 4.4. Валидация временного окна
		if err := validateWindow(now, startAt, endAt, settings); err != nil {
			uc.logger.Warn("CreateHold: window validation failed: %v", err)
			return err
		}

		// 4.5. Сканирование конфликтов по эффективному специалисту -
		// последний рубеж перед вставкой, чтобы сузить окно гонки
		if err := uc.scanConflicts(txCtx, req.TenantID, resolution.EffectiveProfessionalID, startAt, endAt, now); err != nil {
			return err
		}

		// 4.6. Вычисление TTL
		ttlExpiresAt := computeTTLExpiry(now, startAt, settings.TTLMinutes)

		// 4.7. Сохранение холда
		hold := &domain.Hold{
			TenantID:               req.TenantID,
			ClinicID:               req.ClinicID,
			ProfessionalID:         resolution.EffectiveProfessionalID,
			OriginalProfessionalID: resolution.OriginalProfessionalID,
			CoverageID:             resolution.CoverageID,
			PatientID:              req.PatientID,
			ServiceTypeID:          req.ServiceTypeID,
			StartAt:                startAt,
			EndAt:                  endAt,
			TTLExpiresAt:           ttlExpiresAt,
			Status:                 domain.HoldStatusActive,
		}

		created, err := uc.holdStore.Create(txCtx, hold)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}

		// 4.8. Публикация события; сбой публикации бизнес-операцию не валит
		event := events.HoldCreated{
			HoldID:                  created.ID,
			TenantID:                created.TenantID,
			ClinicID:                created.ClinicID,
			EffectiveProfessionalID: created.ProfessionalID,
			OriginalProfessionalID:  created.OriginalProfessionalID,
			CoverageID:              created.CoverageID,
			PatientID:               created.PatientID,
			ServiceTypeID:           created.ServiceTypeID,
			StartAt:                 created.StartAt,
			EndAt:                   created.EndAt,
			TTLExpiresAt:            created.TTLExpiresAt,
		}
		if err := uc.publisher.Publish(txCtx, event); err != nil {
			uc.logger.Warn("CreateHold: failed to publish %s for hold id=%d: %v",
				event.EventName(), created.ID, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.IsCovered() {
		uc.logger.Info("CreateHold: hold id=%d created with coverage id=%d (professional %d -> %d)",
			result.ID, *result.CoverageID, *result.OriginalProfessionalID, result.ProfessionalID)
	} else {
		uc.logger.Info("CreateHold: hold id=%d created for professional=%d", result.ID, result.ProfessionalID)
	}

	return FromDomainHold(result), nil
}

// resolveCoverage ищет активное замещение, пересекающееся с запрошенным окном
// Применяется первая возвращенная запись; детерминированный порядок
// (start_at ASC, id ASC) фиксирует репозиторий
func (uc *UseCase) resolveCoverage(ctx context.Context, req *Request, startAt, endAt time.Time) (domain.CoverageResolution, error) {
	coverages, err := uc.coverageLookup.FindActiveOverlapping(ctx, req.TenantID, req.ClinicID, req.ProfessionalID, startAt, endAt)
	if err != nil {
		uc.logger.Error("CreateHold: failed to find coverage for professional=%d: %v", req.ProfessionalID, err)
		return domain.CoverageResolution{}, fmt.Errorf("%w: failed to find coverage: %v", ErrInternal, err)
	}

	if len(coverages) == 0 {
		return domain.DirectResolution(req.ProfessionalID), nil
	}

	applied := coverages[0]
	uc.logger.Info("CreateHold: coverage id=%d redirects professional %d -> %d",
		applied.ID, req.ProfessionalID, applied.CoverageProfessionalID)

	return domain.CoveredResolution(req.ProfessionalID, applied), nil
}

// scanConflicts проверяет календарь эффективного специалиста
// Две независимые проверки: подтвержденные записи и активные холды;
// любая непустая выборка - конфликт с собственным сообщением
func (uc *UseCase) scanConflicts(ctx context.Context, tenantID, professionalID int64, startAt, endAt, now time.Time) error {
	bookings, err := uc.bookingLookup.ListByProfessionalAndRange(ctx, tenantID, professionalID, startAt, endAt)
	if err != nil {
		uc.logger.Error("CreateHold: failed to scan bookings for professional=%d: %v", professionalID, err)
		return fmt.Errorf("%w: failed to scan bookings: %v", ErrInternal, err)
	}
	if len(bookings) > 0 {
		uc.logger.Warn("CreateHold: booking conflict for professional=%d, %d overlapping bookings",
			professionalID, len(bookings))
		return ErrBookingConflict
	}

	holds, err := uc.holdStore.FindActiveOverlap(ctx, tenantID, professionalID, startAt, endAt, now)
	if err != nil {
		uc.logger.Error("CreateHold: failed to scan holds for professional=%d: %v", professionalID, err)
		return fmt.Errorf("%w: failed to scan holds: %v", ErrInternal, err)
	}
	if len(holds) > 0 {
		uc.logger.Warn("CreateHold: hold conflict for professional=%d, %d overlapping holds",
			professionalID, len(holds))
		return ErrHoldConflict
	}

	return nil
}

// timeLayout формат времени в логах
const timeLayout = "2006-01-02T15:04:05Z07:00"

// minutes переводит количество минут в time.Duration
func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
