package create_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
)

// ClinicSettingsLookup интерфейс репозитория настроек клиник
type ClinicSettingsLookup interface {
	GetSettings(ctx context.Context, tenantID, clinicID int64) (*domain.ClinicSettings, error)
}

// ServiceTypeLookup интерфейс репозитория типов услуг
type ServiceTypeLookup interface {
	GetByID(ctx context.Context, clinicID, serviceTypeID int64) (*domain.ServiceType, error)
}

// CoverageLookup интерфейс репозитория замещений специалистов
type CoverageLookup interface {
	FindActiveOverlapping(ctx context.Context, tenantID, clinicID, professionalID int64, start, end time.Time) ([]*domain.ProfessionalCoverage, error)
}

// BookingLookup интерфейс репозитория записей (только чтение календаря)
type BookingLookup interface {
	ListByProfessionalAndRange(ctx context.Context, tenantID, professionalID int64, start, end time.Time) ([]*domain.Booking, error)
}

// HoldStore интерфейс репозитория холдов
type HoldStore interface {
	FindActiveOverlap(ctx context.Context, tenantID, professionalID int64, start, end, now time.Time) ([]*domain.Hold, error)
	Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error)
}

// EventPublisher интерфейс публикации доменных событий
// Доставка - забота публикатора; движок не ждет подтверждений
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
