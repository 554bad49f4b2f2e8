package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	ListByProfessionalAndRange(ctx context.Context, tenantID, professionalID int64, start, end time.Time) ([]*domain.Booking, error)
	Cancel(ctx context.Context, tenantID, id, version int64, reason *string, cancelledBy int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, tenantID, id, version int64, status domain.PaymentStatus) (*domain.Booking, error)
}

// HoldRepository интерфейс репозитория холдов (для расписания)
type HoldRepository interface {
	FindActiveOverlap(ctx context.Context, tenantID, professionalID int64, start, end, now time.Time) ([]*domain.Hold, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
