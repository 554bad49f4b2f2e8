package domain

import "time"

// BookingStatus represents the status of a confirmed booking
type BookingStatus string

const (
	StatusScheduled BookingStatus = "scheduled"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// PaymentStatus represents the payment state of a booking
// Платежный статус - параллельный атрибут, а не под-состояние статуса записи
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentApproved   PaymentStatus = "approved"
	PaymentSettled    PaymentStatus = "settled"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentChargeback PaymentStatus = "chargeback"
	PaymentFailed     PaymentStatus = "failed"
)

// Booking represents a confirmed appointment in a professional's calendar
type Booking struct {
	ID             int64
	TenantID       int64
	ClinicID       int64
	ProfessionalID int64 // эффективный специалист (после подстановки замещения)

	// Аудит замещения: заполняются, если холд был создан через coverage
	OriginalProfessionalID *int64
	CoverageID             *int64

	PatientID     int64
	ServiceTypeID *int64
	StartAt       time.Time // UTC
	EndAt         time.Time // UTC
	Status        BookingStatus
	PaymentStatus PaymentStatus
	HoldID        *int64 // холд, из которого создана запись (nil при прямом создании)
	Version       int64  // optimistic concurrency

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает занимаемый записью полуоткрытый интервал [StartAt, EndAt)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// IsActive returns true if the booking still blocks the professional's calendar
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a terminal status
// Платежный статус терминальной записи менять нельзя
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusNoShow || b.Status == StatusCompleted
}
