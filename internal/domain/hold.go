package domain

import "time"

// HoldStatus represents the status of a reservation hold
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusConsumed  HoldStatus = "consumed"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// Hold represents a time-boxed reservation placeholder
// Блокирует слот специалиста до подтверждения записи или истечения TTL
type Hold struct {
	ID             int64
	TenantID       int64
	ClinicID       int64
	ProfessionalID int64 // эффективный специалист (после подстановки замещения)

	// Аудит замещения: оригинальный специалист и запись о замещении,
	// если запрос был перенаправлен на замещающего
	OriginalProfessionalID *int64
	CoverageID             *int64

	PatientID     int64
	ServiceTypeID *int64
	StartAt       time.Time // UTC
	EndAt         time.Time // UTC
	TTLExpiresAt  time.Time // UTC
	Status        HoldStatus
	Version       int64 // optimistic concurrency

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval возвращает занимаемый холдом полуоткрытый интервал [StartAt, EndAt)
func (h *Hold) Interval() Interval {
	return Interval{Start: h.StartAt, End: h.EndAt}
}

// IsActive returns true if the hold still blocks the slot at the given instant
func (h *Hold) IsActive(now time.Time) bool {
	return h.Status == HoldStatusActive && now.Before(h.TTLExpiresAt)
}

// IsCovered returns true if the hold was redirected to a covering professional
func (h *Hold) IsCovered() bool {
	return h.CoverageID != nil
}
