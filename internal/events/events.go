package events

import "time"

// Имена доменных событий
const (
	NameHoldCreated          = "scheduling.hold.created"
	NameHoldCancelled        = "scheduling.hold.cancelled"
	NameHoldExpired          = "scheduling.hold.expired"
	NameBookingCreated       = "scheduling.booking.created"
	NameBookingCancelled     = "scheduling.booking.cancelled"
	NamePaymentStatusChanged = "scheduling.payment_status.changed"
)

// Event закрытое множество типизированных payload'ов доменных событий
// Каждое событие знает своё имя; generic map не используется, чтобы
// добавление потребителя ловилось компилятором
type Event interface {
	EventName() string
}

// HoldCreated публикуется после успешного создания холда
type HoldCreated struct {
	HoldID                  int64     `json:"holdId"`
	TenantID                int64     `json:"tenantId"`
	ClinicID                int64     `json:"clinicId"`
	EffectiveProfessionalID int64     `json:"effectiveProfessionalId"`
	OriginalProfessionalID  *int64    `json:"originalProfessionalId,omitempty"`
	CoverageID              *int64    `json:"coverageId,omitempty"`
	PatientID               int64     `json:"patientId"`
	ServiceTypeID           *int64    `json:"serviceTypeId,omitempty"`
	StartAt                 time.Time `json:"startAt"`
	EndAt                   time.Time `json:"endAt"`
	TTLExpiresAt            time.Time `json:"ttlExpiresAt"`
}

func (HoldCreated) EventName() string { return NameHoldCreated }

// HoldCancelled публикуется при явной отмене холда
type HoldCancelled struct {
	HoldID         int64 `json:"holdId"`
	TenantID       int64 `json:"tenantId"`
	ClinicID       int64 `json:"clinicId"`
	ProfessionalID int64 `json:"professionalId"`
	PatientID      int64 `json:"patientId"`
	CancelledBy    int64 `json:"cancelledBy"`
}

func (HoldCancelled) EventName() string { return NameHoldCancelled }

// HoldExpired публикуется, когда холд освобожден по TTL
type HoldExpired struct {
	HoldID         int64     `json:"holdId"`
	TenantID       int64     `json:"tenantId"`
	ClinicID       int64     `json:"clinicId"`
	ProfessionalID int64     `json:"professionalId"`
	PatientID      int64     `json:"patientId"`
	TTLExpiresAt   time.Time `json:"ttlExpiresAt"`
}

func (HoldExpired) EventName() string { return NameHoldExpired }

// BookingCreated публикуется при подтверждении холда в запись
type BookingCreated struct {
	BookingID               int64     `json:"bookingId"`
	HoldID                  *int64    `json:"holdId,omitempty"`
	TenantID                int64     `json:"tenantId"`
	ClinicID                int64     `json:"clinicId"`
	EffectiveProfessionalID int64     `json:"effectiveProfessionalId"`
	OriginalProfessionalID  *int64    `json:"originalProfessionalId,omitempty"`
	CoverageID              *int64    `json:"coverageId,omitempty"`
	PatientID               int64     `json:"patientId"`
	StartAt                 time.Time `json:"startAt"`
	EndAt                   time.Time `json:"endAt"`
}

func (BookingCreated) EventName() string { return NameBookingCreated }

// BookingCancelled публикуется при отмене записи
type BookingCancelled struct {
	BookingID              int64   `json:"bookingId"`
	TenantID               int64   `json:"tenantId"`
	ClinicID               int64   `json:"clinicId"`
	ProfessionalID         int64   `json:"professionalId"`
	OriginalProfessionalID *int64  `json:"originalProfessionalId,omitempty"`
	CoverageID             *int64  `json:"coverageId,omitempty"`
	PatientID              int64   `json:"patientId"`
	CancelledBy            int64   `json:"cancelledBy"`
	Reason                 *string `json:"reason,omitempty"`
}

func (BookingCancelled) EventName() string { return NameBookingCancelled }

// PaymentStatusChanged публикуется при смене платежного статуса записи
// Не публикуется, если новый статус совпадает с текущим (идемпотентный no-op)
type PaymentStatusChanged struct {
	BookingID      int64  `json:"bookingId"`
	TenantID       int64  `json:"tenantId"`
	ClinicID       int64  `json:"clinicId"`
	ProfessionalID int64  `json:"professionalId"`
	PatientID      int64  `json:"patientId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
}

func (PaymentStatusChanged) EventName() string { return NamePaymentStatusChanged }
