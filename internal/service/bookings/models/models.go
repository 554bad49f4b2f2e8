package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном платежном статусе
	ErrInvalidStatus = errors.New("invalid payment status")
)

// Request модели

// GetBookingRequest запрос на получение записи
type GetBookingRequest struct {
	TenantID  int64       `json:"tenantId"`
	BookingID int64       `json:"bookingId"`
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
}

// CancelBookingRequest запрос на отмену записи
type CancelBookingRequest struct {
	TenantID           int64       `json:"tenantId"`
	BookingID          int64       `json:"bookingId"`
	ActorID            int64       `json:"actorId"`
	ActorRole          domain.Role `json:"actorRole"`
	CancellationReason *string     `json:"cancellationReason,omitempty"`
	// Ожидаемая клиентом версия записи; при расхождении отмена отклоняется
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

// RecordPaymentStatusRequest запрос на смену платежного статуса
type RecordPaymentStatusRequest struct {
	TenantID        int64       `json:"tenantId"`
	BookingID       int64       `json:"bookingId"`
	ActorID         int64       `json:"actorId"`
	ActorRole       domain.Role `json:"actorRole"`
	PaymentStatus   string      `json:"paymentStatus"`
	ExpectedVersion *int64      `json:"expectedVersion,omitempty"`
}

// GetScheduleRequest запрос расписания специалиста за период
type GetScheduleRequest struct {
	TenantID       int64       `json:"tenantId"`
	ProfessionalID int64       `json:"professionalId"`
	ActorID        int64       `json:"actorId"`
	ActorRole      domain.Role `json:"actorRole"`
	From           time.Time   `json:"from"`
	To             time.Time   `json:"to"`
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID                     int64      `json:"id"`
	TenantID               int64      `json:"tenantId"`
	ClinicID               int64      `json:"clinicId"`
	ProfessionalID         int64      `json:"professionalId"`
	OriginalProfessionalID *int64     `json:"originalProfessionalId,omitempty"`
	CoverageID             *int64     `json:"coverageId,omitempty"`
	PatientID              int64      `json:"patientId"`
	ServiceTypeID          *int64     `json:"serviceTypeId,omitempty"`
	StartAt                time.Time  `json:"startAt"`
	EndAt                  time.Time  `json:"endAt"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"paymentStatus"`
	HoldID                 *int64     `json:"holdId,omitempty"`
	Version                int64      `json:"version"`
	CancellationReason     *string    `json:"cancellationReason,omitempty"`
	CancelledAt            *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy            *int64     `json:"cancelledBy,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// ScheduleEntry один занятый интервал в расписании специалиста
type ScheduleEntry struct {
	Kind          string    `json:"kind"` // booking | hold
	ID            int64     `json:"id"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Status        string    `json:"status"`
	PatientID     int64     `json:"patientId"`
	ServiceTypeID *int64    `json:"serviceTypeId,omitempty"`
}

// ScheduleResponse расписание специалиста за период
type ScheduleResponse struct {
	ProfessionalID int64           `json:"professionalId"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Entries        []ScheduleEntry `json:"entries"`
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                     b.ID,
		TenantID:               b.TenantID,
		ClinicID:               b.ClinicID,
		ProfessionalID:         b.ProfessionalID,
		OriginalProfessionalID: b.OriginalProfessionalID,
		CoverageID:             b.CoverageID,
		PatientID:              b.PatientID,
		ServiceTypeID:          b.ServiceTypeID,
		StartAt:                b.StartAt,
		EndAt:                  b.EndAt,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
		HoldID:                 b.HoldID,
		Version:                b.Version,
		CancellationReason:     b.CancellationReason,
		CancelledAt:            b.CancelledAt,
		CancelledBy:            b.CancelledBy,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

// ToDomainPaymentStatus валидирует и конвертирует строку в domain.PaymentStatus
func ToDomainPaymentStatus(s string) (domain.PaymentStatus, error) {
	status := domain.PaymentStatus(s)
	switch status {
	case domain.PaymentPending,
		domain.PaymentApproved,
		domain.PaymentSettled,
		domain.PaymentRefunded,
		domain.PaymentChargeback,
		domain.PaymentFailed:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}
