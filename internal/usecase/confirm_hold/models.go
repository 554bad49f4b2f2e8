package confirm_hold

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на подтверждение холда
type Request struct {
	TenantID  int64       // ID тенанта
	HoldID    int64       // ID подтверждаемого холда
	ActorID   int64       // кто выполняет запрос
	ActorRole domain.Role // роль вызывающего
}

// Response модель ответа с созданной записью
type Response struct {
	BookingID              int64
	HoldID                 int64
	TenantID               int64
	ClinicID               int64
	ProfessionalID         int64
	OriginalProfessionalID *int64
	CoverageID             *int64
	PatientID              int64
	ServiceTypeID          *int64
	StartAt                time.Time
	EndAt                  time.Time
	Status                 string
	PaymentStatus          string
	Version                int64
	CreatedAt              time.Time
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *Response {
	resp := &Response{
		BookingID:              b.ID,
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
		Version:                b.Version,
		CreatedAt:              b.CreatedAt,
	}
	if b.HoldID != nil {
		resp.HoldID = *b.HoldID
	}
	return resp
}
