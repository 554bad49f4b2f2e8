package confirm_hold

import (
	"time"

	confirmHold "github.com/m04kA/SMC-SchedulingService/internal/usecase/confirm_hold"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                     int64  `json:"id"`
	HoldID                 int64  `json:"holdId"`
	TenantID               int64  `json:"tenantId"`
	ClinicID               int64  `json:"clinicId"`
	ProfessionalID         int64  `json:"professionalId"`
	OriginalProfessionalID *int64 `json:"originalProfessionalId,omitempty"`
	CoverageID             *int64 `json:"coverageId,omitempty"`
	PatientID              int64  `json:"patientId"`
	ServiceTypeID          *int64 `json:"serviceTypeId,omitempty"`
	StartAt                string `json:"startAt"`
	EndAt                  string `json:"endAt"`
	Status                 string `json:"status"`
	PaymentStatus          string `json:"paymentStatus"`
	Version                int64  `json:"version"`
	CreatedAt              string `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *confirmHold.Response) *BookingResponse {
	return &BookingResponse{
		ID:                     resp.BookingID,
		HoldID:                 resp.HoldID,
		TenantID:               resp.TenantID,
		ClinicID:               resp.ClinicID,
		ProfessionalID:         resp.ProfessionalID,
		OriginalProfessionalID: resp.OriginalProfessionalID,
		CoverageID:             resp.CoverageID,
		PatientID:              resp.PatientID,
		ServiceTypeID:          resp.ServiceTypeID,
		StartAt:                resp.StartAt.Format(time.RFC3339),
		EndAt:                  resp.EndAt.Format(time.RFC3339),
		Status:                 resp.Status,
		PaymentStatus:          resp.PaymentStatus,
		Version:                resp.Version,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
	}
}
