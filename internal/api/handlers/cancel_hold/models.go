package cancel_hold

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

// HoldResponse HTTP response model
type HoldResponse struct {
	ID             int64  `json:"id"`
	TenantID       int64  `json:"tenantId"`
	ClinicID       int64  `json:"clinicId"`
	ProfessionalID int64  `json:"professionalId"`
	PatientID      int64  `json:"patientId"`
	StartAt        string `json:"startAt"`
	EndAt          string `json:"endAt"`
	Status         string `json:"status"`
	Version        int64  `json:"version"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP модель
func FromServiceResponse(resp *models.HoldResponse) *HoldResponse {
	return &HoldResponse{
		ID:             resp.ID,
		TenantID:       resp.TenantID,
		ClinicID:       resp.ClinicID,
		ProfessionalID: resp.ProfessionalID,
		PatientID:      resp.PatientID,
		StartAt:        resp.StartAt.Format(time.RFC3339),
		EndAt:          resp.EndAt.Format(time.RFC3339),
		Status:         resp.Status,
		Version:        resp.Version,
	}
}
