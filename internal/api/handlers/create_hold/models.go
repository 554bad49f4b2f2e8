package create_hold

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createHold "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_hold"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ClinicID       int64  `json:"clinicId"`
	ProfessionalID int64  `json:"professionalId"`
	PatientID      int64  `json:"patientId"`
	ServiceTypeID  *int64 `json:"serviceTypeId,omitempty"`
	StartAt        string `json:"startAt"`         // RFC3339, например "2026-09-15T10:00:00Z"
	EndAt          string `json:"endAt,omitempty"` // опционально при заданной длительности услуги
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ID                     int64  `json:"id"`
	TenantID               int64  `json:"tenantId"`
	ClinicID               int64  `json:"clinicId"`
	ProfessionalID         int64  `json:"professionalId"`
	OriginalProfessionalID *int64 `json:"originalProfessionalId,omitempty"`
	CoverageID             *int64 `json:"coverageId,omitempty"`
	PatientID              int64  `json:"patientId"`
	ServiceTypeID          *int64 `json:"serviceTypeId,omitempty"`
	StartAt                string `json:"startAt"`
	EndAt                  string `json:"endAt"`
	TTLExpiresAt           string `json:"ttlExpiresAt"`
	Status                 string `json:"status"`
	Version                int64  `json:"version"`
	CreatedAt              string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest(tenantID, actorID int64, role domain.Role) (*createHold.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, fmt.Errorf("parse startAt: %w", err)
	}

	var endAt time.Time
	if r.EndAt != "" {
		endAt, err = time.Parse(time.RFC3339, r.EndAt)
		if err != nil {
			return nil, fmt.Errorf("parse endAt: %w", err)
		}
	}

	return &createHold.Request{
		TenantID:       tenantID,
		ClinicID:       r.ClinicID,
		ProfessionalID: r.ProfessionalID,
		PatientID:      r.PatientID,
		ServiceTypeID:  r.ServiceTypeID,
		StartAt:        startAt,
		EndAt:          endAt,
		ActorID:        actorID,
		ActorRole:      role,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		ID:                     resp.ID,
		TenantID:               resp.TenantID,
		ClinicID:               resp.ClinicID,
		ProfessionalID:         resp.ProfessionalID,
		OriginalProfessionalID: resp.OriginalProfessionalID,
		CoverageID:             resp.CoverageID,
		PatientID:              resp.PatientID,
		ServiceTypeID:          resp.ServiceTypeID,
		StartAt:                resp.StartAt.Format(time.RFC3339),
		EndAt:                  resp.EndAt.Format(time.RFC3339),
		TTLExpiresAt:           resp.TTLExpiresAt.Format(time.RFC3339),
		Status:                 resp.Status,
		Version:                resp.Version,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
	}
}
