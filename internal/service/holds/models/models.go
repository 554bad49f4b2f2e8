package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CancelHoldRequest запрос на отмену холда
type CancelHoldRequest struct {
	TenantID  int64       `json:"tenantId"`
	HoldID    int64       `json:"holdId"`
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
}

// GetHoldRequest запрос на получение холда
type GetHoldRequest struct {
	TenantID  int64       `json:"tenantId"`
	HoldID    int64       `json:"holdId"`
	ActorID   int64       `json:"actorId"`
	ActorRole domain.Role `json:"actorRole"`
}

// Response модели

// HoldResponse ответ с данными холда
type HoldResponse struct {
	ID                     int64     `json:"id"`
	TenantID               int64     `json:"tenantId"`
	ClinicID               int64     `json:"clinicId"`
	ProfessionalID         int64     `json:"professionalId"`
	OriginalProfessionalID *int64    `json:"originalProfessionalId,omitempty"`
	CoverageID             *int64    `json:"coverageId,omitempty"`
	PatientID              int64     `json:"patientId"`
	ServiceTypeID          *int64    `json:"serviceTypeId,omitempty"`
	StartAt                time.Time `json:"startAt"`
	EndAt                  time.Time `json:"endAt"`
	TTLExpiresAt           time.Time `json:"ttlExpiresAt"`
	Status                 string    `json:"status"`
	Version                int64     `json:"version"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// FromDomainHold конвертирует domain модель в response
func FromDomainHold(h *domain.Hold) *HoldResponse {
	return &HoldResponse{
		ID:                     h.ID,
		TenantID:               h.TenantID,
		ClinicID:               h.ClinicID,
		ProfessionalID:         h.ProfessionalID,
		OriginalProfessionalID: h.OriginalProfessionalID,
		CoverageID:             h.CoverageID,
		PatientID:              h.PatientID,
		ServiceTypeID:          h.ServiceTypeID,
		StartAt:                h.StartAt,
		EndAt:                  h.EndAt,
		TTLExpiresAt:           h.TTLExpiresAt,
		Status:                 string(h.Status),
		Version:                h.Version,
		CreatedAt:              h.CreatedAt,
		UpdatedAt:              h.UpdatedAt,
	}
}
