package domain

import "time"

// CoverageStatus represents the status of a professional coverage record
type CoverageStatus string

const (
	CoverageStatusActive CoverageStatus = "active"
	CoverageStatusEnded  CoverageStatus = "ended"
)

// ProfessionalCoverage временное замещение одного специалиста другим
// Создается персоналом клиники во внешней админке; здесь только читается
type ProfessionalCoverage struct {
	ID                     int64
	TenantID               int64
	ClinicID               int64
	ProfessionalID         int64 // замещаемый специалист
	CoverageProfessionalID int64 // замещающий специалист
	StartAt                time.Time
	EndAt                  time.Time
	Status                 CoverageStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CoverageResolution результат разрешения замещения для запрошенного окна
// Явный tagged-результат вместо тихой подмены professionalId:
// либо Direct (без замещения), либо Covered с полным аудитом
type CoverageResolution struct {
	EffectiveProfessionalID int64
	OriginalProfessionalID  *int64 // nil, если замещение не применялось
	CoverageID              *int64 // nil, если замещение не применялось
}

// IsCovered returns true if a coverage substitution was applied
func (r CoverageResolution) IsCovered() bool {
	return r.CoverageID != nil
}

// DirectResolution замещение не применялось, эффективный специалист равен запрошенному
func DirectResolution(professionalID int64) CoverageResolution {
	return CoverageResolution{EffectiveProfessionalID: professionalID}
}

// CoveredResolution запрос перенаправлен на замещающего специалиста
func CoveredResolution(original int64, coverage *ProfessionalCoverage) CoverageResolution {
	originalID := original
	coverageID := coverage.ID
	return CoverageResolution{
		EffectiveProfessionalID: coverage.CoverageProfessionalID,
		OriginalProfessionalID:  &originalID,
		CoverageID:              &coverageID,
	}
}
