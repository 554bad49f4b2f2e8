package coverage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository read-only репозиторий замещений специалистов
// Замещения создаются персоналом клиники во внешней админке
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория замещений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindActiveOverlapping возвращает активные замещения специалиста,
// пересекающиеся с полуоткрытым окном [start, end)
// Сортировка по start_at ASC, id ASC фиксирует правило "первое выигрывает":
// выше никакого tie-break не задано, поэтому порядок должен быть детерминированным
func (r *Repository) FindActiveOverlapping(ctx context.Context, tenantID, clinicID, professionalID int64, start, end time.Time) ([]*domain.ProfessionalCoverage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"clinic_id",
		"professional_id",
		"coverage_professional_id",
		"start_at",
		"end_at",
		"status",
		"created_at",
		"updated_at",
	).
		From("professional_coverages").
		Where(squirrel.Eq{
			"tenant_id":       tenantID,
			"clinic_id":       clinicID,
			"professional_id": professionalID,
			"status":          string(domain.CoverageStatusActive),
		}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	coverages := make([]*domain.ProfessionalCoverage, 0)
	for rows.Next() {
		var c domain.ProfessionalCoverage
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.TenantID,
			&c.ClinicID,
			&c.ProfessionalID,
			&c.CoverageProfessionalID,
			&c.StartAt,
			&c.EndAt,
			&c.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: FindActiveOverlapping - scan row: %v", ErrScanRow, err)
		}

		c.CreatedAt = createdAt.Time
		c.UpdatedAt = updatedAt.Time

		coverages = append(coverages, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - rows error: %v", ErrScanRow, err)
	}

	return coverages, nil
}
