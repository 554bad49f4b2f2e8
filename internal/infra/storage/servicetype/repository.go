package servicetype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository read-only репозиторий типов услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов услуг
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип услуги клиники
func (r *Repository) GetByID(ctx context.Context, clinicID, serviceTypeID int64) (*domain.ServiceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"clinic_id",
		"name",
		"duration_minutes",
		"min_advance_minutes",
		"max_advance_minutes",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("service_types").
		Where(squirrel.Eq{"id": serviceTypeID, "clinic_id": clinicID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var st domain.ServiceType
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&st.ID,
		&st.ClinicID,
		&st.Name,
		&st.DurationMinutes,
		&st.MinAdvanceMinutes,
		&st.MaxAdvanceMinutes,
		&st.IsActive,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service type: %v", ErrScanRow, err)
	}

	st.CreatedAt = createdAt.Time
	st.UpdatedAt = updatedAt.Time

	return &st, nil
}
