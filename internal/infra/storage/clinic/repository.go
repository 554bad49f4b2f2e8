package clinic

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

// Repository read-only репозиторий настроек клиник
// Настройки редактируются во внешней админке, движок их только читает
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек клиник
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки бронирования клиники
func (r *Repository) GetSettings(ctx context.Context, tenantID, clinicID int64) (*domain.ClinicSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"clinic_id",
		"hold_ttl_minutes",
		"min_advance_minutes",
		"max_advance_minutes",
		"buffer_minutes",
		"allow_overbooking",
		"overbooking_threshold",
		"resource_matching_strict",
		"created_at",
		"updated_at",
	).
		From("clinic_settings").
		Where(squirrel.Eq{"tenant_id": tenantID, "clinic_id": clinicID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.ClinicSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.TenantID,
		&settings.ClinicID,
		&settings.HoldTTLMinutes,
		&settings.MinAdvanceMinutes,
		&settings.MaxAdvanceMinutes,
		&settings.BufferMinutes,
		&settings.AllowOverbooking,
		&settings.OverbookingThreshold,
		&settings.ResourceMatchingStrict,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
