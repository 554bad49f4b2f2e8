package hold

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var holdColumns = []string{
	"id",
	"tenant_id",
	"clinic_id",
	"professional_id",
	"original_professional_id",
	"coverage_id",
	"patient_id",
	"service_type_id",
	"start_at",
	"end_at",
	"ttl_expires_at",
	"status",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с холдами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый холд со статусом active и version = 1
// Вызывается только внутри сериализуемой транзакции после сканирования конфликтов
func (r *Repository) Create(ctx context.Context, h *domain.Hold) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holds").
		Columns(
			"tenant_id",
			"clinic_id",
			"professional_id",
			"original_professional_id",
			"coverage_id",
			"patient_id",
			"service_type_id",
			"start_at",
			"end_at",
			"ttl_expires_at",
			"status",
			"version",
		).
		Values(
			h.TenantID,
			h.ClinicID,
			h.ProfessionalID,
			h.OriginalProfessionalID,
			h.CoverageID,
			h.PatientID,
			h.ServiceTypeID,
			h.StartAt,
			h.EndAt,
			h.TTLExpiresAt,
			domain.HoldStatusActive,
			1,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&h.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.Status = domain.HoldStatusActive
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return h, nil
}

// GetByID получает холд по ID в рамках тенанта
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	// Внутри пишущей транзакции блокируем строку: подтверждение и отмена
	// конкурируют со sweep'ом истечения
	if dbmetrics.IsInWriteTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	h, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hold: %v", ErrScanRow, err)
	}

	return h, nil
}

// FindActiveOverlap возвращает активные неистекшие холды специалиста,
// пересекающиеся с полуоткрытым окном [start, end)
// Истечение проверяется лениво прямо в запросе (ttl_expires_at > now):
// просроченный, но еще не подметенный sweep'ом холд слот не блокирует.
// Внутри пишущей транзакции добавляется FOR UPDATE;
// в read-only транзакции (чтение расписания) блокировка не берется
func (r *Repository) FindActiveOverlap(ctx context.Context, tenantID, professionalID int64, start, end, now time.Time) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where(squirrel.Eq{
			"tenant_id":       tenantID,
			"professional_id": professionalID,
			"status":          string(domain.HoldStatusActive),
		}).
		Where(squirrel.Gt{"ttl_expires_at": now}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInWriteTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlap - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlap - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// UpdateStatus переводит холд в новый статус с optimistic concurrency проверкой
// Используется для consume (подтверждение) и cancel
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id, version int64, status domain.HoldStatus) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", status).
		Set("version", version+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID, "version": version}).
		Suffix("RETURNING " + strings.Join(holdColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	h, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMiss(ctx, tenantID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - scan hold: %v", ErrScanRow, err)
	}

	return h, nil
}

// ExpireDue переводит все активные холды с истекшим TTL в статус expired
// и возвращает затронутые холды (для публикации событий)
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusExpired).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(domain.HoldStatusActive)}).
		Where(squirrel.LtOrEq{"ttl_expires_at": now}).
		Suffix("RETURNING " + strings.Join(holdColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// classifyMiss различает "холд не найден" и "устаревшая версия"
func (r *Repository) classifyMiss(ctx context.Context, tenantID, id int64) error {
	if _, err := r.GetByID(ctx, tenantID, id); err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			return ErrHoldNotFound
		}
		return err
	}
	return ErrVersionConflict
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.Hold, error) {
	var h domain.Hold
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.TenantID,
		&h.ClinicID,
		&h.ProfessionalID,
		&h.OriginalProfessionalID,
		&h.CoverageID,
		&h.PatientID,
		&h.ServiceTypeID,
		&h.StartAt,
		&h.EndAt,
		&h.TTLExpiresAt,
		&h.Status,
		&h.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func scanHolds(rows *sql.Rows) ([]*domain.Hold, error) {
	holds := make([]*domain.Hold, 0)

	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
