package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/pkg/errors"
)

type driverRepository struct {
	BaseRepository
}

func NewDriverRepository(db *sqlx.DB) repository.DriverRepository {
	return &driverRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *driverRepository) Create(ctx context.Context, d *model.Driver) error {
	query := `
		INSERT INTO drivers (id, tenant_id, nome, cpf, cnh, telefone, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :nome, :cpf, :cnh, :telefone, :status, :created_at, :updated_at)
	`
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

func (r *driverRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Driver, error) {
	query := `
		SELECT id, tenant_id, nome, cpf, cnh, telefone, status, created_at, updated_at, deleted_at
		FROM drivers
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var d model.Driver
	if err := r.db.GetContext(ctx, &d, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("driver", err)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return &d, nil
}

func (r *driverRepository) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Driver, int, error) {
	where := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []interface{}{filters.TenantID}
	argCount := 2

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filters.Status)
		argCount++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("nome ILIKE $%d", argCount))
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM drivers WHERE "+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, nome, cpf, cnh, telefone, status, created_at, updated_at, deleted_at
		FROM drivers
		WHERE %s
		ORDER BY nome ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var drivers []*model.Driver
	if err := r.db.SelectContext(ctx, &drivers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, total, nil
}

func (r *driverRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Driver, error) {
	query := `
		SELECT id, tenant_id, nome, cpf, cnh, telefone, status, created_at, updated_at, deleted_at
		FROM drivers
		WHERE tenant_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY nome ASC
	`
	var drivers []*model.Driver
	if err := r.db.SelectContext(ctx, &drivers, query, tenantID, model.LifecycleAtivo); err != nil {
		return nil, fmt.Errorf("failed to list active drivers: %w", err)
	}
	return drivers, nil
}

func (r *driverRepository) Update(ctx context.Context, d *model.Driver) error {
	query := `
		UPDATE drivers
		SET nome = :nome, cpf = :cpf, cnh = :cnh, telefone = :telefone, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
	`
	d.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	return checkAffected(result, "driver")
}

func (r *driverRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	query := `
		UPDATE drivers SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}
	return checkAffected(result, "driver")
}

func (r *driverRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE drivers SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	return checkAffected(result, "driver")
}

func (r *driverRepository) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'ativo') AS ativos,
			COUNT(*) FILTER (WHERE status = 'inativo') AS inativos
		FROM drivers
		WHERE tenant_id = $1 AND deleted_at IS NULL
	`
	var stats model.RegistryStats
	if err := r.db.GetContext(ctx, &stats, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to get driver stats: %w", err)
	}
	return &stats, nil
}
