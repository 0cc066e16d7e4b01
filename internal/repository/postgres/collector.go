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

type collectorRepository struct {
	BaseRepository
}

func NewCollectorRepository(db *sqlx.DB) repository.CollectorRepository {
	return &collectorRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *collectorRepository) Create(ctx context.Context, c *model.Collector) error {
	query := `
		INSERT INTO collectors (id, tenant_id, nome, cnpj, telefone, cidade, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :nome, :cnpj, :telefone, :cidade, :status, :created_at, :updated_at)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	return nil
}

func (r *collectorRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Collector, error) {
	query := `
		SELECT id, tenant_id, nome, cnpj, telefone, cidade, status, created_at, updated_at, deleted_at
		FROM collectors
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var c model.Collector
	if err := r.db.GetContext(ctx, &c, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("collector", err)
		}
		return nil, fmt.Errorf("failed to get collector: %w", err)
	}
	return &c, nil
}

func (r *collectorRepository) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Collector, int, error) {
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
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM collectors WHERE "+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count collectors: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, nome, cnpj, telefone, cidade, status, created_at, updated_at, deleted_at
		FROM collectors
		WHERE %s
		ORDER BY nome ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var collectors []*model.Collector
	if err := r.db.SelectContext(ctx, &collectors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list collectors: %w", err)
	}
	return collectors, total, nil
}

func (r *collectorRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Collector, error) {
	query := `
		SELECT id, tenant_id, nome, cnpj, telefone, cidade, status, created_at, updated_at, deleted_at
		FROM collectors
		WHERE tenant_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY nome ASC
	`
	var collectors []*model.Collector
	if err := r.db.SelectContext(ctx, &collectors, query, tenantID, model.LifecycleAtivo); err != nil {
		return nil, fmt.Errorf("failed to list active collectors: %w", err)
	}
	return collectors, nil
}

func (r *collectorRepository) Update(ctx context.Context, c *model.Collector) error {
	query := `
		UPDATE collectors
		SET nome = :nome, cnpj = :cnpj, telefone = :telefone, cidade = :cidade, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
	`
	c.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to update collector: %w", err)
	}
	return checkAffected(result, "collector")
}

func (r *collectorRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	query := `
		UPDATE collectors SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update collector status: %w", err)
	}
	return checkAffected(result, "collector")
}

func (r *collectorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE collectors SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete collector: %w", err)
	}
	return checkAffected(result, "collector")
}

func (r *collectorRepository) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'ativo') AS ativos,
			COUNT(*) FILTER (WHERE status = 'inativo') AS inativos
		FROM collectors
		WHERE tenant_id = $1 AND deleted_at IS NULL
	`
	var stats model.RegistryStats
	if err := r.db.GetContext(ctx, &stats, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to get collector stats: %w", err)
	}
	return &stats, nil
}
