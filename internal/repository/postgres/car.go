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

type carRepository struct {
	BaseRepository
}

func NewCarRepository(db *sqlx.DB) repository.CarRepository {
	return &carRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *carRepository) Create(ctx context.Context, c *model.Car) error {
	query := `
		INSERT INTO cars (id, tenant_id, placa, modelo, marca, ano, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :placa, :modelo, :marca, :ano, :status, :created_at, :updated_at)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *carRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Car, error) {
	query := `
		SELECT id, tenant_id, placa, modelo, marca, ano, status, created_at, updated_at, deleted_at
		FROM cars
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var c model.Car
	if err := r.db.GetContext(ctx, &c, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("car", err)
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return &c, nil
}

func (r *carRepository) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Car, int, error) {
	where := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []interface{}{filters.TenantID}
	argCount := 2

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filters.Status)
		argCount++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(placa ILIKE $%d OR modelo ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM cars WHERE "+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, placa, modelo, marca, ano, status, created_at, updated_at, deleted_at
		FROM cars
		WHERE %s
		ORDER BY placa ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var cars []*model.Car
	if err := r.db.SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, total, nil
}

func (r *carRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Car, error) {
	query := `
		SELECT id, tenant_id, placa, modelo, marca, ano, status, created_at, updated_at, deleted_at
		FROM cars
		WHERE tenant_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY placa ASC
	`
	var cars []*model.Car
	if err := r.db.SelectContext(ctx, &cars, query, tenantID, model.LifecycleAtivo); err != nil {
		return nil, fmt.Errorf("failed to list active cars: %w", err)
	}
	return cars, nil
}

func (r *carRepository) Update(ctx context.Context, c *model.Car) error {
	query := `
		UPDATE cars
		SET placa = :placa, modelo = :modelo, marca = :marca, ano = :ano, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
	`
	c.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	return checkAffected(result, "car")
}

func (r *carRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	query := `
		UPDATE cars SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}
	return checkAffected(result, "car")
}

func (r *carRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE cars SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return checkAffected(result, "car")
}

func (r *carRepository) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'ativo') AS ativos,
			COUNT(*) FILTER (WHERE status = 'inativo') AS inativos
		FROM cars
		WHERE tenant_id = $1 AND deleted_at IS NULL
	`
	var stats model.RegistryStats
	if err := r.db.GetContext(ctx, &stats, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to get car stats: %w", err)
	}
	return &stats, nil
}
