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

type clientRepository struct {
	BaseRepository
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *clientRepository) Create(ctx context.Context, c *model.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, nome, cpf, telefone, email, endereco, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :nome, :cpf, :telefone, :email, :endereco, :status, :created_at, :updated_at)
	`
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, tenant_id, nome, cpf, telefone, email, endereco, status, created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var c model.Client
	if err := r.db.GetContext(ctx, &c, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("client", err)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Client, int, error) {
	where := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []interface{}{filters.TenantID}
	argCount := 2

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filters.Status)
		argCount++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(nome ILIKE $%d OR cpf = $%d)", argCount, argCount+1))
		args = append(args, "%"+filters.Search+"%", filters.Search)
		argCount += 2
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM clients WHERE "+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, nome, cpf, telefone, email, endereco, status, created_at, updated_at, deleted_at
		FROM clients
		WHERE %s
		ORDER BY nome ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

func (r *clientRepository) Update(ctx context.Context, c *model.Client) error {
	query := `
		UPDATE clients
		SET nome = :nome, cpf = :cpf, telefone = :telefone, email = :email, endereco = :endereco, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
	`
	c.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return checkAffected(result, "client")
}

func (r *clientRepository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	query := `
		UPDATE clients SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update client status: %w", err)
	}
	return checkAffected(result, "client")
}

func (r *clientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE clients SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return checkAffected(result, "client")
}
