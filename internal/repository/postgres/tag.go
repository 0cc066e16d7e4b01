package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/pkg/errors"
)

type tagRepository struct {
	BaseRepository
}

func NewTagRepository(db *sqlx.DB) repository.TagRepository {
	return &tagRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *tagRepository) Create(ctx context.Context, t *model.Tag) error {
	query := `
		INSERT INTO tags (id, tenant_id, nome, cor, created_at, updated_at)
		VALUES (:id, :tenant_id, :nome, :cor, :created_at, :updated_at)
	`
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (r *tagRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Tag, error) {
	query := `
		SELECT id, tenant_id, nome, cor, created_at, updated_at, deleted_at
		FROM tags
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var t model.Tag
	if err := r.db.GetContext(ctx, &t, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("tag", err)
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, tenant_id, nome, cor, created_at, updated_at, deleted_at
		FROM tags
		WHERE tenant_id = ? AND id IN (?) AND deleted_at IS NULL
	`, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build tag query: %w", err)
	}

	var tags []*model.Tag
	if err := r.db.SelectContext(ctx, &tags, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context, tenantID uuid.UUID, search string, p model.Pagination) ([]*model.Tag, int, error) {
	where := "tenant_id = $1 AND deleted_at IS NULL"
	args := []interface{}{tenantID}
	argCount := 2

	if search != "" {
		where += fmt.Sprintf(" AND nome ILIKE $%d", argCount)
		args = append(args, "%"+search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tags WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count tags: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, nome, cor, created_at, updated_at, deleted_at
		FROM tags
		WHERE %s
		ORDER BY nome ASC
		LIMIT $%d OFFSET $%d
	`, where, argCount, argCount+1)
	args = append(args, p.PageSize, p.Offset())

	var tags []*model.Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, total, nil
}

func (r *tagRepository) Update(ctx context.Context, t *model.Tag) error {
	query := `
		UPDATE tags SET nome = :nome, cor = :cor, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
	`
	t.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return checkAffected(result, "tag")
}

func (r *tagRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE tags SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return checkAffected(result, "tag")
}
