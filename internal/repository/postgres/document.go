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

type documentRepository struct {
	BaseRepository
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *documentRepository) Create(ctx context.Context, d *model.Document) error {
	query := `
		INSERT INTO documents (
			id, tenant_id, appointment_id, file_name, content_type,
			size, etag, object_key, status, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :appointment_id, :file_name, :content_type,
			:size, :etag, :object_key, :status, :created_at, :updated_at
		)
	`
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Document, error) {
	query := `
		SELECT id, tenant_id, appointment_id, file_name, content_type,
			   size, etag, object_key, status, confirmed_at,
			   created_at, updated_at, deleted_at
		FROM documents
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var d model.Document
	if err := r.db.GetContext(ctx, &d, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("document", err)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

func (r *documentRepository) ListByAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID) ([]*model.Document, error) {
	query := `
		SELECT id, tenant_id, appointment_id, file_name, content_type,
			   size, etag, object_key, status, confirmed_at,
			   created_at, updated_at, deleted_at
		FROM documents
		WHERE tenant_id = $1 AND appointment_id = $2 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`
	var docs []*model.Document
	if err := r.db.SelectContext(ctx, &docs, query, tenantID, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) MarkAvailable(ctx context.Context, tenantID, id uuid.UUID, size int64, etag string) error {
	query := `
		UPDATE documents
		SET status = $1, size = $2, etag = $3, confirmed_at = $4, updated_at = $4
		WHERE id = $5 AND tenant_id = $6 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		model.DocumentAvailable, size, etag, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to confirm document: %w", err)
	}
	return checkAffected(result, "document")
}

func (r *documentRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE documents SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkAffected(result, "document")
}

func (r *documentRepository) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkAffected(result, "document")
}
