package document

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/internal/service/event"
	"github.com/saudelog/agenda-api/pkg/errors"
	"github.com/saudelog/agenda-api/pkg/storage"
)

type Config struct {
	MaxFileSize  int64
	AllowedTypes []string
}

// Service coordinates the presigned upload flow: validate, presign, record a
// pending document, and finalize metadata once the client confirms the PUT.
type Service struct {
	repo      repository.DocumentRepository
	presigner storage.Presigner
	cfg       Config
	events    event.Recorder
	logger    zerolog.Logger

	allowed map[string]bool
}

func NewService(
	repo repository.DocumentRepository,
	presigner storage.Presigner,
	cfg Config,
	events event.Recorder,
	logger zerolog.Logger,
) *Service {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = true
	}
	return &Service{
		repo:      repo,
		presigner: presigner,
		cfg:       cfg,
		events:    events,
		logger:    logger,
		allowed:   allowed,
	}
}

// InitiateBatch processes each file in order, one at a time. A file that
// fails validation or presigning gets its own error entry and the batch
// continues with the next file.
func (s *Service) InitiateBatch(ctx context.Context, tenantID, appointmentID uuid.UUID, files []model.UploadFileRequest) []model.UploadResult {
	results := make([]model.UploadResult, 0, len(files))
	for _, file := range files {
		result := model.UploadResult{FileName: file.FileName}

		docID, descriptor, err := s.initiate(ctx, tenantID, appointmentID, file)
		if err != nil {
			result.Error = err.Error()
			s.logger.Warn().Err(err).Str("file", file.FileName).Msg("upload initiation rejected")
		} else {
			result.DocumentID = &docID
			result.Upload = descriptor
		}
		results = append(results, result)
	}
	return results
}

func (s *Service) initiate(ctx context.Context, tenantID, appointmentID uuid.UUID, file model.UploadFileRequest) (uuid.UUID, *storage.UploadDescriptor, error) {
	if err := s.validate(file); err != nil {
		return uuid.Nil, nil, err
	}

	docID := uuid.New()
	objectKey := fmt.Sprintf("%s/%s/%s%s",
		tenantID, appointmentID, docID, path.Ext(file.FileName))

	descriptor, err := s.presigner.PresignUpload(ctx, objectKey, file.ContentType)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	doc := &model.Document{
		Base:          model.Base{ID: docID},
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		FileName:      file.FileName,
		ContentType:   file.ContentType,
		Size:          file.Size,
		ObjectKey:     objectKey,
		Status:        model.DocumentPending,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to record document: %w", err)
	}

	return docID, descriptor, nil
}

func (s *Service) validate(file model.UploadFileRequest) error {
	if !s.allowed[file.ContentType] {
		return errors.BadRequest(fmt.Sprintf("file type %q is not allowed", file.ContentType), nil)
	}
	if file.Size > s.cfg.MaxFileSize {
		return errors.BadRequest(
			fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSize), nil)
	}
	return nil
}

// Confirm finalizes an upload: the reported size and etag are checked against
// what storage actually holds before the document becomes available.
func (s *Service) Confirm(ctx context.Context, tenantID, id uuid.UUID, req *model.ConfirmUploadRequest) (*model.Document, error) {
	doc, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentPending {
		return nil, errors.Conflict("document is not pending upload", nil)
	}

	info, err := s.presigner.Stat(ctx, doc.ObjectKey)
	if err != nil {
		return nil, errors.BadRequest("uploaded object not found in storage", err)
	}
	if info.Size != req.Size {
		return nil, errors.Conflict(
			fmt.Sprintf("size mismatch: storage has %d bytes, client reported %d", info.Size, req.Size), nil)
	}

	if err := s.repo.MarkAvailable(ctx, tenantID, id, info.Size, info.ETag); err != nil {
		return nil, err
	}

	s.events.Record(ctx, "document", "confirm", tenantID, id, map[string]interface{}{
		"agendamento_id": doc.AppointmentID,
		"size":           info.Size,
	})

	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) ListByAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID) ([]*model.Document, error) {
	return s.repo.ListByAppointment(ctx, tenantID, appointmentID)
}

// DownloadURL returns a short-lived presigned GET for an available document.
func (s *Service) DownloadURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	doc, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if doc.Status != model.DocumentAvailable {
		return "", errors.Conflict("document upload was never confirmed", nil)
	}
	return s.presigner.PresignDownload(ctx, doc.ObjectKey)
}

// Delete soft-deletes by default. Hard delete (admin only) also removes the
// blob; a storage failure there is logged but does not resurrect the row.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	doc, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if !hard {
		if err := s.repo.SoftDelete(ctx, tenantID, id); err != nil {
			return err
		}
		s.events.Record(ctx, "document", "delete", tenantID, id, nil)
		return nil
	}

	if err := s.repo.HardDelete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.presigner.Delete(ctx, doc.ObjectKey); err != nil {
		s.logger.Error().Err(err).Str("object", doc.ObjectKey).Msg("failed to delete blob for hard-deleted document")
	}
	s.events.Record(ctx, "document", "delete", tenantID, id, map[string]interface{}{"hard": true})
	return nil
}
