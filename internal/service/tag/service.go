package tag

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/internal/service/event"
)

type Service struct {
	repo   repository.TagRepository
	events event.Recorder
	logger zerolog.Logger
}

func NewService(repo repository.TagRepository, events event.Recorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateTagRequest) (*model.Tag, error) {
	t := &model.Tag{
		TenantID: tenantID,
		Nome:     strings.TrimSpace(req.Nome),
		Cor:      strings.ToLower(req.Cor),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "tag", "create", tenantID, t.ID, t)
	return t, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Tag, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID, search string, p model.Pagination) ([]*model.Tag, int, error) {
	p.Normalize()
	return s.repo.List(ctx, tenantID, search, p)
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateTagRequest) (*model.Tag, error) {
	t, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		t.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Cor != nil {
		t.Cor = strings.ToLower(*req.Cor)
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "tag", "update", tenantID, id, t)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.events.Record(ctx, "tag", "delete", tenantID, id, nil)
	return nil
}
