package collector

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
	repo   repository.CollectorRepository
	events event.Recorder
	logger zerolog.Logger
}

func NewService(repo repository.CollectorRepository, events event.Recorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateCollectorRequest) (*model.Collector, error) {
	c := &model.Collector{
		TenantID: tenantID,
		Nome:     strings.TrimSpace(req.Nome),
		CNPJ:     req.CNPJ,
		Telefone: req.Telefone,
		Cidade:   req.Cidade,
		Status:   model.LifecycleAtivo,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "collector", "create", tenantID, c.ID, c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Collector, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Collector, int, error) {
	filters.Pagination.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Collector, error) {
	return s.repo.ListActive(ctx, tenantID)
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateCollectorRequest) (*model.Collector, error) {
	c, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		c.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.CNPJ != nil {
		c.CNPJ = *req.CNPJ
	}
	if req.Telefone != nil {
		c.Telefone = *req.Telefone
	}
	if req.Cidade != nil {
		c.Cidade = *req.Cidade
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "collector", "update", tenantID, id, c)
	return c, nil
}

func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	if err := s.repo.SetStatus(ctx, tenantID, id, status); err != nil {
		return err
	}
	s.events.Record(ctx, "collector", "status", tenantID, id, map[string]interface{}{"status": status})
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.events.Record(ctx, "collector", "delete", tenantID, id, nil)
	return nil
}

func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	return s.repo.Stats(ctx, tenantID)
}

func (s *Service) FilterOptions(ctx context.Context, tenantID uuid.UUID) ([]model.FilterOption, error) {
	collectors, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options := make([]model.FilterOption, len(collectors))
	for i, c := range collectors {
		options[i] = model.FilterOption{Value: c.ID.String(), Label: c.Nome}
	}
	return options, nil
}
