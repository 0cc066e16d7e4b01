package driver

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
	repo   repository.DriverRepository
	events event.Recorder
	logger zerolog.Logger
}

func NewService(repo repository.DriverRepository, events event.Recorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateDriverRequest) (*model.Driver, error) {
	d := &model.Driver{
		TenantID: tenantID,
		Nome:     strings.TrimSpace(req.Nome),
		CPF:      req.CPF,
		CNH:      req.CNH,
		Telefone: req.Telefone,
		Status:   model.LifecycleAtivo,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "driver", "create", tenantID, d.ID, d)
	return d, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Driver, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Driver, int, error) {
	filters.Pagination.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Driver, error) {
	return s.repo.ListActive(ctx, tenantID)
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateDriverRequest) (*model.Driver, error) {
	d, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		d.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.CPF != nil {
		d.CPF = *req.CPF
	}
	if req.CNH != nil {
		d.CNH = *req.CNH
	}
	if req.Telefone != nil {
		d.Telefone = *req.Telefone
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "driver", "update", tenantID, id, d)
	return d, nil
}

func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	if err := s.repo.SetStatus(ctx, tenantID, id, status); err != nil {
		return err
	}
	s.events.Record(ctx, "driver", "status", tenantID, id, map[string]interface{}{"status": status})
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.events.Record(ctx, "driver", "delete", tenantID, id, nil)
	return nil
}

func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	return s.repo.Stats(ctx, tenantID)
}

// FilterOptions returns the active drivers as select options for list
// filters.
func (s *Service) FilterOptions(ctx context.Context, tenantID uuid.UUID) ([]model.FilterOption, error) {
	drivers, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options := make([]model.FilterOption, len(drivers))
	for i, d := range drivers {
		options[i] = model.FilterOption{Value: d.ID.String(), Label: d.Nome}
	}
	return options, nil
}
