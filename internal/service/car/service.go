package car

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/internal/service/event"
)

type Service struct {
	repo   repository.CarRepository
	events event.Recorder
	logger zerolog.Logger
}

func NewService(repo repository.CarRepository, events event.Recorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateCarRequest) (*model.Car, error) {
	c := &model.Car{
		TenantID: tenantID,
		Placa:    strings.ToUpper(strings.TrimSpace(req.Placa)),
		Modelo:   req.Modelo,
		Marca:    req.Marca,
		Ano:      req.Ano,
		Status:   model.LifecycleAtivo,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "car", "create", tenantID, c.ID, c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Car, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Car, int, error) {
	filters.Pagination.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Car, error) {
	return s.repo.ListActive(ctx, tenantID)
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateCarRequest) (*model.Car, error) {
	c, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Placa != nil {
		c.Placa = strings.ToUpper(strings.TrimSpace(*req.Placa))
	}
	if req.Modelo != nil {
		c.Modelo = *req.Modelo
	}
	if req.Marca != nil {
		c.Marca = *req.Marca
	}
	if req.Ano != nil {
		c.Ano = *req.Ano
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "car", "update", tenantID, id, c)
	return c, nil
}

func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	if err := s.repo.SetStatus(ctx, tenantID, id, status); err != nil {
		return err
	}
	s.events.Record(ctx, "car", "status", tenantID, id, map[string]interface{}{"status": status})
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.events.Record(ctx, "car", "delete", tenantID, id, nil)
	return nil
}

func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error) {
	return s.repo.Stats(ctx, tenantID)
}

func (s *Service) FilterOptions(ctx context.Context, tenantID uuid.UUID) ([]model.FilterOption, error) {
	cars, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options := make([]model.FilterOption, len(cars))
	for i, c := range cars {
		label := c.Placa
		if c.Modelo != "" {
			label = fmt.Sprintf("%s (%s)", c.Placa, c.Modelo)
		}
		options[i] = model.FilterOption{Value: c.ID.String(), Label: label}
	}
	return options, nil
}
