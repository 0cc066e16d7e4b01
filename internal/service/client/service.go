package client

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
	repo         repository.ClientRepository
	appointments repository.AppointmentRepository
	events       event.Recorder
	logger       zerolog.Logger
}

func NewService(
	repo repository.ClientRepository,
	appointments repository.AppointmentRepository,
	events event.Recorder,
	logger zerolog.Logger,
) *Service {
	return &Service{repo: repo, appointments: appointments, events: events, logger: logger}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateClientRequest) (*model.Client, error) {
	c := &model.Client{
		TenantID: tenantID,
		Nome:     strings.TrimSpace(req.Nome),
		CPF:      req.CPF,
		Telefone: req.Telefone,
		Email:    req.Email,
		Endereco: req.Endereco,
		Status:   model.LifecycleAtivo,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "client", "create", tenantID, c.ID, c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Client, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Client, int, error) {
	filters.Pagination.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	c, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != nil {
		c.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.CPF != nil {
		c.CPF = *req.CPF
	}
	if req.Telefone != nil {
		c.Telefone = *req.Telefone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Endereco != nil {
		c.Endereco = req.Endereco
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.events.Record(ctx, "client", "update", tenantID, id, c)
	return c, nil
}

func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error {
	if err := s.repo.SetStatus(ctx, tenantID, id, status); err != nil {
		return err
	}
	s.events.Record(ctx, "client", "status", tenantID, id, map[string]interface{}{"status": status})
	return nil
}

func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.events.Record(ctx, "client", "delete", tenantID, id, nil)
	return nil
}

// History returns the client's appointments, newest first page ordering is
// left to the appointment repository (scheduled date ascending).
func (s *Service) History(ctx context.Context, tenantID, id uuid.UUID, p model.Pagination) ([]*model.Appointment, int, error) {
	if _, err := s.repo.Get(ctx, tenantID, id); err != nil {
		return nil, 0, err
	}

	p.Normalize()
	filters := &model.AppointmentFilters{
		TenantID:   tenantID,
		ClienteID:  &id,
		Pagination: p,
	}
	return s.appointments.List(ctx, filters)
}
