package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/model"
)

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
	ListRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
	ListByDriver(ctx context.Context, tenantID, driverID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
	UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

type DriverRepository interface {
	Create(ctx context.Context, d *model.Driver) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Driver, error)
	List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Driver, int, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Driver, error)
	Update(ctx context.Context, d *model.Driver) error
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error)
}

type CollectorRepository interface {
	Create(ctx context.Context, c *model.Collector) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Collector, error)
	List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Collector, int, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Collector, error)
	Update(ctx context.Context, c *model.Collector) error
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error)
}

type CarRepository interface {
	Create(ctx context.Context, c *model.Car) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Car, error)
	List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Car, int, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*model.Car, error)
	Update(ctx context.Context, c *model.Car) error
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Stats(ctx context.Context, tenantID uuid.UUID) (*model.RegistryStats, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, filters *model.RegistryFilters) ([]*model.Client, int, error)
	Update(ctx context.Context, c *model.Client) error
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status model.LifecycleStatus) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type TagRepository interface {
	Create(ctx context.Context, t *model.Tag) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Tag, error)
	GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*model.Tag, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, p model.Pagination) ([]*model.Tag, int, error)
	Update(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) error
	Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Document, error)
	ListByAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID) ([]*model.Document, error)
	MarkAvailable(ctx context.Context, tenantID, id uuid.UUID, size int64, etag string) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

type OutboxRepository interface {
	Insert(ctx context.Context, event *model.OutboxEvent) error
	GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
}
