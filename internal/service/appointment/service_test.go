package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudelog/agenda-api/internal/model"
	apperrors "github.com/saudelog/agenda-api/pkg/errors"
)

type memRepo struct {
	byID map[uuid.UUID]*model.Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (r *memRepo) Create(_ context.Context, apt *model.Appointment) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	r.byID[apt.ID] = apt
	return nil
}

func (r *memRepo) Get(_ context.Context, _, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.byID[id]
	if !ok || apt.DeletedAt != nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *apt
	return &copied, nil
}

func (r *memRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	var out []*model.Appointment
	for _, apt := range r.byID {
		if apt.DeletedAt == nil {
			out = append(out, apt)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) ListRange(_ context.Context, _ uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.byID {
		if apt.DeletedAt == nil && !apt.DataAgendamento.Before(start) && !apt.DataAgendamento.After(end) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *memRepo) ListByDriver(_ context.Context, _, driverID uuid.UUID, _, _ time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.byID {
		if apt.MotoristaID != nil && *apt.MotoristaID == driverID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateFields(_ context.Context, _, id uuid.UUID, fields map[string]interface{}) error {
	apt, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	for column, value := range fields {
		switch column {
		case "status":
			apt.Status = value.(model.AppointmentStatus)
		case "paciente":
			apt.Paciente = value.(string)
		case "telefone":
			apt.Telefone = value.(string)
		case "data_confirmacao":
			at := value.(time.Time)
			apt.DataConfirmacao = &at
		case "motorista_id":
			mid := value.(uuid.UUID)
			apt.MotoristaID = &mid
		case "coletadora_id":
			cid := value.(uuid.UUID)
			apt.ColetadoraID = &cid
		case "carro_id":
			cid := value.(uuid.UUID)
			apt.CarroID = &cid
		case "tags":
			apt.Tags = value.(model.TagList)
		}
	}
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, _, id uuid.UUID) error {
	apt, ok := r.byID[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	now := time.Now()
	apt.DeletedAt = &now
	return nil
}

func (r *memRepo) HardDelete(_ context.Context, _, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

type memTags struct {
	tags map[uuid.UUID]*model.Tag
}

func (r *memTags) Create(_ context.Context, t *model.Tag) error { r.tags[t.ID] = t; return nil }
func (r *memTags) Get(_ context.Context, _, id uuid.UUID) (*model.Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return nil, apperrors.NotFound("tag", nil)
	}
	return t, nil
}
func (r *memTags) GetByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]*model.Tag, error) {
	var out []*model.Tag
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
func (r *memTags) List(_ context.Context, _ uuid.UUID, _ string, _ model.Pagination) ([]*model.Tag, int, error) {
	return nil, 0, nil
}
func (r *memTags) Update(_ context.Context, _ *model.Tag) error   { return nil }
func (r *memTags) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

type memDrivers struct {
	drivers map[uuid.UUID]*model.Driver
}

func (r *memDrivers) Create(_ context.Context, d *model.Driver) error { r.drivers[d.ID] = d; return nil }
func (r *memDrivers) Get(_ context.Context, _, id uuid.UUID) (*model.Driver, error) {
	d, ok := r.drivers[id]
	if !ok {
		return nil, apperrors.NotFound("driver", nil)
	}
	return d, nil
}
func (r *memDrivers) List(_ context.Context, _ *model.RegistryFilters) ([]*model.Driver, int, error) {
	return nil, 0, nil
}
func (r *memDrivers) ListActive(_ context.Context, _ uuid.UUID) ([]*model.Driver, error) {
	return nil, nil
}
func (r *memDrivers) Update(_ context.Context, _ *model.Driver) error { return nil }
func (r *memDrivers) SetStatus(_ context.Context, _, _ uuid.UUID, _ model.LifecycleStatus) error {
	return nil
}
func (r *memDrivers) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }
func (r *memDrivers) Stats(_ context.Context, _ uuid.UUID) (*model.RegistryStats, error) {
	return &model.RegistryStats{}, nil
}

type recordedEvent struct {
	entity string
	action string
}

type capturingRecorder struct {
	events []recordedEvent
}

func (c *capturingRecorder) Record(_ context.Context, entity, action string, _, _ uuid.UUID, _ interface{}) {
	c.events = append(c.events, recordedEvent{entity: entity, action: action})
}

type capturingNotifier struct {
	confirmed int
}

func (c *capturingNotifier) AppointmentConfirmed(_ context.Context, _ *model.Appointment) {
	c.confirmed++
}

func newTestService() (*Service, *memRepo, *memDrivers, *capturingRecorder, *capturingNotifier) {
	repo := newMemRepo()
	tags := &memTags{tags: make(map[uuid.UUID]*model.Tag)}
	drivers := &memDrivers{drivers: make(map[uuid.UUID]*model.Driver)}
	events := &capturingRecorder{}
	notifier := &capturingNotifier{}
	svc := NewService(repo, tags, drivers, events, notifier, zerolog.Nop())
	return svc, repo, drivers, events, notifier
}

func createPending(t *testing.T, svc *Service, tenantID uuid.UUID) *View {
	t.Helper()
	view, err := svc.Create(context.Background(), tenantID, &model.CreateAppointmentRequest{
		Paciente:        "Maria Souza",
		DataAgendamento: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		HoraAgendamento: "09:00",
	})
	require.NoError(t, err)
	return view
}

func TestCreateStartsPending(t *testing.T) {
	svc, _, _, events, _ := newTestService()
	tenantID := uuid.New()

	view := createPending(t, svc, tenantID)
	assert.Equal(t, model.StatusPendente, view.Status)
	require.Len(t, events.events, 1)
	assert.Equal(t, recordedEvent{"appointment", "create"}, events.events[0])
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, _, _, notifier := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	// pendente -> coletado skips confirmation and must be refused.
	_, err := svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusColetado)
	require.Error(t, err)

	updated, err := svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusConfirmado)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmado, updated.Status)
	assert.NotNil(t, updated.DataConfirmacao)
	assert.Equal(t, 1, notifier.confirmed)

	updated, err = svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusEmRota)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEmRota, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusColetado)
	require.NoError(t, err)
	assert.Equal(t, model.StatusColetado, updated.Status)

	// coletado is terminal.
	_, err = svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusCancelado)
	assert.Error(t, err)
}

func TestUpdateStatusSameIsNoChange(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	_, err := svc.UpdateStatus(context.Background(), tenantID, view.ID, model.StatusPendente)
	assert.True(t, apperrors.IsNoChanges(err))
}

func TestUpdateStatusUnknownRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	_, err := svc.UpdateStatus(context.Background(), tenantID, view.ID, "finalizado")
	assert.Error(t, err)
}

func TestUpdateEmptyPatchSkipsWriteAndEvent(t *testing.T) {
	svc, _, _, events, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)
	eventsBefore := len(events.events)

	same := "Maria Souza"
	_, err := svc.Update(context.Background(), tenantID, view.ID, &model.UpdateAppointmentRequest{Paciente: &same})
	assert.True(t, apperrors.IsNoChanges(err))
	assert.Len(t, events.events, eventsBefore)
}

func TestUpdateWritesOnlyChanges(t *testing.T) {
	svc, _, _, events, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	newName := "Ana Lima"
	updated, err := svc.Update(context.Background(), tenantID, view.ID, &model.UpdateAppointmentRequest{Paciente: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", updated.Paciente)
	assert.Equal(t, recordedEvent{"appointment", "update"}, events.events[len(events.events)-1])
}

func TestAssignRequiresActiveDriver(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	inactive := &model.Driver{Base: model.Base{ID: uuid.New()}, Nome: "Carlos", Status: model.LifecycleInativo}
	drivers.drivers[inactive.ID] = inactive

	_, err := svc.Assign(context.Background(), tenantID, view.ID, &model.AssignRequest{MotoristaID: &inactive.ID})
	require.Error(t, err)

	active := &model.Driver{Base: model.Base{ID: uuid.New()}, Nome: "Jose", Status: model.LifecycleAtivo}
	drivers.drivers[active.ID] = active

	updated, err := svc.Assign(context.Background(), tenantID, view.ID, &model.AssignRequest{MotoristaID: &active.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.MotoristaID)
	assert.Equal(t, active.ID, *updated.MotoristaID)
}

func TestAssignEmptyRequestRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	_, err := svc.Assign(context.Background(), tenantID, view.ID, &model.AssignRequest{})
	assert.Error(t, err)
}

func TestDeleteSoftThenGetFails(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	require.NoError(t, svc.Delete(context.Background(), tenantID, view.ID, false))

	_, err := svc.Get(context.Background(), tenantID, view.ID)
	assert.True(t, apperrors.IsNotFound(err))
	// Soft delete keeps the row.
	assert.Len(t, repo.byID, 1)
}

func TestDeleteHardRemovesRow(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	tenantID := uuid.New()
	view := createPending(t, svc, tenantID)

	require.NoError(t, svc.Delete(context.Background(), tenantID, view.ID, true))
	assert.Empty(t, repo.byID)
}
