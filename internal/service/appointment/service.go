package appointment

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/internal/service/agenda"
	"github.com/saudelog/agenda-api/internal/service/event"
	"github.com/saudelog/agenda-api/pkg/errors"
)

// Notifier receives appointment lifecycle notifications. Failures are the
// notifier's problem: the service never rolls back on a notification error.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, apt *model.Appointment)
}

type Service struct {
	repo     repository.AppointmentRepository
	tags     repository.TagRepository
	drivers  repository.DriverRepository
	events   event.Recorder
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	tags repository.TagRepository,
	drivers repository.DriverRepository,
	events event.Recorder,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		tags:     tags,
		drivers:  drivers,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req *model.CreateAppointmentRequest) (*View, error) {
	tags, err := s.resolveTags(ctx, tenantID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		TenantID:          tenantID,
		Paciente:          strings.TrimSpace(req.Paciente),
		Unidade:           req.Unidade,
		Marca:             req.Marca,
		DataAgendamento:   req.DataAgendamento,
		HoraAgendamento:   req.HoraAgendamento,
		Status:            model.StatusPendente,
		ClienteID:         req.ClienteID,
		EnderecoColeta:    req.EnderecoColeta,
		Endereco:          req.Endereco,
		DocumentoCompleto: req.DocumentoCompleto,
		CPF:               req.CPF,
		RG:                req.RG,
		Documento:         req.Documento,
		Convenio:          req.Convenio,
		NumeroConvenio:    req.NumeroConvenio,
		Carteirinha:       req.Carteirinha,
		Telefone:          req.Telefone,
		Observacoes:       req.Observacoes,
		DescricaoCarro:    req.DescricaoCarro,
		Tags:              tags,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.events.Record(ctx, "appointment", "create", tenantID, apt.ID, apt)
	return NewView(apt), nil
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*View, error) {
	apt, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return NewView(apt), nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*View, int, error) {
	filters.Pagination.Normalize()
	appointments, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return NewViews(appointments), total, nil
}

// Update applies the edited form through the diff builder: only fields whose
// normalized value changed are written. An empty patch short-circuits with
// ErrNoChanges before any write or event.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*View, error) {
	original, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	patch := BuildPatch(original, req)
	if len(patch) == 0 {
		return nil, errors.NoChanges()
	}

	if ids, ok := patch["tag_ids"]; ok {
		tags, err := s.resolveTags(ctx, tenantID, ids.([]uuid.UUID))
		if err != nil {
			return nil, err
		}
		delete(patch, "tag_ids")
		patch["tags"] = tags
	}

	if err := s.repo.UpdateFields(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}

	s.events.Record(ctx, "appointment", "update", tenantID, id, patch)

	updated, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return NewView(updated), nil
}

func (s *Service) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status model.AppointmentStatus) (*View, error) {
	if !status.Known() {
		return nil, errors.BadRequest(fmt.Sprintf("unknown status %q", status), nil)
	}

	apt, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if apt.Status == status {
		return nil, errors.NoChanges()
	}
	if apt.Status.Known() && !apt.Status.CanTransitionTo(status) {
		return nil, errors.Conflict(
			fmt.Sprintf("cannot change status from %q to %q", apt.Status, status), nil)
	}

	patch := map[string]interface{}{"status": status}
	if status == model.StatusConfirmado {
		patch["data_confirmacao"] = time.Now()
	}

	if err := s.repo.UpdateFields(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}

	s.events.Record(ctx, "appointment", "status", tenantID, id, patch)

	updated, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if status == model.StatusConfirmado && s.notifier != nil {
		s.notifier.AppointmentConfirmed(ctx, updated)
	}
	return NewView(updated), nil
}

func (s *Service) Assign(ctx context.Context, tenantID, id uuid.UUID, req *model.AssignRequest) (*View, error) {
	if req.MotoristaID == nil && req.ColetadoraID == nil && req.CarroID == nil {
		return nil, errors.BadRequest("nothing to assign", nil)
	}

	if _, err := s.repo.Get(ctx, tenantID, id); err != nil {
		return nil, err
	}

	patch := make(map[string]interface{})
	if req.MotoristaID != nil {
		driver, err := s.drivers.Get(ctx, tenantID, *req.MotoristaID)
		if err != nil {
			return nil, err
		}
		if driver.Status != model.LifecycleAtivo {
			return nil, errors.Conflict("driver is not active", nil)
		}
		patch["motorista_id"] = *req.MotoristaID
	}
	if req.ColetadoraID != nil {
		patch["coletadora_id"] = *req.ColetadoraID
	}
	if req.CarroID != nil {
		patch["carro_id"] = *req.CarroID
	}

	if err := s.repo.UpdateFields(ctx, tenantID, id, patch); err != nil {
		return nil, err
	}

	s.events.Record(ctx, "appointment", "assign", tenantID, id, patch)

	updated, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return NewView(updated), nil
}

// Delete soft-deletes by default; hard delete is reserved for admins and
// removes the row outright.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	apt, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if hard {
		err = s.repo.HardDelete(ctx, tenantID, id)
	} else {
		err = s.repo.SoftDelete(ctx, tenantID, id)
	}
	if err != nil {
		return err
	}

	s.events.Record(ctx, "appointment", "delete", tenantID, id, map[string]interface{}{
		"paciente": apt.Paciente,
		"hard":     hard,
	})
	return nil
}

// Agenda builds the month-grid view. The query span matches the rendered
// grid, so leading/trailing days from adjacent months carry their
// appointments too.
func (s *Service) Agenda(ctx context.Context, tenantID uuid.UUID, year int, month time.Month, selected time.Time) ([]agenda.Week, error) {
	loc := time.Local
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 7-int(last.Weekday())).Add(-time.Nanosecond)

	appointments, err := s.repo.ListRange(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	return agenda.MonthGrid(appointments, year, month, selected, time.Now(), loc), nil
}

// ImportRow reports the outcome of one spreadsheet line.
type ImportRow struct {
	Row   int    `json:"row"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImportExcel ingests a spreadsheet of appointments. Row failures are
// reported individually; one bad row never aborts the batch.
func (s *Service) ImportExcel(ctx context.Context, tenantID uuid.UUID, r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.BadRequest("invalid spreadsheet", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.BadRequest("failed to read spreadsheet rows", err)
	}
	if len(rows) < 2 {
		return nil, errors.BadRequest("spreadsheet has no data rows", nil)
	}

	var results []ImportRow
	for i, row := range rows[1:] {
		rowNum := i + 2

		req, err := parseImportRow(row)
		if err != nil {
			results = append(results, ImportRow{Row: rowNum, Error: err.Error()})
			continue
		}

		view, err := s.Create(ctx, tenantID, req)
		if err != nil {
			results = append(results, ImportRow{Row: rowNum, Error: err.Error()})
			continue
		}
		results = append(results, ImportRow{Row: rowNum, ID: view.ID.String()})
	}
	return results, nil
}

// Expected columns: paciente, data (2006-01-02), hora (15:04), endereco,
// telefone, convenio, observacoes.
func parseImportRow(row []string) (*model.CreateAppointmentRequest, error) {
	get := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	paciente := get(0)
	if paciente == "" {
		return nil, fmt.Errorf("missing paciente")
	}

	date, err := time.ParseInLocation("2006-01-02", get(1), time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid data %q", get(1))
	}

	hora := get(2)
	if hora != "" {
		if _, err := time.Parse("15:04", hora); err != nil {
			return nil, fmt.Errorf("invalid hora %q", hora)
		}
	}

	return &model.CreateAppointmentRequest{
		Paciente:        paciente,
		DataAgendamento: date,
		HoraAgendamento: hora,
		EnderecoColeta:  get(3),
		Telefone:        get(4),
		Convenio:        get(5),
		Observacoes:     get(6),
	}, nil
}

func (s *Service) resolveTags(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (model.TagList, error) {
	if len(ids) == 0 {
		return model.TagList{}, nil
	}

	tags, err := s.tags.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(dedupe(ids)) {
		return nil, errors.BadRequest("one or more tags do not exist", nil)
	}

	refs := make(model.TagList, len(tags))
	for i, tag := range tags {
		refs[i] = model.TagRef{ID: tag.ID, Nome: tag.Nome, Cor: tag.Cor}
	}
	return refs, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
