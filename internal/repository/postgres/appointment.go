package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/pkg/errors"
)

const appointmentColumns = `
	id, tenant_id, paciente, unidade, marca,
	data_agendamento, hora_agendamento, data_confirmacao, status,
	motorista_id, coletadora_id, carro_id, cliente_id, pacote_logistica_id,
	endereco_coleta, endereco, documento_completo, cpf, rg, documento,
	convenio, numero_convenio, carteirinha,
	telefone, observacoes, descricao_carro, tags,
	created_at, updated_at, deleted_at
`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, tenant_id, paciente, unidade, marca,
			data_agendamento, hora_agendamento, status,
			motorista_id, coletadora_id, carro_id, cliente_id, pacote_logistica_id,
			endereco_coleta, endereco, documento_completo, cpf, rg, documento,
			convenio, numero_convenio, carteirinha,
			telefone, observacoes, descricao_carro, tags,
			created_at, updated_at
		) VALUES (
			:id, :tenant_id, :paciente, :unidade, :marca,
			:data_agendamento, :hora_agendamento, :status,
			:motorista_id, :coletadora_id, :carro_id, :cliente_id, :pacote_logistica_id,
			:endereco_coleta, :endereco, :documento_completo, :cpf, :rg, :documento,
			:convenio, :numero_convenio, :carteirinha,
			:telefone, :observacoes, :descricao_carro, :tags,
			:created_at, :updated_at
		)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	where := []string{"tenant_id = $1", "deleted_at IS NULL"}
	args := []interface{}{filters.TenantID}
	argCount := 2

	addArg := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, argCount))
		args = append(args, value)
		argCount++
	}

	if filters.Status != "" {
		addArg("status = $%d", filters.Status)
	}
	if filters.MotoristaID != nil {
		addArg("motorista_id = $%d", *filters.MotoristaID)
	}
	if filters.ColetadoraID != nil {
		addArg("coletadora_id = $%d", *filters.ColetadoraID)
	}
	if filters.ClienteID != nil {
		addArg("cliente_id = $%d", *filters.ClienteID)
	}
	if filters.Search != "" {
		addArg("paciente ILIKE $%d", "%"+filters.Search+"%")
	}
	if filters.StartDate != nil {
		addArg("data_agendamento >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		addArg("data_agendamento <= $%d", *filters.EndDate)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM appointments WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE %s
		ORDER BY data_agendamento ASC, hora_agendamento ASC
		LIMIT $%d OFFSET $%d
	`, appointmentColumns, whereClause, argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) ListRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1
		AND data_agendamento >= $2
		AND data_agendamento <= $3
		AND deleted_at IS NULL
		ORDER BY data_agendamento ASC, hora_agendamento ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, tenantID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list appointments by range: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDriver(ctx context.Context, tenantID, driverID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1
		AND motorista_id = $2
		AND data_agendamento >= $3
		AND data_agendamento <= $4
		AND status NOT IN ('cancelado')
		AND deleted_at IS NULL
		ORDER BY data_agendamento ASC, hora_agendamento ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, tenantID, driverID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list driver appointments: %w", err)
	}
	return appointments, nil
}

// patchableColumns is the whitelist of columns the diff builder may touch.
var patchableColumns = map[string]bool{
	"paciente": true, "unidade": true, "marca": true,
	"data_agendamento": true, "hora_agendamento": true, "data_confirmacao": true,
	"status": true, "motorista_id": true, "coletadora_id": true, "carro_id": true,
	"endereco_coleta": true, "endereco": true,
	"documento_completo": true, "cpf": true, "rg": true, "documento": true,
	"convenio": true, "numero_convenio": true, "carteirinha": true,
	"telefone": true, "observacoes": true, "descricao_carro": true, "tags": true,
}

func (r *appointmentRepository) UpdateFields(ctx context.Context, tenantID, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	set := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+3)
	argCount := 1

	for column, value := range fields {
		if !patchableColumns[column] {
			return fmt.Errorf("column %q is not updatable", column)
		}
		set = append(set, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}
	set = append(set, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	query := fmt.Sprintf(
		"UPDATE appointments SET %s WHERE id = $%d AND tenant_id = $%d AND deleted_at IS NULL",
		strings.Join(set, ", "), argCount, argCount+1,
	)
	args = append(args, id, tenantID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND tenant_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM appointments WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return checkAffected(result, "appointment")
}

func checkAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NotFound(resource, nil)
	}
	return nil
}
