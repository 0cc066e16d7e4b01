package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is an open string enum: unknown values are stored as-is,
// but membership in the known set drives which transitions the API accepts.
type AppointmentStatus string

const (
	StatusPendente   AppointmentStatus = "pendente"
	StatusConfirmado AppointmentStatus = "confirmado"
	StatusEmRota     AppointmentStatus = "em_rota"
	StatusColetado   AppointmentStatus = "coletado"
	StatusCancelado  AppointmentStatus = "cancelado"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPendente:   {StatusConfirmado, StatusCancelado},
	StatusConfirmado: {StatusEmRota, StatusColetado, StatusCancelado},
	StatusEmRota:     {StatusColetado, StatusCancelado},
	StatusColetado:   {},
	StatusCancelado:  {},
}

// Known reports whether s is one of the recognized status values.
func (s AppointmentStatus) Known() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status change s -> next is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Endereco is the normalized address overlay. When present it takes
// precedence over the legacy flat endereco_coleta string for display.
type Endereco struct {
	Rua         string `json:"rua"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`
	CEP         string `json:"cep"`
}

func (e Endereco) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *Endereco) Scan(src interface{}) error {
	return scanJSON(src, e)
}

// Documento is the normalized document overlay atop the legacy flat
// cpf / rg / documento_completo fields.
type Documento struct {
	CPF          string `json:"cpf"`
	CPFFormatado string `json:"cpf_formatado,omitempty"`
	RG           string `json:"rg,omitempty"`
}

func (d Documento) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Documento) Scan(src interface{}) error {
	return scanJSON(src, d)
}

// Tag is an id/name/color triple attached to appointments.
type Tag struct {
	Base
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Nome     string    `json:"nome" db:"nome"`
	Cor      string    `json:"cor" db:"cor"`
}

// TagRef is the embedded form carried on an appointment.
type TagRef struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	Cor  string    `json:"cor"`
}

type TagList []TagRef

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal(t)
}

func (t *TagList) Scan(src interface{}) error {
	return scanJSON(src, t)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}

// Appointment is the central entity: a scheduled collection visit.
type Appointment struct {
	Base
	TenantID        uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	Paciente        string            `json:"paciente" db:"paciente"`
	Unidade         string            `json:"unidade,omitempty" db:"unidade"`
	Marca           string            `json:"marca,omitempty" db:"marca"`
	DataAgendamento time.Time         `json:"data_agendamento" db:"data_agendamento"`
	HoraAgendamento string            `json:"hora_agendamento,omitempty" db:"hora_agendamento"`
	DataConfirmacao *time.Time        `json:"data_confirmacao,omitempty" db:"data_confirmacao"`
	Status          AppointmentStatus `json:"status" db:"status"`

	MotoristaID       *uuid.UUID `json:"motorista_id,omitempty" db:"motorista_id"`
	ColetadoraID      *uuid.UUID `json:"coletadora_id,omitempty" db:"coletadora_id"`
	CarroID           *uuid.UUID `json:"carro_id,omitempty" db:"carro_id"`
	ClienteID         *uuid.UUID `json:"cliente_id,omitempty" db:"cliente_id"`
	PacoteLogisticaID *string    `json:"pacote_logistica_id,omitempty" db:"pacote_logistica_id"`

	// Legacy flat fields plus normalized overlays.
	EnderecoColeta    string     `json:"endereco_coleta,omitempty" db:"endereco_coleta"`
	Endereco          *Endereco  `json:"endereco,omitempty" db:"endereco"`
	DocumentoCompleto string     `json:"documento_completo,omitempty" db:"documento_completo"`
	CPF               string     `json:"cpf,omitempty" db:"cpf"`
	RG                string     `json:"rg,omitempty" db:"rg"`
	Documento         *Documento `json:"documento,omitempty" db:"documento"`

	Convenio       string `json:"convenio,omitempty" db:"convenio"`
	NumeroConvenio string `json:"numero_convenio,omitempty" db:"numero_convenio"`
	Carteirinha    string `json:"carteirinha,omitempty" db:"carteirinha"`

	Telefone       string  `json:"telefone,omitempty" db:"telefone"`
	Observacoes    string  `json:"observacoes,omitempty" db:"observacoes"`
	DescricaoCarro string  `json:"descricao_carro,omitempty" db:"descricao_carro"`
	Tags           TagList `json:"tags" db:"tags"`
}

type CreateAppointmentRequest struct {
	Paciente        string     `json:"paciente" binding:"required,max=200"`
	Unidade         string     `json:"unidade" binding:"max=100"`
	Marca           string     `json:"marca" binding:"max=100"`
	DataAgendamento time.Time  `json:"data_agendamento" binding:"required"`
	HoraAgendamento string     `json:"hora_agendamento" binding:"omitempty,len=5"`
	ClienteID       *uuid.UUID `json:"cliente_id"`

	EnderecoColeta    string     `json:"endereco_coleta"`
	Endereco          *Endereco  `json:"endereco"`
	DocumentoCompleto string     `json:"documento_completo"`
	CPF               string     `json:"cpf" binding:"omitempty,cpf"`
	RG                string     `json:"rg"`
	Documento         *Documento `json:"documento"`

	Convenio       string `json:"convenio"`
	NumeroConvenio string `json:"numero_convenio"`
	Carteirinha    string `json:"carteirinha"`

	Telefone       string      `json:"telefone" binding:"omitempty,max=20"`
	Observacoes    string      `json:"observacoes" binding:"max=2000"`
	DescricaoCarro string      `json:"descricao_carro" binding:"max=500"`
	TagIDs         []uuid.UUID `json:"tag_ids"`
}

// UpdateAppointmentRequest carries the full edited form. Nil pointers mean the
// field was not present on the form at all; present fields are diffed against
// the stored record and only real changes are written.
type UpdateAppointmentRequest struct {
	Paciente        *string    `json:"paciente"`
	Unidade         *string    `json:"unidade"`
	Marca           *string    `json:"marca"`
	DataAgendamento *time.Time `json:"data_agendamento"`
	HoraAgendamento *string    `json:"hora_agendamento"`

	EnderecoColeta    *string    `json:"endereco_coleta"`
	Endereco          *Endereco  `json:"endereco"`
	DocumentoCompleto *string    `json:"documento_completo"`
	CPF               *string    `json:"cpf" binding:"omitempty,cpf"`
	RG                *string    `json:"rg"`
	Documento         *Documento `json:"documento"`

	Convenio       *string `json:"convenio"`
	NumeroConvenio *string `json:"numero_convenio"`
	Carteirinha    *string `json:"carteirinha"`

	Telefone       *string      `json:"telefone"`
	Observacoes    *string      `json:"observacoes"`
	DescricaoCarro *string      `json:"descricao_carro"`
	TagIDs         *[]uuid.UUID `json:"tag_ids"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type AssignRequest struct {
	MotoristaID  *uuid.UUID `json:"motorista_id"`
	ColetadoraID *uuid.UUID `json:"coletadora_id"`
	CarroID      *uuid.UUID `json:"carro_id"`
}

type AppointmentFilters struct {
	TenantID     uuid.UUID
	Status       AppointmentStatus
	MotoristaID  *uuid.UUID
	ColetadoraID *uuid.UUID
	ClienteID    *uuid.UUID
	Search       string
	StartDate    *time.Time
	EndDate      *time.Time
	Pagination   Pagination
}
