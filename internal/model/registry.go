package model

import (
	"github.com/google/uuid"
)

// Driver is a field driver available for route assignment.
type Driver struct {
	Base
	TenantID uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Nome     string          `json:"nome" db:"nome"`
	CPF      string          `json:"cpf,omitempty" db:"cpf"`
	CNH      string          `json:"cnh,omitempty" db:"cnh"`
	Telefone string          `json:"telefone,omitempty" db:"telefone"`
	Status   LifecycleStatus `json:"status" db:"status"`
}

// Collector is a collection company (coletadora) handling samples.
type Collector struct {
	Base
	TenantID uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Nome     string          `json:"nome" db:"nome"`
	CNPJ     string          `json:"cnpj,omitempty" db:"cnpj"`
	Telefone string          `json:"telefone,omitempty" db:"telefone"`
	Cidade   string          `json:"cidade,omitempty" db:"cidade"`
	Status   LifecycleStatus `json:"status" db:"status"`
}

// Car is a vehicle in the fleet registry.
type Car struct {
	Base
	TenantID uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Placa    string          `json:"placa" db:"placa"`
	Modelo   string          `json:"modelo,omitempty" db:"modelo"`
	Marca    string          `json:"marca,omitempty" db:"marca"`
	Ano      int             `json:"ano,omitempty" db:"ano"`
	Status   LifecycleStatus `json:"status" db:"status"`
}

type CreateDriverRequest struct {
	Nome     string `json:"nome" binding:"required,max=200"`
	CPF      string `json:"cpf" binding:"omitempty,cpf"`
	CNH      string `json:"cnh" binding:"omitempty,max=20"`
	Telefone string `json:"telefone" binding:"omitempty,max=20"`
}

type UpdateDriverRequest struct {
	Nome     *string `json:"nome"`
	CPF      *string `json:"cpf" binding:"omitempty,cpf"`
	CNH      *string `json:"cnh"`
	Telefone *string `json:"telefone"`
}

type CreateCollectorRequest struct {
	Nome     string `json:"nome" binding:"required,max=200"`
	CNPJ     string `json:"cnpj" binding:"omitempty,max=20"`
	Telefone string `json:"telefone" binding:"omitempty,max=20"`
	Cidade   string `json:"cidade" binding:"omitempty,max=100"`
}

type UpdateCollectorRequest struct {
	Nome     *string `json:"nome"`
	CNPJ     *string `json:"cnpj"`
	Telefone *string `json:"telefone"`
	Cidade   *string `json:"cidade"`
}

type CreateCarRequest struct {
	Placa  string `json:"placa" binding:"required,max=10"`
	Modelo string `json:"modelo" binding:"omitempty,max=100"`
	Marca  string `json:"marca" binding:"omitempty,max=100"`
	Ano    int    `json:"ano" binding:"omitempty,gte=1980,lte=2100"`
}

type UpdateCarRequest struct {
	Placa  *string `json:"placa"`
	Modelo *string `json:"modelo"`
	Marca  *string `json:"marca"`
	Ano    *int    `json:"ano"`
}

type UpdateLifecycleRequest struct {
	Status LifecycleStatus `json:"status" binding:"required,oneof=ativo inativo"`
}

// RegistryFilters is shared by the driver / collector / car list endpoints.
type RegistryFilters struct {
	TenantID   uuid.UUID
	Status     LifecycleStatus
	Search     string
	Pagination Pagination
}

// RegistryStats carries per-status counts for a registry.
type RegistryStats struct {
	Total    int `json:"total" db:"total"`
	Ativos   int `json:"ativos" db:"ativos"`
	Inativos int `json:"inativos" db:"inativos"`
}

// FilterOption is a value/label pair rendered as a select option.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
