package model

import (
	"github.com/google/uuid"
)

// Client is a patient/customer record referenced by appointments.
type Client struct {
	Base
	TenantID uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Nome     string          `json:"nome" db:"nome"`
	CPF      string          `json:"cpf,omitempty" db:"cpf"`
	Telefone string          `json:"telefone,omitempty" db:"telefone"`
	Email    string          `json:"email,omitempty" db:"email"`
	Endereco *Endereco       `json:"endereco,omitempty" db:"endereco"`
	Status   LifecycleStatus `json:"status" db:"status"`
}

type CreateClientRequest struct {
	Nome     string    `json:"nome" binding:"required,max=200"`
	CPF      string    `json:"cpf" binding:"omitempty,cpf"`
	Telefone string    `json:"telefone" binding:"omitempty,max=20"`
	Email    string    `json:"email" binding:"omitempty,email"`
	Endereco *Endereco `json:"endereco"`
}

type UpdateClientRequest struct {
	Nome     *string   `json:"nome"`
	CPF      *string   `json:"cpf" binding:"omitempty,cpf"`
	Telefone *string   `json:"telefone"`
	Email    *string   `json:"email" binding:"omitempty,email"`
	Endereco *Endereco `json:"endereco"`
}

type CreateTagRequest struct {
	Nome string `json:"nome" binding:"required,max=50"`
	Cor  string `json:"cor" binding:"required,hexcolor"`
}

type UpdateTagRequest struct {
	Nome *string `json:"nome" binding:"omitempty,max=50"`
	Cor  *string `json:"cor" binding:"omitempty,hexcolor"`
}
