package model

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentAvailable DocumentStatus = "available"
)

// Document is a file attached to an appointment. Bytes live in blob storage
// under ObjectKey; the row here is metadata only. A pending row exists from
// the moment an upload URL is issued until the client confirms the PUT.
type Document struct {
	Base
	TenantID      uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	AppointmentID uuid.UUID      `json:"agendamento_id" db:"appointment_id"`
	FileName      string         `json:"nome_arquivo" db:"file_name"`
	ContentType   string         `json:"content_type" db:"content_type"`
	Size          int64          `json:"tamanho" db:"size"`
	ETag          string         `json:"etag,omitempty" db:"etag"`
	ObjectKey     string         `json:"-" db:"object_key"`
	Status        DocumentStatus `json:"status" db:"status"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty" db:"confirmed_at"`
}

// UploadFileRequest describes one file in an initiate-upload batch.
type UploadFileRequest struct {
	FileName    string `json:"nome_arquivo" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"tamanho" binding:"required,gt=0"`
}

type InitiateUploadRequest struct {
	Files []UploadFileRequest `json:"arquivos" binding:"required,min=1,dive"`
}

type ConfirmUploadRequest struct {
	Size int64  `json:"tamanho" binding:"required,gt=0"`
	ETag string `json:"etag" binding:"required"`
}

// UploadResult reports the per-file outcome of an initiate-upload batch.
// One rejected file never aborts the rest of the batch.
type UploadResult struct {
	FileName   string      `json:"nome_arquivo"`
	DocumentID *uuid.UUID  `json:"document_id,omitempty"`
	Upload     interface{} `json:"upload,omitempty"`
	Error      string      `json:"error,omitempty"`
}
