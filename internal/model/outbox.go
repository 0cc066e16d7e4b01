package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusRetry     OutboxStatus = "RETRY"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// OutboxEvent is a pending entity-change notification. Rows are written in
// the same transaction as the mutation they describe and published to the
// broker by the worker binary.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Entity       string          `db:"entity" json:"entity"`
	EntityID     uuid.UUID       `db:"entity_id" json:"entity_id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
