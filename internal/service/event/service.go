package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
)

// Recorder writes entity-change events to the outbox. Publishing to the
// broker happens asynchronously in the worker binary, so a mutation never
// blocks on Redis.
type Recorder interface {
	Record(ctx context.Context, entity, action string, tenantID, entityID uuid.UUID, payload interface{})
}

type Service struct {
	repo   repository.OutboxRepository
	logger zerolog.Logger
}

func NewService(repo repository.OutboxRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record enqueues an event. Failures are logged, not propagated: a mutation
// that already committed must not be reported as failed because its change
// notification could not be stored.
func (s *Service) Record(ctx context.Context, entity, action string, tenantID, entityID uuid.UUID, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error().Err(err).Str("entity", entity).Str("action", action).Msg("failed to marshal event payload")
		return
	}

	evt := &model.OutboxEvent{
		EventType: fmt.Sprintf("%s.%s", entity, action),
		Entity:    entity,
		EntityID:  entityID,
		TenantID:  tenantID,
		Payload:   body,
	}

	if err := s.repo.Insert(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("event_type", evt.EventType).Msg("failed to record outbox event")
	}
}
