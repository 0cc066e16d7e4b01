package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/pkg/messaging"
	"github.com/saudelog/agenda-api/pkg/metrics"
)

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]*time.Time
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{pending: events, failed: make(map[uuid.UUID]*time.Time)}
}

func (r *fakeOutboxRepo) Insert(_ context.Context, e *model.OutboxEvent) error {
	r.pending = append(r.pending, e)
	return nil
}

func (r *fakeOutboxRepo) GetPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, _ string, retryAt *time.Time) error {
	r.failed[id] = retryAt
	return nil
}

type fakeBroker struct {
	published []messaging.Message
	err       error
}

func (b *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *fakeBroker) Close() error                                            { return nil }

func event(entity, action string) *model.OutboxEvent {
	payload, _ := json.Marshal(map[string]string{"entity": entity})
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: fmt.Sprintf("%s.%s", entity, action),
		Entity:    entity,
		EntityID:  uuid.New(),
		TenantID:  uuid.New(),
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
}

var testMetrics = metrics.New("agenda_worker_test")

func newProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:    10,
		PollInterval: time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Minute,
	}, zerolog.Nop(), testMetrics)
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	e1 := event("appointment", "create")
	e2 := event("driver", "status")
	repo := newFakeOutboxRepo(e1, e2)
	broker := &fakeBroker{}

	p := newProcessor(repo, broker)
	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, broker.published, 2)
	assert.Equal(t, "appointment.create", broker.published[0].Type)
	assert.Equal(t, "appointment", broker.published[0].Entity)
	assert.Equal(t, "create", broker.published[0].Action)
	assert.Equal(t, "status", broker.published[1].Action)
	assert.ElementsMatch(t, []uuid.UUID{e1.ID, e2.ID}, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchSchedulesRetry(t *testing.T) {
	e := event("appointment", "update")
	repo := newFakeOutboxRepo(e)
	broker := &fakeBroker{err: fmt.Errorf("broker down")}

	p := newProcessor(repo, broker)
	require.NoError(t, p.processBatch(context.Background()))

	assert.Empty(t, repo.processed)
	retryAt, ok := repo.failed[e.ID]
	require.True(t, ok)
	require.NotNil(t, retryAt)
	assert.True(t, retryAt.After(time.Now()))
}

func TestProcessEventExhaustedRetriesParksEvent(t *testing.T) {
	e := event("appointment", "update")
	e.RetryCount = 2
	repo := newFakeOutboxRepo(e)
	broker := &fakeBroker{err: fmt.Errorf("broker down")}

	p := newProcessor(repo, broker)
	require.NoError(t, p.processBatch(context.Background()))

	retryAt, ok := repo.failed[e.ID]
	require.True(t, ok)
	assert.Nil(t, retryAt)
}
