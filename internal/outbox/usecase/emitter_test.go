package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	eventsdomain "github.com/mutchinick/ecomm-workers/internal/events/domain"
	"github.com/mutchinick/ecomm-workers/internal/outbox/domain"
	"github.com/mutchinick/ecomm-workers/internal/outbox/usecase/mocks"
	"github.com/mutchinick/ecomm-workers/internal/outcome"
)

func newTestEmitter(repo OutboxEventRepository) *Emitter {
	emitter := NewEmitter(repo, nil)
	emitter.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return emitter
}

func testOutgoingEvent(t *testing.T) eventsdomain.OutgoingEvent {
	t.Helper()
	event, err := eventsdomain.NewOutgoingEvent(
		eventsdomain.OrderCreatedEvent,
		"order-1",
		map[string]any{"orderId": "order-1"},
	)
	require.NoError(t, err)
	return event
}

func TestEmitter_Emit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsPendingEvent", func(t *testing.T) {
		repo := &mocks.MockOutboxEventRepository{}
		event := testOutgoingEvent(t)

		repo.On("Create", ctx, mock.MatchedBy(func(row *domain.OutboxEvent) bool {
			var envelope eventsdomain.Envelope
			if err := json.Unmarshal(row.Payload, &envelope); err != nil {
				return false
			}
			return row.IdempotencyKey == "ORDER_CREATED_EVENT:order-1" &&
				row.EventName == eventsdomain.OrderCreatedEvent &&
				row.Status == domain.OutboxEventStatusPending &&
				len(envelope.Detail) > 0
		})).Return(true, nil).Once()

		result := newTestEmitter(repo).Emit(ctx, event)

		assert.True(t, result.IsSuccess())
		repo.AssertExpectations(t)
	})

	t.Run("Success_DuplicateKeyIsNoOp", func(t *testing.T) {
		repo := &mocks.MockOutboxEventRepository{}

		repo.On("Create", ctx, mock.Anything).Return(false, nil).Once()

		result := newTestEmitter(repo).Emit(ctx, testOutgoingEvent(t))

		assert.True(t, result.IsSuccess())
		repo.AssertExpectations(t)
	})

	t.Run("Error_StorageFailureIsRetryable", func(t *testing.T) {
		repo := &mocks.MockOutboxEventRepository{}

		repo.On("Create", ctx, mock.Anything).Return(false, errors.New("connection reset")).Once()

		result := newTestEmitter(repo).Emit(ctx, testOutgoingEvent(t))

		assert.True(t, result.IsFailureOfKind(outcome.KindUnrecognized))
		assert.True(t, result.IsRetryable())
		repo.AssertExpectations(t)
	})
}
