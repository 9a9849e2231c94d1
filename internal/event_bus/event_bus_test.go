package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []string
		bus.Subscribe(ImportCompleted, func(e Event) error {
			calls = append(calls, "first")
			return nil
		})
		bus.Subscribe(ImportCompleted, func(e Event) error {
			calls = append(calls, "second")
			return nil
		})
		bus.Subscribe(ImportRejected, func(e Event) error {
			calls = append(calls, "other")
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), ImportCompleted, ImportFinished{}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("should collect handler errors and recover panics", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(LedgerReconciled, func(e Event) error { return errors.New("boom") })
		bus.Subscribe(LedgerReconciled, func(e Event) error { panic("kaboom") })
		bus.Subscribe(LedgerReconciled, func(e Event) error {
			called = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), LedgerReconciled, LedgerReconciliation{}))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should not publish with a cancelled context", func(t *testing.T) {
		// given
		bus := NewEventBus()
		called := false
		bus.Subscribe(ImportCompleted, func(e Event) error {
			called = true
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(ctx, ImportCompleted, nil))

		// then
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestEventBus_Unsubscribe(t *testing.T) {
	// given
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(ImportCompleted, func(e Event) error {
		count++
		return nil
	})

	// when
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ImportCompleted, nil)))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ImportCompleted, nil)))

	// then
	assert.Equal(t, 1, count)
}

func TestSubscribeTyped(t *testing.T) {
	// given
	bus := NewEventBus()
	var received []ImportFinished
	SubscribeTyped[ImportFinished](bus, ImportCompleted, func(e EventT[ImportFinished]) error {
		received = append(received, e.Data)
		return nil
	})

	// when
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ImportCompleted, ImportFinished{Kind: "activity", Accepted: 3})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ImportCompleted, "not a payload")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), ImportCompleted, nil)))

	// then
	require.Len(t, received, 1)
	assert.Equal(t, 3, received[0].Accepted)
}
