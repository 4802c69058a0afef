package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/messaging/memory"
)

func TestPublisherListener(t *testing.T) {
	publisher := NewPublisher[model.Summary](memory.NewQueue[Event[model.Summary]](memory.DefaultConfig()))
	received := make(chan *Event[model.Summary], 2)
	listener := NewListener[model.Summary](publisher, func(e *Event[model.Summary]) error {
		received <- e
		return nil
	}, nil)
	listener.Start(context.Background())
	defer listener.Stop()

	ctx := context.Background()
	summary := model.Summary{Mode: model.ModeInitial, Allocated: 1, ExportRef: "allocation_1.csv"}
	require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: TypeAllocated, Mode: "initial"}, summary)))

	select {
	case e := <-received:
		assert.Equal(t, TypeAllocated, e.Context.EventType)
		assert.Equal(t, summary, e.Data)
		assert.False(t, e.CreatedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestListener_HandlerFailure(t *testing.T) {
	var testCases = []struct {
		description string
		failures    int32
		expectCalls int32
		expectDLQ   int
	}{
		{description: "redelivered after a failure", failures: 1, expectCalls: 2, expectDLQ: 0},
		{description: "dead lettered after retries", failures: 10, expectCalls: 3, expectDLQ: 1},
	}
	for _, testCase := range testCases {
		config := memory.DefaultConfig()
		config.MaxRetries = 2
		config.RetryDelay = time.Millisecond
		queue := memory.NewQueue[Event[model.Summary]](config)
		publisher := NewPublisher[model.Summary](queue)
		var calls atomic.Int32
		listener := NewListener[model.Summary](publisher, func(e *Event[model.Summary]) error {
			if calls.Add(1) <= testCase.failures {
				return errors.New("sink unavailable")
			}
			return nil
		}, nil)
		listener.Start(context.Background())

		require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{EventType: TypeReset}, model.Summary{})), testCase.description)
		assert.Eventually(t, func() bool {
			return calls.Load() == testCase.expectCalls && queue.DLQSize() == testCase.expectDLQ
		}, time.Second, 5*time.Millisecond, testCase.description)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, testCase.expectCalls, calls.Load(), testCase.description)
		listener.Stop()
	}
}

func TestListenerStopBeforeStart(t *testing.T) {
	publisher := NewPublisher[model.Summary](memory.NewQueue[Event[model.Summary]](memory.DefaultConfig()))
	listener := NewListener[model.Summary](publisher, func(*Event[model.Summary]) error { return nil }, nil)
	listener.Stop()
	listener.Stop()
}
