package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/hourly/service/messaging"
)

// Handler processes an event; an error hands the event back to the queue for redelivery
type Handler[T any] func(*Event[T]) error

// Listener dispatches consumed events to a handler on its own goroutine
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

// NewListener creates a listener; logger may be nil
func NewListener[T any](publisher *Publisher[T], handler Handler[T], logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener[T]{publisher: publisher, handler: handler, logger: logger, done: make(chan struct{})}
}

// Start consumes events until ctx is done or Stop is called
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			msg, err := l.publisher.Consume(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				l.logger.Error("failed to consume event", "error", err)
				continue
			}
			if msg != nil {
				l.dispatch(msg)
			}
		}
	}()
}

// Stop stops consuming and waits for the dispatch goroutine to exit
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
	})
	<-l.done
}

func (l *Listener[T]) dispatch(msg messaging.Message[Event[T]]) {
	event := msg.T()
	if err := l.handler(event); err != nil {
		l.logger.Warn("event handler failed", "eventType", event.Context.EventType, "error", err)
		if err = msg.Nack(err); err != nil {
			l.logger.Error("failed to nack event", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		l.logger.Error("failed to ack event", "error", err)
	}
}
