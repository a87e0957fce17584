package cachewarm

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Listener subscribes to the mapping.created stream and feeds each event to
// the Warmer. Decode failures and warm failures are nacked so the broker can
// redeliver.
type Listener struct {
	subscriber message.Subscriber
	warmer     *Warmer
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewListener creates a listener warming the cache behind the given warmer.
func NewListener(subscriber message.Subscriber, warmer *Warmer, logger *zap.Logger) *Listener {
	return &Listener{
		subscriber: subscriber,
		warmer:     warmer,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the mapping stream and begins consuming in the
// background.
func (l *Listener) Start(ctx context.Context) error {
	ctx, l.cancel = context.WithCancel(ctx)

	msgs, err := l.subscriber.Subscribe(ctx, TopicMappingCreated)
	if err != nil {
		return err
	}

	go l.run(ctx, msgs)

	l.logger.Info("cache warming listener started",
		zap.String("topic", TopicMappingCreated),
	)

	return nil
}

func (l *Listener) run(ctx context.Context, msgs <-chan *message.Message) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			l.warm(ctx, msg)
		}
	}
}

func (l *Listener) warm(ctx context.Context, msg *message.Message) {
	var event MappingCreatedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		l.logger.Error("failed to decode mapping event", zap.Error(err))
		msg.Nack()

		return
	}

	if err := l.warmer.Handle(ctx, &event); err != nil {
		l.logger.Error("failed to warm cache",
			zap.String("code", event.Code),
			zap.Error(err),
		)
		msg.Nack()

		return
	}

	msg.Ack()
}

// Shutdown stops consuming, waits for the in-flight event to finish, and
// closes the subscription.
func (l *Listener) Shutdown() error {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}

	return l.subscriber.Close()
}
