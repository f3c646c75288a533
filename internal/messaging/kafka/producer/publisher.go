package producer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"planeta-be/internal/cart"
	"planeta-be/internal/logger"
	"planeta-be/internal/metrics"
)

const (
	EventCartUpdated = "cart.updated"

	defaultQueueSize = 256
	writeTimeout     = 10 * time.Second
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CartEvent is the message value written for every cart change.
type CartEvent struct {
	Type       string          `json:"type"`
	SessionID  string          `json:"sessionId"`
	RequestID  string          `json:"requestId,omitempty"`
	Items      []cart.LineItem `json:"items"`
	ItemsCount int             `json:"itemsCount"`
	Subtotal   cart.Money      `json:"subtotal"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher forwards cart changes to Kafka from a single worker goroutine.
// When the queue is full new events are dropped; a slow broker never blocks
// a cart mutation.
type Publisher struct {
	writer  MessageWriter
	metrics *metrics.Registry
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func NewWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewPublisher(w MessageWriter, queueSize int, reg *metrics.Registry) *Publisher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &Publisher{
		writer:  w,
		metrics: reg,
		now:     time.Now,
		queue:   make(chan kafka.Message, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// CartChanged implements cart.SessionListener.
func (p *Publisher) CartChanged(ctx context.Context, sessionID string, snap cart.Snapshot) {
	log := logger.FromCtx(ctx)

	event := CartEvent{
		Type:       EventCartUpdated,
		SessionID:  sessionID,
		RequestID:  logger.RequestIDFrom(ctx),
		Items:      snap.Items,
		ItemsCount: snap.ItemsCount,
		Subtotal:   snap.Subtotal,
		OccurredAt: p.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to encode cart event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventCartUpdated)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Warn("cart event dropped, publisher closed")
		p.metrics.IncCartEventsDropped()
		return
	}
	select {
	case p.queue <- msg:
	default:
		log.Warn("cart event dropped, queue full")
		p.metrics.IncCartEventsDropped()
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			logger.L().Warn("failed to publish cart event",
				zap.ByteString("session_id", msg.Key),
				zap.Error(err),
			)
			continue
		}
		p.metrics.IncCartEvents()
	}
}

// Close stops accepting events, waits for queued ones to be written and
// closes the writer.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		<-p.done
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}
