// Package activity mirrors notification log entries to external sinks
// (RabbitMQ, the Postgres audit table) off the request path.
package activity

import (
	"context"
	"errors"
	"sync"
	"time"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/internal/model"
	"projecthub/pkg/circuitbreaker"
	"projecthub/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink receives activity entries in log order.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error
}

// Dispatcher queues notifications handed over by the store and delivers them
// to every sink from a single goroutine, so each sink sees log order.
// Enqueue never blocks.
type Dispatcher struct {
	instanceID     string
	sinks          []Sink
	logger         *zap.Logger
	deliverTimeout time.Duration

	mu     sync.Mutex
	queue  []model.Notification
	closed bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		instanceID:     uuid.NewString(),
		sinks:          sinks,
		logger:         logger,
		deliverTimeout: 5 * time.Second,
		wake:           make(chan struct{}, 1),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (d *Dispatcher) WithInstanceID(id string) *Dispatcher {
	d.instanceID = id
	return d
}

func (d *Dispatcher) WithDeliverTimeout(timeout time.Duration) *Dispatcher {
	d.deliverTimeout = timeout
	return d
}

func (d *Dispatcher) InstanceID() string {
	return d.instanceID
}

// Enqueue implements repository.Publisher.
func (d *Dispatcher) Enqueue(n model.Notification) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Activity dispatcher stopped, dropping entry", zap.Int("seq", n.ID))
		return
	}
	d.queue = append(d.queue, n)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued, undelivered entries.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Start runs the delivery loop in its own goroutine.
func (d *Dispatcher) Start() {
	d.logger.Info("Starting activity dispatcher",
		zap.String("instance_id", d.instanceID),
		zap.Int("sinks", len(d.sinks)),
	)
	go d.run()
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
			d.drain()
		case <-d.stop:
			d.drain()
			d.logger.Info("Activity dispatcher stopped")
			return
		}
	}
}

// Stop refuses new entries and waits until the queue is drained or ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.stop)
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drain() {
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, n := range batch {
			d.deliver(n)
		}
	}
}

func (d *Dispatcher) deliver(n model.Notification) {
	payload := mqcontracts.ActivityLoggedPayload{
		InstanceID: d.instanceID,
		Seq:        n.ID,
		Message:    n.Text,
		CreatedAt:  n.Timestamp,
	}

	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.deliverTimeout)
		err := s.Deliver(ctx, payload)
		cancel()

		if errors.Is(err, circuitbreaker.ErrOpen) {
			metrics.RecordActivityDelivery(s.Name(), "skipped")
			d.logger.Debug("Sink circuit open, skipping activity entry",
				zap.String("sink", s.Name()),
				zap.Int("seq", n.ID),
			)
			continue
		}
		if err != nil {
			metrics.RecordActivityDelivery(s.Name(), "failed")
			d.logger.Error("Failed to deliver activity entry",
				zap.String("sink", s.Name()),
				zap.Int("seq", n.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.RecordActivityDelivery(s.Name(), "success")
	}
}
