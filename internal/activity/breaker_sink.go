package activity

import (
	"context"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/pkg/circuitbreaker"
)

// BreakerSink guards a sink with a circuit breaker so an unreachable backend
// costs one rejected call per entry instead of a full delivery timeout.
type BreakerSink struct {
	sink Sink
	cb   *circuitbreaker.CircuitBreaker
}

func NewBreakerSink(sink Sink, cfg circuitbreaker.Config) *BreakerSink {
	return &BreakerSink{sink: sink, cb: circuitbreaker.New(cfg)}
}

func (s *BreakerSink) Name() string { return s.sink.Name() }

func (s *BreakerSink) Deliver(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error {
	return s.cb.Execute(func() error {
		return s.sink.Deliver(ctx, p)
	})
}

func (s *BreakerSink) State() circuitbreaker.State {
	return s.cb.State()
}
