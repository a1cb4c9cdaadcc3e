package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestBreakerSink_ShortCircuitsFailingSink(t *testing.T) {
	inner := &recordingSink{name: "postgres", err: errors.New("connection refused")}
	sink := NewBreakerSink(inner, circuitbreaker.Config{
		FailureThreshold:    2,
		SuccessThreshold:    1,
		Timeout:             time.Hour,
		HalfOpenMaxRequests: 1,
	})
	assert.Equal(t, "postgres", sink.Name())

	d := NewDispatcher(zaptest.NewLogger(t), sink)
	d.Start()
	for i := 1; i <= 10; i++ {
		d.Enqueue(notification(i))
	}
	require.NoError(t, d.Stop(context.Background()))

	// Only the calls that tripped the breaker reached the backend.
	assert.Equal(t, []int{1, 2}, inner.seqs())
	assert.Equal(t, circuitbreaker.StateOpen, sink.State())
}

func TestBreakerSink_PassesThroughWhenHealthy(t *testing.T) {
	inner := &recordingSink{name: "mq"}
	sink := NewBreakerSink(inner, circuitbreaker.DefaultConfig())

	for i := 1; i <= 3; i++ {
		require.NoError(t, sink.Deliver(context.Background(), mqcontracts.ActivityLoggedPayload{Seq: i}))
	}
	assert.Equal(t, []int{1, 2, 3}, inner.seqs())
	assert.Equal(t, circuitbreaker.StateClosed, sink.State())
}
