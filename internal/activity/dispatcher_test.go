package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingSink struct {
	name string
	err  error

	mu   sync.Mutex
	got  []mqcontracts.ActivityLoggedPayload
	gate chan struct{}
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, p)
	return s.err
}

func (s *recordingSink) seqs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.got))
	for i, p := range s.got {
		out[i] = p.Seq
	}
	return out
}

func notification(id int) model.Notification {
	return model.Notification{ID: id, Text: "entry", Timestamp: time.Date(2024, 1, 1, 0, 0, id, 0, time.UTC)}
}

func TestDispatcher_DeliversInOrderToEverySink(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b", err: errors.New("down")}
	d := NewDispatcher(zaptest.NewLogger(t), a, b).WithInstanceID("inst-1")
	d.Start()

	for i := 1; i <= 50; i++ {
		d.Enqueue(notification(i))
	}
	require.NoError(t, d.Stop(context.Background()))

	want := make([]int, 50)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, a.seqs())
	assert.Equal(t, want, b.seqs())
	assert.Equal(t, "inst-1", a.got[0].InstanceID)
	assert.Equal(t, "entry", a.got[0].Message)
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_DropsAfterStop(t *testing.T) {
	sink := &recordingSink{name: "a"}
	d := NewDispatcher(zaptest.NewLogger(t), sink)
	d.Start()
	require.NoError(t, d.Stop(context.Background()))

	d.Enqueue(notification(1))
	assert.Equal(t, 0, d.Pending())
	assert.Empty(t, sink.seqs())

	// Stop is idempotent.
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_EnqueueDoesNotBlockOnSlowSink(t *testing.T) {
	sink := &recordingSink{name: "slow", gate: make(chan struct{})}
	d := NewDispatcher(zaptest.NewLogger(t), sink)
	d.Start()

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 100; i++ {
			d.Enqueue(notification(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a slow sink")
	}

	close(sink.gate)
	require.NoError(t, d.Stop(context.Background()))
	assert.Len(t, sink.seqs(), 100)
}

func TestDispatcher_StopHonoursContext(t *testing.T) {
	sink := &recordingSink{name: "stuck", gate: make(chan struct{})}
	d := NewDispatcher(zaptest.NewLogger(t), sink).WithDeliverTimeout(time.Minute)
	d.Start()
	d.Enqueue(notification(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

	close(sink.gate)
	require.NoError(t, d.Stop(context.Background()))
}

type fakePublisher struct {
	routingKey string
	payload    any
}

func (p *fakePublisher) PublishWithContext(_ context.Context, routingKey string, payload any) error {
	p.routingKey = routingKey
	p.payload = payload
	return nil
}

func TestMQSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQSink(pub)
	p := mqcontracts.ActivityLoggedPayload{InstanceID: "i", Seq: 3, Message: "m"}

	require.NoError(t, sink.Deliver(context.Background(), p))
	assert.Equal(t, "mq", sink.Name())
	assert.Equal(t, mqcontracts.RoutingKeyActivityLogged, pub.routingKey)
	assert.Equal(t, p, pub.payload)
}
