package activity

import (
	"context"

	mqcontracts "projecthub/contracts/mq"
)

// EventPublisher is satisfied by *pkg/mq.Publisher.
type EventPublisher interface {
	PublishWithContext(ctx context.Context, routingKey string, payload any) error
}

// MQSink publishes each entry as an activity.logged event.
type MQSink struct {
	publisher EventPublisher
}

func NewMQSink(publisher EventPublisher) *MQSink {
	return &MQSink{publisher: publisher}
}

func (s *MQSink) Name() string { return "mq" }

func (s *MQSink) Deliver(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error {
	return s.publisher.PublishWithContext(ctx, mqcontracts.RoutingKeyActivityLogged, p)
}
