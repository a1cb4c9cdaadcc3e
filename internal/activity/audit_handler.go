package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mqcontracts "projecthub/contracts/mq"
	"projecthub/pkg/logger"
	"projecthub/pkg/util"

	"go.uber.org/zap"
)

const auditHandlerName = "audit"

type auditWriter interface {
	Insert(ctx context.Context, p mqcontracts.ActivityLoggedPayload) error
}

type deduper interface {
	AcquireOnce(ctx context.Context, handler, eventKey string) bool
	Release(ctx context.Context, handler, eventKey string)
}

type retryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type deadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, routingKey string, payload []byte, failedAt, originalError string) error
}

// memoryRetries counts attempts in process. It backs the handler when Redis is
// disabled or unreachable, so retries stay bounded per worker.
type memoryRetries struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryRetries() *memoryRetries {
	return &memoryRetries{counts: make(map[string]int64)}
}

func (m *memoryRetries) IncrementAndGet(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryRetries) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}

// AuditHandler consumes activity.logged events into the audit table. Retryable
// failures are requeued up to maxRetries times, everything else is parked in
// the dead letter queue. deduper, retries and dlq may be nil; without retries
// attempts are counted in process.
type AuditHandler struct {
	repo       auditWriter
	deduper    deduper
	retries    retryCounter
	local      *memoryRetries
	dlq        deadLetterPublisher
	maxRetries int64
	logger     *zap.Logger
}

func NewAuditHandler(
	repo auditWriter,
	deduper deduper,
	retries retryCounter,
	dlq deadLetterPublisher,
	maxRetries int64,
	logger *zap.Logger,
) *AuditHandler {
	return &AuditHandler{
		repo:       repo,
		deduper:    deduper,
		retries:    retries,
		local:      newMemoryRetries(),
		dlq:        dlq,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func eventKey(p mqcontracts.ActivityLoggedPayload) string {
	return fmt.Sprintf("%s:%d", p.InstanceID, p.Seq)
}

// HandleActivityLogged is a pkg/mq.MessageHandler.
func (h *AuditHandler) HandleActivityLogged(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p mqcontracts.ActivityLoggedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal activity payload (non-retryable, sending to DLQ)",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		h.deadLetter(ctx, raw, err)
		return nil
	}

	key := eventKey(p)
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, auditHandlerName, key) {
		return nil
	}

	retryKey := util.FormatRetryKey(auditHandlerName, key)
	err := h.repo.Insert(ctx, p)
	if err == nil {
		h.resetRetries(ctx, retryKey)
		log.Debug("Activity entry audited",
			zap.String("instance_id", p.InstanceID),
			zap.Int("seq", p.Seq),
		)
		return nil
	}

	isRetryable, errType := util.IsRetryableError(err)
	retryCount := h.countAttempt(ctx, retryKey, log)

	log.Error("Failed to audit activity entry",
		zap.String("instance_id", p.InstanceID),
		zap.Int("seq", p.Seq),
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Int64("retry_count", retryCount),
		zap.Error(err),
	)

	if util.ShouldRetry(retryCount, h.maxRetries, isRetryable) {
		// Let the redelivery through the dedup gate.
		if h.deduper != nil {
			h.deduper.Release(ctx, auditHandlerName, key)
		}
		return err
	}

	h.resetRetries(ctx, retryKey)
	h.deadLetter(ctx, raw, err)
	return nil
}

func (h *AuditHandler) countAttempt(ctx context.Context, retryKey string, log *zap.Logger) int64 {
	if h.retries != nil {
		count, err := h.retries.IncrementAndGet(ctx, retryKey)
		if err == nil {
			return count
		}
		log.Warn("Failed to get retry count, counting in process", zap.Error(err))
	}
	count, _ := h.local.IncrementAndGet(ctx, retryKey)
	return count
}

func (h *AuditHandler) resetRetries(ctx context.Context, retryKey string) {
	if h.retries != nil {
		_ = h.retries.Reset(ctx, retryKey)
	}
	_ = h.local.Reset(ctx, retryKey)
}

func (h *AuditHandler) deadLetter(ctx context.Context, raw []byte, cause error) {
	if h.dlq == nil {
		return
	}
	if err := h.dlq.PublishToDLQ(ctx, mqcontracts.RoutingKeyActivityLogged, raw, "activity-audit-worker", cause.Error()); err != nil {
		h.logger.Error("Failed to publish to DLQ", zap.Error(err))
	}
}
