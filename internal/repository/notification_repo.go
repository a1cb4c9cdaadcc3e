package repository

import (
	"projecthub/internal/model"

	"go.uber.org/zap"
)

// RecentWindow is how many notifications Recent exposes.
const RecentWindow = 20

// Publisher receives notifications in append order. Enqueue is called with the
// store lock held and must not block.
type Publisher interface {
	Enqueue(n model.Notification)
}

// NotificationLog is the append-only activity log. Storage is unbounded; reads
// only expose the most recent RecentWindow entries.
type NotificationLog struct {
	s         *Store
	publisher Publisher
	logger    *zap.Logger

	entries []model.Notification
}

func newNotificationLog(s *Store, publisher Publisher, logger *zap.Logger) *NotificationLog {
	return &NotificationLog{
		s:         s,
		publisher: publisher,
		logger:    logger,
	}
}

// Append records text as the next notification.
func (l *NotificationLog) Append(text string) model.Notification {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.appendLocked(text)
}

func (l *NotificationLog) appendLocked(text string) model.Notification {
	n := model.Notification{
		ID:        len(l.entries) + 1,
		Text:      text,
		Timestamp: l.s.now(),
	}
	l.entries = append(l.entries, n)
	if l.publisher != nil {
		l.publisher.Enqueue(n)
	}
	l.logger.Debug("Notification appended",
		zap.Int("id", n.ID),
		zap.String("text", text),
	)
	return n
}

// Recent returns up to RecentWindow entries, oldest first.
func (l *NotificationLog) Recent() []model.Notification {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	start := max(len(l.entries)-RecentWindow, 0)
	out := make([]model.Notification, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Len returns the total number of notifications ever appended.
func (l *NotificationLog) Len() int {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return len(l.entries)
}
