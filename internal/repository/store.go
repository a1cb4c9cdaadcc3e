// Package repository holds the in-memory entity stores. All stores share one
// RWMutex owned by Store: every exported operation takes it exactly once and
// cross-store steps (ownership lookups, the project cascade, notification
// appends) run through unexported *Locked helpers under that same lock.
package repository

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BootstrapAdminUsername is the account materialized at startup.
const BootstrapAdminUsername = "admin"

// PasswordHasher is the credential hashing contract the identity store needs.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type Options struct {
	Hasher        PasswordHasher
	AdminPassword string
	// Publisher receives every notification after it is appended. Optional.
	Publisher Publisher
	Logger    *zap.Logger
	// Now overrides the clock, mainly for tests. Defaults to UTC wall time.
	Now func() time.Time
}

type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	logger *zap.Logger

	Users         *UserRepository
	Projects      *ProjectRepository
	Tasks         *TaskRepository
	Comments      *CommentRepository
	Notifications *NotificationLog
	Dashboard     *Dashboard
}

// NewStore builds the stores and seeds the bootstrap admin.
func NewStore(opts Options) (*Store, error) {
	if opts.Hasher == nil {
		return nil, fmt.Errorf("repository: password hasher is required")
	}
	if opts.AdminPassword == "" {
		return nil, fmt.Errorf("repository: bootstrap admin password is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	s := &Store{now: now, logger: logger}
	s.Notifications = newNotificationLog(s, opts.Publisher, logger)
	s.Projects = newProjectRepository(s, logger)
	s.Tasks = newTaskRepository(s, logger)
	s.Comments = newCommentRepository(s, logger)
	s.Dashboard = &Dashboard{s: s}

	users, err := newUserRepository(s, opts.Hasher, logger)
	if err != nil {
		return nil, err
	}
	s.Users = users

	if err := s.Users.ensureAdmin(opts.AdminPassword); err != nil {
		return nil, err
	}
	return s, nil
}
