package repository

import (
	"cmp"
	"fmt"
	"slices"

	"projecthub/internal/apperr"
	"projecthub/internal/model"
	"projecthub/pkg/metrics"

	"go.uber.org/zap"
)

// UserRepository is the identity store. Users are indexed by username and by id.
type UserRepository struct {
	s      *Store
	hasher PasswordHasher
	logger *zap.Logger

	byName map[string]*model.User
	byID   map[int]*model.User
	nextID int

	// dummyHash is compared against when the username is unknown, so a miss
	// costs the same as a wrong password.
	dummyHash string
}

func newUserRepository(s *Store, hasher PasswordHasher, logger *zap.Logger) (*UserRepository, error) {
	dummy, err := hasher.Hash("projecthub-timing-guard")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential guard: %w", err)
	}
	return &UserRepository{
		s:         s,
		hasher:    hasher,
		logger:    logger,
		byName:    make(map[string]*model.User),
		byID:      make(map[int]*model.User),
		nextID:    1,
		dummyHash: dummy,
	}, nil
}

func (r *UserRepository) ensureAdmin(password string) error {
	r.s.mu.RLock()
	_, exists := r.byName[BootstrapAdminUsername]
	r.s.mu.RUnlock()
	if exists {
		return nil
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.byName[BootstrapAdminUsername]; exists {
		return nil
	}
	u := r.insertLocked(BootstrapAdminUsername, hash, model.RoleAdmin)
	r.logger.Info("Bootstrap admin created", zap.Int("user_id", u.ID))
	return nil
}

func (r *UserRepository) insertLocked(username, hash, role string) *model.User {
	u := &model.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	r.nextID++
	r.byName[username] = u
	r.byID[u.ID] = u
	return u
}

// Register creates a user with role "user".
func (r *UserRepository) Register(username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperr.InvalidInput("Missing username or password")
	}

	r.s.mu.RLock()
	_, taken := r.byName[username]
	r.s.mu.RUnlock()
	if taken {
		return nil, apperr.Conflict("Username already exists")
	}

	// bcrypt is slow; keep it outside the critical section and re-check below.
	hash, err := r.hasher.Hash(password)
	if err != nil {
		r.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.byName[username]; taken {
		return nil, apperr.Conflict("Username already exists")
	}
	u := r.insertLocked(username, hash, model.RoleUser)
	r.s.Notifications.appendLocked(fmt.Sprintf("New user registered: %s", username))
	metrics.RecordMutation("user", "create")

	r.logger.Info("User registered",
		zap.Int("user_id", u.ID),
		zap.String("username", username),
	)
	return publicUser(u), nil
}

// Authenticate resolves credentials to a user. Unknown usernames and wrong
// passwords fail identically.
func (r *UserRepository) Authenticate(username, password string) (*model.User, error) {
	r.s.mu.RLock()
	stored, ok := r.byName[username]
	var u model.User
	if ok {
		u = *stored
	}
	r.s.mu.RUnlock()

	if !ok {
		r.hasher.Verify(password, r.dummyHash)
		r.logger.Debug("Authentication failed", zap.String("username", username))
		return nil, apperr.Unauthorized("Bad username or password")
	}
	if !r.hasher.Verify(password, u.PasswordHash) {
		r.logger.Debug("Authentication failed", zap.String("username", username))
		return nil, apperr.Unauthorized("Bad username or password")
	}
	return publicUser(&u), nil
}

// Get returns the user with the given id.
func (r *UserRepository) Get(id int) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return publicUser(u), nil
}

// ListAll returns every user ordered by id with credentials stripped.
// Callers must restrict it to admins.
func (r *UserRepository) ListAll() []model.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *publicUser(u))
	}
	slices.SortFunc(users, func(a, b model.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(id int, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, apperr.InvalidInput("Invalid role")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	u.Role = role
	r.s.Notifications.appendLocked(fmt.Sprintf("User %s role changed to %s by admin", u.Username, role))
	metrics.RecordMutation("user", "set_role")

	r.logger.Info("User role changed",
		zap.Int("user_id", id),
		zap.String("role", role),
	)
	return publicUser(u), nil
}

// Count returns the number of registered users, the bootstrap admin included.
func (r *UserRepository) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.countLocked()
}

func (r *UserRepository) countLocked() int {
	return len(r.byID)
}

func publicUser(u *model.User) *model.User {
	c := *u
	c.PasswordHash = ""
	return &c
}
