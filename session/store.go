// Package session keeps the local application state: the user list, the
// logged-in user and the per-record attachment index.
//
// State lives in a storage.LocalStore under fixed keys and is encoded as
// JSON. Credentials are compared in plaintext.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/storage"
)

// Keys of the persisted state.
const (
	KeyUsers       = "pharmacy_users"
	KeyCurrentUser = "pharmacy_current_user"
)

// DefaultUsers returns the user list used when none has been saved.
func DefaultUsers() []*core.User {
	return []*core.User{{
		ID:                       "1",
		Username:                 "admin",
		Password:                 "admin",
		Name:                     "المدير",
		Role:                     core.RoleManager,
		AdministrativeWorkPlaces: []string{},
	}}
}

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Username                 *string
	Password                 *string
	Name                     *string
	Role                     *core.Role
	AdministrativeWorkPlaces []string
}

func (p *UserPatch) apply(u *core.User) {
	if p == nil {
		return
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.AdministrativeWorkPlaces != nil {
		u.AdministrativeWorkPlaces = p.AdministrativeWorkPlaces
	}
}

// Store holds the user list and the logged-in user.
type Store struct {
	local  storage.LocalStore
	logger *slog.Logger

	mu      sync.RWMutex
	users   []*core.User
	current *core.User
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a store over local and loads the persisted state.
func NewStore(ctx context.Context, local storage.LocalStore, opts ...Option) (*Store, error) {
	if local == nil {
		return nil, ErrLocalStoreRequired
	}

	s := &Store{
		local:  local,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the user list and the logged-in user from the local store.
// A missing user list falls back to DefaultUsers.
func (s *Store) Load(ctx context.Context) error {
	users := DefaultUsers()
	if err := readJSON(ctx, s.local, KeyUsers, &users); err != nil {
		return err
	}

	var current *core.User
	if err := readJSON(ctx, s.local, KeyCurrentUser, &current); err != nil {
		return err
	}

	s.mu.Lock()
	s.users = users
	s.current = current
	s.mu.Unlock()

	s.logger.Debug("session loaded", "users", len(users), "logged_in", current != nil)
	return nil
}

// Save writes the user list and the logged-in user to the local store.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.saveUsers(ctx); err != nil {
		return err
	}
	return s.saveCurrent(ctx)
}

// Users returns a copy of the user list.
func (s *Store) Users() []*core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// CurrentUser returns the logged-in user, or nil.
func (s *Store) CurrentUser() *core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login logs in the user whose username and password both match exactly.
func (s *Store) Login(ctx context.Context, username, password string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.users, func(u *core.User) bool {
		return u.Username == username && u.Password == password
	})
	if idx < 0 {
		s.logger.Info("login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	s.current = s.users[idx]
	if err := s.saveCurrent(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", "username", username)
	return s.current, nil
}

// Logout forgets the logged-in user.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return s.local.Delete(ctx, KeyCurrentUser)
}

// AddUser appends a user with a fresh id.
func (s *Store) AddUser(ctx context.Context, user core.User) (*core.User, error) {
	if err := core.ValidateUser(&user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfUsername(user.Username, "") >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, user.Username)
	}

	user.ID = core.NewID()
	if user.AdministrativeWorkPlaces == nil {
		user.AdministrativeWorkPlaces = []string{}
	}
	s.users = append(slices.Clone(s.users), &user)
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies patch to the user with the given id. When that user is
// logged in, the persisted current user is refreshed too.
func (s *Store) UpdateUser(ctx context.Context, id core.ID, patch *UserPatch) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	updated := *s.users[idx]
	patch.apply(&updated)
	if err := core.ValidateUser(&updated); err != nil {
		return nil, err
	}
	if s.indexOfUsername(updated.Username, id) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, updated.Username)
	}

	users := slices.Clone(s.users)
	users[idx] = &updated
	s.users = users
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}

	if s.current != nil && s.current.ID == id {
		s.current = &updated
		if err := s.saveCurrent(ctx); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// DeleteUser removes the user with the given id. A logged-in user stays
// logged in until Logout.
func (s *Store) DeleteUser(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	s.users = slices.DeleteFunc(slices.Clone(s.users), func(u *core.User) bool {
		return u.ID == id
	})
	return s.saveUsers(ctx)
}

func (s *Store) indexOf(id core.ID) int {
	return slices.IndexFunc(s.users, func(u *core.User) bool { return u.ID == id })
}

func (s *Store) indexOfUsername(username string, except core.ID) int {
	return slices.IndexFunc(s.users, func(u *core.User) bool {
		return u.Username == username && u.ID != except
	})
}

func (s *Store) saveUsers(ctx context.Context) error {
	return writeJSON(ctx, s.local, KeyUsers, s.users)
}

func (s *Store) saveCurrent(ctx context.Context) error {
	if s.current == nil {
		return s.local.Delete(ctx, KeyCurrentUser)
	}
	return writeJSON(ctx, s.local, KeyCurrentUser, s.current)
}

// readJSON decodes the value under key into out. A missing key leaves out
// untouched.
func readJSON(ctx context.Context, local storage.LocalStore, key string, out any) error {
	raw, ok, err := local.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptState, key, err)
	}
	return nil
}

func writeJSON(ctx context.Context, local storage.LocalStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrSerializationFailed, key, err)
	}
	return local.Set(ctx, key, string(data))
}
