package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/password"
	"course-portal/internal/pkg/validate"
)

// defaultDepartment is assigned to faculty registrations that name none
const defaultDepartment = "Computer Science"

// Token kinds
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// nowFunc and sleepFunc are swapped out in tests
var (
	nowFunc   = time.Now
	sleepFunc = time.Sleep
)

// RegisterInput represents registration input
type RegisterInput struct {
	Name               string      `json:"name" validate:"required"`
	Email              string      `json:"email" validate:"required,email"`
	Password           string      `json:"password" validate:"required,min=6"`
	ConfirmPassword    string      `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role               domain.Role `json:"role" validate:"required,oneof=student faculty"`
	RegistrationNumber string      `json:"registrationNumber" validate:"required_if=Role student"`
	Department         string      `json:"department"`
}

func (in *RegisterInput) clean() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = cleanEmail(in.Email)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	in.Department = strings.TrimSpace(in.Department)
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionService owns the current user identity and its token pair.
// One instance corresponds to one client origin.
type SessionService struct {
	store     *store.Store
	validator *validate.Validator
	ids       *idgen.Generator
	cfg       config.SessionConfig

	mu      sync.RWMutex
	session domain.Session

	registryMu sync.Mutex
	pending    atomic.Int32
}

// NewSessionService creates a new session service. Call Init before use.
func NewSessionService(s *store.Store, v *validate.Validator, ids *idgen.Generator, cfg *config.Config) *SessionService {
	return &SessionService{
		store:     s,
		validator: v,
		ids:       ids,
		cfg:       cfg.Session,
	}
}

// Init restores a persisted session. Corrupt persisted data is purged and
// leaves the service unauthenticated; it is not reported as an error.
func (s *SessionService) Init(ctx context.Context) error {
	var (
		user          domain.User
		access, renew string
	)

	foundUser, errUser := s.store.Load(ctx, store.KeyUser, &user)
	foundAccess, errAccess := s.store.Load(ctx, store.KeyAccessToken, &access)
	_, errRefresh := s.store.Load(ctx, store.KeyRefreshToken, &renew)

	for _, err := range []error{errUser, errAccess, errRefresh} {
		if err == nil {
			continue
		}
		if errors.Is(err, domain.ErrStorageCorruption) {
			log.Printf("⚠️ Session restore failed, clearing stored session: %v", err)
			s.reset()
			return s.store.Remove(ctx, store.SessionKeys...)
		}
		return fmt.Errorf("restore session: %w", err)
	}

	if !foundUser || !foundAccess || access == "" {
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.session = domain.Session{User: &user, AccessToken: access, RefreshToken: renew}
	s.mu.Unlock()

	log.Printf("✅ Session restored for user: %s", user.Email)
	return nil
}

// Dispose drops in-memory state without touching the store
func (s *SessionService) Dispose() {
	s.reset()
}

func (s *SessionService) reset() {
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()
}

// Login authenticates against the persisted registry
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*domain.Session, error) {
	input.Email = cleanEmail(input.Email)
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	sleepFunc(s.cfg.LoginDelay)

	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	var found *domain.RegisteredUser
	for i := range registry {
		if registry[i].Email == input.Email {
			found = &registry[i]
			break
		}
	}
	if found == nil || !password.Verify(input.Password, found.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	user := found.User
	session, err := s.start(ctx, &user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)
	return session, nil
}

// Register adds a new account to the registry and starts a session for it
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (*domain.Session, error) {
	input.clean()
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Fail fast on a duplicate email
	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if emailTaken(registry, input.Email) {
		return nil, domain.ErrDuplicateEmail
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	sleepFunc(s.cfg.LoginDelay)

	// 2. Hash password
	hashedPassword, err := password.Hash(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	// 3. Append to the registry, re-checking under the lock
	user := domain.User{
		ID:    s.ids.Next(),
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	switch input.Role {
	case domain.RoleStudent:
		user.RegistrationNumber = input.RegistrationNumber
	case domain.RoleFaculty:
		user.Department = input.Department
		if user.Department == "" {
			user.Department = defaultDepartment
		}
	}

	if err := s.appendToRegistry(ctx, domain.RegisteredUser{User: user, Password: hashedPassword}); err != nil {
		return nil, err
	}

	// 4. Start session
	session, err := s.start(ctx, &user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (%s)", user.Email, user.Role)
	return session, nil
}

// Logout clears the in-memory and persisted session. It is idempotent.
func (s *SessionService) Logout(ctx context.Context) error {
	s.reset()
	if err := s.store.Remove(ctx, store.SessionKeys...); err != nil {
		return err
	}
	log.Printf("✅ User logged out")
	return nil
}

// RefreshAccessToken mints a new access token and keeps the refresh token.
// Without a refresh token the session is logged out and ErrNoRefreshToken
// is returned.
func (s *SessionService) RefreshAccessToken(ctx context.Context) (string, error) {
	current := s.Current()
	if current.RefreshToken == "" || current.User == nil {
		if err := s.Logout(ctx); err != nil {
			return "", err
		}
		return "", domain.ErrNoRefreshToken
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	sleepFunc(s.cfg.RefreshDelay)

	token := mintToken(tokenKindAccess, current.User.ID)

	s.mu.Lock()
	if s.session.RefreshToken != current.RefreshToken {
		// logged out or replaced while the refresh was in flight
		s.mu.Unlock()
		return "", domain.ErrNotAuthenticated
	}
	s.session.AccessToken = token
	s.mu.Unlock()

	if err := s.store.Save(ctx, store.KeyAccessToken, token); err != nil {
		return "", err
	}

	log.Printf("✅ Token refreshed for user: %s", current.User.Email)
	return token, nil
}

// IsAuthenticated is true iff both user and access token are held
func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// HasRole reports whether the current user has role
func (s *SessionService) HasRole(role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.User.Role == role
}

// HasAnyRole reports whether the current user has one of roles
func (s *SessionService) HasAnyRole(roles ...domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return false
	}
	for _, role := range roles {
		if s.session.User.Role == role {
			return true
		}
	}
	return false
}

// Busy reports whether a simulated login, register or refresh call is in flight.
// It is advisory only.
func (s *SessionService) Busy() bool {
	return s.pending.Load() > 0
}

// Current returns a copy of the current session
func (s *SessionService) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session := s.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	return session
}

// User returns a copy of the current user, or nil
func (s *SessionService) User() *domain.User {
	return s.Current().User
}

// Lookup returns the public profile of a registered user
func (s *SessionService) Lookup(ctx context.Context, id int64) (*domain.User, error) {
	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range registry {
		if u.ID == id {
			user := u.User
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// start mints a token pair for user, then sets and persists the session
func (s *SessionService) start(ctx context.Context, user *domain.User) (*domain.Session, error) {
	session := domain.Session{
		User:         user,
		AccessToken:  mintToken(tokenKindAccess, user.ID),
		RefreshToken: mintToken(tokenKindRefresh, user.ID),
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	out := s.Current()
	return &out, nil
}

func (s *SessionService) persist(ctx context.Context, session domain.Session) error {
	if err := s.store.Save(ctx, store.KeyUser, session.User); err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.KeyAccessToken, session.AccessToken); err != nil {
		return err
	}
	if session.RefreshToken != "" {
		return s.store.Save(ctx, store.KeyRefreshToken, session.RefreshToken)
	}
	return nil
}

func (s *SessionService) loadRegistry(ctx context.Context) ([]domain.RegisteredUser, error) {
	var registry []domain.RegisteredUser
	if _, err := s.store.LoadOrPurge(ctx, store.KeyRegisteredUsers, &registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func (s *SessionService) appendToRegistry(ctx context.Context, entry domain.RegisteredUser) error {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()

	registry, err := s.loadRegistry(ctx)
	if err != nil {
		return err
	}
	if emailTaken(registry, entry.Email) {
		return domain.ErrDuplicateEmail
	}
	return s.store.Save(ctx, store.KeyRegisteredUsers, append(registry, entry))
}

func emailTaken(registry []domain.RegisteredUser, email string) bool {
	for _, u := range registry {
		if u.Email == email {
			return true
		}
	}
	return false
}

// mintToken returns an opaque <kind>_<userId>_<timestampMillis> token
func mintToken(kind string, userID int64) string {
	return fmt.Sprintf("%s_%d_%d", kind, userID, nowFunc().UnixMilli())
}

func cleanEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
