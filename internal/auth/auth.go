// Package auth is the mock authentication of the storefront. It knows two
// demo accounts and accepts any well-formed email with a long enough
// password. The signed-in user is persisted under storage.KeyUser.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/storage"
	"storefront-service/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user
var ErrNotAuthenticated = errors.New("auth: not authenticated")

// MinPasswordLength is the shortest password accepted for ad-hoc demo logins
const MinPasswordLength = 6

// Store persists the signed-in user record
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Registration is the sign-up form
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate carries the profile fields to change. Empty fields are kept.
type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

type account struct {
	user models.User
	hash []byte
}

var (
	demoOnce     sync.Once
	demoAccounts map[string]account
	validate     = validator.New()
)

var demoCreated = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func accounts() map[string]account {
	demoOnce.Do(func() {
		demoAccounts = map[string]account{
			"admin@example.com": {
				user: models.User{
					ID: "admin1", Email: "admin@example.com", FirstName: "Admin", LastName: "User",
					Phone: "+1234567890", IsAdmin: true, CreatedAt: demoCreated,
				},
				hash: mustHash("admin123"),
			},
			"user@example.com": {
				user: models.User{
					ID: "user1", Email: "user@example.com", FirstName: "John", LastName: "Doe",
					Phone: "+1234567890", CreatedAt: demoCreated,
				},
				hash: mustHash("user123"),
			},
		}
	})
	return demoAccounts
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: hash demo password: %v", err))
	}
	return hash
}

// Service holds the authentication state of one session
type Service struct {
	mu       sync.Mutex
	user     *models.User
	store    Store
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a signed-out service persisting to store
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notify.Discard,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore signs in the stored user, if any. A record that does not decode
// is removed and ignored.
func (s *Service) Restore(ctx context.Context) error {
	data, err := s.store.Load(ctx, storage.KeyUser)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		util.StorageFailuresTotal.WithLabelValues("load", storage.KeyUser).Inc()
		return fmt.Errorf("failed to load user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		util.StorageDiscardedTotal.WithLabelValues(storage.KeyUser).Inc()
		s.logger.Warn("Discarding stored user", zap.Error(err))
		if err := s.store.Delete(ctx, storage.KeyUser); err != nil {
			s.logger.Error("Failed to delete stored user", zap.Error(err))
		}
		return nil
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Login signs in with the demo credentials, or with any well-formed email
// and a password of at least MinPasswordLength characters.
func (s *Service) Login(ctx context.Context, email, password string) bool {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, ok := s.authenticate(email, password)
	if !ok {
		util.AuthAttemptsTotal.WithLabelValues("failed").Inc()
		s.logger.Info("Login failed", zap.String("email", email))
		s.notifier.Notify(ctx, notify.Notice{
			Kind:        notify.LoginFailed,
			Title:       "Login Failed",
			Description: "Invalid email or password. Try admin@example.com/admin123 or user@example.com/user123",
			Variant:     notify.VariantDestructive,
		})
		return false
	}

	s.signIn(ctx, user)
	util.AuthAttemptsTotal.WithLabelValues("succeeded").Inc()
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.Bool("admin", user.IsAdmin))
	s.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.LoginSucceeded,
		Title:       "Login Successful",
		Description: fmt.Sprintf("Welcome back, %s!", user.FirstName),
		Variant:     notify.VariantDefault,
	})
	return true
}

func (s *Service) authenticate(email, password string) (models.User, bool) {
	if acct, ok := accounts()[email]; ok {
		if bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) == nil {
			return acct.user, true
		}
	}
	if validate.Var(email, "required,email") != nil || len(password) < MinPasswordLength {
		return models.User{}, false
	}

	// ad-hoc demo login: the demo profile under the given email
	user := accounts()["user@example.com"].user
	user.Email = email
	user.ID = fmt.Sprintf("user_%d", s.now().UnixMilli())
	return user, true
}

// Register always succeeds for a valid form and signs the new user in
func (s *Service) Register(ctx context.Context, reg Registration) (models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if err := validate.Struct(reg); err != nil {
		return models.User{}, fmt.Errorf("invalid registration: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:        fmt.Sprintf("user_%d", now.UnixMilli()),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		CreatedAt: now,
	}
	s.signIn(ctx, user)

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	s.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.Registered,
		Title:       "Registration Successful",
		Description: fmt.Sprintf("Welcome to our store, %s!", user.FirstName),
		Variant:     notify.VariantDefault,
	})
	return user, nil
}

// Logout forgets the user and the stored record
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, storage.KeyUser); err != nil {
		util.StorageFailuresTotal.WithLabelValues("delete", storage.KeyUser).Inc()
		s.logger.Error("Failed to delete stored user", zap.Error(err))
	}
	s.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.LoggedOut,
		Title:       "Logged Out",
		Description: "You have been successfully logged out.",
		Variant:     notify.VariantDefault,
	})
}

// UpdateProfile merges the non-empty fields of upd into the signed-in user.
// It returns false when nobody is signed in.
func (s *Service) UpdateProfile(ctx context.Context, upd ProfileUpdate) (bool, error) {
	if err := validate.Struct(upd); err != nil {
		return false, fmt.Errorf("invalid profile: %w", err)
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return false, nil
	}
	user := *s.user
	s.mu.Unlock()

	merge(&user.FirstName, upd.FirstName)
	merge(&user.LastName, upd.LastName)
	merge(&user.Phone, upd.Phone)
	merge(&user.DateOfBirth, upd.DateOfBirth)
	merge(&user.Gender, upd.Gender)
	s.signIn(ctx, user)

	s.notifier.Notify(ctx, notify.Notice{
		Kind:        notify.ProfileUpdated,
		Title:       "Profile Updated",
		Description: "Your profile has been successfully updated.",
		Variant:     notify.VariantDefault,
	})
	return true, nil
}

// Current returns the signed-in user
func (s *Service) Current() (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *s.user, nil
}

func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Service) signIn(ctx context.Context, user models.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("Failed to encode user", zap.Error(err))
		return
	}
	if err := s.store.Save(ctx, storage.KeyUser, data); err != nil {
		util.StorageFailuresTotal.WithLabelValues("save", storage.KeyUser).Inc()
		s.logger.Error("Failed to save user", zap.Error(err))
	}
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
