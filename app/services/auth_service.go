package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/auth"
	"github.com/shashiranjanraj/cafehub/pkg/event"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
	"github.com/shashiranjanraj/cafehub/pkg/validate"
)

// UserStore is the part of the credential store the account flows need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
}

type registration struct {
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
}

// AuthService registers accounts and checks credentials.
type AuthService struct {
	users  UserStore
	hasher auth.PasswordHasher
	events *event.Bus

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthService(users UserStore, hasher auth.PasswordHasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

// WithEvents publishes new registrations on bus.
func (s *AuthService) WithEvents(bus *event.Bus) *AuthService {
	s.events = bus
	return s
}

// Register creates an account. The email must be unused.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	in := registration{Email: strings.TrimSpace(email), Password: password}
	if err := errs.Invalid(validate.Struct(in)); err != nil {
		return nil, err
	}
	if l, ok := s.hasher.(auth.PasswordLimiter); ok && l.MaxPasswordBytes() > 0 && len(in.Password) > l.MaxPasswordBytes() {
		return nil, errs.Invalid(map[string]string{
			"password": fmt.Sprintf("password must be at most %d bytes", l.MaxPasswordBytes()),
		})
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.ErrDuplicateEmail
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, in.Email, digest)
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("auth: user registered", "user_id", user.ID)
	s.events.Fire(ctx, event.UserRegistered, event.Payload{UserID: user.ID})
	return user, nil
}

// Login returns the account for email when password matches. An unknown
// email and a wrong password fail alike with errs.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if user == nil {
		// Spend the same hashing work as a real check.
		s.hasher.Verify(s.dummy(), password)
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, errs.ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		logger.WithCtx(ctx).Info("auth: password mismatch", "user_id", user.ID)
		return nil, errs.ErrInvalidCredentials
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.WithCtx(ctx).Info("auth: login", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("cafehub-timing-equaliser")
	})
	return s.dummyDigest
}
