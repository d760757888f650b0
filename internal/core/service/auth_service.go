package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

// TokenConfig is the process-wide token issuing configuration.
type TokenConfig struct {
	Key domain.SigningKey
	TTL time.Duration
}

// AuthService implements registration and login.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	tokens TokenConfig
	audit  ports.AuthEventRecorder
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the auth use cases. audit may be nil.
func NewAuthService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec ports.TokenCodec,
	tokens TokenConfig,
	audit ports.AuthEventRecorder,
	log zerolog.Logger,
) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 15 * time.Minute
	}
	return &AuthService{
		store:  store,
		hasher: hasher,
		codec:  codec,
		tokens: tokens,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

// Register creates a customer credential. The existence check is only a fast
// path; the store's unique index has the final say.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	email := domain.NormalizeEmail(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" || email == "" || in.Password == "" {
		return domain.ErrInvalidRegistration
	}

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if exists {
		return domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPassword) || errors.Is(err, domain.ErrPasswordTooLong) {
			return domain.ErrInvalidRegistration
		}
		return fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Save(ctx, &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         first + " " + last,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("subject_id", created.ID).Msg("credential registered")
	s.record(domain.AuthEventRegistered, email, created.ID)
	return nil
}

// Login verifies the credentials and issues an access token. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			// Burn one verify so both failure paths cost the same.
			s.hasher.Verify(password, s.timingHash())
			s.record(domain.AuthEventLoginFailed, email, "")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, cred.PasswordHash) {
		s.record(domain.AuthEventLoginFailed, email, cred.ID)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(domain.Claims{
		Subject: cred.ID,
		Email:   cred.Email,
		Role:    cred.Role,
	}, s.tokens.Key, s.tokens.TTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.record(domain.AuthEventLoginSucceeded, email, cred.ID)
	return &ports.LoginResult{Token: token, User: cred.Summary()}, nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build timing hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) record(kind domain.AuthEventType, email, subjectID string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Type:       kind,
		Email:      email,
		SubjectID:  subjectID,
		OccurredAt: s.now().UTC(),
	})
}
