package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
	"github.com/anik/storefront-api/internal/infrastructure/security"
)

// stubCredentialStore mirrors the Mongo repository: Save enforces email
// uniqueness on its own, independent of ExistsByEmail.
type stubCredentialStore struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.Credential
	existsErr error
	findErr   error
	// hideExisting makes ExistsByEmail always answer false, simulating a
	// concurrent registration that slipped past the service-level check.
	hideExisting bool
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{byEmail: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (s *stubCredentialStore) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(c), nil
}

func (s *stubCredentialStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	if s.hideExisting {
		return false, nil
	}
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *stubCredentialStore) Save(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[c.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	s.byEmail[c.Email] = cloneCredential(c)
	return cloneCredential(c), nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *recordingAudit) Record(e domain.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingAudit) types() []domain.AuthEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var testSigningKey = func() domain.SigningKey {
	key, err := domain.NewSigningKey([]byte(strings.Repeat("s", 32)))
	if err != nil {
		panic(err)
	}
	return key
}()

func newTestAuthService(store ports.CredentialStore, audit ports.AuthEventRecorder) *AuthService {
	return NewAuthService(
		store,
		security.NewBcryptHasher(bcrypt.MinCost),
		security.NewJWTCodec(),
		TokenConfig{Key: testSigningKey, TTL: 15 * time.Minute},
		audit,
		zerolog.Nop(),
	)
}

func aliceInput() ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "Alice@Example.com",
		Password:  "pass1234",
		Phone:     "+1 555 0100",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	store := newStubCredentialStore()
	svc := newTestAuthService(store, nil)

	if err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored, ok := store.byEmail["alice@example.com"]
	if !ok {
		t.Fatalf("expected credential stored under normalized email")
	}
	if _, err := uuid.Parse(stored.ID); err != nil {
		t.Fatalf("expected UUID id, got %q", stored.ID)
	}
	if stored.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Role != domain.RoleCustomer {
		t.Fatalf("expected default role customer, got %s", stored.Role)
	}
	if stored.Name != "Alice Smith" {
		t.Fatalf("unexpected name %q", stored.Name)
	}
	if stored.Phone != "+1 555 0100" {
		t.Fatalf("unexpected phone %q", stored.Phone)
	}
}

func TestAuthService_Register_DuplicateAnyCase(t *testing.T) {
	svc := newTestAuthService(newStubCredentialStore(), nil)

	if err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	for _, email := range []string{"alice@example.com", "ALICE@EXAMPLE.COM", "  aLiCe@example.COM "} {
		in := aliceInput()
		in.Email = email
		in.Password = "another-pass"
		if err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("email %q: expected ErrDuplicateEmail, got %v", email, err)
		}
	}
}

func TestAuthService_Register_StoreEnforcesUniqueness(t *testing.T) {
	store := newStubCredentialStore()
	svc := newTestAuthService(store, nil)

	if err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	store.hideExisting = true
	if err := svc.Register(context.Background(), aliceInput()); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail from store, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	store := newStubCredentialStore()
	store.hideExisting = true
	svc := newTestAuthService(store, nil)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Register(context.Background(), aliceInput())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateEmail):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", n-1, successes, dupes)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubCredentialStore(), nil)

	cases := map[string]func(*ports.RegisterInput){
		"empty first name":  func(in *ports.RegisterInput) { in.FirstName = " " },
		"empty last name":   func(in *ports.RegisterInput) { in.LastName = "" },
		"empty email":       func(in *ports.RegisterInput) { in.Email = "   " },
		"empty password":    func(in *ports.RegisterInput) { in.Password = "" },
		"password too long": func(in *ports.RegisterInput) { in.Password = strings.Repeat("é", 37) },
	}
	for name, mutate := range cases {
		in := aliceInput()
		mutate(&in)
		if err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidRegistration) {
			t.Fatalf("%s: expected ErrInvalidRegistration, got %v", name, err)
		}
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	store := newStubCredentialStore()
	store.existsErr = errors.New("connection reset")
	svc := newTestAuthService(store, nil)

	err := svc.Register(context.Background(), aliceInput())
	if err == nil || errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !errors.Is(err, store.existsErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newStubCredentialStore()
	svc := newTestAuthService(store, nil)
	if err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored := store.byEmail["alice@example.com"]

	res, err := svc.Login(context.Background(), "ALICE@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID != stored.ID || res.User.Email != "alice@example.com" || res.User.Name != "Alice Smith" || res.User.Role != domain.RoleCustomer {
		t.Fatalf("unexpected identity summary: %+v", res.User)
	}

	claims, err := security.NewJWTCodec().Verify(res.Token, testSigningKey)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != stored.ID || claims.Email != stored.Email || claims.Role != stored.Role {
		t.Fatalf("claims do not match credential: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != 15*time.Minute {
		t.Fatalf("expected 15m lifetime, got %v", got)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newStubCredentialStore(), nil)
	if err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := svc.Login(context.Background(), "alice@example.com", "bad-pass")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "pass1234")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if wrongPassword != unknownEmail {
		t.Fatalf("failures differ: %v vs %v", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := newTestAuthService(newStubCredentialStore(), nil)

	if _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@example.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	store := newStubCredentialStore()
	store.findErr = errors.New("timeout")
	svc := newTestAuthService(store, nil)

	_, err := svc.Login(context.Background(), "alice@example.com", "pass1234")
	if errors.Is(err, domain.ErrInvalidCredentials) || !errors.Is(err, store.findErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_RecordsAuditEvents(t *testing.T) {
	audit := &recordingAudit{}
	svc := newTestAuthService(newStubCredentialStore(), audit)

	_ = svc.Register(context.Background(), aliceInput())
	_, _ = svc.Login(context.Background(), "alice@example.com", "pass1234")
	_, _ = svc.Login(context.Background(), "alice@example.com", "nope")
	_, _ = svc.Login(context.Background(), "ghost@example.com", "nope")

	want := []domain.AuthEventType{
		domain.AuthEventRegistered,
		domain.AuthEventLoginSucceeded,
		domain.AuthEventLoginFailed,
		domain.AuthEventLoginFailed,
	}
	got := audit.types()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if audit.events[3].SubjectID != "" {
		t.Fatalf("unknown email must not carry a subject id")
	}
}
