package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type userStoreStub struct {
	usersByID    map[string]User
	credsByEmail map[string]UserCredentials
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		usersByID:    make(map[string]User),
		credsByEmail: make(map[string]UserCredentials),
	}
}

func (s *userStoreStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if _, ok := s.credsByEmail[user.Email]; ok {
		return User{}, ErrAlreadyExists
	}
	s.usersByID[user.ID] = user
	s.credsByEmail[user.Email] = UserCredentials{User: user, PasswordHash: passwordHash}
	return user, nil
}

func (s *userStoreStub) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	creds, ok := s.credsByEmail[email]
	if !ok {
		return UserCredentials{}, ErrNotFound
	}
	return creds, nil
}

func (s *userStoreStub) GetUser(ctx context.Context, id string) (User, error) {
	user, ok := s.usersByID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

type sessionRepoStub struct {
	sessions map[string]Session
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{sessions: make(map[string]Session)}
}

func (s *sessionRepoStub) CreateSession(ctx context.Context, session Session) (Session, error) {
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepoStub) GetSession(ctx context.Context, token string) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	session.UpdatedAt = revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepoStub) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	for token, session := range s.sessions {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func newTestAuthService(users *userStoreStub, sessions *sessionRepoStub, now func() time.Time) *AuthService {
	counter := 0
	generator := func() string {
		counter++
		return fmt.Sprintf("token-%d", counter)
	}
	service := NewAuthService(users, sessions, generator, generator, now, 24*time.Hour)
	service.hashPassword = func(password string) (string, error) { return "hash:" + password, nil }
	service.verifyPassword = func(hashedPassword, password string) error {
		if hashedPassword != "hash:"+password {
			return ErrInvalidCredentials
		}
		return nil
	}
	return service
}

func fixedNow() time.Time {
	return time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
}

func TestSignup_CreatesAccount(t *testing.T) {
	t.Parallel()

	users := newUserStoreStub()
	service := newTestAuthService(users, newSessionRepoStub(), fixedNow)

	user, err := service.Signup(context.Background(), SignupParams{
		Email:       " Worker@Example.COM ",
		DisplayName: "Worker",
		Password:    "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "worker@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if creds, ok := users.credsByEmail["worker@example.com"]; !ok || !strings.HasPrefix(creds.PasswordHash, "hash:") {
		t.Fatalf("expected stored credentials, got %+v", creds)
	}
}

func TestSignup_ValidatesInput(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newUserStoreStub(), newSessionRepoStub(), fixedNow)

	_, err := service.Signup(context.Background(), SignupParams{Email: "not-an-email", Password: "short"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"email", "display_name", "password"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected field error for %s, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newUserStoreStub(), newSessionRepoStub(), fixedNow)
	params := SignupParams{Email: "worker@example.com", DisplayName: "Worker", Password: "correct horse"}

	if _, err := service.Signup(context.Background(), params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Signup(context.Background(), params); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthenticate_IssuesSession(t *testing.T) {
	t.Parallel()

	users := newUserStoreStub()
	sessions := newSessionRepoStub()
	service := newTestAuthService(users, sessions, fixedNow)
	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupParams{Email: "worker@example.com", DisplayName: "Worker", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := service.Authenticate(ctx, AuthenticateParams{Email: "Worker@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Session.Token == "" {
		t.Fatal("expected a session token")
	}
	if want := fixedNow().Add(24 * time.Hour); !result.Session.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, result.Session.ExpiresAt)
	}
	if _, ok := sessions.sessions[result.Session.Token]; !ok {
		t.Fatal("expected session to be persisted")
	}
}

func TestAuthenticate_RejectsBadCredentials(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newUserStoreStub(), newSessionRepoStub(), fixedNow)
	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupParams{Email: "worker@example.com", DisplayName: "Worker", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]AuthenticateParams{
		"wrong password": {Email: "worker@example.com", Password: "wrong"},
		"unknown email":  {Email: "nobody@example.com", Password: "correct horse"},
		"empty email":    {Email: "", Password: "correct horse"},
		"empty password": {Email: "worker@example.com", Password: ""},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := service.Authenticate(ctx, params); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	t.Parallel()

	users := newUserStoreStub()
	sessions := newSessionRepoStub()
	service := newTestAuthService(users, sessions, fixedNow)
	ctx := context.Background()

	user, err := service.Signup(ctx, SignupParams{Email: "worker@example.com", DisplayName: "Worker", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := service.Authenticate(ctx, AuthenticateParams{Email: "worker@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	principal, err := service.ValidateSession(ctx, result.Session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != user.ID || principal.Email != user.Email {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := service.ValidateSession(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
	if _, err := service.ValidateSession(ctx, "unknown"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown token, got %v", err)
	}
}

func TestValidateSession_ExpiredAndRevoked(t *testing.T) {
	t.Parallel()

	users := newUserStoreStub()
	sessions := newSessionRepoStub()
	current := fixedNow()
	service := newTestAuthService(users, sessions, func() time.Time { return current })
	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupParams{Email: "worker@example.com", DisplayName: "Worker", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := service.Authenticate(ctx, AuthenticateParams{Email: "worker@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current = current.Add(25 * time.Hour)
	if _, err := service.ValidateSession(ctx, result.Session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	current = fixedNow()
	second, err := service.Authenticate(ctx, AuthenticateParams{Email: "worker@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.RevokeSession(ctx, second.Session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.ValidateSession(ctx, second.Session.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestRevokeSession_UnknownToken(t *testing.T) {
	t.Parallel()

	service := newTestAuthService(newUserStoreStub(), newSessionRepoStub(), fixedNow)

	if err := service.RevokeSession(context.Background(), "missing"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := service.RevokeSession(context.Background(), ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty token, got %v", err)
	}
}
