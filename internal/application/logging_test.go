package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/maintenance-tracker/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctxLogger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)

	if got := serviceLogger(ctx, base, "CalendarService", "AssignOffice"); got == nil {
		t.Fatal("expected a logger")
	}
	if got := serviceLogger(context.Background(), nil, "CalendarService", ""); got == nil {
		t.Fatal("expected a fallback logger")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":                 {nil, ""},
		"unauthorized":        {ErrUnauthorized, "unauthorized"},
		"not found":           {ErrNotFound, "not_found"},
		"already exists":      {ErrAlreadyExists, "already_exists"},
		"invalid credentials": {ErrInvalidCredentials, "invalid_credentials"},
		"session expired":     {ErrSessionExpired, "session_expired"},
		"session revoked":     {ErrSessionRevoked, "session_revoked"},
		"validation":          {&ValidationError{FieldErrors: map[string]string{"email": "bad"}}, "validation"},
		"wrapped":             {errors.Join(errors.New("context"), ErrNotFound), "not_found"},
		"unexpected":          {errors.New("boom"), "unexpected"},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := ErrorKind(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
