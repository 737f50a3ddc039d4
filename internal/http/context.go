package http

import (
	"context"

	"github.com/example/maintenance-tracker/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	eventIDContextKey   contextKey = "event_id"
	officeIDContextKey  contextKey = "office_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEventID injects the event identifier resolved from the request path.
func ContextWithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventIDFromContext extracts an event identifier previously associated with the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(eventIDContextKey).(string)
	return id, ok
}

// ContextWithOfficeID injects the office identifier resolved from the request path.
func ContextWithOfficeID(ctx context.Context, officeID string) context.Context {
	return context.WithValue(ctx, officeIDContextKey, officeID)
}

// OfficeIDFromContext extracts an office identifier previously associated with the context.
func OfficeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(officeIDContextKey).(string)
	return id, ok
}
