package http

import (
	"context"
	"log/slog"

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/logging"
)

type contextKey string

const (
	principalContextKey     contextKey = "principal"
	employeeIDContextKey    contextKey = "employee_id"
	serviceIDContextKey     contextKey = "service_id"
	leaveIDContextKey       contextKey = "leave_id"
	editorSessionContextKey contextKey = "editor_session_id"
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

// ContextWithLogger returns a derived context carrying a request scoped
// logger. The logger is stored through the shared logging package so the
// application services see the same request attributes.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request scoped logger if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithEmployeeID injects the employee identifier resolved from the request path.
func ContextWithEmployeeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, employeeIDContextKey, id)
}

// EmployeeIDFromContext extracts an employee identifier previously associated with the context.
func EmployeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(employeeIDContextKey).(string)
	return id, ok
}

// ContextWithServiceID injects the service identifier resolved from the request path.
func ContextWithServiceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, serviceIDContextKey, id)
}

// ServiceIDFromContext extracts a service identifier previously associated with the context.
func ServiceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(serviceIDContextKey).(string)
	return id, ok
}

// ContextWithLeaveID injects the leave record identifier resolved from the request path.
func ContextWithLeaveID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, leaveIDContextKey, id)
}

// LeaveIDFromContext extracts a leave record identifier previously associated with the context.
func LeaveIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(leaveIDContextKey).(string)
	return id, ok
}

// ContextWithEditorSessionID injects the editor session identifier resolved from the request path.
func ContextWithEditorSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, editorSessionContextKey, id)
}

// EditorSessionIDFromContext extracts an editor session identifier previously associated with the context.
func EditorSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(editorSessionContextKey).(string)
	return id, ok
}
