// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for actor ID.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// OperationKey is the context key for the operation ID of the current unit of work.
type OperationKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithOperationID returns a context tagged with the operation ID.
// Every history row written inside one transaction shares this ID.
func WithOperationID(ctx context.Context, opID string) context.Context {
	return context.WithValue(ctx, OperationKey{}, opID)
}

// OperationFromContext returns the operation ID from context, or empty string if not set.
func OperationFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(OperationKey{}).(string); ok {
		return v
	}
	return ""
}
