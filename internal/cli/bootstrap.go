// Package cli provides the cobra commands for the taskgraph CLI.
package cli

import (
	gocontext "context"

	"github.com/example/taskgraph/internal/ctxutil"
)

// globalActorID stores the actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor records the acting identity. An explicit override
// (the --actor flag) wins over the environment and the OS user.
func DetectAndStoreActor(override string) {
	if override != "" {
		globalActorID = override
		return
	}
	globalActorID = ctxutil.DetectActor()
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
