package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/taskgraph/internal/ctxutil"
	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/logging"
	"github.com/example/taskgraph/internal/ports/secondary"
)

// Limits bounds every graph traversal the services run.
type Limits struct {
	MaxDependencyDepth int
	MaxHierarchyDepth  int
}

// DefaultLimits returns the traversal bounds used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxDependencyDepth: 64, MaxHierarchyDepth: 256}
}

// Options configures the services.
type Options struct {
	Limits Limits
	Logger *logging.Logger // nil discards logs
}

// runner executes service operations as units of work against the store.
// Each write gets a fresh operation ID shared by its history rows and log lines.
type runner struct {
	store  secondary.Store
	limits Limits
	logger *logging.Logger
}

func newRunner(store secondary.Store, opts Options) runner {
	limits := opts.Limits
	if limits.MaxDependencyDepth <= 0 {
		limits.MaxDependencyDepth = DefaultLimits().MaxDependencyDepth
	}
	if limits.MaxHierarchyDepth <= 0 {
		limits.MaxHierarchyDepth = DefaultLimits().MaxHierarchyDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return runner{store: store, limits: limits, logger: logger}
}

// write runs fn inside one transaction. Every error rolls the transaction back.
func (r runner) write(ctx context.Context, op string, fn func(context.Context, secondary.Repositories) error) error {
	opID := uuid.NewString()
	ctx = ctxutil.WithOperationID(ctx, opID)
	log := r.logger.WithOperation(op, opID)

	err := r.store.WithTx(ctx, func(repos secondary.Repositories) error {
		return fn(ctx, repos)
	})
	if err != nil {
		err = tagOp(err, op)
		r.logFailure(log, err)
		return err
	}

	log.Debug("operation committed", "actor", ctxutil.ActorFromContext(ctx))
	return nil
}

// read runs fn against one consistent snapshot.
func (r runner) read(ctx context.Context, op string, fn func(context.Context, secondary.Repositories) error) error {
	err := r.store.WithReadTx(ctx, func(repos secondary.Repositories) error {
		return fn(ctx, repos)
	})
	if err != nil {
		err = tagOp(err, op)
		r.logFailure(r.logger.With("op", op), err)
	}
	return err
}

func (r runner) logFailure(log *logging.Logger, err error) {
	if tgerrors.IsConsistencyViolation(err) {
		log.Error("consistency violation, transaction rolled back", "error", err.Error())
		return
	}
	log.Debug("operation failed", "error", err.Error())
}

// tagOp records the failing operation on typed errors that do not carry one.
func tagOp(err error, op string) error {
	if tgErr, ok := err.(*tgerrors.Error); ok {
		return tgErr.WithOp(op)
	}
	return err
}
