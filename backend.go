package ygggo_jdbd

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Session is a live backend connection (usually a pool). It is owned by
// exactly one Driver, which calls Close exactly once.
type Session interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, text string, params []Parameter) (int64, error)
	// Query runs a statement and returns the fully materialized result.
	Query(ctx context.Context, text string, params []Parameter) ([]*Row, error)
	Close() error
}

// Backend opens sessions. Errors returned by Open carry the backend's
// diagnostic text.
type Backend interface {
	Open(ctx context.Context, cfg Config) (Session, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, cfg Config) (Session, error)

func (f BackendFunc) Open(ctx context.Context, cfg Config) (Session, error) { return f(ctx, cfg) }

// requiredSQLDrivers are the database/sql drivers linked into this package.
var requiredSQLDrivers = []string{"mysql", "sqlite"}

var (
	backendOnce   sync.Once
	backendErr    error
	backendLoaded atomic.Bool
)

// ensureBackendLoaded performs the process-wide, one-time backend
// initialization. It is idempotent and safe for concurrent use; every
// call returns the result of the first.
func ensureBackendLoaded() error {
	backendOnce.Do(func() {
		registered := sql.Drivers()
		for _, name := range requiredSQLDrivers {
			if !slices.Contains(registered, name) {
				backendErr = fmt.Errorf("sql driver %q is not registered", name)
				return
			}
		}
		backendLoaded.Store(true)
	})
	return backendErr
}

// BackendLoaded reports whether the process-wide initialization succeeded.
func BackendLoaded() bool { return backendLoaded.Load() }

// wireArgs converts bound parameters to backend argument values.
func wireArgs(params []Parameter) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.Value()
	}
	return args
}
