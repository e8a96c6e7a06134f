package ygggo_jdbd

import "context"

// DatabaseDriver is the capability shared by every backend variant.
type DatabaseDriver interface {
	Load(ctx context.Context) error
	Query(ctx context.Context, stmt *PreparedStatement) ([]*Row, error)
	Execute(ctx context.Context, stmt *PreparedStatement) (int64, error)
	Unload() error

	State() State
	Kind() DriverKind
}

// Ensure our concrete types implement the interfaces at compile time
var (
	_ DatabaseDriver = (*Driver)(nil)
	_ Session        = (*sqlSession)(nil)
	_ Session        = (*pgSession)(nil)
	_ Backend        = (*sqlBackend)(nil)
	_ Backend        = (*postgresBackend)(nil)
	_ Backend        = BackendFunc(nil)
)
