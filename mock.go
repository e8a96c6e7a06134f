package ygggo_jdbd

import (
	"context"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// NewMockDriver returns a loaded MySQL driver whose session is backed by
// go-sqlmock. Statements are matched verbatim. Result sets must be built
// with mock.NewRowsWithColumnDefinition so every column reports a MySQL
// type name. Unload closes the mock connection, so tests that unload must
// call mock.ExpectClose().
func NewMockDriver(ctx context.Context, cfg Config) (*Driver, sqlmock.Sqlmock, error) {
	// Apply env overrides first (convention over configuration)
	if err := ApplyEnv(&cfg); err != nil {
		return nil, nil, err
	}
	cfg.Kind = KindMySQL

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}

	b := newMysqlBackend()
	d := NewDriverWithBackend(cfg, BackendFunc(func(context.Context, Config) (Session, error) {
		return newSQLSession(sqlx.NewDb(db, "sqlmock"), b), nil
	}))
	if err := d.Load(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return d, mock, nil
}
