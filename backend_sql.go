package ygggo_jdbd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// sqlBackend opens database/sql sessions. MySQL and SQLite share it and
// differ only in DSN building and column type resolution.
type sqlBackend struct {
	kind       DriverKind
	driverName string
	dsn        func(Config) (string, error)
	// columnType maps a database type name; zero means unknown.
	columnType func(name string) ColumnType
	// inferUnknown resolves unknown type names from the scanned value
	// instead of failing the query.
	inferUnknown bool
	// tune adjusts the pool after Config.Pool is applied.
	tune func(db *sql.DB, cfg Config)
	// args converts bound parameters to driver arguments; nil means sqlArgs.
	args func(params []Parameter) []any
}

func (b *sqlBackend) Open(ctx context.Context, cfg Config) (Session, error) {
	dsn, err := b.dsn(cfg)
	if err != nil {
		return nil, err
	}
	name := b.driverName
	if cfg.Driver != "" {
		name = cfg.Driver
	}

	var db *sql.DB
	if cfg.Telemetry.Enabled {
		db, err = otelsql.Open(name, dsn,
			otelsql.WithAttributes(attribute.String("db.system", string(b.kind))))
	} else {
		db, err = sql.Open(name, dsn)
	}
	if err != nil {
		return nil, err
	}

	applyPool(db, cfg.Pool)
	if b.tune != nil {
		b.tune(db, cfg)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return newSQLSession(sqlx.NewDb(db, name), b), nil
}

func applyPool(db *sql.DB, p PoolConfig) {
	if p.MaxOpen > 0 {
		db.SetMaxOpenConns(p.MaxOpen)
	}
	if p.MaxIdle > 0 {
		db.SetMaxIdleConns(p.MaxIdle)
	}
	if p.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(p.ConnMaxLifetime)
	}
	if p.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(p.ConnMaxIdleTime)
	}
}

// sqlSession runs statements over a database/sql pool.
type sqlSession struct {
	db         *sqlx.DB
	columnType func(string) ColumnType
	infer      bool
	args       func([]Parameter) []any
}

func newSQLSession(db *sqlx.DB, b *sqlBackend) *sqlSession {
	args := b.args
	if args == nil {
		args = sqlArgs
	}
	return &sqlSession{db: db, columnType: b.columnType, infer: b.inferUnknown, args: args}
}

// sqlArgs widens float32 to float64, the only float database/sql drivers
// are required to accept.
func sqlArgs(params []Parameter) []any {
	args := wireArgs(params)
	for i, a := range args {
		if f, ok := a.(float32); ok {
			args[i] = float64(f)
		}
	}
	return args
}

func (s *sqlSession) Exec(ctx context.Context, text string, params []Parameter) (int64, error) {
	res, err := s.db.ExecContext(ctx, text, s.args(params)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlSession) Query(ctx context.Context, text string, params []Parameter) ([]*Row, error) {
	rows, err := s.db.QueryxContext(ctx, text, s.args(params)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cts))
	for i, ct := range cts {
		names[i] = ct.Name()
	}

	out := []*Row{}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		types := make([]ColumnType, len(cts))
		for i, ct := range cts {
			t, v, err := s.resolve(ct.DatabaseTypeName(), vals[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", names[i], err)
			}
			types[i], vals[i] = t, v
		}
		row, err := NewRow(names, vals, types)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sqlSession) resolve(typeName string, v any) (ColumnType, any, error) {
	if typeName != "" && s.columnType != nil {
		if t := s.columnType(typeName); t != 0 {
			return t, v, nil
		}
		if !s.infer {
			return 0, nil, fmt.Errorf("unsupported column type %q", typeName)
		}
	}
	t, v := inferColumnType(v)
	return t, v, nil
}

// inferColumnType picks a column type from a scanned value. Used when the
// backend reports no usable type name, e.g. SQLite expressions.
func inferColumnType(v any) (ColumnType, any) {
	switch x := v.(type) {
	case nil:
		return TypeString, nil
	case string:
		return TypeString, x
	case []byte:
		return TypeBytes, x
	case bool:
		return TypeBool, x
	case float32, float64:
		return TypeDouble, x
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return TypeInt, x
	case time.Time:
		return TypeString, x.Format(time.RFC3339Nano)
	}
	return TypeString, fmt.Sprint(v)
}

func (s *sqlSession) Close() error {
	return s.db.Close()
}
