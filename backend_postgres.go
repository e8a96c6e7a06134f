package ygggo_jdbd

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

var postgresTypes = map[uint32]ColumnType{
	pgtype.TextOID:    TypeString,
	pgtype.VarcharOID: TypeString,
	pgtype.BPCharOID:  TypeString,
	pgtype.NameOID:    TypeString,

	pgtype.Int2OID: TypeInt,
	pgtype.Int4OID: TypeInt,
	pgtype.Int8OID: TypeInt,

	pgtype.Float4OID:  TypeDouble,
	pgtype.Float8OID:  TypeDouble,
	pgtype.NumericOID: TypeDouble,

	pgtype.BoolOID: TypeBool,

	pgtype.ByteaOID: TypeBytes,
}

// pgTypeNames resolves OIDs for error messages only.
var pgTypeNames = pgtype.NewMap()

func postgresColumnType(oid uint32) (ColumnType, error) {
	if t, ok := postgresTypes[oid]; ok {
		return t, nil
	}
	if t, ok := pgTypeNames.TypeForOID(oid); ok {
		return 0, fmt.Errorf("unsupported column type %q", t.Name)
	}
	return 0, fmt.Errorf("unsupported column type oid %d", oid)
}

// postgresBackend opens a pgx pool. Statements are written with '?'
// placeholders and rewritten to $n just before they reach the server.
type postgresBackend struct{}

func newPostgresBackend() *postgresBackend { return &postgresBackend{} }

func (postgresBackend) Open(ctx context.Context, cfg Config) (Session, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Pool.MaxOpen > 0 {
		pcfg.MaxConns = int32(min(cfg.Pool.MaxOpen, math.MaxInt32))
	}
	if cfg.Pool.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.Pool.ConnMaxLifetime
	}
	if cfg.Pool.ConnMaxIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.Pool.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &pgSession{pool: pool}, nil
}

type pgSession struct {
	pool *pgxpool.Pool
}

// rebind rewrites '?' to $1, $2, ... with the same naive scan
// PreparedStatement uses to count placeholders.
func rebind(text string) string {
	return sqlx.Rebind(sqlx.DOLLAR, text)
}

func (s *pgSession) Exec(ctx context.Context, text string, params []Parameter) (int64, error) {
	tag, err := s.pool.Exec(ctx, rebind(text), wireArgs(params)...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgSession) Query(ctx context.Context, text string, params []Parameter) ([]*Row, error) {
	rows, err := s.pool.Query(ctx, rebind(text), wireArgs(params)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	names := make([]string, len(fds))
	types := make([]ColumnType, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
		t, err := postgresColumnType(fd.DataTypeOID)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", fd.Name, err)
		}
		types[i] = t
	}

	out := []*Row{}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if n, ok := v.(pgtype.Numeric); ok {
				if vals[i], err = numericValue(n); err != nil {
					return nil, fmt.Errorf("column %q: %w", names[i], err)
				}
			}
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

func numericValue(n pgtype.Numeric) (any, error) {
	if !n.Valid {
		return nil, nil
	}
	f, err := n.Float64Value()
	if err != nil {
		return nil, err
	}
	if !f.Valid {
		return nil, nil
	}
	return f.Float64, nil
}

func (s *pgSession) Close() error {
	s.pool.Close()
	return nil
}
