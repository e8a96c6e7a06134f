package ygggo_jdbd

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// sqliteColumnType follows SQLite's affinity rules on the declared type.
// Columns without a recognizable declaration are inferred from the value.
func sqliteColumnType(name string) ColumnType {
	n := strings.ToUpper(name)
	switch {
	case strings.Contains(n, "BOOL"):
		return TypeBool
	case strings.Contains(n, "INT"):
		return TypeInt
	case strings.Contains(n, "CHAR"), strings.Contains(n, "CLOB"), strings.Contains(n, "TEXT"):
		return TypeString
	case strings.Contains(n, "BLOB"):
		return TypeBytes
	case strings.Contains(n, "REAL"), strings.Contains(n, "FLOA"), strings.Contains(n, "DOUB"):
		return TypeDouble
	}
	return 0
}

// sqliteArgs passes UTF-8 byte parameters as strings. SQLite compares
// TEXT and BLOB values as different, so bound strings must arrive as TEXT
// to match rows and unique keys written with literals.
func sqliteArgs(params []Parameter) []any {
	args := sqlArgs(params)
	for i, a := range args {
		if b, ok := a.([]byte); ok && utf8.Valid(b) {
			args[i] = string(b)
		}
	}
	return args
}

func newSQLiteBackend() *sqlBackend {
	return &sqlBackend{
		kind:         KindSQLite,
		driverName:   "sqlite",
		dsn:          sqliteDSN,
		columnType:   sqliteColumnType,
		inferUnknown: true,
		args:         sqliteArgs,
		tune: func(db *sql.DB, cfg Config) {
			// every connection to :memory: is a separate database
			if dsn, _ := sqliteDSN(cfg); strings.Contains(dsn, ":memory:") {
				db.SetMaxOpenConns(1)
				db.SetMaxIdleConns(1)
				db.SetConnMaxLifetime(0)
				db.SetConnMaxIdleTime(0)
			}
		},
	}
}
