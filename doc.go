// Package ygggo_jdbd provides a small, uniform SQL client layer over MySQL,
// PostgreSQL and embedded SQLite.
//
// # Overview
//
// The package is built around three pieces:
//   - PreparedStatement: SQL text with positional '?' placeholders and
//     typed parameter slots, bound out-of-band and never spliced into the
//     text
//   - Row: a materialized result record whose columns carry a declared
//     ColumnType and are read through type-checked getters
//   - Driver: a lifecycle-managed handle to one backend session
//     (Uninitialized, Loaded, Unloaded) that serializes every operation
//
// # Quick Start
//
//	import jdbd "github.com/yggai/ygggo_jdbd"
//
//	d, err := jdbd.NewMysqlDriver(jdbd.Config{
//		Host:     "localhost",
//		Port:     3306,
//		Username: "user",
//		Password: "password",
//		Database: "mydb",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := d.Load(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer d.Unload()
//
//	stmt := jdbd.NewPreparedStatement("SELECT id, name FROM users WHERE age > ?")
//	if err := stmt.Bind(0, 30); err != nil {
//		log.Fatal(err)
//	}
//	rows, err := d.Query(ctx, stmt)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range rows {
//		name, err := r.GetString("name")
//		if err != nil {
//			log.Fatal(err)
//		}
//		if name != nil {
//			fmt.Println(*name)
//		}
//	}
//
// # Parameters
//
// Bind accepts nil, []byte, string, bool, every Go integer type that fits
// in int64, float32 and float64. Strings are sent as bytes and booleans as
// the integers 1 and 0. Placeholders are located by a plain scan for '?',
// so a question mark inside a quoted literal is counted too; bind such
// values as parameters instead.
//
// PostgreSQL statements use the same '?' syntax; they are rewritten to
// $1, $2, ... just before they reach the server.
//
// # Errors
//
// Every failure can be matched with errors.Is against a sentinel:
//
//	ErrBindIndex         bind position out of range
//	ErrUnsupportedValue  value has no parameter representation
//	ErrShape             row sequences of different lengths
//	ErrTypeMismatch      getter does not match the declared column type
//	ErrUnboundParameter  statement executed with empty slots
//	ErrNotLoaded         operation before Load
//	ErrDriverUnloaded    operation after Unload
//	ErrLibraryLoad       Load failed; the driver may be loaded again
//	ErrSQL               the backend rejected a statement
//
// SQLError carries the backend message verbatim plus an ErrorClass from
// Classify. Nothing in the package retries automatically; LoadWithRetry is
// available for callers that want to retry Load.
//
// # Configuration
//
// Config may be built in code, read from YAML with LoadConfigFile, and
// overridden from the environment with ApplyEnv:
//
//	export JDBD_KIND=postgres
//	export JDBD_HOST=localhost
//	export JDBD_PORT=5432
//	export JDBD_USERNAME=user
//	export JDBD_PASSWORD=secret
//	export JDBD_DATABASE=mydb
//
// # Observability
//
// Drivers log through log/slog (or zap via UseZapLogger), emit
// OpenTelemetry spans named ygggo_jdbd.<operation> and record
// OpenTelemetry metrics. Each is off until enabled in Config or through
// EnableLogging, EnableTelemetry and EnableMetrics.
//
// # Testing
//
// NewMockDriver returns a loaded driver backed by go-sqlmock, and
// NewSQLiteDriver with an empty Config gives a real in-memory database.
package ygggo_jdbd
