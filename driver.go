package ygggo_jdbd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
)

// DriverKind selects a backend variant.
type DriverKind string

const (
	KindMySQL    DriverKind = "mysql"
	KindPostgres DriverKind = "postgres"
	KindSQLite   DriverKind = "sqlite"
)

// State is the driver lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateUnloaded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateUnloaded:
		return "unloaded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Driver runs prepared statements against one backend session.
//
// Lifecycle: Uninitialized --Load--> Loaded --Unload--> Unloaded.
// A failed Load leaves the driver Uninitialized; Unloaded is terminal.
// Every public operation holds the driver's lock for its full duration,
// so concurrent callers queue instead of racing on the session.
type Driver struct {
	id      string
	kind    DriverKind
	cfg     Config
	backend Backend

	mu      sync.Mutex
	state   State
	session Session

	logger             *slog.Logger
	releaseLog         func()
	loggingEnabled     bool
	slowQueryThreshold time.Duration

	telemetryEnabled bool

	metricsEnabled bool
	meterProvider  metric.MeterProvider
	metrics        *Metrics
}

// NewDriver validates cfg and returns an uninitialized driver for cfg.Kind.
func NewDriver(cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var b Backend
	switch cfg.Kind {
	case KindMySQL:
		b = newMysqlBackend()
	case KindPostgres:
		b = newPostgresBackend()
	case KindSQLite:
		b = newSQLiteBackend()
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, cfg.Kind)
	}
	return NewDriverWithBackend(cfg, b), nil
}

// NewMysqlDriver is NewDriver with Kind forced to MySQL.
func NewMysqlDriver(cfg Config) (*Driver, error) {
	cfg.Kind = KindMySQL
	return NewDriver(cfg)
}

// NewPostgresDriver is NewDriver with Kind forced to PostgreSQL.
func NewPostgresDriver(cfg Config) (*Driver, error) {
	cfg.Kind = KindPostgres
	return NewDriver(cfg)
}

// NewSQLiteDriver is NewDriver with Kind forced to SQLite.
func NewSQLiteDriver(cfg Config) (*Driver, error) {
	cfg.Kind = KindSQLite
	return NewDriver(cfg)
}

// NewDriverWithBackend wires an arbitrary backend. cfg is passed to
// Backend.Open unvalidated.
func NewDriverWithBackend(cfg Config, b Backend) *Driver {
	d := &Driver{
		id:                 uuid.NewString(),
		kind:               cfg.Kind,
		cfg:                cfg,
		backend:            b,
		slowQueryThreshold: cfg.Logging.SlowQueryThreshold,
		telemetryEnabled:   cfg.Telemetry.Enabled,
	}
	if cfg.Logging.Enabled {
		d.loggingEnabled = true
		d.logger, d.releaseLog = newDefaultLogger(cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		d.metricsEnabled = true
		d.initMetrics()
	}
	return d
}

func (d *Driver) ID() string       { return d.id }
func (d *Driver) Kind() DriverKind { return d.kind }

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// IsLoaded reports whether the process-wide backend is initialized and
// this driver holds a live session.
func (d *Driver) IsLoaded() bool {
	return BackendLoaded() && d.State() == StateLoaded
}

// Load opens the backend session. Calling Load on a loaded driver is a
// no-op; calling it after Unload returns ErrDriverUnloaded.
func (d *Driver) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateLoaded:
		return nil
	case StateUnloaded:
		return ErrDriverUnloaded
	}

	start := time.Now()
	ctx, span := d.startSpan(ctx, "load", nil)
	err := ensureBackendLoaded()
	var sess Session
	if err == nil {
		sess, err = d.backend.Open(ctx, d.cfg)
		if err == nil && sess == nil {
			err = fmt.Errorf("backend returned no session")
		}
	}
	if err != nil {
		lerr := &LoadError{Kind: d.kind, Message: err.Error(), Err: err}
		d.logLifecycle(ctx, "load", time.Since(start), lerr)
		d.finishSpan(span, lerr)
		return lerr
	}
	d.session = sess
	d.state = StateLoaded
	d.recordLoaded(ctx, 1)
	d.logLifecycle(ctx, "load", time.Since(start), nil)
	d.finishSpan(span, nil)
	return nil
}

// Query runs a fully bound statement and returns every row.
func (d *Driver) Query(ctx context.Context, stmt *PreparedStatement) ([]*Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkLoaded(); err != nil {
		return nil, err
	}
	if err := checkBound(stmt); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := d.startSpan(ctx, "query", stmt)
	rows, err := d.session.Query(ctx, stmt.Text(), stmt.values())
	if err != nil {
		serr := newSQLError("query", err)
		d.observe(ctx, "query", stmt, time.Since(start), serr)
		d.finishSpan(span, serr)
		return nil, serr
	}
	if rows == nil {
		rows = []*Row{}
	}
	d.observe(ctx, "query", stmt, time.Since(start), nil)
	d.finishSpan(span, nil)
	return rows, nil
}

// Execute runs a fully bound statement and returns the affected row count.
func (d *Driver) Execute(ctx context.Context, stmt *PreparedStatement) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkLoaded(); err != nil {
		return 0, err
	}
	if err := checkBound(stmt); err != nil {
		return 0, err
	}

	start := time.Now()
	ctx, span := d.startSpan(ctx, "execute", stmt)
	n, err := d.session.Exec(ctx, stmt.Text(), stmt.values())
	if err != nil {
		serr := newSQLError("execute", err)
		d.observe(ctx, "execute", stmt, time.Since(start), serr)
		d.finishSpan(span, serr)
		return 0, serr
	}
	d.observe(ctx, "execute", stmt, time.Since(start), nil)
	d.finishSpan(span, nil)
	return n, nil
}

// Unload releases the backend session. The session is detached before it
// is closed, so it can never be released twice; a second Unload returns
// ErrDriverUnloaded. A close error is reported but the driver is
// unloaded regardless.
func (d *Driver) Unload() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkLoaded(); err != nil {
		return err
	}
	start := time.Now()
	ctx, span := d.startSpan(context.Background(), "unload", nil)
	defer d.closeLog()
	sess := d.session
	d.session = nil
	d.state = StateUnloaded
	d.recordLoaded(ctx, -1)

	if err := sess.Close(); err != nil {
		serr := newSQLError("unload", err)
		d.logLifecycle(ctx, "unload", time.Since(start), serr)
		d.finishSpan(span, serr)
		return serr
	}
	d.logLifecycle(ctx, "unload", time.Since(start), nil)
	d.finishSpan(span, nil)
	return nil
}

func (d *Driver) checkLoaded() error {
	switch d.state {
	case StateUninitialized:
		return ErrNotLoaded
	case StateUnloaded:
		return ErrDriverUnloaded
	}
	return nil
}

func checkBound(stmt *PreparedStatement) error {
	if stmt == nil {
		return &UnboundParameterError{}
	}
	if !stmt.AllBound() {
		return &UnboundParameterError{Positions: stmt.Unbound()}
	}
	return nil
}

func (d *Driver) observe(ctx context.Context, op string, stmt *PreparedStatement, dur time.Duration, err error) {
	d.logOperation(ctx, op, stmt, dur, err)
	d.recordOperation(ctx, op, dur, err)
}
