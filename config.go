package ygggo_jdbd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// PoolConfig is applied to the backend's own connection pool.
type PoolConfig struct {
	MaxOpen         int           `yaml:"max_open"`
	MaxIdle         int           `yaml:"max_idle"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// Config describes one driver.
type Config struct {
	Kind DriverKind `yaml:"kind"`
	// Driver overrides the database/sql driver name (e.g. "sqlmock" in tests).
	Driver string `yaml:"driver"`
	// DSN, when set, is used verbatim and the field-based settings below
	// are ignored.
	DSN string `yaml:"dsn"`

	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	Params   map[string]string `yaml:"params"`

	// Path is the SQLite database file; empty means in-memory.
	Path string `yaml:"path"`

	Pool      PoolConfig      `yaml:"pool"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Validate fails fast, reporting every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error
	switch c.Kind {
	case KindMySQL, KindPostgres:
		if strings.TrimSpace(c.DSN) == "" {
			if strings.TrimSpace(c.Host) == "" {
				result = multierror.Append(result, errors.New("host is unset"))
			}
			if strings.TrimSpace(c.Database) == "" {
				result = multierror.Append(result, errors.New("database is unset"))
			}
		}
	case KindSQLite:
	case "":
		result = multierror.Append(result, errors.New("kind is unset"))
	default:
		result = multierror.Append(result, fmt.Errorf("unknown kind %q", c.Kind))
	}
	if c.Port < 0 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		result = multierror.Append(result, errors.New("pool sizes must not be negative"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// mysqlDSN returns a go-sql-driver DSN.
// Priority: if Config.DSN is non-empty, return it unchanged.
// Otherwise build from host/port/username/password/database/params.
func mysqlDSN(c Config) (string, error) {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN, nil
	}
	addr := c.Host
	if c.Port > 0 {
		addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	dbEscaped := url.PathEscape(c.Database)
	// stable param order for test determinism
	var q string
	if len(c.Params) > 0 {
		keys := make([]string, 0, len(c.Params))
		for k := range c.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, url.QueryEscape(c.Params[k])))
		}
		q = strings.Join(parts, "&")
	}
	// the mysql driver expects the password raw, not URL-encoded
	auth := ""
	if c.Username != "" {
		if c.Password != "" {
			auth = fmt.Sprintf("%s:%s@", c.Username, c.Password)
		} else {
			auth = c.Username + "@"
		}
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", auth, addr, dbEscaped)
	if q != "" {
		dsn += "?" + q
	}
	return dsn, nil
}

// postgresDSN returns a postgres:// URL understood by pgx.
func postgresDSN(c Config) (string, error) {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN, nil
	}
	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	u := url.URL{Scheme: "postgres", Host: host, Path: "/" + c.Database}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	if len(c.Params) > 0 {
		q := url.Values{}
		for k, v := range c.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// sqliteDSN returns the modernc.org/sqlite data source.
func sqliteDSN(c Config) (string, error) {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN, nil
	}
	if c.Path == "" {
		return ":memory:", nil
	}
	return c.Path, nil
}
