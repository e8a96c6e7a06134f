package ygggo_jdbd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Environment variables recognized by ApplyEnv. A set variable wins over
// the corresponding Config field.
const (
	EnvKind     = "JDBD_KIND"
	EnvDriver   = "JDBD_DRIVER"
	EnvDSN      = "JDBD_DSN"
	EnvHost     = "JDBD_HOST"
	EnvPort     = "JDBD_PORT"
	EnvUsername = "JDBD_USERNAME"
	EnvPassword = "JDBD_PASSWORD"
	EnvDatabase = "JDBD_DATABASE"
	EnvPath     = "JDBD_PATH"
	// EnvParams holds k=v pairs joined by '&', e.g. "parseTime=true&loc=Local".
	EnvParams = "JDBD_PARAMS"
)

// ApplyEnv overlays JDBD_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if v, ok := lookupEnv(EnvKind); ok {
		cfg.Kind = DriverKind(strings.ToLower(v))
	}
	if v, ok := lookupEnv(EnvDriver); ok {
		cfg.Driver = v
	}
	if v, ok := lookupEnv(EnvDSN); ok {
		cfg.DSN = v
	}
	if v, ok := lookupEnv(EnvHost); ok {
		cfg.Host = v
	}
	if v, ok := lookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v, ok := lookupEnv(EnvUsername); ok {
		cfg.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		cfg.Password = v
	}
	if v, ok := lookupEnv(EnvDatabase); ok {
		cfg.Database = v
	}
	if v, ok := lookupEnv(EnvPath); ok {
		cfg.Path = v
	}
	if v, ok := lookupEnv(EnvParams); ok {
		q, err := url.ParseQuery(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvParams, err)
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string, len(q))
		}
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return nil
}

// lookupEnv treats blank values as unset. Passwords are read raw.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
