package ygggo_jdbd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a YAML config and then applies the environment
// overlay.
//
//	kind: postgres
//	host: db.internal
//	port: 5432
//	username: app
//	database: orders
//	pool:
//	  max_open: 10
//	  conn_max_lifetime: 5m
//	logging:
//	  enabled: true
//	  level: debug
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
