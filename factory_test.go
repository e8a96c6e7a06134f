package ygggo_jdbd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMysqlFactory_Build(t *testing.T) {
	f := NewMysqlDriverFactory().
		Host("db.internal").
		Port(3307).
		Username("app").
		Password("secret").
		Database("orders").
		Param("parseTime", "true").
		Pool(PoolConfig{MaxOpen: 4})

	d, err := f.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindMySQL, d.Kind())
	assert.Equal(t, StateUninitialized, d.State(), "mysql drivers are returned unloaded")

	cfg := f.Config()
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 3307, cfg.Port)
	assert.Equal(t, "app", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "orders", cfg.Database)
	assert.Equal(t, 4, cfg.Pool.MaxOpen)
	assert.Equal(t, map[string]string{"parseTime": "true"}, cfg.Params)
}

func TestFactory_RequiresHostAndDatabase(t *testing.T) {
	_, err := NewMysqlDriverFactory().Database("orders").Build(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "host is unset")

	_, err = NewPostgresDriverFactory().Host("h").Build(context.Background())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "database is unset")
}

func TestFactory_ConfigIsACopy(t *testing.T) {
	f := NewMysqlDriverFactory().Param("a", "1")
	cfg := f.Config()
	cfg.Params["a"] = "2"
	assert.Equal(t, "1", f.Config().Params["a"])
}
