//go:build integration

package ygggo_jdbd

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "testdb"
	testUsername = "testuser"
	testPassword = "testpass"
)

// startMySQL runs a MySQL container for the lifetime of t and returns a
// config pointing at it.
func startMySQL(ctx context.Context, t *testing.T) Config {
	t.Helper()
	c, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase(testDatabase),
		mysql.WithUsername(testUsername),
		mysql.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithOccurrence(1).
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	return Config{
		Kind:     KindMySQL,
		Host:     containerHost(ctx, t, c),
		Port:     containerPort(ctx, t, c, "3306"),
		Username: testUsername,
		Password: testPassword,
		Database: testDatabase,
	}
}

// startPostgres runs a PostgreSQL container for the lifetime of t.
func startPostgres(ctx context.Context, t *testing.T) Config {
	t.Helper()
	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUsername),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	return Config{
		Kind:     KindPostgres,
		Host:     containerHost(ctx, t, c),
		Port:     containerPort(ctx, t, c, "5432"),
		Username: testUsername,
		Password: testPassword,
		Database: testDatabase,
		Params:   map[string]string{"sslmode": "disable"},
	}
}

func containerHost(ctx context.Context, t *testing.T, c testcontainers.Container) string {
	t.Helper()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	return host
}

func containerPort(ctx context.Context, t *testing.T, c testcontainers.Container, port string) int {
	t.Helper()
	p, err := c.MappedPort(ctx, nat.Port(port+"/tcp"))
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	n, err := strconv.Atoi(p.Port())
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}
	return n
}
