package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	assert.Nil(t, parseArg("null"))
	assert.Nil(t, parseArg("NULL"))
	assert.Equal(t, int64(42), parseArg("42"))
	assert.Equal(t, int64(-7), parseArg("-7"))
	assert.Equal(t, 2.5, parseArg("2.5"))
	assert.Equal(t, true, parseArg("true"))
	assert.Equal(t, false, parseArg("False"))
	assert.Equal(t, "hello", parseArg("hello"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryInMemory(t *testing.T) {
	out, err := run(t, "query", "--kind", "sqlite", "SELECT ? AS n, ? AS s", "7", "null")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"n", "s"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"7", "NULL"}, strings.Fields(lines[1]))
}

func TestExecAgainstFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, "exec", "--kind", "sqlite", "--path", path,
		"CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)

	out, err := run(t, "exec", "--kind", "sqlite", "--path", path,
		"INSERT INTO t (id, name) VALUES (?, ?)", "1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "1 rows affected\n", out)

	out, err = run(t, "query", "--kind", "sqlite", "--path", path, "SELECT name FROM t WHERE id = ?", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
}

func TestArgumentCountMismatch(t *testing.T) {
	_, err := run(t, "query", "--kind", "sqlite", "SELECT ?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 placeholders, got 0 arguments")
}

func TestQueryNoRows(t *testing.T) {
	out, err := run(t, "query", "--kind", "sqlite", "SELECT 1 WHERE 1 = 0")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestQueryByStringArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	_, err := run(t, "exec", "--kind", "sqlite", "--path", path,
		"CREATE TABLE t (name TEXT PRIMARY KEY, v INTEGER)")
	require.NoError(t, err)
	_, err = run(t, "exec", "--kind", "sqlite", "--path", path,
		"INSERT INTO t (name, v) VALUES ('bob', 1)")
	require.NoError(t, err)

	out, err := run(t, "query", "--kind", "sqlite", "--path", path, "SELECT v FROM t WHERE name = ?", "bob")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", strings.TrimSpace(lines[1]))
}
