package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points config.Load at a throwaway SQLite file.
func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "expenses.db"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_SKIP", "false")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrate_UpStatusDown(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")

	out, err = run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "00001_create_expenses.sql")

	out, err = run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")

	out, err = run(t, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	sqliteEnv(t)

	_, err := run(t, "migrate", "sideways")
	require.Error(t, err)

	_, err = run(t, "migrate")
	require.Error(t, err)
}

func TestMigrate_ConfigErrorSurfaces(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := run(t, "migrate", "up")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewLogger_TextAndFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "loud", "TEXT")

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
