package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchline/core/internal/db"
	"github.com/lunchline/core/internal/queue"
)

// runCommand executes the CLI with args and returns its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// seedQueue enqueues rows directly into a data directory.
func seedQueue(t *testing.T, dataDir string, endpoints ...string) {
	t.Helper()

	handle, err := db.Open(dataDir)
	require.NoError(t, err)
	defer handle.Close()

	store := queue.NewStore(handle.DB)
	defer store.Close()

	m := queue.NewManager(store, nil)
	for _, e := range endpoints {
		require.NoError(t, m.Enqueue(context.Background(), e, "POST", map[string]any{"e": e}, nil))
	}
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, err := runCommand(t, "status", "--format", "xml", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestStatusEmptyQueue(t *testing.T) {
	out, err := runCommand(t, "status", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "pending: 0")
	assert.Contains(t, out, "failed:  0")
}

func TestStatusJSON(t *testing.T) {
	dataDir := t.TempDir()
	seedQueue(t, dataDir, "feedback/", "menu-qc/")

	out, err := runCommand(t, "status", "--data-dir", dataDir, "--format", "json")
	require.NoError(t, err)

	var result StatusResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Pending)
	assert.Zero(t, result.Failed)
}

func TestFailedEmpty(t *testing.T) {
	out, err := runCommand(t, "failed", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "no failed requests")
}

func TestFlushDrainsQueue(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dataDir := t.TempDir()
	seedQueue(t, dataDir, "feedback/", "menu-qc/")

	out, err := runCommand(t, "flush",
		"--data-dir", dataDir,
		"--base-url", server.URL,
		"--format", "json")
	require.NoError(t, err)

	var result queue.ProcessResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Sent)
	assert.False(t, result.Stopped)
	assert.Equal(t, 2, hits)

	// Queue is empty afterwards.
	statusOut, err := runCommand(t, "status", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, statusOut, "pending: 0")
}

func TestFlushStopsWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	dataDir := t.TempDir()
	seedQueue(t, dataDir, "feedback/")

	out, err := runCommand(t, "flush", "--data-dir", dataDir, "--base-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "stopped early")

	statusOut, err := runCommand(t, "status", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, statusOut, "pending: 1")
}
