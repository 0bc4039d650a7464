package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveBridge feeds one request through a fresh bridge and decodes the
// response object.
func serveBridge(t *testing.T, request string) map[string]any {
	t.Helper()
	var out bytes.Buffer
	b := newBridge(testLogger(), strings.NewReader(request), &out)
	require.NoError(t, b.ServeOnce(context.Background()))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "response: %s", out.String())
	return resp
}

func TestBridgePing(t *testing.T) {
	resp := serveBridge(t, `{"command": "ping", "request_id": "r1"}`)

	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "r1", resp["request_id"])
	assert.Contains(t, resp["message"], "ready")
	_, hasError := resp["error"]
	assert.False(t, hasError)
}

func TestBridgeUnknownCommand(t *testing.T) {
	resp := serveBridge(t, `{"command": "transmogrify", "request_id": "r2"}`)

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "r2", resp["request_id"])
	assert.Contains(t, resp["error"], "unknown command")
}

func TestBridgeInvalidJSON(t *testing.T) {
	resp := serveBridge(t, `{not json`)

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "invalid JSON")

	// The request id could not be parsed, so it is echoed as null.
	id, present := resp["request_id"]
	assert.True(t, present)
	assert.Nil(t, id)
}

func TestBridgeResponseIsSingleLine(t *testing.T) {
	var out bytes.Buffer
	b := newBridge(testLogger(), strings.NewReader(`{"command": "ping", "request_id": "r1"}`), &out)
	require.NoError(t, b.ServeOnce(context.Background()))

	// One JSON object, one trailing newline: nothing else lands on stdout.
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

func TestBridgeDescribeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0o644))

	req, err := json.Marshal(map[string]any{
		"command":    "describe",
		"request_id": "r3",
		"params":     map[string]any{"path": path},
	})
	require.NoError(t, err)
	resp := serveBridge(t, string(req))

	require.Equal(t, true, resp["success"], "response: %v", resp)
	item, ok := resp["item"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "file", item["type"])
	assert.Equal(t, "notes.md", item["name"])
	assert.Contains(t, item["description"], "Text/documentation file")
	assert.Equal(t, float64(7), item["size"])
}

func TestBridgeDescribeDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("pass"), 0o644))

	req, err := json.Marshal(map[string]any{
		"command": "describe",
		"params":  map[string]any{"path": dir},
	})
	require.NoError(t, err)
	resp := serveBridge(t, string(req))

	require.Equal(t, true, resp["success"], "response: %v", resp)
	item := resp["item"].(map[string]any)
	assert.Equal(t, "directory", item["type"])
	assert.Equal(t, float64(1), item["item_count"])
}

func TestBridgeDescribeRequiresPath(t *testing.T) {
	resp := serveBridge(t, `{"command": "describe", "request_id": "r4", "params": {}}`)

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "r4", resp["request_id"])
	assert.Contains(t, resp["error"], "path")
}

func TestBridgeDescribeMissingTarget(t *testing.T) {
	req, err := json.Marshal(map[string]any{
		"command":    "describe",
		"request_id": "r5",
		"params":     map[string]any{"path": filepath.Join(t.TempDir(), "absent.bin")},
	})
	require.NoError(t, err)
	resp := serveBridge(t, string(req))

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "r5", resp["request_id"])
	assert.Contains(t, resp["error"], "cannot access")
}

func TestBridgeMapCommand(t *testing.T) {
	archive := projectZip(t)
	outDir := t.TempDir()
	reportPath := filepath.Join(outDir, "report.md")

	req, err := json.Marshal(map[string]any{
		"command":    "map",
		"request_id": "r6",
		"params": map[string]any{
			"archive_path": archive,
			"output_path":  reportPath,
			"max_workers":  2,
		},
	})
	require.NoError(t, err)
	resp := serveBridge(t, string(req))

	require.Equal(t, true, resp["success"], "response: %v", resp)
	assert.Equal(t, "r6", resp["request_id"])
	assert.Equal(t, reportPath, resp["report_path"])
	assert.Equal(t, float64(5), resp["item_count"])

	stats, ok := resp["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), stats["total_files"])
	assert.Equal(t, float64(2), stats["total_folders"])

	assert.FileExists(t, reportPath)
}

func TestBridgeMapRequiresArchivePath(t *testing.T) {
	resp := serveBridge(t, `{"command": "map", "request_id": "r7", "params": {}}`)

	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "archive_path")
}

func TestBridgeMapFailureIsResponseNotCrash(t *testing.T) {
	req, err := json.Marshal(map[string]any{
		"command":    "map",
		"request_id": "r8",
		"params": map[string]any{
			"archive_path": filepath.Join(t.TempDir(), "absent.zip"),
			"output_path":  filepath.Join(t.TempDir(), "report.md"),
		},
	})
	require.NoError(t, err)
	resp := serveBridge(t, string(req))

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "r8", resp["request_id"])
	assert.Contains(t, resp["error"], "extraction failed")
}
