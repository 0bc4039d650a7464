package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// bridgeRequest is the single JSON object read from stdin.
type bridgeRequest struct {
	Command   string          `json:"command"`
	Params    json.RawMessage `json:"params"`
	RequestID string          `json:"request_id"`
}

// bridgeHandler produces the command-specific response fields.
type bridgeHandler func(ctx context.Context, params json.RawMessage) (map[string]any, error)

// Bridge serves one JSON request from stdin and writes one JSON response to
// stdout. The handler registry lives on the instance rather than in package
// state, so tests can wire their own commands and streams.
type Bridge struct {
	handlers map[string]bridgeHandler
	log      *slog.Logger
	in       io.Reader
	out      io.Writer
}

func newBridge(log *slog.Logger, in io.Reader, out io.Writer) *Bridge {
	b := &Bridge{
		handlers: make(map[string]bridgeHandler),
		log:      log,
		in:       in,
		out:      out,
	}
	b.register("ping", b.handlePing)
	b.register("describe", b.handleDescribe)
	b.register("map", b.handleMap)
	return b
}

func (b *Bridge) register(command string, h bridgeHandler) {
	b.handlers[command] = h
}

// ServeOnce reads the request, dispatches it, and writes the response.
// Protocol problems become success:false responses, never crashes; the
// returned error only reports failures to write the response itself.
func (b *Bridge) ServeOnce(ctx context.Context) error {
	data, err := io.ReadAll(b.in)
	if err != nil {
		return b.respondError("", fmt.Sprintf("failed to read request: %v", err))
	}

	var req bridgeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return b.respondError("", fmt.Sprintf("invalid JSON request: %v", err))
	}

	handler, ok := b.handlers[req.Command]
	if !ok {
		return b.respondError(req.RequestID, fmt.Sprintf("unknown command: %s", req.Command))
	}

	b.log.Info("handling bridge command", "command", req.Command, "request_id", req.RequestID)
	fields, err := handler(ctx, req.Params)
	if err != nil {
		b.log.Error("bridge command failed", "command", req.Command, "error", err)
		return b.respondError(req.RequestID, err.Error())
	}

	resp := map[string]any{"success": true, "request_id": req.RequestID}
	for k, v := range fields {
		resp[k] = v
	}
	return b.respond(resp)
}

func (b *Bridge) respond(resp map[string]any) error {
	return json.NewEncoder(b.out).Encode(resp)
}

func (b *Bridge) respondError(requestID, message string) error {
	resp := map[string]any{"success": false, "error": message}
	if requestID != "" {
		resp["request_id"] = requestID
	} else {
		resp["request_id"] = nil // unparseable requests echo null
	}
	return b.respond(resp)
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func (b *Bridge) handlePing(_ context.Context, _ json.RawMessage) (map[string]any, error) {
	return map[string]any{"message": "argus bridge ready"}, nil
}

type describeParams struct {
	Path string `json:"path"`
}

// handleDescribe classifies one live path without a full mapping run.
func (b *Bridge) handleDescribe(_ context.Context, raw json.RawMessage) (map[string]any, error) {
	var params describeParams
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	if params.Path == "" {
		return nil, fmt.Errorf("describe requires a path parameter")
	}

	describer, err := newDescriber()
	if err != nil {
		return nil, err
	}

	kind := KindFile
	if info, err := os.Stat(params.Path); err == nil && info.IsDir() {
		kind = KindDirectory
	} else if err != nil && !isPermission(err) {
		return nil, fmt.Errorf("cannot access %s: %w", params.Path, err)
	}

	classifier := newClassifier(describer, newStats(time.Now()), 1, b.log)
	name := filepath.Base(params.Path)
	item, err := classifier.classifyEntry(Entry{
		Path: params.Path,
		Rel:  name,
		Name: name,
		Kind: kind,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"item": itemToJSON(item)}, nil
}

type mapParams struct {
	ArchivePath string `json:"archive_path"`
	OutputPath  string `json:"output_path"`
	MaxDepth    int    `json:"max_depth"`
	MaxWorkers  int    `json:"max_workers"`
	ChunkSize   int    `json:"chunk_size"`
	JSONPath    string `json:"json_path"`
}

// handleMap runs a full mapping pipeline on behalf of the caller.
func (b *Bridge) handleMap(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
	var params mapParams
	if err := unmarshalParams(raw, &params); err != nil {
		return nil, err
	}
	if params.ArchivePath == "" {
		return nil, fmt.Errorf("map requires an archive_path parameter")
	}

	opts := Options{
		Input:      params.ArchivePath,
		OutputPath: params.OutputPath,
		MaxDepth:   params.MaxDepth,
		MaxWorkers: params.MaxWorkers,
		ChunkSize:  params.ChunkSize,
		JSONPath:   params.JSONPath,
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	orch, err := newOrchestrator(opts, b.log)
	if err != nil {
		return nil, err
	}
	res, err := orch.Run(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"report_path": res.ReportPath,
		"item_count":  res.ItemCount,
		"stats":       statsToJSON(res.Stats),
	}, nil
}
