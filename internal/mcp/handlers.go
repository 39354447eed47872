package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/logger"
	"github.com/hpungsan/taskbox/internal/migrate"
	"github.com/hpungsan/taskbox/internal/ops"
	"github.com/hpungsan/taskbox/internal/schema"
	"github.com/hpungsan/taskbox/internal/snapshot"
)

// defaultTable is inspected when a schema tool is called without a table.
const defaultTable = "tasks"

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store     *db.Store
	snapshots *snapshot.Manager
	log       logger.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *db.Store, snapshots *snapshot.Manager, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop{}
	}
	return &Handlers{store: store, snapshots: snapshots, log: log}
}

// Request types for each tool

// TaskAddRequest represents the arguments for task_add.
type TaskAddRequest struct {
	Task *string `json:"task"`
}

// TaskUpdateRequest represents the arguments for task_update.
type TaskUpdateRequest struct {
	ID   int64   `json:"id"`
	Task *string `json:"task"`
}

// TaskDeleteRequest represents the arguments for task_delete.
type TaskDeleteRequest struct {
	ID int64 `json:"id"`
}

// SchemaRequest represents the arguments for db_schema.
type SchemaRequest struct {
	Table string `json:"table,omitempty"`
}

// QueryRequest represents the arguments for db_query.
type QueryRequest struct {
	Query  string `json:"query"`
	Params []any  `json:"params,omitempty"`
}

// SnapshotCreateRequest represents the arguments for db_snapshot_create.
type SnapshotCreateRequest struct {
	Name string `json:"name,omitempty"`
}

// SnapshotRestoreRequest represents the arguments for db_snapshot_restore.
type SnapshotRestoreRequest struct {
	SnapshotFile string `json:"snapshot_file"`
	Confirm      bool   `json:"confirm"`
}

// SchemaCompareRequest represents the arguments for db_schema_compare.
type SchemaCompareRequest struct {
	OtherDB string `json:"other_db"`
	Table   string `json:"table,omitempty"`
}

// AddColumnRequest represents the arguments for db_migrate_add_column.
type AddColumnRequest struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// Handler implementations

// HandleTaskList handles the task_list tool call.
func (h *Handlers) HandleTaskList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := ops.List(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"tasks": tasks, "count": len(tasks)})
}

// HandleTaskAdd handles the task_add tool call.
func (h *Handlers) HandleTaskAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.store, ops.AddInput{Task: input.Task})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTaskUpdate handles the task_update tool call.
func (h *Handlers) HandleTaskUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.store, ops.UpdateInput{ID: input.ID, Task: input.Task})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTaskDelete handles the task_delete tool call.
func (h *Handlers) HandleTaskDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.store, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSchema handles the db_schema tool call.
func (h *Handlers) HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SchemaRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := schema.GetSchema(ctx, h.store, tableOrDefault(input.Table))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTables handles the db_tables tool call.
func (h *Handlers) HandleTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables, err := schema.ListTables(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"tables": tables})
}

// HandleQuery handles the db_query tool call.
func (h *Handlers) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.log.Debug("db_query: %s", input.Query)
	result, err := h.store.RunQuery(ctx, input.Query, input.Params...)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSnapshotCreate handles the db_snapshot_create tool call.
func (h *Handlers) HandleSnapshotCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SnapshotCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.snapshots.Create(input.Name)
	if err != nil {
		return errorResult(err), nil
	}
	h.log.Info("snapshot created: %s", result.Path)
	return successResult(result)
}

// HandleSnapshotList handles the db_snapshot_list tool call.
func (h *Handlers) HandleSnapshotList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snaps, err := h.snapshots.List()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"snapshots": snaps,
		"count":     len(snaps),
		"dir":       h.snapshots.Dir(),
	})
}

// HandleSnapshotRestore handles the db_snapshot_restore tool call.
// The restore itself does not check confirmation; this handler is the gate.
func (h *Handlers) HandleSnapshotRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SnapshotRestoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if !input.Confirm {
		return errorResult(errors.NewConfirmationRequired("db_snapshot_restore")), nil
	}

	result, err := h.snapshots.Restore(input.SnapshotFile)
	if err != nil {
		return errorResult(err), nil
	}
	if err := h.store.Migrate(ctx); err != nil {
		return errorResult(err), nil
	}
	h.log.Warn("database restored from %s", result.Source)
	return successResult(result)
}

// HandleSchemaCompare handles the db_schema_compare tool call.
// Diff direction: added columns exist only in other_db.
func (h *Handlers) HandleSchemaCompare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SchemaCompareRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.OtherDB) == "" {
		return errorResult(errors.NewInvalidRequest("other_db is required")), nil
	}

	other, err := db.OpenExisting(h.snapshots.Resolve(input.OtherDB))
	if err != nil {
		return errorResult(err), nil
	}

	result, err := schema.CompareFiles(ctx, h.store, other, tableOrDefault(input.Table))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleMigrateAddColumn handles the db_migrate_add_column tool call.
func (h *Handlers) HandleMigrateAddColumn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddColumnRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// The schema declares default as a string; coerce it the way the CLI does.
	defaultValue := input.Default
	if s, ok := defaultValue.(string); ok {
		defaultValue = db.ParseValue(s)
	}

	result, err := migrate.AddColumn(ctx, h.store, migrate.AddColumnInput{
		Table:   input.Table,
		Column:  input.Column,
		Type:    input.Type,
		Default: defaultValue,
	})
	if err != nil {
		return errorResult(err), nil
	}
	if result.Applied {
		h.log.Info("migration applied: %s", result.Statement)
	}
	return successResult(result)
}

func tableOrDefault(table string) string {
	if t := strings.TrimSpace(table); t != "" {
		return t
	}
	return defaultTable
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tbErr, ok := errors.As(err); ok && tbErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    tbErr.Code,
			"message": tbErr.Message,
			"status":  tbErr.Status,
		}
		if tbErr.Details != nil {
			errorObj["details"] = tbErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
