package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/taskbox/internal/config"
	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/logger"
	"github.com/hpungsan/taskbox/internal/snapshot"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"task", "db"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"task_list": {
		def:     taskListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskList },
	},
	"task_add": {
		def:     taskAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskAdd },
	},
	"task_update": {
		def:     taskUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskUpdate },
	},
	"task_delete": {
		def:     taskDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskDelete },
	},
	"db_schema": {
		def:     dbSchemaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSchema },
	},
	"db_tables": {
		def:     dbTablesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTables },
	},
	"db_query": {
		def:     dbQueryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleQuery },
	},
	"db_snapshot_create": {
		def:     dbSnapshotCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSnapshotCreate },
	},
	"db_snapshot_list": {
		def:     dbSnapshotListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSnapshotList },
	},
	"db_snapshot_restore": {
		def:     dbSnapshotRestoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSnapshotRestore },
	},
	"db_schema_compare": {
		def:     dbSchemaCompareToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSchemaCompare },
	},
	"db_migrate_add_column": {
		def:     dbMigrateAddColumnToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMigrateAddColumn },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "db_query" → "db").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with Taskbox tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(store *db.Store, snapshots *snapshot.Manager, cfg *config.Config, log logger.Logger, version string) *server.MCPServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop{}
	}

	s := server.NewMCPServer(
		"taskbox",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, snapshots, log)

	for _, name := range ValidateDisabledTools(cfg.DisabledTools) {
		log.Warn("unknown tool in disabled_tools: %s", name)
	}
	for _, name := range ValidateDisabledTypes(cfg.DisabledTypes) {
		log.Warn("unknown type in disabled_types: %s", name)
	}

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			log.Debug("tool disabled: %s", name)
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(store *db.Store, snapshots *snapshot.Manager, cfg *config.Config, log logger.Logger, version string) error {
	s := NewServer(store, snapshots, cfg, log, version)
	return server.ServeStdio(s)
}
