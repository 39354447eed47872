package mcp

import "github.com/mark3labs/mcp-go/mcp"

var taskListToolDef = mcp.NewTool("task_list",
	mcp.WithDescription("List every task in insertion order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var taskAddToolDef = mcp.NewTool("task_add",
	mcp.WithDescription("Add a task. Returns the assigned id."),
	mcp.WithString("task", mcp.Required(), mcp.Description("Task text")),
	mcp.WithDestructiveHintAnnotation(false),
)

var taskUpdateToolDef = mcp.NewTool("task_update",
	mcp.WithDescription("Replace the text of an existing task. Text is trimmed and must not be empty."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
	mcp.WithString("task", mcp.Required(), mcp.Description("New task text")),
	mcp.WithIdempotentHintAnnotation(true),
)

var taskDeleteToolDef = mcp.NewTool("task_delete",
	mcp.WithDescription("Permanently delete a task. Ids are never reused."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
	mcp.WithDestructiveHintAnnotation(true),
)

var dbSchemaToolDef = mcp.NewTool("db_schema",
	mcp.WithDescription("Describe the columns of a table (PRAGMA table_info)."),
	mcp.WithString("table", mcp.Description("Table name (default: tasks)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dbTablesToolDef = mcp.NewTool("db_tables",
	mcp.WithDescription("List user tables in the database."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dbQueryToolDef = mcp.NewTool("db_query",
	mcp.WithDescription("Run a SQL statement with bound parameters. Row-returning statements return columns and rows; others return rows_affected."),
	mcp.WithString("query", mcp.Required(), mcp.Description("SQL statement; use ? placeholders for params")),
	mcp.WithArray("params", mcp.Description("Positional parameters bound to ? placeholders")),
	mcp.WithDestructiveHintAnnotation(true),
)

var dbSnapshotCreateToolDef = mcp.NewTool("db_snapshot_create",
	mcp.WithDescription("Copy the database file into the snapshots directory."),
	mcp.WithString("name", mcp.Description("Snapshot name (default: <db>_<YYYYMMDD_HHMMSS>); .db is appended")),
	mcp.WithDestructiveHintAnnotation(false),
)

var dbSnapshotListToolDef = mcp.NewTool("db_snapshot_list",
	mcp.WithDescription("List snapshots sorted by name."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dbSnapshotRestoreToolDef = mcp.NewTool("db_snapshot_restore",
	mcp.WithDescription("Overwrite the live database with a snapshot. Irreversible unless another snapshot was taken first."),
	mcp.WithString("snapshot_file", mcp.Required(), mcp.Description("Snapshot file name or path")),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true")),
	mcp.WithDestructiveHintAnnotation(true),
)

var dbSchemaCompareToolDef = mcp.NewTool("db_schema_compare",
	mcp.WithDescription("Compare a table's columns in the live database against another database file or snapshot."),
	mcp.WithString("other_db", mcp.Required(), mcp.Description("Snapshot name or database file path")),
	mcp.WithString("table", mcp.Description("Table name (default: tasks)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dbMigrateAddColumnToolDef = mcp.NewTool("db_migrate_add_column",
	mcp.WithDescription("Add a column to a table. No-op if the column already exists."),
	mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
	mcp.WithString("column", mcp.Required(), mcp.Description("Column name")),
	mcp.WithString("type", mcp.Required(), mcp.Description("Declared type, e.g. INTEGER or BOOLEAN")),
	mcp.WithString("default", mcp.Description("Default value. Integers, decimals, true/false and null are rendered unquoted; anything else becomes a quoted string")),
	mcp.WithIdempotentHintAnnotation(true),
)
