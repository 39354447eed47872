package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/errors"
	mcpserver "github.com/hpungsan/taskbox/internal/mcp"
	"github.com/hpungsan/taskbox/internal/migrate"
	"github.com/hpungsan/taskbox/internal/ops"
	"github.com/hpungsan/taskbox/internal/schema"
	"github.com/hpungsan/taskbox/internal/task"
	"github.com/hpungsan/taskbox/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:    "taskbox",
		Usage:   "Task list API and database maintenance",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", EnvVars: []string{dataDirEnv}, Usage: "Data directory (default: ~/.taskbox)"},
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Commands: []*cli.Command{
			serveCmd(rt),
			mcpCmd(rt),
			tasksCmd(rt),
			dbCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// action opens the runtime before running fn.
func (rt *runtime) action(fn func(*cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := rt.open(c.String("data-dir")); err != nil {
			return outputError(err)
		}
		if c.Bool("verbose") {
			rt.log.SetVerbose(true)
		}
		return fn(c)
	}
}

// serveCmd creates the serve command.
func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP task API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config: 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default from config: 5000)"},
		},
		Action: rt.action(func(c *cli.Context) error {
			cfg := *rt.cfg
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}
			srv := web.NewServer(rt.store, &cfg, rt.log)
			return web.Run(srv, rt.log)
		}),
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP tool server on stdio",
		Action: rt.action(func(c *cli.Context) error {
			return mcpserver.Run(rt.store, rt.snapshots, rt.cfg, rt.log, Version)
		}),
	}
}

// tasksCmd groups the task subcommands.
func tasksCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all tasks",
				Action: rt.action(func(c *cli.Context) error {
					tasks, err := ops.List(c.Context, rt.store)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, tasks)
				}),
			},
			{
				Name:      "get",
				Usage:     "Show one task",
				ArgsUsage: "<id>",
				Action: rt.action(func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					t, err := ops.Fetch(c.Context, rt.store, ops.FetchInput{ID: id})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, t)
				}),
			},
			{
				Name:      "add",
				Usage:     "Add a task",
				ArgsUsage: "<text>",
				Action: rt.action(func(c *cli.Context) error {
					input := ops.AddInput{}
					if c.NArg() > 0 {
						text := strings.Join(c.Args().Slice(), " ")
						input.Task = &text
					}
					out, err := ops.Add(c.Context, rt.store, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, out)
				}),
			},
			{
				Name:      "update",
				Usage:     "Replace a task's text",
				ArgsUsage: "<id> <text>",
				Action: rt.action(func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					input := ops.UpdateInput{ID: id}
					if c.NArg() > 1 {
						text := strings.Join(c.Args().Tail(), " ")
						input.Task = &text
					}
					out, err := ops.Update(c.Context, rt.store, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, out)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Permanently delete a task",
				ArgsUsage: "<id>",
				Action: rt.action(func(c *cli.Context) error {
					id, err := parseID(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					out, err := ops.Delete(c.Context, rt.store, ops.DeleteInput{ID: id})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, out)
				}),
			},
		},
	}
}

// dbCmd groups the database maintenance subcommands.
func dbCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Inspect and maintain the database",
		Subcommands: []*cli.Command{
			dbInitCmd(rt),
			{
				Name:      "schema",
				Usage:     "Describe a table's columns",
				ArgsUsage: "[table]",
				Action: rt.action(func(c *cli.Context) error {
					table := c.Args().First()
					if table == "" {
						table = "tasks"
					}
					desc, err := schema.GetSchema(c.Context, rt.store, table)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, desc)
				}),
			},
			{
				Name:  "tables",
				Usage: "List user tables",
				Action: rt.action(func(c *cli.Context) error {
					tables, err := schema.ListTables(c.Context, rt.store)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, tables)
				}),
			},
			{
				Name:      "query",
				Usage:     "Run a SQL statement; extra arguments bind to ? placeholders",
				ArgsUsage: "<sql> [params...]",
				Action: rt.action(func(c *cli.Context) error {
					params := make([]any, 0, c.NArg())
					for _, a := range c.Args().Tail() {
						params = append(params, db.ParseValue(a))
					}
					res, err := rt.store.RunQuery(c.Context, c.Args().First(), params...)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, res)
				}),
			},
			snapshotCmd(rt),
			{
				Name:      "diff",
				Usage:     "Compare a table against another database file or snapshot",
				ArgsUsage: "<other.db>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Value: "tasks", Usage: "Table to compare"},
				},
				Action: rt.action(func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("other database path is required"))
					}
					other, err := db.OpenExisting(rt.snapshots.Resolve(c.Args().First()))
					if err != nil {
						return outputError(err)
					}
					d, err := schema.CompareFiles(c.Context, rt.store, other, c.String("table"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, d)
				}),
			},
			{
				Name:  "migrate",
				Usage: "Apply additive schema changes",
				Subcommands: []*cli.Command{
					{
						Name:      "add-column",
						Usage:     "Add a column if it does not exist",
						ArgsUsage: "<table> <column> <type>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "default", Usage: "Default value (numbers and true/false are unquoted)"},
						},
						Action: rt.action(func(c *cli.Context) error {
							if c.NArg() != 3 {
								return outputError(errors.NewInvalidRequest("expected <table> <column> <type>"))
							}
							input := migrate.AddColumnInput{
								Table:  c.Args().Get(0),
								Column: c.Args().Get(1),
								Type:   c.Args().Get(2),
							}
							if c.IsSet("default") {
								input.Default = db.ParseValue(c.String("default"))
							}
							out, err := migrate.AddColumn(c.Context, rt.store, input)
							if err != nil {
								return outputError(err)
							}
							return outputJSON(c, out)
						}),
					},
				},
			},
		},
	}
}

// dbInitCmd creates the db init command.
func dbInitCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the database (idempotent)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "Insert sample tasks"},
		},
		Action: rt.action(func(c *cli.Context) error {
			version, err := rt.store.SchemaVersion(c.Context)
			if err != nil {
				return outputError(err)
			}
			out := map[string]any{
				"path":           rt.store.Path(),
				"schema_version": version,
			}
			if c.Bool("seed") {
				seeded, err := ops.Seed(c.Context, rt.store, task.SampleTasks)
				if err != nil {
					return outputError(err)
				}
				out["seeded"] = seeded.IDs
			}
			return outputJSON(c, out)
		}),
	}
}

// snapshotCmd groups the snapshot subcommands.
func snapshotCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Create, list and restore database snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Copy the database into the snapshots directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Snapshot name (default: tasks_<YYYYMMDD_HHMMSS>)"},
				},
				Action: rt.action(func(c *cli.Context) error {
					snap, err := rt.snapshots.Create(c.String("name"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, snap)
				}),
			},
			{
				Name:  "list",
				Usage: "List snapshots",
				Action: rt.action(func(c *cli.Context) error {
					snaps, err := rt.snapshots.List()
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, snaps)
				}),
			},
			{
				Name:      "restore",
				Usage:     "Overwrite the database with a snapshot",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "confirm", Usage: "Required: acknowledge that the current database is replaced"},
				},
				Action: rt.action(func(c *cli.Context) error {
					if !c.Bool("confirm") {
						return outputError(errors.NewConfirmationRequired("restore"))
					}
					out, err := rt.snapshots.Restore(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					if err := rt.store.Migrate(c.Context); err != nil {
						return outputError(err)
					}
					rt.log.Info("database restored from %s", out.Source)
					return outputJSON(c, out)
				}),
			},
		},
	}
}

// Helper functions

// outputJSON marshals result to the app's writer as JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tbErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tbErr.Code, tbErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseID parses a task id argument.
func parseID(s string) (int64, error) {
	if s == "" {
		return 0, errors.NewInvalidRequest("task id is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid task id: %q", s))
	}
	return id, nil
}
