package main

import (
	"fmt"
	"os"

	"github.com/hpungsan/taskbox/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "mcp": true, "tasks": true, "db": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	// Global flags (--data-dir, --verbose, --help, --version) → CLI
	return len(arg) > 1 && arg[0] == '-'
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  _            _    _
 | |_ __ _ ___| | _| |__   _____  __
 | __/ _' / __| |/ / '_ \ / _ \ \/ /
 | || (_| \__ \   <| |_) | (_) >  <
  \__\__,_|___/_|\_\_.__/ \___/_/\_\

  Task list API and database maintenance

  Usage: taskbox <command> [options]
         taskbox --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// CLI mode: the store is opened lazily by each command, so help and
	// version never touch the data directory.
	if isCLIMode() {
		app := newCLIApp(&runtime{})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'taskbox --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	rt := &runtime{}
	if err := rt.open(""); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := mcp.Run(rt.store, rt.snapshots, rt.cfg, rt.log, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
