package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/db"
	"github.com/hpungsan/erde/internal/mcp"
	"github.com/hpungsan/erde/internal/provider"
	"github.com/hpungsan/erde/internal/session"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "lint": true, "analyze": true, "impact": true,
	"optimize": true, "history": true, "prompts": true, "templates": true,
	"metrics": true, "register": true, "login": true,
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
	// Global flags such as --verbose come before the subcommand.
	if arg == "--verbose" && len(os.Args) > 2 {
		return cliCommands[os.Args[2]]
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___  _ __ __| | ___
  / _ \| '__/ _' |/ _ \
 |  __/| | | (_| |  __/
  \___||_|  \__,_|\___|

  Prompt efficiency advisor

  Usage: erde <command> [options]
         erde --help

  MCP server mode requires piped input.`)
}

// configureLogging sets up the standard logrus logger. Output goes to
// stderr so stdout stays clean for JSON results and the MCP transport.
func configureLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// newOrchestrator builds the Gemini fallback chain from cfg.
func newOrchestrator(cfg *config.Config) *provider.Orchestrator {
	aliases := provider.DefaultAliases()
	maps.Copy(aliases, cfg.ModelAliases)

	return provider.NewOrchestrator(provider.NewGeminiGenerator(cfg.GeminiAPIKey), provider.Options{
		DefaultAPIKey: cfg.GeminiAPIKey,
		Aliases:       aliases,
		Fallbacks:     cfg.FallbackModels,
		Logger:        logrus.StandardLogger(),
	})
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".erde")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = config.ApplyEnv(cfg)
	configureLogging(cfg)

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	orchestrator := newOrchestrator(cfg)
	tracker := session.NewTracker()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, orchestrator, tracker)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'erde --help' for usage.\n")
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logrus.WithField("tools", unknown).Warn("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		logrus.WithField("types", unknown).Warn("unknown types in disabled_types")
	}

	// MCP server mode (default)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if err := mcp.Run(database, cfg, orchestrator, tracker, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
