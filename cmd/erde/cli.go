package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/hpungsan/erde/internal/advisor"
	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/errors"
	"github.com/hpungsan/erde/internal/ops"
	"github.com/hpungsan/erde/internal/session"
	"github.com/hpungsan/erde/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker) *cli.App {
	app := &cli.App{
		Name:    "erde",
		Usage:   "Prompt efficiency advisor",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCmd(db, cfg, opt, tracker),
			lintCmd(),
			analyzeCmd(db, cfg),
			impactCmd(),
			optimizeCmd(db, cfg, opt, tracker),
			historyCmd(db),
			promptsCmd(db, tracker),
			templatesCmd(),
			metricsCmd(cfg),
			registerCmd(db),
			loginCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			serveCfg := *cfg
			if c.IsSet("bind") {
				serveCfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				serveCfg.Port = c.Int("port")
			}

			logrus.SetFormatter(&logrus.JSONFormatter{})
			srv := web.NewServer(web.Options{
				DB:        db,
				Config:    &serveCfg,
				Optimizer: opt,
				Tracker:   tracker,
				Logger:    logrus.StandardLogger(),
				Version:   Version,
			})
			return web.Run(srv, logrus.StandardLogger())
		},
	}
}

// configFlags are shared by commands that take an optimization config.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Model name"},
		&cli.Float64Flag{Name: "temperature", Aliases: []string{"t"}, Usage: "Sampling temperature (0-1)"},
		&cli.StringFlag{Name: "depth", Aliases: []string{"d"}, Usage: "Answer depth: Concise|Standard|Detailed"},
		&cli.StringFlag{Name: "mode", Usage: "Optimization mode: Concise|Structured|Deterministic"},
		&cli.BoolFlag{Name: "auto-pilot", Usage: "Pick the model from prompt length"},
		&cli.BoolFlag{Name: "anticipatory", Usage: "Ask the model to pre-answer the likely follow-up"},
		&cli.BoolFlag{Name: "eco", Usage: "Engage the efficiency lock preset"},
	}
}

// configFromFlags starts from the default config and applies set flags.
func configFromFlags(c *cli.Context) advisor.OptimizationConfig {
	cfg := advisor.DefaultConfig()
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("temperature") {
		cfg.Temperature = c.Float64("temperature")
	}
	if c.IsSet("depth") {
		cfg.AnswerDepth = advisor.AnswerDepth(c.String("depth"))
	}
	if c.IsSet("mode") {
		cfg.OptimizationMode = advisor.OptimizationMode(c.String("mode"))
	}
	cfg.AutoPilot = c.Bool("auto-pilot")
	cfg.AnticipatoryMode = c.Bool("anticipatory")
	if c.Bool("eco") {
		cfg = advisor.EcoPreset(cfg)
	}
	return cfg
}

// lintCmd creates the lint command.
func lintCmd() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Report structural prompt issues (prompt from args or stdin)",
		ArgsUsage: "[prompt]",
		Action: func(c *cli.Context) error {
			prompt, err := promptInput(c)
			if err != nil {
				return outputError(err)
			}
			issues := advisor.Lint(prompt)
			return outputJSON(map[string]any{
				"issues":   issues,
				"warnings": advisor.CountWarnings(issues),
				"decision": advisor.Gatekeep(prompt, issues),
			})
		},
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Run every advisory heuristic over a prompt",
		ArgsUsage: "[prompt]",
		Flags: append(configFlags(),
			&cli.StringFlag{Name: "owner", Usage: "History scope for repeat detection"},
		),
		Action: func(c *cli.Context) error {
			prompt, err := promptInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Analyze(c.Context, db, cfg, ops.AnalyzeInput{
				Owner:  c.String("owner"),
				Prompt: prompt,
				Config: configFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// impactCmd creates the impact command.
func impactCmd() *cli.Command {
	return &cli.Command{
		Name:      "impact",
		Usage:     "Estimate energy and carbon for a prompt",
		ArgsUsage: "[prompt]",
		Flags:     configFlags(),
		Action: func(c *cli.Context) error {
			prompt, err := promptInput(c)
			if err != nil {
				return outputError(err)
			}
			cfg := configFromFlags(c)
			if err := cfg.Validate(); err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			return outputJSON(advisor.EstimateImpact(cfg, utf8.RuneCountInString(prompt)))
		},
	}
}

// optimizeCmd creates the optimize command.
func optimizeCmd(db *sql.DB, cfg *config.Config, opt ops.Optimizer, tracker *session.Tracker) *cli.Command {
	return &cli.Command{
		Name:      "optimize",
		Usage:     "Rewrite a prompt to be token-efficient (GEMINI_API_KEY required)",
		ArgsUsage: "[prompt]",
		Flags: append(configFlags(),
			&cli.StringFlag{Name: "owner", Usage: "History scope"},
		),
		Action: func(c *cli.Context) error {
			prompt, err := promptInput(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Optimize(c.Context, db, cfg, opt, tracker, ops.OptimizeInput{
				Owner:  c.String("owner"),
				Prompt: prompt,
				Config: configFromFlags(c),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past optimizations, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Usage: "History scope"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max items"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "clear", Usage: "Delete all history for the owner"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("clear") {
				if err := ops.ClearHistory(c.Context, db, c.String("owner")); err != nil {
					return outputError(err)
				}
				return outputJSON(map[string]any{"cleared": true})
			}
			output, err := ops.ListHistory(c.Context, db, ops.ListHistoryInput{
				Owner:  c.String("owner"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// promptsCmd creates the prompts command group.
func promptsCmd(db *sql.DB, tracker *session.Tracker) *cli.Command {
	ownerFlag := &cli.StringFlag{Name: "owner", Usage: "Scope"}
	return &cli.Command{
		Name:  "prompts",
		Usage: "Manage saved prompts",
		Subcommands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save a prompt (from args or stdin)",
				ArgsUsage: "[prompt]",
				Flags: []cli.Flag{
					ownerFlag,
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
					&cli.StringFlag{Name: "optimized", Usage: "Optimized rewrite to keep with it"},
				},
				Action: func(c *cli.Context) error {
					prompt, err := promptInput(c)
					if err != nil {
						return outputError(err)
					}
					output, err := ops.SavePrompt(c.Context, db, tracker, ops.SavePromptInput{
						Owner:           c.String("owner"),
						Prompt:          prompt,
						OptimizedPrompt: c.String("optimized"),
						Tags:            parseTags(c.String("tags")),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List saved prompts",
				Flags: []cli.Flag{ownerFlag},
				Action: func(c *cli.Context) error {
					output, err := ops.ListPrompts(c.Context, db, c.String("owner"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "search",
				Usage:     "Search saved prompts by text or tag",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{ownerFlag},
				Action: func(c *cli.Context) error {
					output, err := ops.SearchPrompts(c.Context, db, c.String("owner"), strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved prompt",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{ownerFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("id is required"))
					}
					id := c.Args().First()
					if err := ops.DeletePrompt(c.Context, db, c.String("owner"), id); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"id": id, "deleted": true})
				},
			},
		},
	}
}

// templatesCmd creates the templates command.
func templatesCmd() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List the built-in prompt templates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(advisor.Templates(c.String("category")))
		},
	}
}

// metricsCmd creates the metrics command. Session counters live in the
// serving process, so this queries a running server.
func metricsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Show efficiency metrics of a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Server base URL (default from config bind/port)"},
		},
		Action: func(c *cli.Context) error {
			base := c.String("url")
			if base == "" {
				if cfg == nil {
					cfg = config.DefaultConfig()
				}
				base = fmt.Sprintf("http://%s:%d", cfg.Bind, cfg.Port)
			}
			output, err := fetchMetrics(c, strings.TrimRight(base, "/"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func fetchMetrics(c *cli.Context, base string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(c.Context, http.MethodGet, base+"/api/metrics", nil)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable at %s: %w", base, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metrics request failed: %s", resp.Status)
	}
	return out, nil
}

// credentialFlags are shared by register and login.
func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "Account email"},
		&cli.StringFlag{Name: "password", Usage: "Password (prompted or read from stdin when omitted)"},
	}
}

func credentials(c *cli.Context) (ops.Credentials, error) {
	creds := ops.Credentials{Email: c.String("email"), Password: c.String("password")}
	if creds.Password != "" {
		return creds, nil
	}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return creds, errors.NewInternal(fmt.Errorf("read password: %w", err))
		}
		creds.Password = string(raw)
		return creds, nil
	}
	if stdinHasData() {
		pw, err := readStdin()
		if err != nil {
			return creds, errors.NewInternal(err)
		}
		creds.Password = pw
	}
	return creds, nil
}

// registerCmd creates the register command.
func registerCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a local account",
		Flags: credentialFlags(),
		Action: func(c *cli.Context) error {
			creds, err := credentials(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Register(c.Context, db, creds)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// loginCmd creates the login command.
func loginCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Check local account credentials",
		Flags: credentialFlags(),
		Action: func(c *cli.Context) error {
			creds, err := credentials(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Login(c.Context, db, creds)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// promptInput joins positional args, or reads stdin when there are none.
func promptInput(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("prompt must be given as arguments or piped via stdin")
	}
	prompt, err := readStdin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if prompt == "" {
		return "", errors.NewInvalidRequest("prompt is required")
	}
	return prompt, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var eErr *errors.ErdeError
	if stderrors.As(err, &eErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", eErr.Code, eErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
