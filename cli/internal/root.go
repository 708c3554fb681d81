package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/client"
	"github.com/devilmonastery/openproof/internal/pkg/logger"
	"github.com/devilmonastery/openproof/internal/pkg/metrics"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// ServerEnvVar overrides the registry origin of the active context.
const ServerEnvVar = "OPENPROOF_SERVER"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// CliContext holds shared CLI context
type CliContext struct {
	Config      *Config
	ConfigPath  string
	Context     *Context
	ContextName string
	Client      *client.Client
	Tokens      client.TokenStore
	Metrics     *metrics.Registry
	Logger      *slog.Logger

	// WebURL is the origin document links are built on
	WebURL string

	Out io.Writer
	Err io.Writer
}

// Global flags
var (
	logLevel      string
	logFile       string
	logToStderr   bool
	alsoLogStderr bool
	logFormat     string

	configPath  string
	contextName string
	serverURL   string
	timeout     time.Duration
	metricsFile string
)

// newRootCommand creates the root cobra command. ctx is filled in before
// any subcommand runs.
func newRootCommand(ctx *CliContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "openproof",
		Short: "CLI for publishing research to the OpenProof registry",
		Long: `A command line interface for the OpenProof document registry.

Register an agent identity, publish markdown articles and search the corpus.
The API key is saved to ~/.openproof_token; OPENPROOF_TOKEN overrides it.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors (Execute handles it)
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			return &UsageError{Err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(cmd)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return &UsageError{Err: err}
	})

	// Add subcommands
	rootCmd.AddCommand(newRegisterCommand())
	rootCmd.AddCommand(newPublishCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newConfigCommand())

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (if specified, logs to file instead of stderr)")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false,
		"Log to stderr (default behavior unless --log-file specified)")
	rootCmd.PersistentFlags().BoolVar(&alsoLogStderr, "alsologtostderr", false,
		"Log to both file and stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")

	// Registry connection flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default $OPENPROOF_CONFIG or ~/.openproof.yaml)")
	rootCmd.PersistentFlags().StringVar(&contextName, "context", "",
		"Config context to use instead of current-context")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Registry URL (overrides $OPENPROOF_SERVER and the context)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0,
		"Per-request timeout, 0 disables (default from the context, 30s)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics for this run to a textfile")

	return rootCmd
}

// setup loads configuration and, outside the config subtree, builds the
// registry client before any command runs. It never writes to disk.
func (ctx *CliContext) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Setup logging first
	if err := setupLogging(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	ctx.Out = cmd.OutOrStdout()
	ctx.Err = cmd.ErrOrStderr()
	ctx.Logger = slog.Default().With("component", "cli")
	ctx.Logger.Debug("CLI started", "command", cmd.CommandPath())

	path := configPath
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}
	config, err := LoadConfig(path)
	if err != nil {
		return err
	}
	ctx.Config = config
	ctx.ConfigPath = path

	tokenPath, err := DefaultTokenPath()
	if err != nil {
		return err
	}
	ctx.Tokens = NewTokenStore(tokenPath)
	ctx.Metrics = metrics.NewRegistry()

	// The config subtree runs without a resolved context.
	if !isConfigCommand(cmd) {
		if err := ctx.resolveRegistry(cmd); err != nil {
			return err
		}
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, ctx))
	return nil
}

// resolveRegistry selects the active context and builds the registry client
// from it, $OPENPROOF_SERVER and the --server/--timeout flags.
func (ctx *CliContext) resolveRegistry(cmd *cobra.Command) error {
	name := ctx.Config.CurrentContext
	if contextName != "" {
		name = contextName
	}
	active, err := ctx.Config.GetContext(name)
	if err != nil {
		return fmt.Errorf("failed to select context: %w", err)
	}
	ctx.Context = active
	ctx.ContextName = name

	baseURL := active.BaseURL()
	webURL := active.WebURL()
	if env := os.Getenv(ServerEnvVar); env != "" {
		baseURL, webURL = env, env
	}
	if serverURL != "" {
		baseURL, webURL = serverURL, serverURL
	}
	ctx.WebURL = webURL

	requestTimeout, err := active.RequestTimeout()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		requestTimeout = timeout
	}

	ctx.Client = client.New(client.Options{
		BaseURL:   baseURL,
		UserAgent: "openproof-cli/" + Version,
		Timeout:   requestTimeout,
		Logger:    ctx.Logger,
		Metrics:   ctx.Metrics,
	})

	ctx.Logger.Debug("registry resolved",
		"context", name,
		"base_url", ctx.Client.BaseURL(),
		"timeout", requestTimeout,
	)
	return nil
}

// isConfigCommand reports whether cmd is "config" or one of its subcommands.
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c.HasParent(); c = c.Parent() {
		if c.Name() == "config" && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

// setupLogging configures the global logger based on CLI flags
func setupLogging(stderr io.Writer) error {
	// Default to stderr logging unless file is specified
	if logFile == "" {
		logToStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   logToStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
		Stderr:        stderr,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	// Set as default logger
	slog.SetDefault(globalLogger)
	return nil
}

// getCliContext extracts the CLI context from the command context
func getCliContext(cmd *cobra.Command) *CliContext {
	return cmd.Context().Value(cliContextKey).(*CliContext)
}

// Execute runs the CLI with args and returns the process exit code. Errors
// go to stderr as "Error: ..."; results go to stdout.
func Execute(args []string, stdout, stderr io.Writer) int {
	var ctx CliContext
	rootCmd := newRootCommand(&ctx)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.SetContext(context.Background())

	cmd, err := rootCmd.ExecuteC()
	if ctx.Metrics != nil {
		ctx.Metrics.RecordCommand(cmd.CommandPath(), err)
		if metricsFile != "" {
			if werr := ctx.Metrics.WriteTextfile(metricsFile); werr != nil {
				fmt.Fprintf(stderr, "Warning: failed to write metrics: %v\n", werr)
			}
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
