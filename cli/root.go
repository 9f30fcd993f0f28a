// Package cli implements the medibot command line: the HTTP server and
// one-shot extraction and drug lookup commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/medibot-api/config"
	"github.com/giygas/medibot-api/extractor"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/knowledge"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/oracle"
	"github.com/giygas/medibot-api/resolver"
	"github.com/giygas/medibot-api/validation"
)

// Build-time variables injected via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

type appContextKey struct{}

// OracleFactory builds the oracle for a loaded configuration
type OracleFactory func(ctx context.Context, cfg *config.Config) (interfaces.Oracle, error)

// RootOptions holds global CLI flags
type RootOptions struct {
	Output  string
	Timeout time.Duration
	Verbose bool
}

// App carries the initialized dependencies through the command tree
type App struct {
	Config    *config.Config
	Oracle    interfaces.Oracle
	KB        interfaces.KnowledgeBase
	Extractor interfaces.Extractor
	Resolver  interfaces.Resolver
	Validator interfaces.InputValidator
	Output    string
	Timeout   time.Duration
}

// NewRootCommand creates the root command backed by the configured oracle
func NewRootCommand() *cobra.Command {
	return newRootCommand(oracle.New)
}

func newRootCommand(newOracle OracleFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "medibot",
		Short: "Prescription extraction and drug information service",
		Long: "medibot extracts drug, dosage and frequency from prescription text and answers\n" +
			"dosage, alternatives and interaction questions from a curated knowledge base,\n" +
			"falling back to a Gemini model for drugs it does not know.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, newOracle)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app, err := appFrom(cmd); err == nil {
				if c, ok := app.Oracle.(io.Closer); ok {
					c.Close()
				}
			}
			logging.DefaultLoggingService.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.Output, "output", "o", OutputText, "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "timeout of one-shot commands")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newServeCmd(),
		newExtractCmd(),
		newDosageCmd(),
		newAlternativesCmd(),
		newInteractionsCmd(),
		newLookupCmd(),
	)

	return cmd
}

// persistentPreRun loads the configuration, the logger and the oracle and
// stores the App in the command context
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, newOracle OracleFactory) error {
	if opts.Output != OutputText && opts.Output != OutputJSON {
		return fmt.Errorf("unsupported output format %q", opts.Output)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if cmd.Name() == serveCommandName {
		logging.InitLoggerFromConfig(cfg)
	} else {
		// One-shot commands keep stdout for results and write no log files
		logging.InitLoggerWithOptions(logging.Options{
			Env:     cfg.Env,
			Level:   consoleLevel(opts.Verbose),
			Console: cmd.ErrOrStderr(),
		})
	}

	o, err := newOracle(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("oracle initialization failed: %w", err)
	}
	logging.Info("Oracle configured", "mode", oracle.ModeOf(o))

	kb := knowledge.Default()
	app := &App{
		Config:    cfg,
		Oracle:    o,
		KB:        kb,
		Extractor: extractor.New(o),
		Resolver:  resolver.New(kb, o, resolver.WithConcurrency(cfg.OracleConcurrency)),
		Validator: validation.NewInputValidator(),
		Output:    opts.Output,
		Timeout:   opts.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, app))
	return nil
}

func consoleLevel(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}

// appFrom extracts the App from a command's context
func appFrom(cmd *cobra.Command) (*App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command context is nil")
	}
	app, ok := ctx.Value(appContextKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("application not initialized")
	}
	return app, nil
}

// Execute runs the root command and prints the error, if any, to stderr
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// printResult writes v as indented JSON, or text in text mode
func printResult(cmd *cobra.Command, app *App, v any, text string) error {
	out := cmd.OutOrStdout()
	if app.Output == OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
