package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/internal/validator"
	arborhttp "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path        string
	LogLevel    string
	MetricsAddr string
	RedisAddr   string
	StoreDir    string
	RunID       string
	Fresh       bool
	// MaskPatterns mask matching input names in persisted snapshots.
	MaskPatterns []string
	// EncryptionKey (32 bytes) seals persisted snapshots with AES-GCM.
	EncryptionKey []byte
	Markdown    bool
	Quiet       bool
	LineTimeout time.Duration
}

// RunSession compiles the document at opts.Path and runs it interactively
// over in and out until it completes, the input ends or a signal arrives.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	terminal := isTerminal(out)
	if terminal && !opts.Quiet {
		tui.PrintBanner(out)
	}

	compilerOpts := []compiler.Option{compiler.WithLogger(logger)}
	if opts.Markdown {
		style := runner.StyleNoTTY
		if terminal {
			style = runner.StyleAuto
		}
		render, err := runner.MarkdownRenderer(style, 0)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		compilerOpts = append(compilerOpts, compiler.WithRenderer(render))
	}

	doc, root, err := compiler.New(compilerOpts...).CompileFile(opts.Path)
	if err != nil {
		return err
	}
	if err := validator.ValidateGraph(root); err != nil {
		return err
	}
	for _, issue := range validator.Inspect(root) {
		logger.Warn("document issue", "module", issue.Module, "err", issue.Err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	inputSchema, err := schema.ParseTypeMap(doc.Schema)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	appOpts := []arbor.Option{
		arbor.WithName(doc.Name),
		arbor.WithMetrics(metrics),
		arbor.WithLifecycleHooks(observability.LoggingHooks(logger)),
		arbor.WithExitHook(schema.ExitHook(inputSchema, arbor.DefaultExitHook)),
	}

	persistence, err := setupPersistence(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer persistence.close()
	appOpts = append(appOpts, persistence.options...)

	if opts.MetricsAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		server := arborhttp.NewServer(
			arborhttp.WithGatherer(reg),
			arborhttp.WithGraph(root),
			arborhttp.WithLogger(logger),
		)
		wait, err := server.ListenAndServe(srvCtx, opts.MetricsAddr)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to start introspection server: %w", err)
		}
		defer func() {
			cancel()
			wait()
		}()
	}

	logSessionStatus(logger, out, opts, persistence.resumed)

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInput(in),
		runner.WithOutput(out),
		runner.WithTimeout(opts.LineTimeout),
		runner.WithAppOptions(appOpts...),
	)
	runErr := r.Run(ctx, root)
	return handleExecutionError(out, opts, runErr)
}

// createLogger builds the application logger. Without a level the logger is
// silent, so the interactive output stays clean.
func createLogger(level string) (*slog.Logger, error) {
	if level == "" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(logger *slog.Logger, out io.Writer, opts RunOptions, resumed bool) {
	switch {
	case resumed:
		logger.Info("run resumed", "run_id", opts.RunID)
		if !opts.Quiet {
			printSystemMessage(out, "Resuming run '%s'.", opts.RunID)
		}
	case opts.RunID != "":
		logger.Info("run created", "run_id", opts.RunID)
		if !opts.Quiet {
			printSystemMessage(out, "Run '%s' active.", opts.RunID)
		}
	}
}

func handleExecutionError(out io.Writer, opts RunOptions, err error) error {
	if errors.Is(err, runner.ErrInterrupted) {
		if !opts.Quiet {
			printSystemMessage(out, "Interrupted.")
		}
		return nil
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
