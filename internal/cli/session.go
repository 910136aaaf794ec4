package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RunSession executes a single REPL session until EOF, "quit" or a signal.
func RunSession(opts RunOptions) error {
	opts.setDefaults()
	logger := createLogger(opts.Debug)
	interactive := isInteractive(opts)
	quiet := opts.JSON || !interactive

	if !quiet {
		tui.PrintBanner(opts.Out, abacus.Version)
	}

	engineOpts := []abacus.Option{abacus.WithLogger(logger)}
	if opts.Debug {
		engineOpts = append(engineOpts, abacus.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	engine := abacus.New(engineOpts...)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	runnerOpts := []runner.Option{runner.WithLogger(logger)}

	if opts.SessionID != "" {
		store, closeStore, err := opts.storeConfig().OpenStore(sigCtx)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer func() { _ = closeStore() }()

		if opts.Fresh {
			if err := store.Delete(sigCtx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}

		loaded, err := sessionExists(sigCtx, store, opts.SessionID)
		if err != nil {
			return err
		}
		logSessionStatus(opts.Out, logger, opts.SessionID, loaded, quiet)

		runnerOpts = append(runnerOpts, runner.WithStore(store), runner.WithSessionID(opts.SessionID))
	}

	switch {
	case opts.JSON:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewJSONHandler(opts.In, opts.Out)))
	case interactive:
		runnerOpts = append(runnerOpts,
			runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out,
				runner.WithTextHandlerRenderer(tui.NewDisplay(termenv.ColorProfile())),
				runner.WithPrompt("> "),
			)),
			runner.WithHelp(tui.RenderHelp(tui.NewRenderer())),
		)
	default:
		runnerOpts = append(runnerOpts, runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out)))
	}

	r := runner.NewRunner(engine, runnerOpts...)
	finalState, runErr := r.Run(sigCtx)

	display := domain.DefaultValue
	if finalState != nil {
		display = finalState.CurrentValue
	}
	if runErr == nil || isInterrupted(runErr) {
		logCompletion(opts.Out, display, quiet, sigCtx.Signal())
	}

	return handleExecutionError(runErr)
}

// Evaluate applies each line to a fresh calculator and writes the final display.
func Evaluate(ctx context.Context, w io.Writer, lines ...string) error {
	engine := abacus.New()
	state, err := engine.Start(ctx, "")
	if err != nil {
		return err
	}
	for _, line := range lines {
		clean, err := runner.SanitizeInput(line)
		if err != nil {
			return err
		}
		state, err = engine.Evaluate(ctx, state, clean)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, state.CurrentValue)
	return err
}

func sessionExists(ctx context.Context, store ports.StateStore, id string) (bool, error) {
	_, err := store.Load(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return false, nil
	}
	return false, fmt.Errorf("failed to load session: %w", err)
}

func isInteractive(opts RunOptions) bool {
	if opts.Interactive != nil {
		return *opts.Interactive
	}
	f, ok := opts.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
