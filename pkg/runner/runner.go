package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// ErrInvalidInput marks input lines the handler could not decode. The loop
// reports them and keeps going.
var ErrInvalidInput = errors.New("invalid input")

// Runner handles the read-eval-print loop of the Abacus engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	Engine  ports.StatelessEngine
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store is the persistence adapter. If nil, sessions are ephemeral.
	Store     ports.StateStore
	SessionID string

	// Help is printed for the "help" command.
	Help string
}

// NewRunner creates a Runner reading from Stdin and writing to Stdout.
func NewRunner(engine ports.StatelessEngine, opts ...Option) *Runner {
	r := &Runner{
		Engine: engine,
		Logger: logging.NewNop(),
		Help:   DefaultHelp,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// DefaultHelp lists the commands understood by the loop.
const DefaultHelp = `Type keys and press enter, e.g. "12.5 * 4 =".
Keys: 0-9 . + - * / = C
Commands: help, quit`

// Run executes the loop until EOF, "quit"/"exit" or ctx cancellation.
// It returns the last state.
func (r *Runner) Run(ctx context.Context) (*domain.State, error) {
	state, err := r.resolveInitialState(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.Handler.Output(ctx, state); err != nil {
		return state, fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return state, nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return state, nil
			case errors.Is(err, ErrInvalidInput):
				if outErr := r.Handler.SystemOutput(ctx, "error: "+err.Error()); outErr != nil {
					return state, outErr
				}
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
		case "":
			continue
		case "quit", "exit", "q":
			return state, nil
		case "help", "?":
			if err := r.Handler.SystemOutput(ctx, r.Help); err != nil {
				return state, err
			}
			continue
		}

		next, err := r.Eval(ctx, state, line)
		if err != nil {
			r.Logger.Debug("line rejected", "session_id", r.SessionID, "err", err)
			if outErr := r.Handler.SystemOutput(ctx, "error: "+err.Error()); outErr != nil {
				return state, outErr
			}
			continue
		}
		state = next

		if err := r.persist(ctx, state); err != nil {
			return state, err
		}
		if err := r.Handler.Output(ctx, state); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
	}
}

// Eval sanitizes and applies one typed line. The line is atomic: on error
// the original state is kept.
func (r *Runner) Eval(ctx context.Context, state *domain.State, line string) (*domain.State, error) {
	clean, err := SanitizeInput(line)
	if err != nil {
		return nil, err
	}
	keys, err := domain.Tokenize(clean)
	if err != nil {
		return nil, err
	}
	return r.Engine.PressAll(ctx, state, keys...)
}

func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, error) {
	if r.Store != nil && r.SessionID != "" {
		state, err := r.Store.Load(ctx, r.SessionID)
		if err == nil {
			r.Logger.Debug("session resumed", "session_id", r.SessionID)
			return state, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}
	return r.Engine.Start(ctx, r.SessionID)
}

func (r *Runner) persist(ctx context.Context, state *domain.State) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
