package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   io.Reader
	Writer   io.Writer
	Renderer DisplayRenderer
	Prompt   string

	lines     chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the display renderer.
func WithTextHandlerRenderer(renderer DisplayRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt sets the prompt printed before each line is read.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:   r,
		Writer:   w,
		Renderer: PlainDisplay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the goroutine that reads lines so Input can honour ctx
// while the underlying reader blocks.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.lines = make(chan inputResult, DefaultInputBufferSize)
		go func() {
			defer close(h.lines)
			scanner := bufio.NewScanner(h.Reader)
			for scanner.Scan() {
				h.lines <- inputResult{text: scanner.Text()}
			}
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			h.lines <- inputResult{err: err}
		}()
	})
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	if h.Prompt != "" {
		fmt.Fprint(h.Writer, h.Prompt)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

func (h *TextHandler) Output(ctx context.Context, state *domain.State) error {
	render := h.Renderer
	if render == nil {
		render = PlainDisplay
	}
	_, err := fmt.Fprintln(h.Writer, render(state))
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, msg)
	return err
}
