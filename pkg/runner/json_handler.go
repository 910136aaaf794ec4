package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each input line is either a raw key line ("12+3=") or an object {"keys": "..."}.
// Each output line is the full state or a {"message": "..."} object.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// JSONRequest is the structured form of an input line.
type JSONRequest struct {
	Keys string `json:"keys"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		var req JSONRequest
		if jsonErr := json.Unmarshal([]byte(line), &req); jsonErr != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, jsonErr)
		}
		return req.Keys, nil
	}
	return line, nil
}

func (h *JSONHandler) Output(ctx context.Context, state *domain.State) error {
	return h.Encoder.Encode(state)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"message": msg})
}
