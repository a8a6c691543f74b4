package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/threshold/pkg/domain"
)

// Event is one JSON Lines record written by JSONHandler.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// JSONHandler implements IOHandler over JSON Lines.
// Input lines may be a command object, a JSON string or plain text.
type JSONHandler struct {
	Reader *bufio.Reader

	mu      sync.Mutex
	encoder *json.Encoder
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
		encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(eventType string, data any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(Event{Type: eventType, Data: data})
}

// Input reads the next command. Malformed lines are answered with an error event.
func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		text, err := h.Reader.ReadString('\n')
		if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
			return Command{}, err
		}

		cmd, perr := decodeCommand(strings.TrimSpace(text))
		if errors.Is(perr, ErrEmptyCommand) {
			if err != nil {
				return Command{}, err
			}
			continue
		}
		if perr != nil {
			if eerr := h.emit("error", perr.Error()); eerr != nil {
				return Command{}, eerr
			}
			if err != nil {
				return Command{}, err
			}
			continue
		}
		return cmd, nil
	}
}

func decodeCommand(text string) (Command, error) {
	clean, err := SanitizeInput(text)
	if err != nil {
		return Command{}, err
	}
	if strings.HasPrefix(clean, "{") {
		var cmd Command
		if err := json.Unmarshal([]byte(clean), &cmd); err != nil {
			return Command{}, err
		}
		if name, ok := aliases[strings.ToLower(string(cmd.Name))]; ok {
			cmd.Name = name
		}
		return cmd.validate()
	}
	var quoted string
	if err := json.Unmarshal([]byte(clean), &quoted); err == nil {
		clean = quoted
	}
	return ParseCommand(clean)
}

// Report emits a "report" event.
func (h *JSONHandler) Report(_ context.Context, r *domain.CycleReport) error {
	return h.emit("report", r)
}

// Snapshot emits a "snapshot" event.
func (h *JSONHandler) Snapshot(_ context.Context, s domain.Snapshot) error {
	return h.emit("snapshot", s)
}

// Journal emits a "journal" event.
func (h *JSONHandler) Journal(_ context.Context, reports []domain.CycleReport) error {
	if reports == nil {
		reports = []domain.CycleReport{}
	}
	return h.emit("journal", reports)
}

// SystemOutput emits a "system" event.
func (h *JSONHandler) SystemOutput(_ context.Context, msg string) error {
	return h.emit("system", msg)
}
