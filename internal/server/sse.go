package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/types"
)

// Event names on the generation stream. A stream opens with one task event,
// carries progress events and ends with exactly one complete or error event.
const (
	eventTask     = "task"
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

// SSEWriter frames generation updates as text/event-stream messages.
// It is safe for use by several goroutines.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares w for streaming. It fails when the response cannot
// be flushed incrementally.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer cannot stream events")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// nginx buffers proxied responses unless told otherwise
	h.Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named event whose data line is payload as JSON.
func (s *SSEWriter) WriteEvent(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteTask announces the task the stream reports on.
func (s *SSEWriter) WriteTask(task types.TaskResponse) error {
	return s.WriteEvent(eventTask, task)
}

// WriteProgress forwards one pipeline step.
func (s *SSEWriter) WriteProgress(ev pipeline.ProgressEvent) error {
	return s.WriteEvent(eventProgress, ev)
}

// WriteError ends the stream with a failure message.
func (s *SSEWriter) WriteError(message string) {
	_ = s.WriteEvent(eventError, map[string]string{"error": message})
}

// WriteComplete ends the stream with the finished task.
func (s *SSEWriter) WriteComplete(task types.TaskResponse) {
	_ = s.WriteEvent(eventComplete, task)
}
