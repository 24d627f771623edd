package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/types"
)

func TestSSEWriter_Framing(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	require.NoError(t, sse.WriteTask(types.TaskResponse{TaskID: "t1", Status: types.TaskPending}))
	require.NoError(t, sse.WriteProgress(pipeline.ProgressEvent{TaskID: "t1", Status: types.TaskProcessing, Progress: 30}))
	sse.WriteComplete(types.TaskResponse{TaskID: "t1", Status: types.TaskCompleted, Progress: 100})

	expected := "event: task\ndata: {\"task_id\":\"t1\",\"status\":\"pending\",\"progress\":0}\n\n" +
		"event: progress\ndata: {\"task_id\":\"t1\",\"status\":\"processing\",\"progress\":30,\"message\":\"\"}\n\n" +
		"event: complete\ndata: {\"task_id\":\"t1\",\"status\":\"completed\",\"progress\":100}\n\n"
	assert.Equal(t, expected, rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSSEWriter_Error(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	sse.WriteError("render failed")
	assert.Equal(t, "event: error\ndata: {\"error\":\"render failed\"}\n\n", rec.Body.String())
}

func TestSSEWriter_UnencodablePayload(t *testing.T) {
	sse, err := NewSSEWriter(httptest.NewRecorder())
	require.NoError(t, err)

	err = sse.WriteEvent("progress", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode progress event")
}

type plainWriter struct{ header http.Header }

func (p *plainWriter) Header() http.Header         { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (p *plainWriter) WriteHeader(int)             {}

func TestNewSSEWriter_NeedsFlusher(t *testing.T) {
	_, err := NewSSEWriter(&plainWriter{header: http.Header{}})
	assert.Error(t, err)
}
