package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/schemas"
	"github.com/jonathan/ppt-architect/internal/tasks"
	"github.com/jonathan/ppt-architect/internal/theme"
	"github.com/jonathan/ppt-architect/internal/types"
)

const (
	maxOutlineBody   = 10 << 20
	downloadTokenTTL = time.Hour
)

// Media types of the files served by the download endpoints.
const (
	MediaTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypePNG  = "image/png"
)

// handleGeneratePPT queues a deck generation and returns its task.
func (s *Server) handleGeneratePPT(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.createTask(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.launch(task, req, nil)

	resp := s.taskResponse(task)
	resp.Message = "PPT 生成任务已启动"
	s.jsonResponse(w, http.StatusAccepted, resp)
}

// handleGeneratePPTStream queues a deck generation and streams its
// progress as SSE until the task finishes or the client goes away. The
// task keeps running after a disconnect.
func (s *Server) handleGeneratePPTStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	task, err := s.createTask(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	events := make(chan pipeline.ProgressEvent, 16)
	done := s.launch(task, req, func(ev pipeline.ProgressEvent) {
		select {
		case events <- ev:
		default:
			// a slow client only loses intermediate steps; the final state is read from the store
		}
	})

	if err := sse.WriteTask(s.taskResponse(task)); err != nil {
		return
	}

	for {
		select {
		case ev := <-events:
			if err := sse.WriteProgress(ev); err != nil {
				return
			}
		case <-done:
			drainEvents(sse, events)
			final, err := s.store.Get(context.WithoutCancel(r.Context()), task.ID)
			if err != nil {
				sse.WriteError(err.Error())
				return
			}
			if final.Status == types.TaskFailed {
				sse.WriteError(final.Message)
				return
			}
			sse.WriteComplete(s.taskResponse(final))
			return
		case <-r.Context().Done():
			s.logger.Printf("[task] %s: stream client disconnected", task.ID)
			return
		}
	}
}

// drainEvents forwards the events still buffered after the task finished.
func drainEvents(sse *SSEWriter, events <-chan pipeline.ProgressEvent) {
	for {
		select {
		case ev := <-events:
			_ = sse.WriteProgress(ev)
		default:
			return
		}
	}
}

// decodeGenerateRequest reads the body, checks the outline against the JSON
// schema and then against the struct rules.
func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*types.GeneratePPTRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOutlineBody))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	var raw struct {
		Outline json.RawMessage `json:"outline"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if len(raw.Outline) == 0 || string(raw.Outline) == "null" {
		return nil, &ErrValidation{Field: "outline", Message: "is required"}
	}
	if _, err := schemas.ValidateOutline(raw.Outline); err != nil {
		return nil, err
	}

	var req types.GeneratePPTRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrValidation{Field: "outline", Message: err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.Theme == "":
		req.Theme = theme.DefaultName
	case !theme.Exists(req.Theme):
		s.logger.Printf("[task] unknown theme %q, using %s", req.Theme, theme.DefaultName)
		req.Theme = theme.DefaultName
	}
	return &req, nil
}

func (s *Server) createTask(ctx context.Context, req *types.GeneratePPTRequest) (*types.Task, error) {
	task := tasks.NewTask(req.Outline.Title, req.Theme, req.TemplateID)
	if err := s.store.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logger.Printf("[task] %s created: %q (%d slides, theme %s)", task.ID, task.Title, len(req.Outline.Slides), task.Theme)
	return task, nil
}

// launch runs the generation of task in the background. The returned
// channel is closed once the task has reached its final state.
func (s *Server) launch(task *types.Task, req *types.GeneratePPTRequest, onProgress pipeline.ProgressCallback) <-chan struct{} {
	done := make(chan struct{})
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		defer close(done)

		_, err := pipeline.RunGeneration(s.jobCtx, pipeline.GenerateOptions{
			TaskID:       task.ID,
			Outline:      req.Outline,
			Theme:        req.Theme,
			TemplateID:   req.TemplateID,
			TemplatesDir: s.settings.TemplatesDir,
			OutputDir:    s.settings.OutputDir,
			Preview:      true,
			Previewer:    s.converter,
			PreviewWidth: s.settings.PreviewWidth,
			PDF:          req.ExportPDF,
			PDFExporter:  s.converter,
			Store:        s.store,
			OnProgress:   onProgress,
			Logger:       s.logger,
		})
		if err == nil {
			s.logger.Printf("[task] %s completed", task.ID)
		}
	}()
	return done
}

// Wait blocks until every background generation has finished.
func (s *Server) Wait() {
	s.jobs.Wait()
}

// handleTask reports the state of a task.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, fmt.Errorf("任务不存在: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, s.taskResponse(task))
}

// taskResponse builds the API view of task. File links are only set on
// completed tasks and carry a download token when auth is on.
func (s *Server) taskResponse(task *types.Task) types.TaskResponse {
	resp := types.TaskResponse{
		TaskID:   task.ID,
		Status:   task.Status,
		Progress: task.Progress,
		Message:  task.Message,
	}
	if task.Status != types.TaskCompleted {
		return resp
	}

	resp.DownloadURL = "/api/download/" + task.ID + s.linkQuery(task.ID, nil)
	if task.PreviewPath != "" {
		resp.PreviewURL = "/api/preview/" + task.ID + s.linkQuery(task.ID, nil)
	}
	if task.PDFPath != "" {
		resp.PDFURL = "/api/download/" + task.ID + s.linkQuery(task.ID, url.Values{"format": {"pdf"}})
	}
	return resp
}

func (s *Server) linkQuery(taskID string, q url.Values) string {
	if s.authEnabled() {
		token, err := s.jwtService.GenerateDownloadToken(taskID, downloadTokenTTL)
		if err != nil {
			s.logger.Printf("[task] %s: failed to sign download token: %v", taskID, err)
		} else {
			if q == nil {
				q = url.Values{}
			}
			q.Set("token", token)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// handleDownload serves the generated deck, or its PDF with ?format=pdf.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, fmt.Errorf("任务不存在: %w", err))
		return
	}
	if task.Status != types.TaskCompleted {
		s.writeError(w, ErrTaskNotReady)
		return
	}

	path, mediaType := task.FilePath, MediaTypePPTX
	if r.URL.Query().Get("format") == "pdf" {
		path, mediaType = task.PDFPath, MediaTypePDF
	}
	s.serveFile(w, r, path, mediaType, true)
}

// handlePreview serves the PNG of the first slide.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, fmt.Errorf("任务不存在: %w", err))
		return
	}
	s.serveFile(w, r, task.PreviewPath, MediaTypePNG, false)
}

// serveFile streams path with mediaType, as an attachment when attach is set.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path, mediaType string, attach bool) {
	if path == "" {
		s.errorResponse(w, http.StatusNotFound, "文件不存在")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "文件不存在")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", mediaType)
	if attach {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	}
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}
