package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/types"
)

// handleGenerateOutline turns text, a URL or markdown into an outline.
func (s *Server) handleGenerateOutline(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateOutlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.Model == "" {
		req.Model = llm.DefaultModel
	}

	s.logger.Printf("[outline] model=%s chars=%d url=%q markdown=%v",
		req.Model, len([]rune(req.Content)), req.SourceURL, req.Markdown)

	outline, err := pipeline.RunOutline(r.Context(), pipeline.OutlineOptions{
		Content:    req.Content,
		SourceURL:  req.SourceURL,
		Markdown:   req.Markdown,
		Model:      req.Model,
		SlideCount: req.SlideCount,
		MaxSlides:  s.settings.MaxSlides,
		Keys:       s.settings.ProviderKeys(),
		Generator:  s.outlineGen,
		Logger:     s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Printf("[outline] %q with %d slides", outline.Title, len(outline.Slides))
	s.jsonResponse(w, http.StatusOK, outline)
}
