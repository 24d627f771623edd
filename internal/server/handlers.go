package server

import (
	"net/http"

	"github.com/jonathan/ppt-architect/internal/llm"
	"github.com/jonathan/ppt-architect/internal/theme"
)

// Version is reported by the service banner.
const Version = "1.0.0"

// ThemeInfo is the API view of a built-in theme.
type ThemeInfo struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Font       string `json:"font"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "AI-PPT Architect API",
		"status":  "running",
		"version": Version,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleModels lists the outline models and whether each one has a key.
func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models := llm.AvailableModels(s.settings.ProviderKeys())
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"models": models,
		"count":  len(models),
	})
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	names := theme.Names()
	themes := make([]ThemeInfo, 0, len(names))
	for _, name := range names {
		t := theme.Resolve(name)
		themes = append(themes, ThemeInfo{
			Name:       t.Name,
			Background: "#" + t.Background.Hex(),
			Title:      "#" + t.Title.Hex(),
			Text:       "#" + t.Text.Hex(),
			Accent:     "#" + t.Accent.Hex(),
			Font:       t.Font,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"themes":  themes,
		"default": theme.DefaultName,
	})
}
