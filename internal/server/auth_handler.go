package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ppt-architect/internal/server/middleware"
	"github.com/jonathan/ppt-architect/internal/types"
)

// apiKeySubject is the subject of tokens exchanged for the service key.
const apiKeySubject = "api-key"

// handleToken exchanges the service API key for a bearer token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		s.errorResponse(w, http.StatusNotFound, "authentication is not enabled")
		return
	}

	var req types.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if !s.apiKeys.VerifyKey(req.APIKey) {
		s.logger.Printf("[auth] rejected api key from %s", r.RemoteAddr)
		s.writeError(w, ErrInvalidCredentials)
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken(apiKeySubject)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}

// withTokenScope keeps download tokens on the file endpoints of their task.
func (s *Server) withTokenScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := middleware.GetSubject(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		taskID, scoped := strings.CutPrefix(subject, downloadScope)
		if !scoped {
			next.ServeHTTP(w, r)
			return
		}
		if r.URL.Path != "/api/download/"+taskID && r.URL.Path != "/api/preview/"+taskID {
			s.errorResponse(w, http.StatusForbidden, "token is limited to task "+taskID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractValidationErrors flattens validator errors into one message.
func extractValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, e.Field()+" failed on "+e.Tag())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}
