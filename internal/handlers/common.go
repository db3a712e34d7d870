package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/bibliobot/internal/models"
)

// CommandRunner executes slash command text and returns the reply to send
type CommandRunner interface {
	Run(ctx context.Context, command, text string) models.Reply
}

type Handler struct {
	runner CommandRunner
	token  string
}

func New(runner CommandRunner, token string) *Handler {
	return &Handler{
		runner: runner,
		token:  token,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) validToken(token string) bool {
	if h.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) == 1
}
