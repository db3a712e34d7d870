package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/bibliobot/internal/dispatch"
	"github.com/lehigh-university-libraries/bibliobot/internal/models"
)

const (
	invalidTokenText  = "Invalid token!"
	internalErrorText = "Something went wrong, sorry. Please try again later."
)

// HandleRoot serves the landing page on GET and slash commands on POST
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET", "HEAD":
		h.HandleStatic(w, r)
	case "POST":
		h.HandleCommand(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCommand answers a slash command POST. Every command that gets past
// form parsing is answered with 200 and a JSON reply.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	logger := slog.With("request_id", requestID)

	if !h.validToken(r.PostForm.Get("token")) {
		logger.Warn("Rejected slash command with invalid token", "remote_addr", r.RemoteAddr)
		h.writeJSON(w, models.TextReply(invalidTokenText))
		return
	}

	command, text := splitCommand(r.PostForm.Get("command"), r.PostForm.Get("text"))
	if command == "" {
		h.writeError(w, "command is required", http.StatusBadRequest)
		return
	}

	logger = logger.With("command", command, "user", r.PostForm.Get("user_name"))
	logger.Info("Received slash command", "text", text)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Slash command panicked", "panic", fmt.Sprint(rec))
			h.writeJSON(w, models.TextReply(internalErrorText))
		}
	}()

	reply := h.runner.Run(dispatch.WithLogger(r.Context(), logger), command, text)
	h.writeJSON(w, reply)
}

// splitCommand separates the slash command name from its argument text. The
// platform sends the name in command and the rest in text, but a command
// field carrying the whole invocation is accepted too. The user's text is
// only trimmed so substring searches match what was typed.
func splitCommand(command, text string) (string, string) {
	fields := strings.Fields(command)
	text = strings.TrimSpace(text)
	if len(fields) == 0 {
		return "", text
	}

	name := strings.TrimPrefix(fields[0], "/")
	rest := strings.Join(fields[1:], " ")
	switch {
	case rest == "":
		return name, text
	case text == "":
		return name, rest
	default:
		return name, rest + " " + text
	}
}
