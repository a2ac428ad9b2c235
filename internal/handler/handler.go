// Package handler exposes the HTTP surface: diagram generation, the
// conversational assistant, artifact serving and housekeeping.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"diagen/internal/artifact"
	"diagen/internal/assistant"
	"diagen/internal/diagram"
	"diagen/internal/render"
)

const version = "1.0.0"

// retention is how long rendered artifacts survive a cleanup request.
const retention = 24 * time.Hour

// Chatter is the assistant surface the handler needs.
type Chatter interface {
	Chat(ctx context.Context, message, conversationID string) (*assistant.Reply, error)
	Store() *assistant.Store
}

type Handler struct {
	gen      assistant.DiagramGenerator
	chat     Chatter
	outDir   string
	llmName  string
	validate *validator.Validate
	log      *zap.Logger
}

func New(gen assistant.DiagramGenerator, chat Chatter, outDir, llmName string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		gen:      gen,
		chat:     chat,
		outDir:   outDir,
		llmName:  llmName,
		validate: validator.New(),
		log:      log,
	}
}

// GenerateDiagram handles POST /generate-diagram.
func (h *Handler) GenerateDiagram(w http.ResponseWriter, r *http.Request) {
	var req DiagramRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.gen.Generate(r.Context(), req.Description, req.Format)
	if err != nil {
		var ve *diagram.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, DiagramResponse{Success: false, Error: ve.Msg})
			return
		}
		var re *render.Error
		if errors.As(err, &re) {
			h.log.Error("render failed", zap.String("cause", string(re.Cause)), zap.Error(re))
			writeJSON(w, http.StatusInternalServerError, DiagramResponse{
				Success:     false,
				DiagramCode: re.Source,
				Error:       re.Message,
			})
			return
		}
		h.log.Error("generate failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, DiagramResponse{Success: false, Error: "diagram generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, DiagramResponse{
		Success:     true,
		ImageURL:    res.ImageURL,
		DiagramCode: res.SourceText,
	})
}

// Assistant handles POST /assistant.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := h.chat.Chat(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		var ve *diagram.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Msg})
			return
		}
		h.log.Error("assistant turn failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "assistant request failed"})
		return
	}

	writeJSON(w, http.StatusOK, AssistantResponse{
		Response:       reply.Message,
		ConversationID: reply.ConversationID,
		HasDiagram:     reply.HasDiagram(),
		ImageURL:       reply.DiagramURL,
		DiagramCode:    reply.DiagramCode,
	})
}

// Image handles GET /images/{filename}. Only plain generated files inside
// the output directory are served.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "filename"))
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid filename"})
		return
	}
	path := filepath.Join(h.outDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "image not found"})
		return
	}
	http.ServeFile(w, r, path)
}

// DeleteConversation handles DELETE /conversations/{conversationID}.
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "conversationID"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "conversation id is required"})
		return
	}
	if !h.chat.Store().Delete(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "conversation not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cleanup handles POST /cleanup: prunes generated artifacts past retention.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := artifact.Prune(h.outDir, retention)
	if err != nil {
		h.log.Error("cleanup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "cleanup failed"})
		return
	}
	h.log.Info("artifacts pruned", zap.Int("deleted", deleted))
	writeJSON(w, http.StatusOK, CleanupResponse{Deleted: deleted})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   version,
		LLM:       h.llmName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " is too short (min " + fe.Param() + ")"
		case "max":
			return field + " is too long (max " + fe.Param() + ")"
		case "oneof":
			return field + " must be one of: " + fe.Param()
		}
		return field + " is invalid"
	}
	return "invalid request"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
