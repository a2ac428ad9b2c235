package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagen/internal/assistant"
	"diagen/internal/diagram"
	"diagen/internal/llm"
	"diagen/internal/render"
	"diagen/internal/service"
)

type stubGen struct {
	res *service.Result
	err error
}

func (s *stubGen) Generate(context.Context, string, string) (*service.Result, error) {
	return s.res, s.err
}

func newTestRouter(t *testing.T, gen assistant.DiagramGenerator, outDir string) *chi.Mux {
	t.Helper()
	asst := assistant.New(llm.NewFakeClient(), gen, assistant.NewStore(), nil, nil)
	h := New(gen, asst, outDir, "FakeLLM", nil)

	r := chi.NewRouter()
	r.Post("/generate-diagram", h.GenerateDiagram)
	r.Post("/assistant", h.Assistant)
	r.Get("/images/{filename}", h.Image)
	r.Delete("/conversations/{conversationID}", h.DeleteConversation)
	r.Post("/cleanup", h.Cleanup)
	r.Get("/health", h.Health)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateDiagramOK(t *testing.T) {
	gen := &stubGen{res: &service.Result{
		Filename:   "diagram_ok.png",
		ImageURL:   "/images/diagram_ok.png",
		SourceText: "digraph \"t\" {}",
	}}
	r := newTestRouter(t, gen, t.TempDir())

	w := postJSON(t, r, "/generate-diagram", DiagramRequest{Description: "a web application with a database"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp DiagramResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "/images/diagram_ok.png", resp.ImageURL)
	assert.NotEmpty(t, resp.DiagramCode)
}

func TestGenerateDiagramValidation(t *testing.T) {
	r := newTestRouter(t, &stubGen{}, t.TempDir())

	cases := []DiagramRequest{
		{Description: ""},                                        // required
		{Description: "too short"},                               // min 10
		{Description: "a perfectly fine description", Format: "bmp"}, // closed enum
	}
	for _, req := range cases {
		w := postJSON(t, r, "/generate-diagram", req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "request %+v", req)
	}
}

func TestGenerateDiagramPipelineValidationError(t *testing.T) {
	gen := &stubGen{err: &diagram.ValidationError{Msg: "unsupported output format bmp"}}
	r := newTestRouter(t, gen, t.TempDir())

	w := postJSON(t, r, "/generate-diagram", DiagramRequest{Description: "a web application with a database"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp DiagramResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestGenerateDiagramRenderErrorIncludesSource(t *testing.T) {
	gen := &stubGen{err: &render.Error{
		Message: "dot exited with status 1",
		Source:  "digraph \"broken\" {",
		Cause:   render.CauseSyntax,
	}}
	r := newTestRouter(t, gen, t.TempDir())

	w := postJSON(t, r, "/generate-diagram", DiagramRequest{Description: "a web application with a database"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp DiagramResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "digraph \"broken\" {", resp.DiagramCode)
}

func TestAssistantEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubGen{res: &service.Result{ImageURL: "/images/x.png", SourceText: "digraph {}"}}, t.TempDir())

	w := postJSON(t, r, "/assistant", AssistantRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AssistantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Response)
	assert.NotEmpty(t, resp.ConversationID)
}

func TestAssistantValidation(t *testing.T) {
	r := newTestRouter(t, &stubGen{}, t.TempDir())
	w := postJSON(t, r, "/assistant", AssistantRequest{Message: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageServing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diagram_x.png"), []byte("png"), 0o644))
	r := newTestRouter(t, &stubGen{}, dir)

	req := httptest.NewRequest(http.MethodGet, "/images/diagram_x.png", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/images/missing.png", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteConversation(t *testing.T) {
	r := newTestRouter(t, &stubGen{}, t.TempDir())

	w := postJSON(t, r, "/assistant", AssistantRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp AssistantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodDelete, "/conversations/"+resp.ConversationID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "diagram_old.png")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diagram_new.png"), []byte("x"), 0o644))

	r := newTestRouter(t, &stubGen{}, dir)
	w := postJSON(t, r, "/cleanup", struct{}{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CleanupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Deleted)

	_, err := os.Stat(old)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(dir, "diagram_new.png"))
	assert.NoError(t, err)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &stubGen{}, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "FakeLLM", resp.LLM)
}
