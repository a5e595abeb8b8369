package chat

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

	"github.com/go-chi/chi/v5"
	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"

	"github.com/vgrajeda/muela-guide/backend/internal/config"
	personaModel "github.com/vgrajeda/muela-guide/backend/internal/model/persona"
	aiService "github.com/vgrajeda/muela-guide/backend/internal/service/ai"
	catalogService "github.com/vgrajeda/muela-guide/backend/internal/service/catalog"
	chatService "github.com/vgrajeda/muela-guide/backend/internal/service/chat"
	visionService "github.com/vgrajeda/muela-guide/backend/internal/service/vision"
)

const testCatalog = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "LUGAR": "Cima Muela del Diablo",
        "descripcion": "Punto más alto",
        "imagenUrl": "images/cima.jpg"
      },
      "geometry": {"type": "Point", "coordinates": [-68.056389, -16.588056]}
    },
    {
      "type": "Feature",
      "properties": {"LUGAR": "La Grieta", "imagenUrl": "images/grieta.jpg"},
      "geometry": {"type": "Point", "coordinates": [-68.05721, -16.58947]}
    }
  ]
}`

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ *llmsdk.LanguageModelInput) (*llmsdk.ModelResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llmsdk.ModelResponse{Content: []llmsdk.Part{llmsdk.NewTextPart(f.reply)}}, nil
}

func setupRouter(t *testing.T, gen *fakeGenerator) (*chi.Mux, chatService.Store) {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "puntos.geojson")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}

	catalogSvc := catalogService.New(catalogPath)
	store := chatService.NewMemoryStore(chatService.MaxEntries)
	aiSvc := aiService.NewService(gen, config.AIConfig{Model: "test", Temperature: 0.85, MaxTokens: 800})
	visionSvc := visionService.NewService(t.TempDir())

	p := personaModel.Seed()[0]
	handler := New(store, catalogSvc, aiSvc, visionSvc, p, "", chatService.DefaultRecent)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatAttachesMentionedPlace(t *testing.T) {
	gen := &fakeGenerator{reply: "Según los archivos, la Cima Muela del Diablo tiene vista panorámica."}
	r, _ := setupRouter(t, gen)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "¿Qué hay en la cima?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Response string `json:"response"`
		Images   []struct {
			PlaceName string `json:"lugar"`
			URL       string `json:"url"`
		} `json:"images"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Images) != 1 {
		t.Fatalf("expected exactly 1 attachment, got %d", len(body.Images))
	}
	if body.Images[0].PlaceName != "Cima Muela del Diablo" {
		t.Fatalf("unexpected attachment %q", body.Images[0].PlaceName)
	}
	if body.Images[0].URL != "images/cima.jpg" {
		t.Fatalf("unexpected locator %q", body.Images[0].URL)
	}
}

func TestChatEmptyMessageRejectedBeforeUpstream(t *testing.T) {
	gen := &fakeGenerator{reply: "no debería llamarse"}
	r, _ := setupRouter(t, gen)

	for _, message := range []string{"", "   "} {
		resp := postJSON(t, r, "/chat", map[string]any{"message": message})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", message, resp.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] == "" {
			t.Fatal("expected an error field")
		}
	}
	if gen.calls != 0 {
		t.Fatalf("upstream must not be called for empty input, got %d calls", gen.calls)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("deadline exceeded")}
	r, _ := setupRouter(t, gen)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "hola"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" || body["details"] == "" {
		t.Fatalf("expected error and details fields, got %v", body)
	}
}

func TestChatAppendsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "¡Hola a todos!"}
	r, store := setupRouter(t, gen)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "hola", "sessionId": "s1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	entries := store.Recent(context.Background(), "s1", 4)
	if len(entries) != 2 {
		t.Fatalf("expected user and assistant entries, got %d", len(entries))
	}
	if entries[0].Content != "hola" || entries[1].Content != "¡Hola a todos!" {
		t.Fatalf("history out of order: %q then %q", entries[0].Content, entries[1].Content)
	}
}

func TestResetThenChatStartsFresh(t *testing.T) {
	gen := &fakeGenerator{reply: "respuesta"}
	r, store := setupRouter(t, gen)

	postJSON(t, r, "/chat", map[string]any{"message": "primero", "sessionId": "s1"})

	resp := postJSON(t, r, "/reset", map[string]any{"sessionId": "s1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on reset, got %d", resp.Code)
	}
	if entries := store.Recent(context.Background(), "s1", 16); len(entries) != 0 {
		t.Fatalf("expected empty history after reset, got %d", len(entries))
	}

	postJSON(t, r, "/chat", map[string]any{"message": "segundo", "sessionId": "s1"})
	entries := store.Recent(context.Background(), "s1", 16)
	if len(entries) != 2 || entries[0].Content != "segundo" {
		t.Fatalf("session must restart from scratch, got %v", entries)
	}
}

func TestResetUnknownSessionIdempotent(t *testing.T) {
	r, _ := setupRouter(t, &fakeGenerator{reply: "x"})

	for i := 0; i < 2; i++ {
		resp := postJSON(t, r, "/reset", map[string]any{"sessionId": "nunca-existio"})
		if resp.Code != http.StatusOK {
			t.Fatalf("reset attempt %d: expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestChatVisionSkipsResponseTimeMatching(t *testing.T) {
	gen := &fakeGenerator{reply: "Hablemos de la Cima Muela del Diablo."}
	r, _ := setupRouter(t, gen)

	resp := postJSON(t, r, "/chat", map[string]any{"message": "la cima", "useVision": true})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Images []any `json:"images"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Images) != 0 {
		t.Fatal("vision turns must not also attach response-time images")
	}
}

func TestChatDefaultSession(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	r, store := setupRouter(t, gen)

	postJSON(t, r, "/chat", map[string]any{"message": "sin sesión"})
	if entries := store.Recent(context.Background(), chatService.DefaultSessionID, 4); len(entries) != 2 {
		t.Fatalf("missing sessionId must map to %q, got %d entries", chatService.DefaultSessionID, len(entries))
	}
}
