package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"

	"github.com/vgrajeda/muela-guide/backend/internal/analysis/mention"
	"github.com/vgrajeda/muela-guide/backend/internal/model/chat"
	personaModel "github.com/vgrajeda/muela-guide/backend/internal/model/persona"
	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
	aiService "github.com/vgrajeda/muela-guide/backend/internal/service/ai"
	catalogService "github.com/vgrajeda/muela-guide/backend/internal/service/catalog"
	chatService "github.com/vgrajeda/muela-guide/backend/internal/service/chat"
	visionService "github.com/vgrajeda/muela-guide/backend/internal/service/vision"
	"github.com/vgrajeda/muela-guide/backend/pkg/utils"
)

// Handler drives one chat turn end to end: history, prompt, optional
// vision input, the model call and reply-time image matching.
type Handler struct {
	store   chatService.Store
	catalog *catalogService.Service
	ai      *aiService.Service
	vision  *visionService.Service
	persona personaModel.Persona
	policy  mention.Policy
	baseURL string
	recent  int
}

// New wires the chat endpoints.
func New(store chatService.Store, catalog *catalogService.Service, ai *aiService.Service, vision *visionService.Service, persona personaModel.Persona, baseURL string, recentTurns int) *Handler {
	if recentTurns <= 0 {
		recentTurns = chatService.DefaultRecent
	}
	return &Handler{
		store:   store,
		catalog: catalog,
		ai:      ai,
		vision:  vision,
		persona: persona,
		policy:  mention.ParsePolicy(persona.MatchPolicy),
		baseURL: baseURL,
		recent:  recentTurns,
	}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	UseVision bool   `json:"useVision"`
}

type chatResponse struct {
	Response       string                `json:"response"`
	Images         []place.Attachment    `json:"images,omitempty"`
	AnalyzedImages []place.AnalyzedImage `json:"analyzedImages,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Rejected before any upstream call.
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = chatService.DefaultSessionID
	}

	ctx := r.Context()
	history := h.store.Recent(ctx, sessionID, h.recent)
	features := h.catalog.Features()
	system := h.ai.BuildSystemPrompt(h.persona, features)

	userParts := []llmsdk.Part{llmsdk.NewTextPart(payload.Message)}
	var analyzed []place.AnalyzedImage
	if payload.UseVision && h.catalog.Available() {
		visionParts, picked := h.vision.SelectForInput(payload.Message, features)
		userParts = append(userParts, visionParts...)
		analyzed = picked
	}

	reply, err := h.ai.GenerateReply(ctx, system, history, userParts, h.persona.FallbackLine)
	if err != nil {
		log.Printf("[chat] upstream failure for session=%s: %v", sessionID, err)
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "upstream generation failed",
			"details": err.Error(),
		})
		return
	}

	// Reply-time attachments only when no imagery was already sent as
	// input context for this turn.
	var images []place.Attachment
	if !payload.UseVision {
		images = mention.Match(h.policy, reply, features, h.baseURL)
	}

	h.store.Append(ctx, sessionID, chat.RoleUser, payload.Message)
	h.store.Append(ctx, sessionID, chat.RoleAssistant, reply)

	log.Printf("[chat] session=%s reply=%d chars, attachments=%d", sessionID, len(reply), len(images))

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Response:       reply,
		Images:         images,
		AnalyzedImages: analyzed,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	// An empty or invalid body resets the default session.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = chatService.DefaultSessionID
	}

	h.store.Reset(r.Context(), sessionID)
	log.Printf("[chat] session history cleared (%s)", sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "session reset"})
}
