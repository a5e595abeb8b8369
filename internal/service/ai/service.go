package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"

	"github.com/vgrajeda/muela-guide/backend/internal/config"
	"github.com/vgrajeda/muela-guide/backend/internal/model/chat"
	"github.com/vgrajeda/muela-guide/backend/internal/model/persona"
	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
)

// Generator is the slice of the language model used here, narrowed so
// tests can substitute a canned upstream.
type Generator interface {
	Generate(ctx context.Context, input *llmsdk.LanguageModelInput) (*llmsdk.ModelResponse, error)
}

// Service builds prompts and calls the generative model. No retry and
// no timeout beyond the request context: a failed call is terminal for
// that request.
type Service struct {
	generator Generator
	cfg       config.AIConfig
}

// NewService creates the AI service around a generator.
func NewService(generator Generator, cfg config.AIConfig) *Service {
	return &Service{generator: generator, cfg: cfg}
}

// BuildSystemPrompt appends the rendered catalog block to the persona's
// fixed prompt, or a degraded-data notice when no catalog loaded.
func (s *Service) BuildSystemPrompt(p persona.Persona, features []place.Feature) string {
	if len(features) == 0 {
		return p.System + "\n\nALERTA: La base de datos geográfica no está disponible. Responde solo con tu conocimiento general de la zona.\n"
	}
	return p.System + RenderCatalog(features, p.RedactLocators)
}

// GenerateReply runs one completion: system prompt, recent history,
// then the user turn (text plus any vision parts). A blank or
// placeholder reply is replaced with the persona's fallback line.
func (s *Service) GenerateReply(ctx context.Context, system string, history []chat.Entry, userParts []llmsdk.Part, fallback string) (string, error) {
	messages := make([]llmsdk.Message, 0, len(history)+1)
	for _, entry := range history {
		switch entry.Role {
		case chat.RoleUser:
			messages = append(messages, llmsdk.NewUserMessage(llmsdk.NewTextPart(entry.Content)))
		case chat.RoleAssistant:
			messages = append(messages, llmsdk.NewAssistantMessage(llmsdk.NewTextPart(entry.Content)))
		}
	}
	messages = append(messages, llmsdk.NewUserMessage(userParts...))

	temperature := s.cfg.Temperature
	maxTokens := uint32(s.cfg.MaxTokens)
	input := &llmsdk.LanguageModelInput{
		SystemPrompt: &system,
		Messages:     messages,
		Temperature:  &temperature,
		MaxTokens:    &maxTokens,
	}

	response, err := s.generator.Generate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	reply := strings.TrimSpace(TextContent(response))
	if reply == "" || reply == "..." {
		log.Printf("[ai] blank reply from model, using fallback line")
		reply = fallback
	}
	return reply, nil
}

// TextContent concatenates the text parts of a model response.
func TextContent(response *llmsdk.ModelResponse) string {
	var b strings.Builder
	for _, part := range response.Content {
		if part.TextPart != nil {
			b.WriteString(part.TextPart.Text)
		}
	}
	return b.String()
}
