package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hoangvvo/llm-sdk/sdk-go/google"
)

// Config aggregates every setting the server reads at startup.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Catalog CatalogConfig
	Chat    ChatConfig
	Persona PersonaConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Catalog: loadCatalogConfig(),
		Chat:    chat,
		Persona: loadPersonaConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Accept ":5000" or "127.0.0.1:5000" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the generative-language upstream.
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int64
}

// Enabled reports whether the required credential is present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// NewModel creates the Gemini client for this configuration.
func (c AIConfig) NewModel() (*google.GoogleModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return google.NewGoogleModel(c.Model, google.GoogleModelOptions{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
	}), nil
}

func loadAIConfig() (AIConfig, error) {
	temperature := 0.85
	if override, err := parseOptionalFloatEnv("GEMINI_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := int64(800)
	if override, err := parseOptionalIntEnv("GEMINI_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = int64(*override)
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		BaseURL:     strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// CatalogConfig locates the place data and its imagery.
type CatalogConfig struct {
	Path     string
	ImageDir string
	// PublicBaseURL, when set, resolves attachment locators to absolute
	// URLs in chat responses.
	PublicBaseURL string
}

func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Path:          getEnvOrDefault("CATALOG_PATH", "data/puntos_muela.geojson"),
		ImageDir:      getEnvOrDefault("IMAGE_DIR", "public"),
		PublicBaseURL: strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")),
	}
}

// ChatConfig bounds conversation history.
type ChatConfig struct {
	HistoryLimit int
	RecentTurns  int
	// SessionTTL evicts sessions idle longer than this; zero disables
	// eviction entirely.
	SessionTTL time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	historyLimit := 16
	if override, err := parseOptionalIntEnv("HISTORY_LIMIT"); err != nil {
		return ChatConfig{}, err
	} else if override != nil && *override > 0 {
		historyLimit = *override
	}

	recentTurns := 4
	if override, err := parseOptionalIntEnv("RECENT_TURNS"); err != nil {
		return ChatConfig{}, err
	} else if override != nil && *override > 0 {
		recentTurns = *override
	}

	sessionTTL := 2 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return ChatConfig{}, fmt.Errorf("invalid SESSION_TTL value %q: %w", raw, err)
		}
		sessionTTL = parsed
	}

	return ChatConfig{
		HistoryLimit: historyLimit,
		RecentTurns:  recentTurns,
		SessionTTL:   sessionTTL,
	}, nil
}

// PersonaConfig selects the active voice profile.
type PersonaConfig struct {
	Path    string
	Profile string
}

func loadPersonaConfig() PersonaConfig {
	return PersonaConfig{
		Path:    getEnvOrDefault("PERSONA_FILE", "configs/personas.yaml"),
		Profile: getEnvOrDefault("PERSONA_PROFILE", "miss-minutes"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
