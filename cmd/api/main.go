package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vgrajeda/muela-guide/backend/internal/config"
	"github.com/vgrajeda/muela-guide/backend/internal/handler"
	"github.com/vgrajeda/muela-guide/backend/internal/model/persona"
	aiService "github.com/vgrajeda/muela-guide/backend/internal/service/ai"
	catalogService "github.com/vgrajeda/muela-guide/backend/internal/service/catalog"
	chatService "github.com/vgrajeda/muela-guide/backend/internal/service/chat"
	visionService "github.com/vgrajeda/muela-guide/backend/internal/service/vision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The only fatal startup error: no upstream credential.
	model, err := cfg.AI.NewModel()
	if err != nil {
		log.Fatalf("failed to initialize Gemini model: %v", err)
	}

	catalogSvc := catalogService.New(cfg.Catalog.Path)
	activePersona := loadPersona(cfg.Persona)

	var store chatService.Store
	if cfg.Chat.SessionTTL > 0 {
		store = chatService.NewCacheStore(cfg.Chat.HistoryLimit, cfg.Chat.SessionTTL)
		log.Printf("[chat] idle sessions evicted after %s", cfg.Chat.SessionTTL)
	} else {
		store = chatService.NewMemoryStore(cfg.Chat.HistoryLimit)
		log.Println("[chat] session eviction disabled")
	}

	aiSvc := aiService.NewService(model, cfg.AI)
	visionSvc := visionService.NewService(cfg.Catalog.ImageDir)

	router := handler.NewRouter(handler.Deps{
		Catalog:       catalogSvc,
		Store:         store,
		AI:            aiSvc,
		Vision:        visionSvc,
		Persona:       activePersona,
		PublicBaseURL: cfg.Catalog.PublicBaseURL,
		RecentTurns:   cfg.Chat.RecentTurns,
	})

	log.Printf("persona profile: %s (%s), redactLocators=%v, matchPolicy=%s",
		activePersona.ID, activePersona.Name, activePersona.RedactLocators, activePersona.MatchPolicy)
	log.Printf("model: %s (temperature=%.2f, maxTokens=%d)", cfg.AI.Model, cfg.AI.Temperature, cfg.AI.MaxTokens)
	log.Println("endpoints:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/catalog")
	log.Println("  GET  /api/place/{name}")
	log.Println("  POST /api/chat")
	log.Println("  POST /api/reset")

	startServer(ctx, cfg.Server, router)
}

// loadPersona resolves the active profile, falling back to the built-in
// seed when the persona file is missing or the profile unknown.
func loadPersona(cfg config.PersonaConfig) persona.Persona {
	items, err := persona.LoadFile(cfg.Path)
	if err != nil {
		log.Printf("warning: failed to load persona file: %v", err)
		log.Println("falling back to built-in persona profiles")
		items = persona.Seed()
	}

	store := persona.NewMemoryStore(items)
	p, ok := store.FindByID(cfg.Profile)
	if !ok {
		log.Printf("warning: persona profile %q not found, using %q", cfg.Profile, items[0].ID)
		p = items[0]
	}
	return p
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Muela del Diablo guide backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
