package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	catalogHandler "github.com/vgrajeda/muela-guide/backend/internal/handler/catalog"
	chatHandler "github.com/vgrajeda/muela-guide/backend/internal/handler/chat"
	middlewarePkg "github.com/vgrajeda/muela-guide/backend/internal/middleware"
	personaModel "github.com/vgrajeda/muela-guide/backend/internal/model/persona"
	aiService "github.com/vgrajeda/muela-guide/backend/internal/service/ai"
	catalogService "github.com/vgrajeda/muela-guide/backend/internal/service/catalog"
	chatService "github.com/vgrajeda/muela-guide/backend/internal/service/chat"
	visionService "github.com/vgrajeda/muela-guide/backend/internal/service/vision"
)

// Deps carries the services the router wires into handlers.
type Deps struct {
	Catalog       *catalogService.Service
	Store         chatService.Store
	AI            *aiService.Service
	Vision        *visionService.Service
	Persona       personaModel.Persona
	PublicBaseURL string
	RecentTurns   int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		catalogHandler.New(deps.Catalog).RegisterRoutes(api)
		chatHandler.New(deps.Store, deps.Catalog, deps.AI, deps.Vision, deps.Persona, deps.PublicBaseURL, deps.RecentTurns).RegisterRoutes(api)
	})

	return r
}
