package api

import (
	"net/http"
	"time"

	"minichat-backend/internal/config"
	"minichat-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler      *handlers.AuthHandler
	ChatHandler      *handlers.ChatHandlers
	MessageHandler   *handlers.MessageHandlers
	ModelHandler     *handlers.ModelHandlers
	SubscribeHandler *handlers.SubscribeHandlers
	Config           *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", deps.ChatHandler.HandleListChats)
			r.Post("/", deps.ChatHandler.HandleCreateChat)
			r.Get("/{chatID}", deps.ChatHandler.HandleGetChat)
			r.Put("/{chatID}", deps.ChatHandler.HandleUpdateChat)
			r.Delete("/{chatID}", deps.ChatHandler.HandleDeleteChat)
			r.Get("/{chatID}/messages", deps.ChatHandler.HandleListMessages)
			r.Post("/{chatID}/send", deps.ChatHandler.HandleSendMessage)
			// Websocket subscription; the middleware accepts ?token= here
			// because browsers cannot set headers on websocket dials.
			r.Get("/{chatID}/subscribe", deps.SubscribeHandler.HandleSubscribe)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Put("/{messageID}", deps.MessageHandler.HandleUpdateMessage)
			r.Delete("/{messageID}", deps.MessageHandler.HandleDeleteMessage)
		})

		r.Get("/models", deps.ModelHandler.HandleListModels)
		r.Get("/provider", deps.ModelHandler.HandleProviderInfo)
	})

	return r
}
