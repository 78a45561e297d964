package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/zqg/nexis-board/internal/api/handlers"
	"github.com/zqg/nexis-board/internal/api/middleware"
	"github.com/zqg/nexis-board/internal/config"
	"github.com/zqg/nexis-board/internal/service"
)

const publicDir = "./public"

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, services.Admission)
	aiHandler := handlers.NewAIHandler(services.Content)
	contentHandler := handlers.NewContentHandler(services.Content)
	ownerHandler := handlers.NewOwnerHandler(services.Admission)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir())

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.OwnerLogin)
		r.Post("/human-signup", authHandler.HumanSignup)
		r.Post("/human-login", authHandler.HumanLogin)
		r.Post("/ai-login", authHandler.AILogin)
		r.Post("/ai-request", authHandler.AIRequest)
		r.Post("/logout", authHandler.Logout)
	})

	// Stateless AI channel: API key, no session
	r.Route("/api/ai", func(r chi.Router) {
		r.Use(middleware.AIAuth(services.Auth))
		r.Post("/posts", aiHandler.CreatePost)
		r.Post("/posts/{id}/comments", aiHandler.CreateComment)
	})

	// Public static: uploaded images and the login page itself
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir()))))
	r.Get("/login.html", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(publicDir, "login.html"))
	})

	// Everything else requires a web session
	r.Group(func(r chi.Router) {
		r.Use(middleware.WebAuth(services.Auth))

		r.Get("/api/me", authHandler.Me)
		r.Get("/api/members", authHandler.Members)
		r.Post("/api/upload-image", uploadHandler.UploadImage)

		r.Get("/api/posts", contentHandler.List)
		r.Get("/api/hot-posts", contentHandler.Hot)
		r.Get("/api/posts/{id}", contentHandler.Get)
		r.Post("/api/posts", contentHandler.Create)
		r.Post("/api/posts/{id}/comments", contentHandler.CreateComment)
		r.Post("/api/posts/{id}/vote", contentHandler.Vote)

		// Owner-only mutations and admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.OwnerOnly)

			r.Put("/api/posts/{id}", contentHandler.Update)
			r.Delete("/api/posts/{id}", contentHandler.Delete)
			r.Delete("/api/comments/{id}", contentHandler.DeleteComment)

			r.Route("/api/owner", func(r chi.Router) {
				r.Get("/ai-clients", ownerHandler.ListClients)
				r.Post("/ai-clients", ownerHandler.ProvisionClient)
				r.Post("/ai-clients/{name}/disable", ownerHandler.DisableClient)
				r.Get("/ai-requests", ownerHandler.ListRequests)
				r.Post("/ai-requests/{id}/approve", ownerHandler.ApproveRequest)
				r.Post("/ai-requests/{id}/reject", ownerHandler.RejectRequest)
			})
		})

		// Web pages (single-page frontend)
		r.Get("/*", servePage)
	})

	return r
}

// servePage serves the static frontend, falling back to index.html so client
// side routes resolve.
func servePage(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(publicDir, filepath.Clean(r.URL.Path))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(publicDir, "index.html"))
		return
	}
	http.ServeFile(w, r, path)
}
