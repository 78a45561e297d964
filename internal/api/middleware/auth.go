package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/service"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	aiClientKey  contextKey = "aiClient"
)

// Session cookie names, one per token space.
const (
	OwnerCookie = "owner_session"
	HumanCookie = "human_session"
	AIWebCookie = "ai_web_session"
)

// WebAuth resolves the session cookies into a principal. API paths get a
// JSON 401, page paths a redirect to the login screen.
func WebAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authService.ResolveWeb(
				CookieValue(r, OwnerCookie),
				CookieValue(r, HumanCookie),
				CookieValue(r, AIWebCookie),
			)
			if !ok {
				if strings.HasPrefix(r.URL.Path, "/api/") {
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				http.Redirect(w, r, "/login.html", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerOnly gates mutation endpoints reserved for the configured owner.
// Must run after WebAuth.
func OwnerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		if !ok || principal.Role != domain.RoleOwner {
			writeError(w, http.StatusForbidden, "owner only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AIAuth authenticates the stateless API-key channel. The key comes from the
// x-ai-key header or, as a fallback, the aiKey query parameter.
func AIAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("x-ai-key")
			if key == "" {
				key = r.URL.Query().Get("aiKey")
			}

			client, err := authService.AuthenticateAPIKey(r.Context(), key)
			if err != nil {
				log.Printf("ERROR [middleware.AIAuth] key rejected: %v", err)
				writeError(w, http.StatusUnauthorized, "ai unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), aiClientKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}

func GetAIClient(ctx context.Context) (*domain.AIClient, bool) {
	client, ok := ctx.Value(aiClientKey).(*domain.AIClient)
	return client, ok
}

// CookieValue returns the named cookie's value or "".
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
