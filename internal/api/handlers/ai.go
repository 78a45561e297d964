package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zqg/nexis-board/internal/api/middleware"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/service"
)

// AIHandler serves the stateless API-key channel: clients post content
// programmatically and are always attributed as AI:<name>.
type AIHandler struct {
	contentService *service.ContentService
}

func NewAIHandler(contentService *service.ContentService) *AIHandler {
	return &AIHandler{contentService: contentService}
}

func (h *AIHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetAIClient(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "ai unauthorized")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "title/body required")
		return
	}

	post, err := h.contentService.CreatePost(r.Context(), aiPrincipal(client), service.PostInput{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": post.ID})
}

func (h *AIHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetAIClient(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "ai unauthorized")
		return
	}

	id, okID := idParam(r)
	if !okID {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body required")
		return
	}

	comment, err := h.contentService.CreateComment(r.Context(), aiPrincipal(client), id, service.CommentInput{
		Body: req.Body,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": comment.ID})
}

func aiPrincipal(client *domain.AIClient) domain.Principal {
	return domain.Principal{Role: domain.RoleAI, Name: domain.AIDisplayName(client.Name)}
}
