package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zqg/nexis-board/internal/api/middleware"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

type PostRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author"`
}

type CommentRequest struct {
	Body     string `json:"body"`
	ParentID *int64 `json:"parent_id"`
	Author   string `json:"author"`
}

type VoteRequest struct {
	Vote int `json:"vote"`
}

// postDetailResponse folds the vote tallies into the post object the way the
// web client expects.
type postDetailResponse struct {
	*domain.Post
	UpCount   int64 `json:"up_count"`
	DownCount int64 `json:"down_count"`
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentService.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *ContentHandler) Hot(w http.ResponseWriter, r *http.Request) {
	posts, err := h.contentService.HotPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	detail, err := h.contentService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"post": postDetailResponse{
			Post:      detail.Post,
			UpCount:   detail.Counts.UpCount,
			DownCount: detail.Counts.DownCount,
		},
		"comments": detail.Comments,
	})
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "title/body required")
		return
	}

	post, err := h.contentService.CreatePost(r.Context(), principal, service.PostInput{
		Title:          req.Title,
		Body:           req.Body,
		ImageURL:       req.ImageURL,
		AuthorOverride: req.Author,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": post.ID})
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
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

	err := h.contentService.UpdatePost(r.Context(), id, service.PostInput{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	if err := h.contentService.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ContentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	id, ok := idParam(r)
	if !ok {
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

	comment, err := h.contentService.CreateComment(r.Context(), principal, id, service.CommentInput{
		Body:           req.Body,
		ParentID:       req.ParentID,
		AuthorOverride: req.Author,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, domain.ErrInvalidParent):
			writeError(w, http.StatusBadRequest, "invalid parent comment")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": comment.ID})
}

func (h *ContentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}

	if err := h.contentService.DeleteComment(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ContentHandler) Vote(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "vote must be 1 or -1")
		return
	}

	counts, err := h.contentService.Vote(r.Context(), principal, id, req.Vote)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidVote):
			writeError(w, http.StatusBadRequest, "vote must be 1 or -1")
		case errors.Is(err, domain.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"up_count":   counts.UpCount,
		"down_count": counts.DownCount,
	})
}
