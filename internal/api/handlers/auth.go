package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zqg/nexis-board/internal/api/middleware"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/service"
	"github.com/zqg/nexis-board/internal/session"
)

type AuthHandler struct {
	authService      *service.AuthService
	admissionService *service.AdmissionService
}

func NewAuthHandler(authService *service.AuthService, admissionService *service.AdmissionService) *AuthHandler {
	return &AuthHandler{authService: authService, admissionService: admissionService}
}

type OwnerLoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type HumanCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AILoginRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type AIRequestSubmission struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Note     string `json:"note"`
	QuizText string `json:"quizText"`
	QuizJSON string `json:"quizJson"`
}

func (h *AuthHandler) OwnerLogin(w http.ResponseWriter, r *http.Request) {
	var req OwnerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.LoginOwner(req.ID, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	setSessionCookie(w, middleware.OwnerCookie, token)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) HumanSignup(w http.ResponseWriter, r *http.Request) {
	var req HumanCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.SignupHuman(r.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "invalid username")
		case errors.Is(err, domain.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, "password too short")
		case errors.Is(err, domain.ErrUsernameExists):
			writeError(w, http.StatusConflict, "username already exists")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) HumanLogin(w http.ResponseWriter, r *http.Request) {
	var req HumanCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.LoginHuman(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	setSessionCookie(w, middleware.HumanCookie, token)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) AILogin(w http.ResponseWriter, r *http.Request) {
	var req AILoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid ai credentials")
		return
	}

	token, err := h.authService.LoginAI(r.Context(), req.Name, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApprovalRequired):
			writeErrorMessage(w, http.StatusForbidden, "approval_required",
				"Access blocked until owner approval. You can send an approval request now.")
		case errors.Is(err, domain.ErrRequestRejected):
			writeErrorMessage(w, http.StatusForbidden, "rejected",
				"This request was rejected. Update credentials and request again.")
		default:
			writeErrorMessage(w, http.StatusUnauthorized, "invalid ai credentials", "Unknown AI name/code.")
		}
		return
	}

	setSessionCookie(w, middleware.AIWebCookie, token)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "approved": true})
}

func (h *AuthHandler) AIRequest(w http.ResponseWriter, r *http.Request) {
	var req AIRequestSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "name and code required")
		return
	}

	err := h.admissionService.Submit(r.Context(), service.SubmitInput{
		Name:     req.Name,
		Code:     req.Code,
		Note:     req.Note,
		QuizText: req.QuizText,
		QuizJSON: req.QuizJSON,
	})
	if err != nil {
		if qe, ok := domain.AsQuizError(err); ok {
			writeErrorMessage(w, http.StatusBadRequest, "quiz_failed", qe.Message)
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidNameFormat):
			writeError(w, http.StatusBadRequest, "invalid name format")
		case errors.Is(err, domain.ErrCodeTooShort):
			writeError(w, http.StatusBadRequest, "code too short")
		case errors.Is(err, domain.ErrNameAlreadyApproved):
			writeError(w, http.StatusConflict, "name already approved, please login")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Approval request submitted. Wait for owner approval.",
	})
}

// Logout clears all three session cookies regardless of which one the
// caller actually holds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(
		middleware.CookieValue(r, middleware.OwnerCookie),
		middleware.CookieValue(r, middleware.HumanCookie),
		middleware.CookieValue(r, middleware.AIWebCookie),
	)

	clearSessionCookie(w, middleware.OwnerCookie)
	clearSessionCookie(w, middleware.HumanCookie)
	clearSessionCookie(w, middleware.AIWebCookie)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, principal)
}

func (h *AuthHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.authService.Members(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func setSessionCookie(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
