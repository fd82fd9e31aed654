package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rcandido/listou/internal/auth"
	"github.com/rcandido/listou/internal/store"
)

type AuthHandler struct {
	users  *store.UserStore
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthHandler(us *store.UserStore, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Nome == "" || req.Email == "" || req.Senha == "" {
		writeError(w, http.StatusBadRequest, "nome, email and senha are required")
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash senha", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := h.users.Create(req.Nome, req.Email, string(hash))
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Nome)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Senha == "" {
		writeError(w, http.StatusBadRequest, "email and senha are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	// Same response for unknown email and wrong senha to prevent enumeration
	if user == nil {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Nome)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
