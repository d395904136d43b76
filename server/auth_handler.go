package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"MeloFM/core/auth"
	"MeloFM/logger"
	"MeloFM/model"

	"github.com/google/uuid"
)

type registerRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// RegisterHandler creates a new account.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeParameterError, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 6 || strings.TrimSpace(req.Nickname) == "" {
		writeError(w, http.StatusBadRequest, CodeParameterError, "invalid registration fields")
		return
	}

	existing, err := h.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		logger.Error("查询用户失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to check user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, CodeUserExists, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to hash password")
		return
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Nickname:     strings.TrimSpace(req.Nickname),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.userRepo.CreateUser(user); err != nil {
		logger.Error("创建用户失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to create user")
		return
	}

	writeSuccess(w, model.UserSummary{ID: user.ID, Nickname: user.Nickname, Avatar: user.Avatar})
}

// LoginHandler authenticates a user and issues a JWT.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeParameterError, "invalid request body")
		return
	}

	user, err := h.userRepo.GetUserByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		logger.Error("查询用户失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load user")
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, CodeWrongCredentials, "wrong email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, h.cfg.JWTSecret)
	if err != nil {
		logger.Error("签发令牌失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to issue token")
		return
	}

	writeSuccess(w, loginResponse{
		Token: token,
		User:  model.UserSummary{ID: user.ID, Nickname: user.Nickname, Avatar: user.Avatar},
	})
}
