package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	goalService *service.GoalService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, goalService *service.GoalService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		goalService: goalService,
		cfg:         cfg,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "signup failed")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "signup failed")
		return
	}
	slog.Info("user signed up", "user_id", user.ID)

	if h.cfg.SeedOnSignup {
		now := time.Now().In(h.cfg.Location)
		_, err = h.goalService.SeedPlaceholders(r.Context(), user.ID, now.Year(), int(now.Month()))
		if err != nil {
			// The account works without placeholders; clients can seed later.
			slog.Warn("failed to seed placeholders on signup", "error", err, "user_id", user.ID)
		}
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "login failed")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "login failed")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeServiceError(w, r, err, "failed to issue token")
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, UserID: user.ID})
}

// DeleteAccount removes the caller and all of their goals.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
