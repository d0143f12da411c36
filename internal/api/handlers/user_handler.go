package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sandy853/TaskForge-AI/internal/auth"
	"github.com/Sandy853/TaskForge-AI/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for signup and login.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.Service) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	_, err := h.service.CreateUser(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			http.Error(w, "Username already registered", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "User successfully registered"})
}

// Login handles user authentication and token generation. The request body
// is form-encoded, matching the OAuth2 password flow the frontend speaks.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.AuthenticateUser(username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Login failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.GenerateToken(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	})
}
