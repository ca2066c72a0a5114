package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/GhadeBhavesh/QZone/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository abstracts account storage so handlers are testable without
// a database.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, string, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// Handler serves signup, login and profile over plain net/http.
type Handler struct {
	users  UserRepository
	tokens *Manager
}

func NewHandler(users UserRepository, tokens *Manager) *Handler {
	return &Handler{users: users, tokens: tokens}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

// Signup registers a new account and returns a token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if _, _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, domain.ErrUserExists.Error())
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Printf("signup lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, string(hash))
	if err != nil {
		log.Printf("signup create: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully",
		User:    user,
		Token:   token,
	})
}

// Login verifies credentials and returns a fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, hash, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		log.Printf("login lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// Profile returns the authenticated user's account.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, claims *Claims) {
	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RequireAuth wraps a handler with Bearer-token verification.
func (m *Manager) RequireAuth(next func(http.ResponseWriter, *http.Request, *Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		claims, err := m.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid token")
			return
		}
		next(w, r, claims)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
