package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/GhadeBhavesh/QZone/internal/auth"
	"github.com/GhadeBhavesh/QZone/internal/domain"
)

const leaderboardLimit = 10

// ScoreRepository abstracts persisted score storage.
type ScoreRepository interface {
	Save(ctx context.Context, userID int64, score, questionsAttempted int) (domain.Score, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Score, error)
	Best(ctx context.Context, userID int64) (int, error)
	Top(ctx context.Context, limit int) ([]domain.BestScore, error)
}

// ScoreHandler serves the score-history REST API. Clients persist their own
// final score after game-ended; the coordinator never writes scores itself.
type ScoreHandler struct {
	scores ScoreRepository
}

func NewScoreHandler(scores ScoreRepository) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

type saveScoreRequest struct {
	Score              *int `json:"score"`
	QuestionsAttempted *int `json:"questionsAttempted"`
}

// Save persists one game result for the authenticated user.
func (h *ScoreHandler) Save(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req saveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil || req.QuestionsAttempted == nil {
		writeHTTPError(w, http.StatusBadRequest, "Score and questions attempted are required")
		return
	}
	saved, err := h.scores.Save(r.Context(), claims.UserID, *req.Score, *req.QuestionsAttempted)
	if err != nil {
		log.Printf("save score: %v", err)
		writeHTTPError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeHTTPJSON(w, http.StatusCreated, map[string]any{
		"message": "Score saved successfully",
		"score":   saved,
	})
}

// List returns the user's score history, newest first.
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	scores, err := h.scores.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("list scores: %v", err)
		writeHTTPError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if scores == nil {
		scores = []domain.Score{}
	}
	writeHTTPJSON(w, http.StatusOK, scores)
}

// Best returns the user's highest persisted score.
func (h *ScoreHandler) Best(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	best, err := h.scores.Best(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("best score: %v", err)
		writeHTTPError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeHTTPJSON(w, http.StatusOK, map[string]int{"bestScore": best})
}

// Leaderboard returns each user's best score, descending.
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request, _ *auth.Claims) {
	top, err := h.scores.Top(r.Context(), leaderboardLimit)
	if err != nil {
		log.Printf("leaderboard: %v", err)
		writeHTTPError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if top == nil {
		top = []domain.BestScore{}
	}
	writeHTTPJSON(w, http.StatusOK, top)
}

func writeHTTPJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeHTTPError(w http.ResponseWriter, status int, message string) {
	writeHTTPJSON(w, status, map[string]string{"error": message})
}
