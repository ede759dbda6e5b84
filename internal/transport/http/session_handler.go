package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"challenge-session-service/internal/app"
	"challenge-session-service/internal/domain"
)

// SessionHandler exposes the REST side of the command surface: session
// creation and final-snapshot retrieval (the fallback for clients that
// observe SessionNotFound/SessionClosed over the socket).
type SessionHandler struct {
	service *app.ChallengeService
}

func NewSessionHandler(service *app.ChallengeService) *SessionHandler {
	return &SessionHandler{service: service}
}

type createSessionRequest struct {
	Title            string   `json:"title"`
	CreatorID        string   `json:"creatorId"`
	Difficulty       string   `json:"difficulty"`
	IsPrivate        bool     `json:"isPrivate"`
	AccessCode       string   `json:"accessCode,omitempty"`
	ProblemIDs       []string `json:"problemIds"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CreatorID == "" {
		http.Error(w, "missing creatorId", http.StatusBadRequest)
		return
	}

	id, err := h.service.Create(r.Context(), app.CreateParams{
		Title:            req.Title,
		CreatorID:        req.CreatorID,
		Difficulty:       req.Difficulty,
		IsPrivate:        req.IsPrivate,
		AccessCode:       req.AccessCode,
		ProblemIDs:       req.ProblemIDs,
		TimeLimitSeconds: req.TimeLimitSeconds,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrProblemNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createSessionResponse{ID: id})
}

func (h *SessionHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	snap, err := h.service.Snapshot(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
