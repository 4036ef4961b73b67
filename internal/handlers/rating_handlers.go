package handlers

import (
	"encoding/json"
	"net/http"

	"ritmo-vivo/internal/engine/actors"
)

// RateRequest represents a request to submit or resubmit a star rating
type RateRequest struct {
	PostID   string  `json:"postId"`
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Value    float64 `json:"value"`
	Comment  string  `json:"comment,omitempty"`
}

// HandleRating handles star rating submission and lookup
func (s *Server) HandleRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req RateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.EngagementPID, &actors.RateMsg{
				PostID:   req.PostID,
				UserID:   req.UserID,
				UserName: req.UserName,
				Value:    req.Value,
				Comment:  req.Comment,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to submit rating", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodGet:
			postID := r.URL.Query().Get("postId")
			userID := r.URL.Query().Get("userId")
			if postID == "" || userID == "" {
				http.Error(w, "Missing post ID or user ID", http.StatusBadRequest)
				return
			}

			rating, err := s.Service.GetRating(r.Context(), postID, userID)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, rating)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
