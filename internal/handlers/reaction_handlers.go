package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/engine/actors"
)

// SetReactionRequest represents a request to set or replace a reaction
type SetReactionRequest struct {
	TargetKind string `json:"targetKind"` // "post" or "comment"
	TargetID   string `json:"targetId"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserImage  string `json:"userImage,omitempty"`
	Type       string `json:"type"`
}

// HandleReaction handles the per-user reaction record operations
func (s *Server) HandleReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req SetReactionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.EngagementPID, &actors.SetReactionMsg{
				Kind:      parseTargetKind(req.TargetKind),
				TargetID:  req.TargetID,
				UserID:    req.UserID,
				UserName:  req.UserName,
				UserImage: req.UserImage,
				Type:      req.Type,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to set reaction", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodDelete:
			kind := parseTargetKind(r.URL.Query().Get("targetKind"))
			targetID := r.URL.Query().Get("targetId")
			userID := r.URL.Query().Get("userId")
			if targetID == "" || userID == "" {
				http.Error(w, "Missing target ID or user ID", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.EngagementPID, &actors.ClearReactionMsg{
				Kind:     kind,
				TargetID: targetID,
				UserID:   userID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to clear reaction", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodGet:
			// The caller's own reaction, if any. A null body means none.
			kind := parseTargetKind(r.URL.Query().Get("targetKind"))
			targetID := r.URL.Query().Get("targetId")
			userID := r.URL.Query().Get("userId")
			if targetID == "" || userID == "" {
				http.Error(w, "Missing target ID or user ID", http.StatusBadRequest)
				return
			}

			rec, err := s.Service.GetReaction(r.Context(), kind, targetID, userID)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, rec)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleReactionSummary returns the reconciled per-type counts for a target
func (s *Server) HandleReactionSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		kind := parseTargetKind(r.URL.Query().Get("targetKind"))
		targetID := r.URL.Query().Get("targetId")
		if targetID == "" {
			http.Error(w, "Missing target ID", http.StatusBadRequest)
			return
		}

		summary, err := s.Service.GetSummary(r.Context(), kind, targetID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, summary)
	}
}

// HandleReactors lists who reacted, newest first, with cursor pagination
func (s *Server) HandleReactors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		kind := parseTargetKind(r.URL.Query().Get("targetKind"))
		targetID := r.URL.Query().Get("targetId")
		if targetID == "" {
			http.Error(w, "Missing target ID", http.StatusBadRequest)
			return
		}

		pageSize := engagement.DefaultReactorPageSize
		if raw := r.URL.Query().Get("pageSize"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				pageSize = n
			}
		}

		page, err := s.Service.ListReactors(r.Context(), kind, targetID,
			r.URL.Query().Get("type"), pageSize, r.URL.Query().Get("cursor"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, page)
	}
}
