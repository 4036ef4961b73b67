package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ritmo-vivo/internal/currency"
	"ritmo-vivo/internal/engine/actors"
)

// HandleGetPostBySlug serves the blog's hot read path
func (s *Server) HandleGetPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		slug := r.URL.Query().Get("slug")
		if slug == "" {
			http.Error(w, "Missing slug", http.StatusBadRequest)
			return
		}

		post, err := s.Service.GetPostBySlug(r.Context(), slug)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, post)
	}
}

// HandlePostViews bumps a post's view counter
func (s *Server) HandlePostViews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			PostID string `json:"postId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.EngagementPID, &actors.IncrementViewsMsg{
			PostID: req.PostID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to record view", http.StatusInternalServerError)
			return
		}
		respondActorResult(w, result)
	}
}

// HandleDeletePost removes a post and everything hanging off it. The
// route is admin-guarded.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postID := r.URL.Query().Get("postId")
		if postID == "" {
			http.Error(w, "Missing post ID", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.EngagementPID, &actors.DeletePostMsg{
			PostID: postID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to delete post", http.StatusInternalServerError)
			return
		}
		respondActorResult(w, result)
	}
}

// HandleCurrency serves the storefront display currency: GET returns the
// selection (converting an optional amount), PUT switches it.
func (s *Server) HandleCurrency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			resp := map[string]interface{}{"currency": s.Currency.Current()}

			if raw := r.URL.Query().Get("amount"); raw != "" {
				amount, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					http.Error(w, "Invalid amount", http.StatusBadRequest)
					return
				}
				from := currency.Code(r.URL.Query().Get("from"))
				if from == "" {
					from = currency.USD
				}
				converted, code, err := s.Currency.Convert(amount, from)
				if err != nil {
					respondError(w, err)
					return
				}
				resp["amount"] = converted
				resp["currency"] = code
			}
			respondJSON(w, resp)

		case http.MethodPut:
			var req struct {
				Currency string `json:"currency"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if err := s.Currency.Set(currency.Code(req.Currency)); err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, map[string]string{"currency": req.Currency})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleAvatarUpload stores a user avatar and returns its public URL
func (s *Server) HandleAvatarUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.Blobs == nil {
			http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
			return
		}

		file, header, err := r.FormFile("avatar")
		if err != nil {
			http.Error(w, "Missing avatar file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := s.Blobs.Put(r.Context(), "avatars", file, contentType)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, map[string]string{"url": url})
	}
}

// HandleHealth reports liveness plus a counters snapshot
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requests, errCount, driftRepairs, uptime := s.Metrics.Snapshot()
		respondJSON(w, map[string]interface{}{
			"status":       "ok",
			"requests":     requests,
			"errors":       errCount,
			"driftRepairs": driftRepairs,
			"uptimeSec":    int(uptime.Seconds()),
		})
	}
}
