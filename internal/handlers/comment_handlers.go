package handlers

import (
	"encoding/json"
	"net/http"

	"ritmo-vivo/internal/engine/actors"
	"ritmo-vivo/internal/middleware"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	PostID      string `json:"postId"`
	ParentID    string `json:"parentId,omitempty"` // Optional, for replies
	AuthorID    string `json:"authorId"`
	AuthorName  string `json:"authorName"`
	AuthorImage string `json:"authorImage,omitempty"`
	Content     string `json:"content"`
}

// EditCommentRequest represents a request to edit an existing comment
type EditCommentRequest struct {
	CommentID string `json:"commentId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
}

// HandleComment handles comment-related operations
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			var parentID *string
			if req.ParentID != "" {
				parentID = &req.ParentID
			}

			future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.CreateCommentMsg{
				PostID:      req.PostID,
				ParentID:    parentID,
				AuthorID:    req.AuthorID,
				AuthorName:  req.AuthorName,
				AuthorImage: req.AuthorImage,
				Content:     req.Content,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to create comment", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodPut:
			var req EditCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.EditCommentMsg{
				CommentID: req.CommentID,
				AuthorID:  req.AuthorID,
				Content:   req.Content,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to edit comment", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodDelete:
			commentID := r.URL.Query().Get("commentId")
			requesterID := r.URL.Query().Get("requesterId")
			if commentID == "" || requesterID == "" {
				http.Error(w, "Missing comment ID or requester ID", http.StatusBadRequest)
				return
			}

			isAdmin := false
			if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
				isAdmin = claims.IsAdmin
			}

			future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.DeleteCommentMsg{
				CommentID:   commentID,
				RequesterID: requesterID,
				IsAdmin:     isAdmin,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleGetPostComments retrieves all comments for a given post, pinned first
func (s *Server) HandleGetPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postID := r.URL.Query().Get("postId")
		if postID == "" {
			http.Error(w, "Missing post ID", http.StatusBadRequest)
			return
		}

		comments, err := s.Service.ListPostComments(r.Context(), postID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, comments)
	}
}

// HandleCommentLike toggles the caller's like on a comment
func (s *Server) HandleCommentLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			CommentID string `json:"commentId"`
			UserID    string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.ToggleCommentLikeMsg{
			CommentID: req.CommentID,
			UserID:    req.UserID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, "Failed to process like", http.StatusInternalServerError)
			return
		}
		respondActorResult(w, result)
	}
}

// HandleCommentPin pins (POST) or unpins (DELETE) a comment. The route is
// admin-guarded; the pinning admin comes from the token claims.
func (s *Server) HandleCommentPin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req struct {
				CommentID string `json:"commentId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			claims, ok := middleware.GetClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "Missing credentials", http.StatusUnauthorized)
				return
			}

			future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.PinCommentMsg{
				CommentID: req.CommentID,
				AdminID:   claims.UserID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to pin comment", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		case http.MethodDelete:
			commentID := r.URL.Query().Get("commentId")
			if commentID == "" {
				http.Error(w, "Missing comment ID", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.CommentPID, &actors.UnpinCommentMsg{
				CommentID: commentID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, "Failed to unpin comment", http.StatusInternalServerError)
				return
			}
			respondActorResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
