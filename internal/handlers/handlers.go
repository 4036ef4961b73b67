package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ritmo-vivo/internal/currency"
	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/engine"
	"ritmo-vivo/internal/models"
	"ritmo-vivo/internal/storage"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Service        *engagement.Service
	Store          database.Store
	Currency       *currency.Board
	Blobs          storage.BlobStore
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components.
// Blobs may be nil when no bucket is configured.
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	service *engagement.Service,
	store database.Store,
	board *currency.Board,
	blobs storage.BlobStore,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Service:        service,
		Store:          store,
		Currency:       board,
		Blobs:          blobs,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps an application error onto an HTTP status.
func respondError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// respondActorResult unwraps an actor reply: errors travel back as the
// reply payload, everything else is encoded as JSON.
func respondActorResult(w http.ResponseWriter, result interface{}) {
	if err, ok := result.(error); ok {
		respondError(w, err)
		return
	}
	respondJSON(w, result)
}

// parseTargetKind reads the target kind from a query value; anything
// other than "comment" is treated as a post.
func parseTargetKind(raw string) models.TargetKind {
	if raw == string(models.TargetComment) {
		return models.TargetComment
	}
	return models.TargetPost
}
