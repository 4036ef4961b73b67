package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ritmo-vivo/internal/cache"
	"ritmo-vivo/internal/config"
	"ritmo-vivo/internal/currency"
	"ritmo-vivo/internal/database"
	"ritmo-vivo/internal/engagement"
	"ritmo-vivo/internal/engine"
	"ritmo-vivo/internal/handlers"
	"ritmo-vivo/internal/middleware"
	"ritmo-vivo/internal/storage"
	"ritmo-vivo/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongodb.Close(context.Background()); err != nil {
			slog.Error("Failed to close MongoDB connection", "error", err)
		}
	}()

	if err := mongodb.EnsureIndexes(context.Background()); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	metrics := utils.NewMetricsCollector()

	reactionCache := cache.New(engagement.ReactionCacheTTL, time.Now)
	listCache := cache.New(engagement.ListCacheTTL, time.Now)
	slugCache := cache.New(engagement.SlugCacheTTL, time.Now)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			reactionCache.Sweep()
			listCache.Sweep()
			slugCache.Sweep()
		}
	}()

	service := engagement.NewService(mongodb, metrics, reactionCache, listCache, slugCache, time.Now)

	board, err := currency.NewBoard(currency.USD, nil)
	if err != nil {
		slog.Error("Failed to initialize currency board", "error", err)
		os.Exit(1)
	}

	var blobs storage.BlobStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(),
			cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.AccessKey, cfg.Storage.SecretKey)
		if err != nil {
			slog.Error("Failed to initialize S3 store", "error", err)
			os.Exit(1)
		}
		blobs = s3Store
	} else {
		slog.Warn("S3_BUCKET not set, avatar uploads disabled")
	}

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, service, metrics)

	server := handlers.NewServer(system, eng, metrics, service, mongodb, board, blobs)

	auth := middleware.NewAuthenticator(cfg.JWTSecret)
	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(h, corsConfig)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(auth.RequireAdmin(h), corsConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", public(server.HandleHealth()))
	mux.HandleFunc("/reaction", public(server.HandleReaction()))
	mux.HandleFunc("/reaction/summary", public(server.HandleReactionSummary()))
	mux.HandleFunc("/reaction/reactors", public(server.HandleReactors()))
	mux.HandleFunc("/rating", public(server.HandleRating()))
	mux.HandleFunc("/comment", public(server.HandleComment()))
	mux.HandleFunc("/comment/like", public(server.HandleCommentLike()))
	mux.HandleFunc("/comment/pin", admin(server.HandleCommentPin()))
	mux.HandleFunc("/post", admin(server.HandleDeletePost()))
	mux.HandleFunc("/post/by-slug", public(server.HandleGetPostBySlug()))
	mux.HandleFunc("/post/views", public(server.HandlePostViews()))
	mux.HandleFunc("/post/comments", public(server.HandleGetPostComments()))
	mux.HandleFunc("/currency", public(server.HandleCurrency()))
	mux.HandleFunc("/avatar", public(auth.ApplyJWT(server.HandleAvatarUpload())))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("Starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
