package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizrally/config"
	"quizrally/internal/cache"
	"quizrally/internal/game"
	"quizrally/internal/repository"
	"quizrally/internal/service"
	"quizrally/internal/transport/rest"
	"quizrally/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Str("uri", cfg.MongoURI).Msg("connected to mongo")

	db := mongoClient.Database(cfg.MongoDB)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")

	// Storage
	roomRepo := repository.NewRoomRepo(db)
	resultRepo := repository.NewResultRepo(db)
	archive := repository.NewArchive(roomRepo, resultRepo)
	stateCache := cache.NewStateCache(rdb, cfg.RoomTTL)
	leaderboard := cache.NewLeaderboardCache(rdb, cfg.RoomTTL)

	// Game and services
	rooms := game.NewManager(stateCache, leaderboard, archive, log)
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		Rooms:       rooms,
		Leaderboard: leaderboard,
		Results:     resultRepo,
		WSHandler:   ws.NewHandler(rooms, log),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Rooms keep their Redis snapshots and resume from them after restart.
	rooms.Shutdown()
	log.Info().Msg("server exited")
}
