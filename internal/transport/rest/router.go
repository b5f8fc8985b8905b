package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizrally/internal/cache"
	"quizrally/internal/game"
	"quizrally/internal/repository"
	"quizrally/internal/service"
	"quizrally/internal/transport/rest/handler"
	"quizrally/internal/transport/rest/middleware"
	"quizrally/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService *service.AuthService
	Rooms       *game.Manager
	Leaderboard cache.LeaderboardCache
	Results     repository.ResultRepo
	WSHandler   *ws.Handler
	CORSOrigins string
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.Rooms, c.Leaderboard, c.Results)
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.CORSOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/leaderboard", roomHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/result", roomHandler.Result).Methods("GET", "OPTIONS")

	// WebSocket routes; the host socket authenticates via its room secret.
	v1.HandleFunc("/ws/rooms/{code}/host", c.WSHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/rooms/{code}/player", c.WSHandler.PlayerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)
	hostRoutes.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(origins string) mux.MiddlewareFunc {
	if origins == "" {
		origins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
