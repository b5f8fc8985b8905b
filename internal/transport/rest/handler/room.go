package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"quizrally/internal/cache"
	"quizrally/internal/game"
	"quizrally/internal/model"
	"quizrally/internal/repository"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	rooms       *game.Manager
	leaderboard cache.LeaderboardCache
	results     repository.ResultRepo
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(rooms *game.Manager, leaderboard cache.LeaderboardCache, results repository.ResultRepo) *RoomHandler {
	return &RoomHandler{
		rooms:       rooms,
		leaderboard: leaderboard,
		results:     results,
	}
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var quiz model.QuizPayload
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), &quiz)
	if err != nil {
		if errors.Is(err, game.ErrNoQuestions) || errors.Is(err, game.ErrBadQuestion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/rooms/{code}
//
// Public: clients poll it before opening a socket. It leaks nothing beyond
// whether the code is worth joining.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	status := h.rooms.Status(r.Context(), code)
	if !status.Exists {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	top := 20
	if s := r.URL.Query().Get("top"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			top = n
		}
	}

	rows, err := h.leaderboard.GetTop(r.Context(), code, top)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": rows})
}

// Result handles GET /v1/rooms/{code}/result
func (h *RoomHandler) Result(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	result, err := h.results.GetByRoomCode(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "no result for this room")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
