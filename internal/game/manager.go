package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quizrally/internal/model"
)

// ErrRoomNotFound is returned when a join code matches no live or persisted
// room.
var ErrRoomNotFound = errors.New("room not found")

const createRetries = 5

// Manager owns the set of live room actors and resumes persisted rooms on
// demand after a restart.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	store StateStore
	lb    LeaderboardSink
	arch  Archiver
	log   zerolog.Logger
}

func NewManager(store StateStore, lb LeaderboardSink, arch Archiver, log zerolog.Logger) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		store: store,
		lb:    lb,
		arch:  arch,
		log:   log,
	}
}

// CreateRoom normalizes the quiz, mints a fresh code and spawns the room
// actor in its lobby state.
func (m *Manager) CreateRoom(ctx context.Context, quiz *model.QuizPayload) (*model.RoomCreated, error) {
	questions, err := NormalizeQuiz(quiz)
	if err != nil {
		return nil, err
	}
	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	var code string
	for i := 0; ; i++ {
		code, err = newRoomCode()
		if err != nil {
			return nil, err
		}
		taken, err := m.codeTaken(ctx, code)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		if i == createRetries {
			return nil, errors.New("could not allocate a room code")
		}
	}

	state := model.NewRoomState(code, quiz.Title, secret, questions, time.Now())
	m.spawn(state, false)
	if err := m.store.Save(ctx, state); err != nil {
		m.log.Warn().Err(err).Str("room", code).Msg("initial snapshot save failed")
	}
	if err := m.arch.RoomCreated(ctx, &model.RoomRecord{
		Code:          code,
		Title:         quiz.Title,
		QuestionCount: len(questions),
		Status:        model.RoomStatusLobby,
		CreatedAt:     state.CreatedAt,
	}); err != nil {
		m.log.Warn().Err(err).Str("room", code).Msg("room archive failed")
	}

	order := make([]string, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	m.log.Info().Str("room", code).Int("questions", len(questions)).Msg("room created")
	return &model.RoomCreated{Code: code, HostSecret: secret, QuestionOrder: order}, nil
}

// Room returns the live actor for code, resuming it from its persisted
// snapshot if the process restarted underneath it.
func (m *Manager) Room(ctx context.Context, code string) (*Room, error) {
	m.mu.RLock()
	room, ok := m.rooms[code]
	m.mu.RUnlock()
	if ok {
		return room, nil
	}

	state, err := m.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrRoomNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[code]; ok {
		return room, nil
	}
	m.log.Info().Str("room", code).Msg("resuming room from snapshot")
	return m.spawnLocked(state, true), nil
}

// Status reports existence and progress for a room code.
func (m *Manager) Status(ctx context.Context, code string) model.RoomStatus {
	room, err := m.Room(ctx, code)
	if err != nil {
		return model.RoomStatus{}
	}
	return room.Status(ctx)
}

// Shutdown closes every live room without purging persisted state, so rooms
// survive a deploy.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()
	for _, room := range rooms {
		room.suspend()
	}
}

func (m *Manager) codeTaken(ctx context.Context, code string) (bool, error) {
	m.mu.RLock()
	_, live := m.rooms[code]
	m.mu.RUnlock()
	if live {
		return true, nil
	}
	return m.store.Exists(ctx, code)
}

func (m *Manager) spawn(state *model.RoomState, resumed bool) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spawnLocked(state, resumed)
}

func (m *Manager) spawnLocked(state *model.RoomState, resumed bool) *Room {
	room := newRoom(state, m.store, m.lb, m.arch, m.log)
	room.sched = newTimerScheduler(func() {
		room.post(envelope{kind: envWake})
	})
	room.onDestroy = func(code string) {
		m.mu.Lock()
		delete(m.rooms, code)
		m.mu.Unlock()
	}
	if resumed {
		room.resume()
	}
	m.rooms[state.Code] = room
	go room.Run()
	return room
}
