package model

import "time"

// Room archive status values.
const (
	RoomStatusLobby     = "lobby"
	RoomStatusLive      = "live"
	RoomStatusEnded     = "ended"
	RoomStatusCancelled = "cancelled"
)

// RoomState is the full persisted snapshot of one room. The room actor is the
// only writer; it re-saves the whole snapshot after every mutation.
type RoomState struct {
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	Started      bool       `json:"started"`
	Paused       bool       `json:"paused"`
	Finished     bool       `json:"finished"`
	CurrentIndex int        `json:"currentIndex"` // -1 before the first round
	HostSecret   string     `json:"hostSecret"`

	// Players by connection tag while connected; Disconnected by sanitized
	// name for post-start rejoins. A player moves between the two maps,
	// never lives in both.
	Players      map[string]*Player `json:"players"`
	Disconnected map[string]*Player `json:"disconnected"`

	Round     *Round    `json:"round,omitempty"`
	WakeAtMs  int64     `json:"wakeAtMs,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRoomState builds the initial lobby snapshot.
func NewRoomState(code, title, hostSecret string, questions []Question, now time.Time) *RoomState {
	return &RoomState{
		Code:         code,
		Title:        title,
		Questions:    questions,
		CurrentIndex: -1,
		HostSecret:   hostSecret,
		Players:      make(map[string]*Player),
		Disconnected: make(map[string]*Player),
		CreatedAt:    now,
	}
}

// CurrentQuestion returns the open question, or nil when out of range.
func (s *RoomState) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// PlayerByName finds a connected player by display name.
func (s *RoomState) PlayerByName(name string) (string, *Player, bool) {
	for tag, p := range s.Players {
		if p.Name == name {
			return tag, p, true
		}
	}
	return "", nil, false
}

// RoomCreated is returned to the router from room creation. QuestionOrder
// reflects the post-shuffle ordering so the router can resolve assets
// out-of-band.
type RoomCreated struct {
	Code          string   `json:"code"`
	HostSecret    string   `json:"hostSecret"`
	QuestionOrder []string `json:"questionOrder"`
}

// RoomStatus answers existence checks from the router and from the in-band
// game:exists message.
type RoomStatus struct {
	Exists      bool `json:"exists"`
	Started     bool `json:"started"`
	Finished    bool `json:"finished"`
	PlayerCount int  `json:"playerCount"`
}

// RoomRecord is the Mongo archive entry for a room.
type RoomRecord struct {
	Code          string    `json:"code" bson:"code"`
	Title         string    `json:"title" bson:"title"`
	QuestionCount int       `json:"questionCount" bson:"questionCount"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// GameResult is the Mongo archive entry for a finished game.
type GameResult struct {
	RoomCode      string             `json:"roomCode" bson:"roomCode"`
	Title         string             `json:"title" bson:"title"`
	QuestionCount int                `json:"questionCount" bson:"questionCount"`
	Standings     []LeaderboardEntry `json:"standings" bson:"standings"`
	FinishedAt    time.Time          `json:"finishedAt" bson:"finishedAt"`
}
