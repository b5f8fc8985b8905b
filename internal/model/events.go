package model

import "encoding/json"

// Message is the WebSocket envelope. Cid pairs a request with its direct
// reply; broadcasts carry no cid.
type Message struct {
	Type    string          `json:"type"`
	Cid     string          `json:"cid,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds an envelope, marshaling the payload in place.
func NewMessage(msgType, cid string, payload any) Message {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	return Message{Type: msgType, Cid: cid, Payload: raw}
}

// Inbound message types. Unrecognized types are ignored.
const (
	MsgHostStart    = "host:startGame"
	MsgHostPause    = "host:pause"
	MsgHostResume   = "host:resume"
	MsgHostNext     = "host:next"
	MsgHostKick     = "host:kickPlayer"
	MsgPlayerJoin   = "player:join"
	MsgPlayerAnswer = "player:answer"
	MsgPlayerReact  = "player:react"
	MsgGameExists   = "game:exists"
)

// Outbound event types.
const (
	MsgLobbyUpdate      = "lobby:update"
	MsgGameStarted      = "game:started"
	MsgQuestionShow     = "question:show"
	MsgPlayerJoined     = "player:joined"
	MsgPlayerLocked     = "player:locked"
	MsgRoundProgress    = "round:progress"
	MsgQuestionReveal   = "question:reveal"
	MsgHostCanAdvance   = "host:canAdvance"
	MsgGamePaused       = "game:paused"
	MsgGameResumed      = "game:resumed"
	MsgReactionReceived = "reaction:received"
	MsgPlayerKicked     = "player:kicked"
	MsgGameCancelled    = "game:cancelled"
	MsgGameOver         = "game:over"
	MsgGameStatus       = "game:status"
	MsgError            = "error"
)

// Inbound payloads.

type JoinRequest struct {
	Name        string `json:"name"`
	RejoinToken string `json:"rejoinToken,omitempty"`
}

type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type ReactRequest struct {
	Emoji string `json:"emoji"`
}

type KickRequest struct {
	Name string `json:"name"`
}

// Outbound payloads.

type ErrorPayload struct {
	Message string `json:"message"`
}

type RosterEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type LobbyUpdate struct {
	Title   string        `json:"title"`
	Players []RosterEntry `json:"players"`
	Started bool          `json:"started"`
}

type GameStarted struct {
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

type QuestionShow struct {
	Question PublicQuestion `json:"question"`
	Number   int            `json:"number"` // 1-based position in play order
	Total    int            `json:"total"`
	EndsAtMs int64          `json:"endsAtMs"`
}

type JoinedAck struct {
	Name        string `json:"name"`
	RejoinToken string `json:"rejoinToken"`
	Rejoined    bool   `json:"rejoined"`
}

type LockedAck struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type RoundProgress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type LeaderboardEntry struct {
	Name    string `json:"name" bson:"name"`
	Score   int    `json:"score" bson:"score"`
	Delta   int    `json:"delta" bson:"delta"`
	Streak  int    `json:"streak" bson:"streak"`
	Correct bool   `json:"correct" bson:"correct"`
}

type QuestionReveal struct {
	QuestionID       string              `json:"questionId"`
	CorrectOptionIDs []string            `json:"correctOptionIds"`
	Leaderboard      []LeaderboardEntry  `json:"leaderboard"`
	OptionCounts     map[string]int      `json:"optionCounts"`
	OptionPickers    map[string][]string `json:"optionPickers"`
	PercentCorrect   int                 `json:"percentCorrect"`
	FastestCorrect   string              `json:"fastestCorrect,omitempty"`
}

type GamePaused struct {
	RemainingMs int64 `json:"remainingMs"`
}

type GameResumed struct {
	EndsAtMs int64 `json:"endsAtMs"`
}

type Reaction struct {
	From  string `json:"from"`
	Emoji string `json:"emoji"`
}

type KickNotice struct {
	Name string `json:"name"`
}

type GameCancelled struct {
	Reason string `json:"reason"`
}

type GameOver struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
