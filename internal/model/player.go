package model

// Player is a participant in a room, keyed by connection tag while connected
// and preserved under its name after a post-start disconnect.
type Player struct {
	Name             string `json:"name"`
	Score            int    `json:"score"`
	AnsweredAtMs     *int64 `json:"answeredAtMs,omitempty"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
	LastCorrect      bool   `json:"lastCorrect"`
	Delta            int    `json:"delta"`
	Streak           int    `json:"streak"`
	RejoinToken      string `json:"rejoinToken"`
}

// Answered reports whether the player has locked an answer this round.
func (p *Player) Answered() bool {
	return p.AnsweredAtMs != nil
}

// ResetRound clears the per-round fields. Score and streak carry over.
func (p *Player) ResetRound() {
	p.AnsweredAtMs = nil
	p.SelectedOptionID = ""
	p.LastCorrect = false
	p.Delta = 0
}
