package model

// QuizPayload is the content the router delivers when creating a room.
type QuizPayload struct {
	Title            string         `json:"title"`
	Questions        []QuizQuestion `json:"questions"`
	ShuffleQuestions bool           `json:"shuffleQuestions"`
	ShuffleOptions   bool           `json:"shuffleOptions"`
}

// QuizQuestion is a question as uploaded, before normalization.
type QuizQuestion struct {
	ID               string   `json:"id,omitempty"`
	Text             string   `json:"text"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	TimeLimitSec     int      `json:"timeLimitSeconds"`
	Options          []Option `json:"options"`
	CorrectOptionIDs []string `json:"correctOptionIds"`
}

// Question is immutable once the room is created. Order may be shuffled once
// at creation and is never reshuffled mid-game.
type Question struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	TimeLimitSec     int      `json:"timeLimitSeconds"`
	Options          []Option `json:"options"`
	CorrectOptionIDs []string `json:"correctOptionIds"`
	Index            int      `json:"index"` // position in the uploaded payload, pre-shuffle
}

// Option is a single answer choice.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// HasOption reports whether optionID belongs to this question's option set.
func (q *Question) HasOption(optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// IsCorrect reports whether optionID is one of the correct options.
func (q *Question) IsCorrect(optionID string) bool {
	for _, id := range q.CorrectOptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// Public returns the question as shown to players: correct option ids are
// stripped. Never send a Question to a player directly.
func (q *Question) Public() PublicQuestion {
	opts := make([]Option, len(q.Options))
	copy(opts, q.Options)
	return PublicQuestion{
		ID:           q.ID,
		Text:         q.Text,
		ImageURL:     q.ImageURL,
		TimeLimitSec: q.TimeLimitSec,
		Options:      opts,
	}
}

// PublicQuestion is the player-safe projection of a Question.
type PublicQuestion struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	TimeLimitSec int      `json:"timeLimitSeconds"`
	Options      []Option `json:"options"`
}
