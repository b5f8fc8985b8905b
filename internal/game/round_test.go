package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quizrally/internal/model"
)

func TestScoreDelta(t *testing.T) {
	const limitMs = 20000

	tests := []struct {
		name        string
		remainingMs int64
		streak      int
		want        int
	}{
		{"instant answer full base", 20000, 1, 1000},
		{"last moment minimum base", 0, 1, 500},
		{"halfway", 10000, 1, 750},
		{"streak two multiplies", 20000, 2, 1100},
		{"streak three", 20000, 3, 1200},
		{"streak capped at 1.5x", 20000, 10, 1500},
		{"streak cap on slow answer", 0, 10, 750},
		{"late answer clamps to minimum", -5000, 1, 500},
		{"quarter remaining with streak", 5000, 2, 687}, // floor(625 * 1.1)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreDelta(tt.remainingMs, limitMs, tt.streak))
		})
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newRoomFixture(t, twoQuestions())
	at := func(ms int64) *int64 { return &ms }

	f.room.state.Players = map[string]*model.Player{
		"p_1": {Name: "Cara", Score: 900, AnsweredAtMs: at(5000)},
		"p_2": {Name: "Alma", Score: 1200, AnsweredAtMs: at(9000)},
		"p_3": {Name: "Brit", Score: 900, AnsweredAtMs: at(3000)},
		"p_4": {Name: "Dane", Score: 900},
		"p_5": {Name: "Ezra", Score: 900},
	}

	got := f.room.leaderboard()
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Name
	}
	// Top score first; ties break by answer time, unanswered last, then name.
	assert.Equal(t, []string{"Alma", "Brit", "Cara", "Dane", "Ezra"}, names)
}
