package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizrally/internal/model"
)

func validPayload() *model.QuizPayload {
	return &model.QuizPayload{
		Title: "Capitals",
		Questions: []model.QuizQuestion{
			{
				Text: "Capital of France?",
				Options: []model.Option{
					{ID: "a", Label: "Paris"},
					{ID: "b", Label: "Lyon"},
				},
				CorrectOptionIDs: []string{"a"},
			},
			{
				ID:           "q-fixed",
				Text:         "Capital of Japan?",
				TimeLimitSec: 45,
				Options: []model.Option{
					{ID: "c", Label: "Tokyo"},
					{ID: "d", Label: "Osaka"},
					{ID: "e", Label: "Kyoto"},
				},
				CorrectOptionIDs: []string{"c"},
			},
		},
	}
}

func TestNormalizeQuiz(t *testing.T) {
	questions, err := NormalizeQuiz(validPayload())
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.NotEmpty(t, questions[0].ID, "missing ids are generated")
	assert.Equal(t, "q-fixed", questions[1].ID, "provided ids are kept")
	assert.Equal(t, defaultTimeLimitSec, questions[0].TimeLimitSec)
	assert.Equal(t, 45, questions[1].TimeLimitSec)
	assert.Equal(t, 0, questions[0].Index)
	assert.Equal(t, 1, questions[1].Index)
}

func TestNormalizeQuizClampsTimeLimits(t *testing.T) {
	p := validPayload()
	p.Questions[0].TimeLimitSec = 1
	p.Questions[1].TimeLimitSec = 600

	questions, err := NormalizeQuiz(p)
	require.NoError(t, err)
	assert.Equal(t, minTimeLimitSec, questions[0].TimeLimitSec)
	assert.Equal(t, maxTimeLimitSec, questions[1].TimeLimitSec)
}

func TestNormalizeQuizRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.QuizPayload)
		want   error
	}{
		{
			name:   "no questions",
			mutate: func(p *model.QuizPayload) { p.Questions = nil },
			want:   ErrNoQuestions,
		},
		{
			name:   "empty text",
			mutate: func(p *model.QuizPayload) { p.Questions[0].Text = "   " },
			want:   ErrBadQuestion,
		},
		{
			name:   "single option",
			mutate: func(p *model.QuizPayload) { p.Questions[0].Options = p.Questions[0].Options[:1] },
			want:   ErrBadQuestion,
		},
		{
			name:   "no correct option",
			mutate: func(p *model.QuizPayload) { p.Questions[0].CorrectOptionIDs = nil },
			want:   ErrBadQuestion,
		},
		{
			name:   "correct id not an option",
			mutate: func(p *model.QuizPayload) { p.Questions[0].CorrectOptionIDs = []string{"zz"} },
			want:   ErrBadQuestion,
		},
		{
			name: "duplicate option id",
			mutate: func(p *model.QuizPayload) {
				p.Questions[0].Options = []model.Option{{ID: "a", Label: "x"}, {ID: "a", Label: "y"}}
			},
			want: ErrBadQuestion,
		},
		{
			name: "option without id",
			mutate: func(p *model.QuizPayload) {
				p.Questions[0].Options[1].ID = ""
			},
			want: ErrBadQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			_, err := NormalizeQuiz(p)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNormalizeQuizShuffleKeepsContent(t *testing.T) {
	p := validPayload()
	p.ShuffleQuestions = true
	p.ShuffleOptions = true

	questions, err := NormalizeQuiz(p)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	// Whatever the order, indexes still point at the upload positions and
	// every correct id survives the option shuffle.
	seen := map[int]bool{}
	for _, q := range questions {
		seen[q.Index] = true
		for _, id := range q.CorrectOptionIDs {
			assert.True(t, q.HasOption(id))
		}
	}
	assert.True(t, seen[0] && seen[1])
}
