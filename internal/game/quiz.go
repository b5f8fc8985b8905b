package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"quizrally/internal/model"
)

const (
	minTimeLimitSec     = 5
	maxTimeLimitSec     = 90
	defaultTimeLimitSec = 20
)

var (
	ErrNoQuestions = errors.New("quiz has no questions")
	ErrBadQuestion = errors.New("invalid question")
)

// NormalizeQuiz validates an uploaded payload and turns it into the immutable
// question list for a room: time limits clamped, missing question ids filled
// in, and question/option order shuffled once if the payload asks for it.
// Shuffling here is deliberately non-cryptographic.
func NormalizeQuiz(p *model.QuizPayload) ([]model.Question, error) {
	if len(p.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]model.Question, 0, len(p.Questions))
	for i, src := range p.Questions {
		if strings.TrimSpace(src.Text) == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrBadQuestion, i)
		}
		if len(src.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d needs at least two options", ErrBadQuestion, i)
		}
		if len(src.CorrectOptionIDs) == 0 {
			return nil, fmt.Errorf("%w: question %d has no correct option", ErrBadQuestion, i)
		}

		opts := make([]model.Option, len(src.Options))
		optionIDs := make(map[string]struct{}, len(src.Options))
		for j, o := range src.Options {
			if o.ID == "" {
				return nil, fmt.Errorf("%w: question %d option %d has no id", ErrBadQuestion, i, j)
			}
			if _, dup := optionIDs[o.ID]; dup {
				return nil, fmt.Errorf("%w: question %d has duplicate option id %q", ErrBadQuestion, i, o.ID)
			}
			optionIDs[o.ID] = struct{}{}
			opts[j] = o
		}
		for _, id := range src.CorrectOptionIDs {
			if _, ok := optionIDs[id]; !ok {
				return nil, fmt.Errorf("%w: question %d marks unknown option %q correct", ErrBadQuestion, i, id)
			}
		}

		if p.ShuffleOptions {
			rand.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
		}

		id := src.ID
		if id == "" {
			id = uuid.NewString()
		}

		questions = append(questions, model.Question{
			ID:               id,
			Text:             src.Text,
			ImageURL:         src.ImageURL,
			TimeLimitSec:     clampTimeLimit(src.TimeLimitSec),
			Options:          opts,
			CorrectOptionIDs: append([]string(nil), src.CorrectOptionIDs...),
			Index:            i,
		})
	}

	if p.ShuffleQuestions {
		rand.Shuffle(len(questions), func(a, b int) {
			questions[a], questions[b] = questions[b], questions[a]
		})
	}
	return questions, nil
}

func clampTimeLimit(sec int) int {
	if sec == 0 {
		return defaultTimeLimitSec
	}
	if sec < minTimeLimitSec {
		return minTimeLimitSec
	}
	if sec > maxTimeLimitSec {
		return maxTimeLimitSec
	}
	return sec
}
