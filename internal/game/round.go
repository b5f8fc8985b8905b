package game

import (
	"math"
	"sort"
	"time"

	"quizrally/internal/model"
)

const (
	answerBaseMin = 500
	answerBaseMax = 1000
	streakStep    = 0.1
	streakCap     = 1.5
)

// scoreDelta computes the points for one locked answer. Faster answers earn
// more, and a running streak of two or more correct answers multiplies the
// base, capped at 1.5x. remainingMs is measured against the round's current
// deadline, so a pause/resume does not change what an answer is worth; the
// fraction is always over the question's own time limit.
func scoreDelta(remainingMs, limitMs int64, streak int) int {
	frac := 0.0
	if limitMs > 0 {
		frac = float64(remainingMs) / float64(limitMs)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	base := math.Floor(answerBaseMin + (answerBaseMax-answerBaseMin)*frac)
	mult := 1.0
	if streak >= 2 {
		mult = 1 + float64(streak-1)*streakStep
		if mult > streakCap {
			mult = streakCap
		}
	}
	return int(math.Floor(base * mult))
}

// openRound advances to the next question and shows it, or finishes the game
// when none remain.
func (r *Room) openRound() {
	if r.state.CurrentIndex+1 >= len(r.state.Questions) {
		r.finishGame()
		return
	}
	r.state.CurrentIndex++
	question := r.state.CurrentQuestion()

	for _, p := range r.state.Players {
		p.ResetRound()
	}
	startMs := r.now().UnixMilli()
	tags := make([]string, 0, len(r.state.Players))
	for tag := range r.state.Players {
		tags = append(tags, tag)
	}
	round := model.NewRound(startMs, question.TimeLimitSec, tags)
	r.state.Round = round
	r.state.WakeAtMs = round.EndMs
	r.sched.Schedule(time.UnixMilli(round.EndMs))
	r.persist()

	r.reg.Broadcast(model.NewMessage(model.MsgQuestionShow, "", model.QuestionShow{
		Question: question.Public(),
		Number:   r.state.CurrentIndex + 1,
		Total:    len(r.state.Questions),
		EndsAtMs: round.EndMs,
	}))

	if len(round.Awaiting) == 0 {
		// A round with no players closes immediately.
		r.sched.Cancel()
		r.state.WakeAtMs = 0
		r.closeRound()
	}
}

// closeRound scores the open question, reveals the result and either hands
// control back to the host or ends the game.
func (r *Room) closeRound() {
	round := r.state.Round
	question := r.state.CurrentQuestion()
	if round == nil || question == nil {
		return
	}

	limitMs := int64(question.TimeLimitSec) * 1000
	for _, p := range r.state.Players {
		if p.Answered() && question.IsCorrect(p.SelectedOptionID) {
			p.Streak++
			p.LastCorrect = true
			p.Delta = scoreDelta(round.EndMs-*p.AnsweredAtMs, limitMs, p.Streak)
			p.Score += p.Delta
		} else {
			p.Streak = 0
			p.LastCorrect = false
			p.Delta = 0
		}
	}

	reveal := r.buildReveal(question)
	r.state.Round = nil
	r.persist()
	r.mirrorScores()
	r.reg.Broadcast(model.NewMessage(model.MsgQuestionReveal, "", reveal))

	if r.state.CurrentIndex+1 >= len(r.state.Questions) {
		r.finishGame()
		return
	}
	r.reg.SendToHost(model.NewMessage(model.MsgHostCanAdvance, "", nil))
}

func (r *Room) buildReveal(question *model.Question) model.QuestionReveal {
	counts := make(map[string]int)
	pickers := make(map[string][]string)
	answered := 0
	correct := 0
	fastest := ""
	var fastestAt int64
	for _, p := range r.state.Players {
		if !p.Answered() {
			continue
		}
		answered++
		counts[p.SelectedOptionID]++
		pickers[p.SelectedOptionID] = append(pickers[p.SelectedOptionID], p.Name)
		if p.LastCorrect {
			correct++
			if fastest == "" || *p.AnsweredAtMs < fastestAt {
				fastest = p.Name
				fastestAt = *p.AnsweredAtMs
			}
		}
	}
	for _, names := range pickers {
		sort.Strings(names)
	}
	percent := 0
	if answered > 0 {
		percent = int(math.Round(100 * float64(correct) / float64(answered)))
	}
	return model.QuestionReveal{
		QuestionID:       question.ID,
		CorrectOptionIDs: question.CorrectOptionIDs,
		Leaderboard:      r.leaderboard(),
		OptionCounts:     counts,
		OptionPickers:    pickers,
		PercentCorrect:   percent,
		FastestCorrect:   fastest,
	}
}

// leaderboard ranks connected players: score descending, then answer time
// ascending with unanswered last, then name.
func (r *Room) leaderboard() []model.LeaderboardEntry {
	type ranked struct {
		entry model.LeaderboardEntry
		at    *int64
	}
	rows := make([]ranked, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		rows = append(rows, ranked{
			entry: model.LeaderboardEntry{
				Name:    p.Name,
				Score:   p.Score,
				Delta:   p.Delta,
				Streak:  p.Streak,
				Correct: p.LastCorrect,
			},
			at: p.AnsweredAtMs,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.Score != b.entry.Score {
			return a.entry.Score > b.entry.Score
		}
		switch {
		case a.at != nil && b.at != nil && *a.at != *b.at:
			return *a.at < *b.at
		case a.at != nil && b.at == nil:
			return true
		case a.at == nil && b.at != nil:
			return false
		}
		return a.entry.Name < b.entry.Name
	})
	out := make([]model.LeaderboardEntry, len(rows))
	for i, row := range rows {
		out[i] = row.entry
	}
	return out
}

// finishGame ends the game, archives the final standings and arms the
// cleanup wake so the room purges itself once spectators have drifted off.
func (r *Room) finishGame() {
	standings := r.leaderboard()
	r.state.Finished = true
	r.state.Started = false
	r.state.Round = nil
	wakeAt := r.now().Add(cleanupDelay)
	r.state.WakeAtMs = wakeAt.UnixMilli()
	r.sched.Schedule(wakeAt)
	r.persist()
	r.mirrorScores()

	r.reg.Broadcast(model.NewMessage(model.MsgGameOver, "", model.GameOver{Leaderboard: standings}))

	if err := r.arch.SaveResult(r.ctx, &model.GameResult{
		RoomCode:      r.state.Code,
		Title:         r.state.Title,
		QuestionCount: len(r.state.Questions),
		Standings:     standings,
		FinishedAt:    r.now(),
	}); err != nil {
		r.log.Warn().Err(err).Msg("result archive failed")
	}
	if err := r.arch.RoomStatus(r.ctx, r.state.Code, model.RoomStatusEnded); err != nil {
		r.log.Warn().Err(err).Msg("room status archive failed")
	}
	r.log.Info().Int("players", len(r.state.Players)).Msg("game over")
}

// mirrorScores pushes current scores into the live leaderboard store, which
// backs the leaderboard REST endpoint.
func (r *Room) mirrorScores() {
	for _, p := range r.state.Players {
		if err := r.lb.UpdateScore(r.ctx, r.state.Code, p.Name, p.Score); err != nil {
			r.log.Warn().Err(err).Str("player", p.Name).Msg("leaderboard update failed")
		}
	}
}

func sortRoster(roster []model.RosterEntry) {
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].Score != roster[j].Score {
			return roster[i].Score > roster[j].Score
		}
		return roster[i].Name < roster[j].Name
	})
}
