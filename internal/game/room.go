package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quizrally/internal/model"
)

const (
	maxPlayers     = 100
	inboxSize      = 256
	cleanupDelay   = 60 * time.Second
	reasonGameOver = "game over"
)

// The only reactions a player may forward to the host.
var allowedReactions = map[string]struct{}{
	"👍": {}, "👎": {}, "😂": {}, "😮": {}, "❤️": {}, "🔥": {},
}

type envKind int

const (
	envAttach envKind = iota
	envDetach
	envMessage
	envWake
	envStatus
	envHostAuth
	envSuspend
)

// envelope is the single inbound event shape. Everything the room reacts to —
// client messages, connection churn, fired timers, router queries — enters
// through the same serialized inbox.
type envelope struct {
	kind   envKind
	tag    string
	host   bool
	sink   Sink
	msg    model.Message
	secret string
	boolCh chan bool
	statCh chan model.RoomStatus
}

// Room is the per-game session actor. It owns its RoomState exclusively and
// processes one event at a time, so no handler ever observes a half-applied
// mutation and host-authority checks are plain tag comparisons.
type Room struct {
	state *model.RoomState
	reg   *Registry
	store StateStore
	sched WakeScheduler
	lb    LeaderboardSink
	arch  Archiver

	now func() time.Time
	log zerolog.Logger

	inbox     chan envelope
	done      chan struct{}
	closeOnce sync.Once
	onDestroy func(code string)
	ctx       context.Context
}

func newRoom(state *model.RoomState, store StateStore, lb LeaderboardSink, arch Archiver, log zerolog.Logger) *Room {
	return &Room{
		state: state,
		reg:   NewRegistry(),
		store: store,
		lb:    lb,
		arch:  arch,
		now:   time.Now,
		log:   log.With().Str("room", state.Code).Logger(),
		inbox: make(chan envelope, inboxSize),
		done:  make(chan struct{}),
		ctx:   context.Background(),
	}
}

// Code returns the room's join code.
func (r *Room) Code() string { return r.state.Code }

// Run processes inbox events until the room is destroyed.
func (r *Room) Run() {
	for {
		select {
		case e := <-r.inbox:
			r.dispatch(e)
		case <-r.done:
			return
		}
	}
}

// post enqueues an event, reporting false once the room is destroyed so
// callers never block on a dead actor.
func (r *Room) post(e envelope) bool {
	select {
	case <-r.done:
		return false
	case r.inbox <- e:
		return true
	}
}

// Attach binds an upgraded connection to the room under its tag.
func (r *Room) Attach(tag string, host bool, sink Sink) bool {
	return r.post(envelope{kind: envAttach, tag: tag, host: host, sink: sink})
}

// Detach reports that a connection has gone away.
func (r *Room) Detach(tag string) {
	r.post(envelope{kind: envDetach, tag: tag})
}

// Deliver hands a decoded inbound message to the actor.
func (r *Room) Deliver(tag string, msg model.Message) {
	r.post(envelope{kind: envMessage, tag: tag, msg: msg})
}

// AuthorizeHost checks an offered secret against the stored host secret. It
// is meant to run before the connection upgrade.
func (r *Room) AuthorizeHost(ctx context.Context, secret string) bool {
	reply := make(chan bool, 1)
	if !r.post(envelope{kind: envHostAuth, secret: secret, boolCh: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

// Status answers an existence/progress query.
func (r *Room) Status(ctx context.Context) model.RoomStatus {
	reply := make(chan model.RoomStatus, 1)
	if !r.post(envelope{kind: envStatus, statCh: reply}) {
		return model.RoomStatus{}
	}
	select {
	case st := <-reply:
		return st
	case <-ctx.Done():
		return model.RoomStatus{}
	}
}

func (r *Room) dispatch(e envelope) {
	switch e.kind {
	case envAttach:
		r.handleAttach(e.tag, e.host, e.sink)
	case envDetach:
		r.handleDisconnect(e.tag)
	case envMessage:
		r.handleMessage(e.tag, e.msg)
	case envWake:
		r.handleWake()
	case envHostAuth:
		e.boolCh <- (e.secret != "" && e.secret == r.state.HostSecret)
	case envStatus:
		e.statCh <- r.status()
	case envSuspend:
		r.sched.Cancel()
		r.reg.CloseAll("server restarting")
		r.closeOnce.Do(func() { close(r.done) })
	}
}

// suspend stops the actor without purging persisted state, so the room can
// be resumed from its snapshot after a restart.
func (r *Room) suspend() {
	r.post(envelope{kind: envSuspend})
}

// resume repairs a snapshot loaded after a restart: every previous
// connection is gone, so players are parked for rejoin and the pending wake
// is re-armed. Must run before the actor loop starts.
func (r *Room) resume() {
	for tag, p := range r.state.Players {
		if r.state.Started && !r.state.Finished {
			r.state.Disconnected[p.Name] = p
		}
		delete(r.state.Players, tag)
	}
	if round := r.state.Round; round != nil {
		round.Awaiting = make(map[string]struct{})
	}
	if r.state.WakeAtMs > 0 && !r.state.Paused {
		r.sched.Schedule(time.UnixMilli(r.state.WakeAtMs))
	}
}

func (r *Room) handleMessage(tag string, msg model.Message) {
	switch msg.Type {
	case model.MsgHostStart:
		r.handleHostStart(tag)
	case model.MsgHostPause:
		r.handleHostPause(tag)
	case model.MsgHostResume:
		r.handleHostResume(tag)
	case model.MsgHostNext:
		r.handleHostNext(tag)
	case model.MsgHostKick:
		r.handleHostKick(tag, msg)
	case model.MsgPlayerJoin:
		r.handlePlayerJoin(tag, msg)
	case model.MsgPlayerAnswer:
		r.handlePlayerAnswer(tag, msg)
	case model.MsgPlayerReact:
		r.handlePlayerReact(tag, msg)
	case model.MsgGameExists:
		r.reg.SendTo(tag, model.NewMessage(model.MsgGameStatus, msg.Cid, r.status()))
	default:
		// Unrecognized types are ignored for forward compatibility.
	}
}

func (r *Room) handleAttach(tag string, host bool, sink Sink) {
	r.reg.Attach(tag, host, sink)
	if host {
		// The host gets the current roster right away; players are admitted
		// only once their player:join arrives.
		r.reg.SendTo(tag, model.NewMessage(model.MsgLobbyUpdate, "", r.lobbyUpdate()))
	}
}

func (r *Room) handleHostStart(tag string) {
	if !r.reg.IsHost(tag) {
		return
	}
	if r.state.Started || r.state.Finished {
		return
	}
	r.state.Started = true
	r.persist()
	r.reg.Broadcast(model.NewMessage(model.MsgGameStarted, "", model.GameStarted{
		Title:         r.state.Title,
		QuestionCount: len(r.state.Questions),
	}))
	if err := r.arch.RoomStatus(r.ctx, r.state.Code, model.RoomStatusLive); err != nil {
		r.log.Warn().Err(err).Msg("room status archive failed")
	}
	r.openRound()
}

func (r *Room) handleHostNext(tag string) {
	if !r.reg.IsHost(tag) {
		return
	}
	if !r.state.Started || r.state.Round != nil {
		return
	}
	r.openRound()
}

func (r *Room) handleHostPause(tag string) {
	if !r.reg.IsHost(tag) {
		return
	}
	round := r.state.Round
	if round == nil || r.state.Paused {
		return
	}
	remaining := round.EndMs - r.now().UnixMilli()
	if remaining < 0 {
		remaining = 0
	}
	r.state.Paused = true
	round.MsRemainingAtPause = remaining
	r.sched.Cancel()
	r.state.WakeAtMs = 0
	r.persist()
	r.reg.Broadcast(model.NewMessage(model.MsgGamePaused, "", model.GamePaused{RemainingMs: remaining}))
}

func (r *Room) handleHostResume(tag string) {
	if !r.reg.IsHost(tag) {
		return
	}
	round := r.state.Round
	if round == nil || !r.state.Paused {
		return
	}
	round.EndMs = r.now().UnixMilli() + round.MsRemainingAtPause
	round.MsRemainingAtPause = 0
	r.state.Paused = false
	r.state.WakeAtMs = round.EndMs
	r.sched.Schedule(time.UnixMilli(round.EndMs))
	r.persist()
	r.reg.Broadcast(model.NewMessage(model.MsgGameResumed, "", model.GameResumed{EndsAtMs: round.EndMs}))
}

func (r *Room) handleHostKick(tag string, msg model.Message) {
	if !r.reg.IsHost(tag) {
		return
	}
	if r.state.Started || r.state.Finished {
		return
	}
	var req model.KickRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return
	}
	victimTag, player, ok := r.state.PlayerByName(req.Name)
	if !ok {
		return
	}
	delete(r.state.Players, victimTag)
	r.persist()
	r.reg.SendTo(victimTag, model.NewMessage(model.MsgPlayerKicked, "", model.KickNotice{Name: player.Name}))
	r.reg.Close(victimTag, "kicked")
	r.reg.Broadcast(model.NewMessage(model.MsgLobbyUpdate, "", r.lobbyUpdate()))
}

func (r *Room) handlePlayerJoin(tag string, msg model.Message) {
	if r.reg.IsHost(tag) || IsHostTag(tag) {
		return
	}
	var req model.JoinRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		r.rejectRequest(tag, msg.Cid, "invalid join payload")
		return
	}
	if _, already := r.state.Players[tag]; already {
		r.rejectRequest(tag, msg.Cid, "already joined")
		return
	}
	if r.state.Finished {
		r.rejectRequest(tag, msg.Cid, "game over")
		return
	}
	name := SanitizeName(req.Name)
	if name == "" {
		r.rejectRequest(tag, msg.Cid, "invalid name")
		return
	}

	if r.state.Started {
		r.rejoinPlayer(tag, msg.Cid, name, req.RejoinToken)
		return
	}

	if len(r.state.Players) >= maxPlayers {
		r.rejectRequest(tag, msg.Cid, "room is full")
		return
	}
	if _, _, taken := r.state.PlayerByName(name); taken {
		r.rejectRequest(tag, msg.Cid, "name already taken")
		return
	}

	token, err := newSecret()
	if err != nil {
		r.rejectRequest(tag, msg.Cid, "try again")
		return
	}
	r.state.Players[tag] = &model.Player{Name: name, RejoinToken: token}
	r.persist()
	r.reg.SendTo(tag, model.NewMessage(model.MsgPlayerJoined, msg.Cid, model.JoinedAck{
		Name:        name,
		RejoinToken: token,
	}))
	r.reg.Broadcast(model.NewMessage(model.MsgLobbyUpdate, "", r.lobbyUpdate()))
}

// rejoinPlayer restores a preserved identity after a mid-game disconnect.
// Name and token must both match; the caller learns only that the join
// failed, not which check did.
func (r *Room) rejoinPlayer(tag, cid, name, token string) {
	preserved, ok := r.state.Disconnected[name]
	if !ok {
		r.rejectRequest(tag, cid, "unable to join")
		return
	}
	if preserved.RejoinToken != "" && preserved.RejoinToken != token {
		r.rejectRequest(tag, cid, "unable to join")
		return
	}
	delete(r.state.Disconnected, name)
	r.state.Players[tag] = preserved
	if round := r.state.Round; round != nil {
		// The round opened without them; let them answer what remains.
		preserved.ResetRound()
		round.Awaiting[tag] = struct{}{}
	}
	r.persist()
	r.reg.SendTo(tag, model.NewMessage(model.MsgPlayerJoined, cid, model.JoinedAck{
		Name:        name,
		RejoinToken: preserved.RejoinToken,
		Rejoined:    true,
	}))
	r.reg.SendTo(tag, model.NewMessage(model.MsgGameStarted, "", model.GameStarted{
		Title:         r.state.Title,
		QuestionCount: len(r.state.Questions),
	}))
	if round := r.state.Round; round != nil {
		// They rejoined with a question open; without this they would have
		// nothing to answer.
		if question := r.state.CurrentQuestion(); question != nil {
			r.reg.SendTo(tag, model.NewMessage(model.MsgQuestionShow, "", model.QuestionShow{
				Question: question.Public(),
				Number:   r.state.CurrentIndex + 1,
				Total:    len(r.state.Questions),
				EndsAtMs: round.EndMs,
			}))
		}
	}
	r.reg.Broadcast(model.NewMessage(model.MsgLobbyUpdate, "", r.lobbyUpdate()))
}

func (r *Room) handlePlayerAnswer(tag string, msg model.Message) {
	round := r.state.Round
	if round == nil || r.state.Paused {
		return
	}
	player, ok := r.state.Players[tag]
	if !ok || player.Answered() {
		return
	}
	var req model.AnswerRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return
	}
	question := r.state.CurrentQuestion()
	if question == nil || question.ID != req.QuestionID {
		return
	}
	if !question.HasOption(req.OptionID) {
		return
	}

	at := r.now().UnixMilli()
	player.AnsweredAtMs = &at
	player.SelectedOptionID = req.OptionID
	delete(round.Awaiting, tag)
	r.persist()

	r.reg.SendTo(tag, model.NewMessage(model.MsgPlayerLocked, msg.Cid, model.LockedAck{
		QuestionID: req.QuestionID,
		OptionID:   req.OptionID,
	}))
	r.reg.SendToHost(model.NewMessage(model.MsgRoundProgress, "", r.roundProgress()))

	if len(round.Awaiting) == 0 {
		// Everyone has answered; no reason to wait out the timer.
		r.sched.Cancel()
		r.state.WakeAtMs = 0
		r.closeRound()
	}
}

func (r *Room) handlePlayerReact(tag string, msg model.Message) {
	if !r.state.Started || r.state.Finished {
		return
	}
	player, ok := r.state.Players[tag]
	if !ok {
		return
	}
	var req model.ReactRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return
	}
	if _, allowed := allowedReactions[req.Emoji]; !allowed {
		return
	}
	r.reg.SendToHost(model.NewMessage(model.MsgReactionReceived, "", model.Reaction{
		From:  player.Name,
		Emoji: req.Emoji,
	}))
}

func (r *Room) handleDisconnect(tag string) {
	if r.reg.IsHost(tag) {
		// The game cannot continue without a host: no grace period.
		r.log.Info().Msg("host disconnected, cancelling room")
		r.reg.Detach(tag)
		r.reg.Broadcast(model.NewMessage(model.MsgGameCancelled, "", model.GameCancelled{Reason: "host disconnected"}))
		r.destroy(model.RoomStatusCancelled)
		return
	}

	player, ok := r.state.Players[tag]
	r.reg.Detach(tag)
	if !ok {
		// A connection that never joined (or a replaced host socket).
		return
	}

	if r.state.Started && !r.state.Finished {
		r.state.Disconnected[player.Name] = player
	}
	delete(r.state.Players, tag)

	round := r.state.Round
	if round != nil {
		delete(round.Awaiting, tag)
	}
	r.persist()
	r.reg.Broadcast(model.NewMessage(model.MsgLobbyUpdate, "", r.lobbyUpdate()))

	if round == nil {
		return
	}
	if len(r.state.Players) == 0 {
		// Nobody left to score: close the round quietly.
		r.sched.Cancel()
		r.state.WakeAtMs = 0
		r.state.Round = nil
		r.persist()
		r.reg.SendToHost(model.NewMessage(model.MsgHostCanAdvance, "", nil))
		return
	}
	if len(round.Awaiting) == 0 && !r.state.Paused {
		r.sched.Cancel()
		r.state.WakeAtMs = 0
		r.closeRound()
	}
}

// handleWake reacts to the single-shot timer. A firing that does not match
// the current phase is stale and ignored.
func (r *Room) handleWake() {
	round := r.state.Round
	switch {
	case round != nil && !r.state.Paused && r.now().UnixMilli() >= round.EndMs:
		r.state.WakeAtMs = 0
		r.closeRound()
	case r.state.Finished:
		// Post-game cleanup signal.
		r.log.Info().Msg("cleanup wake fired, purging room")
		r.destroy("")
	default:
		r.log.Debug().Msg("stale wake ignored")
	}
}

func (r *Room) rejectRequest(tag, cid, reason string) {
	r.reg.SendTo(tag, model.NewMessage(model.MsgError, cid, model.ErrorPayload{Message: reason}))
}

func (r *Room) status() model.RoomStatus {
	return model.RoomStatus{
		Exists:      true,
		Started:     r.state.Started,
		Finished:    r.state.Finished,
		PlayerCount: len(r.state.Players),
	}
}

func (r *Room) lobbyUpdate() model.LobbyUpdate {
	roster := make([]model.RosterEntry, 0, len(r.state.Players))
	for _, p := range r.state.Players {
		roster = append(roster, model.RosterEntry{Name: p.Name, Score: p.Score})
	}
	sortRoster(roster)
	return model.LobbyUpdate{
		Title:   r.state.Title,
		Players: roster,
		Started: r.state.Started,
	}
}

func (r *Room) roundProgress() model.RoundProgress {
	answered := 0
	for _, p := range r.state.Players {
		if p.Answered() {
			answered++
		}
	}
	return model.RoundProgress{Answered: answered, Total: len(r.state.Players)}
}

// persist re-saves the whole snapshot. Runs before any broadcast that depends
// on the new state; failures are logged and swallowed.
func (r *Room) persist() {
	if err := r.store.Save(r.ctx, r.state); err != nil {
		r.log.Warn().Err(err).Msg("snapshot save failed")
	}
}

// destroy tears the room down: purges persisted state, closes every
// connection and stops the actor loop. status is archived when non-empty.
func (r *Room) destroy(status string) {
	r.sched.Cancel()
	if err := r.store.Purge(r.ctx, r.state.Code); err != nil {
		r.log.Warn().Err(err).Msg("snapshot purge failed")
	}
	if err := r.lb.Purge(r.ctx, r.state.Code); err != nil {
		r.log.Warn().Err(err).Msg("leaderboard purge failed")
	}
	if status != "" {
		if err := r.arch.RoomStatus(r.ctx, r.state.Code, status); err != nil {
			r.log.Warn().Err(err).Msg("room status archive failed")
		}
	}
	r.reg.CloseAll("room closed")
	r.closeOnce.Do(func() { close(r.done) })
	if r.onDestroy != nil {
		r.onDestroy(r.state.Code)
	}
}
