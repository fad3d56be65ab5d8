package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"azool/internal/app"
	"azool/internal/config"
	"azool/internal/domain"
	"azool/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     []string                    `json:"seats"`      // user id per seat, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // seat allowed to start the game early
	Tick      int64                       `json:"tick"`
	Phase     string                      `json:"phase"`
	GameID    string                      `json:"game_id"`
	MatchID   string                      `json:"-"`
	Presences map[string]runtime.Presence `json:"-"` // user id -> presence for targeted messaging
	Config    config.GameConfig           `json:"-"`
	Results   ports.ResultPort            `json:"-"`

	session *gameSession
	// chooserFor builds the chooser driving a seat; nil means the remote client.
	chooserFor func(player int, out *outbox) app.Chooser
}

// gameSession is a game running in its own goroutines.
type gameSession struct {
	game     *app.Game
	seats    []int // game player index -> seat
	choosers map[int]*seatChooser
	out      *outbox
	cancel   context.CancelFunc
	done     chan gameOutcome
}

type gameOutcome struct {
	standings app.Standings
	err       error
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) seatOf(userID string) int {
	for i, id := range ms.Seats {
		if id != "" && id == userID {
			return i
		}
	}
	return -1
}

// playerOf maps a seat to its index in the running game, or -1.
func (s *gameSession) playerOf(seat int) int {
	for p, st := range s.seats {
		if st == seat {
			return p
		}
	}
	return -1
}

// findFirstOccupiedSeat returns the first seat index with an occupant or -1 if none exist.
func findFirstOccupiedSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" {
			return i
		}
	}
	return -1
}

// paramInt reads an integer match param; RPCs pass ints, JSON callers floats.
func paramInt(params map[string]interface{}, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

type matchHandler struct {
	tokens *app.SeatTokenService
}

func newMatchHandler(tokens *app.SeatTokenService) *matchHandler {
	return &matchHandler{tokens: tokens}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()
	if n, ok := paramInt(params, "num_players"); ok && n >= app.MinPlayersToStartGame && n <= app.MaxPlayersPerGame {
		cfg.NumPlayers = n
	}

	state := &MatchState{
		Seats:     make([]string, cfg.NumPlayers),
		OwnerSeat: -1,
		Tick:      time.Now().Unix(),
		Phase:     PhaseLobby,
		Presences: make(map[string]runtime.Presence),
		Config:    cfg,
	}
	if matchID, ok := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string); ok {
		state.MatchID = matchID
	}
	if nk != nil {
		state.Results = NewNakamaResultStore(nk, cfg.ResultCollection)
	}

	label, err := encodeLabel(state.Phase, state.GetOpenSeatsCount())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Debug("MatchInit: %d seats, tick rate %d.", cfg.NumPlayers, cfg.TickRate)
	return state, cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if mh.tokens != nil {
		if err := mh.tokens.Verify(metadata[MetadataSeatToken], presence.GetUserId(), matchState.MatchID); err != nil {
			logger.Warn("MatchJoinAttempt: User %s rejected: %v", presence.GetUserId(), err)
			return state, false, "invalid seat token"
		}
	}

	// Seated players may reconnect at any time.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.session != nil {
		return state, false, "game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.seatOf(p.GetUserId()) >= 0 {
			logger.Debug("MatchJoin: User %s reconnected.", p.GetUserId())
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	if matchState.session == nil && matchState.GetOpenSeatsCount() == 0 {
		mh.startGame(matchState, dispatcher, logger)
	}
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		// During a game the seat is kept; its turn clock forfeits for it.
		if matchState.session == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no players.")
		if matchState.session != nil {
			matchState.session.cancel()
		}
		return nil
	}

	if matchState.OwnerSeat < 0 || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstOccupiedSeat(matchState.Seats)
	}
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(matchState, dispatcher, logger, msg.GetUserId(), msg.GetOpCode(), msg.GetData())
	}

	mh.pumpSession(ctx, matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleMessage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, data []byte) {
	switch opCode {
	case OpStartGame:
		mh.handleStartGame(state, dispatcher, logger, userID)
	case OpMove:
		mh.handleMove(state, dispatcher, logger, userID, data)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", opCode)
	}
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	seat := state.seatOf(userID)
	switch {
	case seat < 0 || seat != state.OwnerSeat:
		mh.sendError(state, dispatcher, logger, userID, "only the match owner can start the game")
	case state.session != nil:
		mh.sendError(state, dispatcher, logger, userID, "game already running")
	case state.GetOccupiedSeatCount() < app.MinPlayersToStartGame:
		mh.sendError(state, dispatcher, logger, userID, "not enough players")
	default:
		mh.startGame(state, dispatcher, logger)
	}
}

func (mh *matchHandler) handleMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, data []byte) {
	if state.session == nil {
		mh.sendError(state, dispatcher, logger, userID, "no game running")
		return
	}
	player := state.session.playerOf(state.seatOf(userID))
	chooser, ok := state.session.choosers[player]
	if player < 0 || !ok {
		mh.sendError(state, dispatcher, logger, userID, "not seated in this game")
		return
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, err.Error())
		return
	}
	mv, err := app.DecodeMove(env)
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, err.Error())
		return
	}
	if !chooser.offer(mv) {
		mh.sendError(state, dispatcher, logger, userID, "a move is already pending")
	}
}

// startGame seats every occupied seat in a new game and runs it in the
// background. Results come back through pumpSession.
func (mh *matchHandler) startGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	out := newOutbox()
	session := &gameSession{
		choosers: make(map[int]*seatChooser),
		out:      out,
		done:     make(chan gameOutcome, 1),
	}

	var choosers []app.Chooser
	for seat, userID := range state.Seats {
		if userID == "" {
			continue
		}
		player := len(session.seats)
		session.seats = append(session.seats, seat)
		if state.chooserFor != nil {
			choosers = append(choosers, state.chooserFor(player, out))
			continue
		}
		sc := newSeatChooser(player, out, state.Config.TurnDuration())
		session.choosers[player] = sc
		choosers = append(choosers, sc)
	}

	var shuffle domain.Shuffler
	if state.Config.Seed != 0 {
		shuffle = domain.RandomShuffler(rand.New(rand.NewSource(state.Config.Seed)))
	}
	game, err := app.NewGame(app.Options{MailboxSize: state.Config.MailboxSize, Shuffle: shuffle}, choosers, logger)
	if err != nil {
		logger.Error("StartGame: %v", err)
		return
	}
	game.OnEvent(func(ev app.Event) {
		if f, ok := eventFrame(ev); ok {
			out.push(f)
		}
	})
	session.game = game

	ctx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	go func() {
		standings, err := game.Run(ctx)
		session.done <- gameOutcome{standings: standings, err: err}
	}()

	state.session = session
	state.Phase = PhasePlaying
	state.GameID = game.ID
	logger.Info("StartGame: Game %s started with %d players.", game.ID, len(session.seats))

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastFrame(state, dispatcher, logger, frame{op: OpGameStarted, body: app.Envelope{
		"game_id": game.ID,
		"seats":   intsToWire(session.seats),
	}})
}

// pumpSession forwards queued game frames and closes out a finished game.
func (mh *matchHandler) pumpSession(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	session := state.session
	if session == nil {
		return
	}

	var outcome *gameOutcome
	select {
	case o := <-session.done:
		outcome = &o
	default:
	}

	for _, f := range session.out.drain() {
		mh.broadcastFrame(state, dispatcher, logger, f)
	}

	if outcome != nil {
		mh.finishGame(ctx, state, dispatcher, logger, *outcome)
	}
}

func (mh *matchHandler) finishGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, outcome gameOutcome) {
	session := state.session
	session.cancel()
	state.session = nil
	state.Phase = PhaseLobby

	switch {
	case outcome.err != nil:
		logger.Error("Game %s aborted: %v", session.game.ID, outcome.err)
		mh.broadcastFrame(state, dispatcher, logger, frame{op: OpGameError, body: app.Envelope{app.KeyError: "game aborted"}})
	case state.Results != nil:
		// built before seats are released so departed players keep their result
		if err := state.Results.SaveResult(ctx, buildResult(state, session, outcome.standings)); err != nil {
			logger.Error("Failed to save result for game %s: %v", session.game.ID, err)
		}
	}

	mh.releaseAbsentSeats(state, logger)
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
}

// releaseAbsentSeats frees seats held through a game by users who have since
// left, and moves ownership off an absent owner.
func (mh *matchHandler) releaseAbsentSeats(state *MatchState, logger runtime.Logger) {
	for seat, userID := range state.Seats {
		if userID == "" {
			continue
		}
		if _, ok := state.Presences[userID]; !ok {
			state.Seats[seat] = ""
			logger.Debug("FinishGame: User %s is gone, seat %d freed.", userID, seat)
		}
	}
	if state.OwnerSeat < 0 || state.Seats[state.OwnerSeat] == "" {
		state.OwnerSeat = findFirstOccupiedSeat(state.Seats)
	}
}

func buildResult(state *MatchState, session *gameSession, standings app.Standings) ports.GameResult {
	winners := make(map[int]bool)
	for _, p := range standings.Winners() {
		winners[p] = true
	}
	result := ports.GameResult{
		GameID:  session.game.ID,
		MatchID: state.MatchID,
		Rounds:  session.game.Rounds(),
		EndedAt: time.Now().UTC(),
	}
	for _, st := range standings {
		seat := session.seats[st.Player]
		result.Players = append(result.Players, ports.PlayerResult{
			UserID: state.Seats[seat],
			Seat:   seat,
			Score:  st.Score,
			Bonus:  st.Bonus,
			Winner: winners[st.Player],
		})
	}
	return result
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]any, 0, len(state.Seats))
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		displayName := userID
		if p, ok := state.Presences[userID]; ok {
			displayName = p.GetUsername()
		}
		players = append(players, map[string]any{
			"user_id":      userID,
			"seat":         i,
			"is_owner":     i == state.OwnerSeat,
			"display_name": displayName,
			"connected":    state.Presences[userID] != nil,
		})
	}
	seats := make([]any, len(state.Seats))
	for i, id := range state.Seats {
		seats[i] = id
	}
	mh.broadcastFrame(state, dispatcher, logger, frame{op: OpMatchState, body: app.Envelope{
		"seats":      seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"phase":      state.Phase,
		"players":    players,
	}})
}

// broadcastFrame encodes f and sends it to its recipients. Frames addressed
// to game players that are not connected are dropped rather than broadcast.
func (mh *matchHandler) broadcastFrame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, f frame) {
	bytes, err := encodeEnvelope(f.body)
	if err != nil {
		logger.Error("Failed to marshal frame %d: %v", f.op, err)
		return
	}

	var recipients []runtime.Presence
	if len(f.players) > 0 {
		for _, player := range f.players {
			if state.session == nil || player < 0 || player >= len(state.session.seats) {
				continue
			}
			if p, ok := state.Presences[state.Seats[state.session.seats[player]]]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(f.op, bytes, recipients, nil, true); err != nil {
		logger.Warn("Failed to broadcast frame %d: %v", f.op, err)
	}
}

// sendError sends a GameError frame to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	bytes, err := encodeEnvelope(app.Envelope{app.KeyError: message})
	if err != nil {
		logger.Error("Failed to marshal error frame: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	open := state.GetOpenSeatsCount()
	if state.session != nil {
		open = 0
	}
	label, err := encodeLabel(state.Phase, open)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok && matchState.session != nil {
		matchState.session.cancel()
	}
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
