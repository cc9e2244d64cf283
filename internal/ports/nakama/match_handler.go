package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"renaissance/internal/app"
	"renaissance/internal/config"
	"renaissance/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchLabel is the queryable lobby state published to the matchmaker.
type MatchLabel struct {
	Open  int    `json:"open"`
	Size  int    `json:"size"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for the Nakama match
// handler. The domain match is the source of truth; the maps bind Nakama
// user ids to roster nicknames for targeted messaging.
type MatchState struct {
	Size             int
	Presences        map[string]runtime.Presence // userID -> presence
	Nicknames        map[string]string           // userID -> nickname, set once
	UserIDByNickname map[string]string
	App              *app.Service
	Match            *domain.Match
}

// seatedCount returns how many nicknames have been bound so far.
func (ms *MatchState) seatedCount() int { return len(ms.Nicknames) }

func newMatchHandler() runtime.Match { return &matchHandler{} }

type matchHandler struct{}

// MatchInit creates the domain match for the declared roster size.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	size := paramInt(params, "num_players", 2)
	if size < 1 || size > domain.MaxPlayers {
		logger.Warn("MatchInit: Invalid num_players %d, falling back to 2.", size)
		size = 2
	}

	opts := domain.Options{DevCardEndCount: cfg.EndCount()}
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["renaissance_dev_card_end_count"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			opts.DevCardEndCount = i
		}
	}

	svc := app.NewService(nil)
	match, err := svc.NewMatch(size, opts)
	if err != nil {
		logger.Error("MatchInit: Failed to create match: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		Size:             size,
		Presences:        make(map[string]runtime.Presence),
		Nicknames:        make(map[string]string),
		UserIDByNickname: make(map[string]string),
		App:              svc,
		Match:            match,
	}

	tickRate := 1
	return state, tickRate, mh.label(state)
}

func (mh *matchHandler) label(state *MatchState) string {
	label := MatchLabel{
		Open:  state.Size - state.seatedCount(),
		Size:  state.Size,
		Phase: string(state.Match.Phase()),
	}
	bytes, _ := json.Marshal(label)
	return string(bytes)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(mh.label(state)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Reconnects are always admitted; fresh connections only while an
	// unbound seat remains.
	if _, seated := matchState.Nicknames[presence.GetUserId()]; seated {
		return state, true, ""
	}
	if matchState.seatedCount() >= matchState.Size {
		return state, false, "match full"
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

		// A returning player gets the full visible state replayed.
		if nickname, seated := matchState.Nicknames[p.GetUserId()]; seated {
			events, err := matchState.App.Snapshot(matchState.Match, nickname)
			if err != nil {
				logger.Error("MatchJoin: Snapshot for %s failed: %v", nickname, err)
				continue
			}
			mh.dispatchEvents(matchState, dispatcher, logger, events)
		}
	}
	return matchState
}

// MatchLeave drops presences. Seats stay bound to their nicknames so a
// disconnected player can come back; the match dies once nobody is left.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if nickname, seated := matchState.Nicknames[p.GetUserId()]; seated {
			logger.Info("MatchLeave: %s disconnected.", nickname)
			mh.dispatchEvents(matchState, dispatcher, logger, matchState.App.Leave(matchState.Match, nickname))
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	for _, msg := range messages {
		mh.handleMessage(matchState, dispatcher, logger, msg)
	}
	return matchState
}

// handleMessage decodes one client command, runs it through the app service
// and dispatches the resulting events. Every failure turns into a targeted
// error event; the match state is never left half-mutated.
func (mh *matchHandler) handleMessage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()

	if msg.GetOpCode() == OpJoin {
		mh.handleJoin(state, dispatcher, logger, msg)
		return
	}

	nickname, seated := state.Nicknames[userID]
	if !seated {
		mh.sendError(state, dispatcher, logger, userID, "not_seated", "join with a nickname first")
		return
	}

	events, err := mh.invoke(state, nickname, msg)
	if err != nil {
		logger.Warn("Command %d from %s failed: %v", msg.GetOpCode(), nickname, err)
		mh.sendError(state, dispatcher, logger, userID, app.ErrorCode(err), err.Error())
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// invoke routes one opcode to its app service handler.
func (mh *matchHandler) invoke(state *MatchState, nickname string, msg runtime.MatchData) ([]app.Event, error) {
	m := state.Match
	svc := state.App

	switch msg.GetOpCode() {
	case OpChooseLeaders:
		var req ChooseLeadersRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.ChooseLeaders(m, nickname, req.Keep1, req.Keep2)
	case OpChooseResources:
		var req ChooseResourcesRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.ChooseResources(m, nickname, req.Resources)
	case OpAddToWarehouse:
		var req AddToWarehouseRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.AddToWarehouse(m, nickname, req.Depot, req.Resources)
	case OpSwapDepots:
		var req SwapDepotsRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.SwapDepots(m, nickname, req.Depot1, req.Depot2)
	case OpMoveDepots:
		var req MoveDepotsRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.MoveDepots(m, nickname, req.Source, req.Destination, req.Quantity)
	case OpTakeFromMarket:
		var req TakeFromMarketRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		selector, err := lineSelector(req.Line)
		if err != nil {
			return nil, err
		}
		return svc.TakeFromMarket(m, nickname, selector, req.Index)
	case OpTransformWhiteMarbles:
		var req TransformWhiteMarblesRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.TransformWhiteMarbles(m, nickname, req.LeaderID, req.Count)
	case OpTransformMarbles:
		return svc.TransformMarbles(m, nickname)
	case OpDiscardResources:
		return svc.DiscardResources(m, nickname)
	case OpBuyCard:
		var req BuyCardRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.BuyCard(m, nickname, req.Row, req.Column, req.Slot, req.LeaderIDs)
	case OpCardProduction:
		var req CardProductionRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.CardProduction(m, nickname, req.Slot)
	case OpBasicProduction:
		var req BasicProductionRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.BasicProduction(m, nickname, req.Payment1, req.Payment2, req.Produced)
	case OpLeaderProduction:
		var req LeaderProductionRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.LeaderProduction(m, nickname, req.LeaderID, req.Produced)
	case OpEndProduction:
		return svc.EndProduction(m, nickname)
	case OpActivateLeader:
		var req LeaderRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.ActivateLeader(m, nickname, req.LeaderID)
	case OpDiscardLeader:
		var req LeaderRequest
		if err := unmarshal(msg, &req); err != nil {
			return nil, err
		}
		return svc.DiscardLeader(m, nickname, req.LeaderID)
	case OpEndTurn:
		return svc.EndTurn(m, nickname)
	}
	return nil, domain.ErrInvalidParameter
}

// handleJoin binds a connection to a roster nickname, exactly once.
func (mh *matchHandler) handleJoin(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()

	var req JoinRequest
	if err := unmarshal(msg, &req); err != nil {
		mh.sendError(state, dispatcher, logger, userID, "invalid_parameter", err.Error())
		return
	}

	if current, seated := state.Nicknames[userID]; seated {
		if current == req.Nickname {
			return
		}
		mh.sendError(state, dispatcher, logger, userID, "invalid_nickname", "already seated as "+current)
		return
	}
	if owner, taken := state.UserIDByNickname[req.Nickname]; taken && owner != userID {
		mh.sendError(state, dispatcher, logger, userID, "invalid_nickname", "nickname already taken")
		return
	}

	events, err := state.App.Join(state.Match, req.Nickname)
	if err != nil {
		logger.Warn("Join: %s as %q rejected: %v", userID, req.Nickname, err)
		mh.sendError(state, dispatcher, logger, userID, app.ErrorCode(err), err.Error())
		return
	}

	state.Nicknames[userID] = req.Nickname
	state.UserIDByNickname[req.Nickname] = userID
	logger.Info("Join: %s seated as %q (%d/%d).", userID, req.Nickname, state.seatedCount(), state.Size)

	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// eventOpCode maps an app event kind to its wire opcode.
func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventError:
		return OpError, true
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventMatchPhase:
		return OpMatchPhase, true
	case app.EventLeaderHand:
		return OpLeaderHand, true
	case app.EventMarketUpdate:
		return OpMarketUpdate, true
	case app.EventGridUpdate:
		return OpGridUpdate, true
	case app.EventWarehouseUpdate:
		return OpWarehouseUpdate, true
	case app.EventStrongboxUpdate:
		return OpStrongboxUpdate, true
	case app.EventFaithUpdate:
		return OpFaithUpdate, true
	case app.EventCardSpaceUpdate:
		return OpCardSpaceUpdate, true
	case app.EventLeadersUpdate:
		return OpLeadersUpdate, true
	case app.EventTemporaryUpdate:
		return OpTemporaryUpdate, true
	case app.EventSpecialDepotAdded:
		return OpSpecialDepotAdded, true
	case app.EventVaticanReport:
		return OpVaticanReport, true
	case app.EventTurnStarted:
		return OpTurnStarted, true
	case app.EventActionDone:
		return OpActionDone, true
	case app.EventLorenzoUpdate:
		return OpLorenzoUpdate, true
	case app.EventRanking:
		return OpRanking, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	}
	return 0, false
}

// dispatchEvents converts app events to opcode broadcasts. Events with
// recipients go only to those connections; if none of the recipients is
// connected, nothing is sent.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, ok := eventOpCode(ev.Kind)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}
		bytes, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, nickname := range ev.Recipients {
				userID, ok := state.UserIDByNickname[nickname]
				if !ok {
					continue
				}
				if p, ok := state.Presences[userID]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
	}
}

// sendError sends a typed error event to one connection.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, code, message string) {
	bytes, err := json.Marshal(app.ErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// unmarshal decodes a client payload, treating an empty body as an empty
// object.
func unmarshal(msg runtime.MatchData, out any) error {
	data := msg.GetData()
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// paramInt reads an integer match-creation parameter that may arrive as a
// number or a string.
func paramInt(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
