package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"renaissance/internal/app"
	"renaissance/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type broadcast struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcasts   []broadcast
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcasts = append(md.broadcasts, broadcast{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) find(opCode int64) (broadcast, bool) {
	for _, b := range md.broadcasts {
		if b.opCode == opCode {
			return b, true
		}
	}
	return broadcast{}, false
}

type mockPresence struct {
	userID string
}

func (mp mockPresence) GetUserId() string                 { return mp.userID }
func (mp mockPresence) GetSessionId() string              { return mp.userID + "-session" }
func (mp mockPresence) GetNodeId() string                 { return "node" }
func (mp mockPresence) GetHidden() bool                   { return false }
func (mp mockPresence) GetPersistence() bool              { return true }
func (mp mockPresence) GetUsername() string               { return mp.userID }
func (mp mockPresence) GetStatus() string                 { return "" }
func (mp mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (md mockMatchData) GetOpCode() int64      { return md.opCode }
func (md mockMatchData) GetData() []byte       { return md.data }
func (md mockMatchData) GetReliable() bool     { return true }
func (md mockMatchData) GetReceiveTime() int64 { return 0 }

func message(userID string, opCode int64, payload any) mockMatchData {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	return mockMatchData{mockPresence: mockPresence{userID: userID}, opCode: opCode, data: data}
}

func initMatch(t *testing.T, size int) (*matchHandler, *MatchState) {
	t.Helper()
	handler := &matchHandler{}
	state, tickRate, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"num_players": size})
	if state == nil {
		t.Fatalf("MatchInit returned no state")
	}
	if tickRate != 1 {
		t.Fatalf("tickRate = %d, want 1", tickRate)
	}
	matchState, ok := state.(*MatchState)
	if !ok {
		t.Fatalf("state is %T, want *MatchState", state)
	}

	var parsed MatchLabel
	if err := json.Unmarshal([]byte(label), &parsed); err != nil {
		t.Fatalf("label %q: %v", label, err)
	}
	if parsed.Open != size || parsed.Size != size || parsed.Phase != string(domain.MatchSetup) {
		t.Fatalf("label = %+v", parsed)
	}
	return handler, matchState
}

// connect admits a presence through the join attempt and join callbacks.
func connect(t *testing.T, handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, userID string) {
	t.Helper()
	p := mockPresence{userID: userID}
	_, allowed, reason := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, p, nil)
	if !allowed {
		t.Fatalf("join attempt for %s rejected: %s", userID, reason)
	}
	handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{p})
}

// seat connects a user and binds a roster nickname.
func seat(t *testing.T, handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, userID, nickname string) {
	t.Helper()
	connect(t, handler, state, dispatcher, userID)
	handler.handleMessage(state, dispatcher, noopLogger{}, message(userID, OpJoin, JoinRequest{Nickname: nickname}))
	if state.Nicknames[userID] != nickname {
		t.Fatalf("%s not seated as %q", userID, nickname)
	}
}

func TestMatchInitFallsBackOnBadSize(t *testing.T) {
	handler := &matchHandler{}
	state, _, _ := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"num_players": 9})
	matchState := state.(*MatchState)
	if matchState.Size != 2 {
		t.Fatalf("size = %d, want fallback 2", matchState.Size)
	}
}

func TestSeatingFlow(t *testing.T) {
	handler, state := initMatch(t, 2)
	dispatcher := &mockDispatcher{}

	seat(t, handler, state, dispatcher, "user-1", "alice")
	if _, ok := dispatcher.find(OpPlayerJoined); !ok {
		t.Fatalf("no player-joined broadcast")
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatalf("label not refreshed after seating")
	}

	seat(t, handler, state, dispatcher, "user-2", "bob")
	if state.Match.Phase() != domain.MatchLeaderChoice {
		t.Fatalf("phase = %s, want leader choice", state.Match.Phase())
	}
	if _, ok := dispatcher.find(OpLeaderHand); !ok {
		t.Fatalf("no leader hand broadcast after roster filled")
	}

	// A third connection has no seat to claim.
	p := mockPresence{userID: "user-3"}
	_, allowed, _ := handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, p, nil)
	if allowed {
		t.Fatalf("full match admitted a fresh connection")
	}

	// A seated user reconnects and is always admitted.
	_, allowed, _ = handler.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, mockPresence{userID: "user-1"}, nil)
	if !allowed {
		t.Fatalf("reconnect rejected")
	}
}

func TestJoinNicknameConflicts(t *testing.T) {
	handler, state := initMatch(t, 2)
	dispatcher := &mockDispatcher{}

	seat(t, handler, state, dispatcher, "user-1", "alice")
	connect(t, handler, state, dispatcher, "user-2")

	dispatcher.broadcasts = nil
	handler.handleMessage(state, dispatcher, noopLogger{}, message("user-2", OpJoin, JoinRequest{Nickname: "alice"}))
	errEvent, ok := dispatcher.find(OpError)
	if !ok {
		t.Fatalf("taken nickname produced no error")
	}
	var payload app.ErrorPayload
	if err := json.Unmarshal(errEvent.data, &payload); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if payload.Code != "invalid_nickname" {
		t.Fatalf("code = %s, want invalid_nickname", payload.Code)
	}
	if _, seated := state.Nicknames["user-2"]; seated {
		t.Fatalf("conflicting join still bound a seat")
	}

	// Re-joining under the already-bound nickname is a no-op, not an error.
	dispatcher.broadcasts = nil
	handler.handleMessage(state, dispatcher, noopLogger{}, message("user-1", OpJoin, JoinRequest{Nickname: "alice"}))
	if _, ok := dispatcher.find(OpError); ok {
		t.Fatalf("idempotent rejoin raised an error")
	}
}

func TestUnseatedCommandRejected(t *testing.T) {
	handler, state := initMatch(t, 2)
	dispatcher := &mockDispatcher{}
	connect(t, handler, state, dispatcher, "user-1")

	handler.handleMessage(state, dispatcher, noopLogger{}, message("user-1", OpEndTurn, nil))
	errEvent, ok := dispatcher.find(OpError)
	if !ok {
		t.Fatalf("unseated command produced no error")
	}
	var payload app.ErrorPayload
	json.Unmarshal(errEvent.data, &payload)
	if payload.Code != "not_seated" {
		t.Fatalf("code = %s, want not_seated", payload.Code)
	}
}

func TestCommandDispatch(t *testing.T) {
	handler, state := initMatch(t, 2)
	dispatcher := &mockDispatcher{}
	seat(t, handler, state, dispatcher, "user-1", "alice")
	seat(t, handler, state, dispatcher, "user-2", "bob")

	// A round command during setup bounces with the phase error code.
	dispatcher.broadcasts = nil
	handler.handleMessage(state, dispatcher, noopLogger{}, message("user-1", OpEndTurn, nil))
	errEvent, ok := dispatcher.find(OpError)
	if !ok {
		t.Fatalf("setup-phase command produced no error")
	}
	var payload app.ErrorPayload
	json.Unmarshal(errEvent.data, &payload)
	if payload.Code != "wrong_phase" {
		t.Fatalf("code = %s, want wrong_phase", payload.Code)
	}

	// The leader choice goes through and answers the chooser privately.
	alice, _ := state.Match.Player("alice")
	hand := alice.Board.Leaders()
	dispatcher.broadcasts = nil
	handler.handleMessage(state, dispatcher, noopLogger{}, message("user-1", OpChooseLeaders, ChooseLeadersRequest{
		Keep1: hand[0].ID,
		Keep2: hand[1].ID,
	}))
	handEvent, ok := dispatcher.find(OpLeaderHand)
	if !ok {
		t.Fatalf("no leader hand update after the choice")
	}
	if len(handEvent.recipients) != 1 || handEvent.recipients[0].GetUserId() != "user-1" {
		t.Fatalf("leader hand not targeted at the chooser")
	}
	if len(alice.Board.Leaders()) != 2 {
		t.Fatalf("hand = %d leaders, want 2", len(alice.Board.Leaders()))
	}
}

func TestLeaveKeepsSeatAndTerminatesWhenEmpty(t *testing.T) {
	handler, state := initMatch(t, 2)
	dispatcher := &mockDispatcher{}
	seat(t, handler, state, dispatcher, "user-1", "alice")
	seat(t, handler, state, dispatcher, "user-2", "bob")

	next := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{mockPresence{userID: "user-1"}})
	if next == nil {
		t.Fatalf("match terminated with a player still connected")
	}
	if _, seated := state.Nicknames["user-1"]; !seated {
		t.Fatalf("seat binding lost on disconnect")
	}
	if _, ok := dispatcher.find(OpPlayerLeft); !ok {
		t.Fatalf("no player-left broadcast")
	}

	// The returning player gets the full state replayed.
	dispatcher.broadcasts = nil
	connect(t, handler, state, dispatcher, "user-1")
	if len(dispatcher.broadcasts) == 0 {
		t.Fatalf("no snapshot replay on reconnect")
	}

	next = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{
		mockPresence{userID: "user-1"},
		mockPresence{userID: "user-2"},
	})
	if next != nil {
		t.Fatalf("empty match kept running")
	}
}

func TestMatchLabelMarshal(t *testing.T) {
	handler := &matchHandler{}
	_, state := initMatch(t, 3)
	if got := handler.label(state); got != `{"open":3,"size":3,"phase":"setup"}` {
		t.Fatalf("label = %s", got)
	}
}

func TestParamInt(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   int
	}{
		{"Int", map[string]interface{}{"n": 3}, 3},
		{"Int64", map[string]interface{}{"n": int64(4)}, 4},
		{"Float64", map[string]interface{}{"n": float64(2)}, 2},
		{"String", map[string]interface{}{"n": "1"}, 1},
		{"BadString", map[string]interface{}{"n": "x"}, 7},
		{"Missing", map[string]interface{}{}, 7},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := paramInt(test.params, "n", 7); got != test.want {
				t.Fatalf("paramInt() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestLineSelector(t *testing.T) {
	if sel, err := lineSelector("row"); err != nil || sel != domain.RowLine {
		t.Fatalf("row = %v, %v", sel, err)
	}
	if sel, err := lineSelector("column"); err != nil || sel != domain.ColumnLine {
		t.Fatalf("column = %v, %v", sel, err)
	}
	if _, err := lineSelector("diagonal"); err == nil {
		t.Fatalf("bad selector accepted")
	}
}
