package app

import "renaissance/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventError             EventKind = "error"
	EventPlayerJoined      EventKind = "player_joined"
	EventMatchPhase        EventKind = "match_phase"
	EventLeaderHand        EventKind = "leader_hand"
	EventMarketUpdate      EventKind = "market_update"
	EventGridUpdate        EventKind = "grid_update"
	EventWarehouseUpdate   EventKind = "warehouse_update"
	EventStrongboxUpdate   EventKind = "strongbox_update"
	EventFaithUpdate       EventKind = "faith_update"
	EventCardSpaceUpdate   EventKind = "card_space_update"
	EventLeadersUpdate     EventKind = "leaders_update"
	EventTemporaryUpdate   EventKind = "temporary_update"
	EventSpecialDepotAdded EventKind = "special_depot_added"
	EventVaticanReport     EventKind = "vatican_report"
	EventTurnStarted       EventKind = "turn_started"
	EventActionDone        EventKind = "action_done"
	EventLorenzoUpdate     EventKind = "lorenzo_update"
	EventRanking           EventKind = "ranking"
	EventPlayerLeft        EventKind = "player_left"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // nicknames; empty means broadcast
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PlayerJoinedPayload struct {
	Nickname string `json:"nickname"`
	Seat     int    `json:"seat"`
}

type MatchPhasePayload struct {
	Phase         domain.MatchPhase `json:"phase"`
	PlayersOrder  []string          `json:"players_order"`
	CurrentPlayer string            `json:"current_player,omitempty"`
}

type LeaderHandPayload struct {
	Nickname  string `json:"nickname"`
	LeaderIDs []int  `json:"leader_ids"`
}

type MarketUpdatePayload struct {
	Grid  [domain.MarketRows][domain.MarketColumns]domain.Marble `json:"grid"`
	Extra domain.Marble                                          `json:"extra"`
}

type GridUpdatePayload struct {
	Cells [domain.GridLevels][domain.GridColumns]domain.GridCell `json:"cells"`
}

type WarehouseUpdatePayload struct {
	Nickname string               `json:"nickname"`
	Depots   []domain.ResourceMap `json:"depots"`
}

type StrongboxUpdatePayload struct {
	Nickname  string             `json:"nickname"`
	Resources domain.ResourceMap `json:"resources"`
}

type FaithUpdatePayload struct {
	Nickname string                                `json:"nickname"`
	Position int                                   `json:"position"`
	Tiles    [domain.NumPopeTiles]domain.TileState `json:"tiles"`
}

type CardSpaceUpdatePayload struct {
	Nickname string                  `json:"nickname"`
	Slots    [domain.CardSlots][]int `json:"slots"`
}

// LeaderView is the public face of one leader card. Inactive cards are only
// shown to their owner.
type LeaderView struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}

type LeadersUpdatePayload struct {
	Nickname string       `json:"nickname"`
	Leaders  []LeaderView `json:"leaders"`
}

type TemporaryUpdatePayload struct {
	Nickname  string             `json:"nickname"`
	Marbles   domain.MarbleMap   `json:"marbles"`
	Resources domain.ResourceMap `json:"resources"`
}

type SpecialDepotAddedPayload struct {
	Nickname string          `json:"nickname"`
	Resource domain.Resource `json:"resource"`
}

type VaticanReportPayload struct {
	Tile int `json:"tile"`
}

type TurnStartedPayload struct {
	Nickname string `json:"nickname"`
}

type ActionDonePayload struct {
	Nickname string `json:"nickname"`
}

type LorenzoUpdatePayload struct {
	Action   domain.LorenzoAction `json:"action,omitempty"`
	Position int                  `json:"position"`
	Won      bool                 `json:"won"`
}

type RankingPayload struct {
	Entries    []domain.RankEntry `json:"entries"`
	LorenzoWon bool               `json:"lorenzo_won,omitempty"`
}

type PlayerLeftPayload struct {
	Nickname string `json:"nickname"`
}
