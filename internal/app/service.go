package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"renaissance/internal/domain"
)

// Service contains the match use-cases operating on domain state. It is the
// single entry point for player intents: every handler resolves the actor,
// gates on the current phase, invokes the model, and returns the events to
// dispatch. Handlers mutate nothing when they return an error.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrUnknownPlayer    = errors.New("player not seated in this match")
	ErrWrongPhase       = errors.New("command not legal in the current phase")
	ErrNotCurrentPlayer = errors.New("not this player's turn")
)

// ErrorCode maps an error to a stable identifier clients can switch on.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrNotCurrentPlayer):
		return "not_current_player"
	case errors.Is(err, domain.ErrInvalidNickname):
		return "invalid_nickname"
	case errors.Is(err, domain.ErrMatchFull):
		return "match_full"
	case errors.Is(err, domain.ErrInvalidAddition):
		return "invalid_addition"
	case errors.Is(err, domain.ErrInvalidRemoval):
		return "invalid_removal"
	case errors.Is(err, domain.ErrInvalidSwap):
		return "invalid_swap"
	case errors.Is(err, domain.ErrInvalidMove):
		return "invalid_move"
	case errors.Is(err, domain.ErrInvalidCost):
		return "invalid_cost"
	case errors.Is(err, domain.ErrInvalidProduction):
		return "invalid_production"
	case errors.Is(err, domain.ErrInvalidLeaderAction):
		return "invalid_leader_action"
	case errors.Is(err, domain.ErrRequirementNotMet):
		return "requirement_not_met"
	case errors.Is(err, domain.ErrInvalidDevelopmentCard):
		return "invalid_development_card"
	case errors.Is(err, domain.ErrNoCard):
		return "no_card"
	case errors.Is(err, domain.ErrNotEnoughWhiteMarbles):
		return "not_enough_white_marbles"
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	}
	return "internal"
}

// NewMatch prepares a match for the declared number of players.
func (s *Service) NewMatch(numPlayers int, opts domain.Options) (*domain.Match, error) {
	return domain.NewMatch(numPlayers, opts, s.rng)
}

// resolveActor finds the player and checks they may act right now. Setup
// phases let every seated player act on their own board; round phases only
// admit the current player.
func (s *Service) resolveActor(m *domain.Match, nickname string) (*domain.Player, error) {
	player, err := m.Player(nickname)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, nickname)
	}
	switch m.Phase() {
	case domain.MatchLeaderChoice, domain.MatchResourceChoice:
		return player, nil
	case domain.MatchStandardRound, domain.MatchLastRound:
		if m.CurrentPlayer() != player {
			return nil, ErrNotCurrentPlayer
		}
		return player, nil
	}
	return nil, ErrWrongPhase
}

// resolveCurrentPlayer admits only the current player of a running round.
func (s *Service) resolveCurrentPlayer(m *domain.Match, nickname string) (*domain.Player, error) {
	player, err := m.Player(nickname)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, nickname)
	}
	current := m.CurrentPlayer()
	if current == nil {
		return nil, ErrWrongPhase
	}
	if current != player {
		return nil, ErrNotCurrentPlayer
	}
	return player, nil
}

// Join seats a nickname. When the roster fills, the leader choice opens and
// every player privately receives their dealt hand.
func (s *Service) Join(m *domain.Match, nickname string) ([]Event, error) {
	player, err := m.AddPlayer(nickname)
	if err != nil {
		return nil, err
	}
	events := []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{Nickname: player.Nickname, Seat: len(m.Players()) - 1},
	}}
	if m.Phase() == domain.MatchLeaderChoice {
		events = append(events, matchPhaseEvent(m), marketEvent(m), gridEvent(m))
		for _, p := range m.Players() {
			events = append(events, leaderHandEvent(p), faithEvent(p))
		}
	}
	return events, nil
}

// ChooseLeaders keeps two of the four dealt leaders.
func (s *Service) ChooseLeaders(m *domain.Match, nickname string, keepID1, keepID2 int) ([]Event, error) {
	if m.Phase() != domain.MatchLeaderChoice {
		return nil, ErrWrongPhase
	}
	player, err := s.resolveActor(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.DiscardInitialLeaders(keepID1, keepID2); err != nil {
		return nil, err
	}
	events := []Event{leaderHandEvent(player)}
	if m.Phase() == domain.MatchResourceChoice {
		events = append(events, matchPhaseEvent(m))
	}
	return events, nil
}

// ChooseResources commits the seat's starting resource selection.
func (s *Service) ChooseResources(m *domain.Match, nickname string, selection domain.ResourceMap) ([]Event, error) {
	if m.Phase() != domain.MatchResourceChoice {
		return nil, ErrWrongPhase
	}
	player, err := s.resolveActor(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.ChooseInitialResources(selection); err != nil {
		return nil, err
	}
	events := []Event{temporaryEvent(player)}
	events = append(events, s.roundStartEvents(m)...)
	return events, nil
}

// AddToWarehouse stores pending resources into a depot, during setup or
// after a market draw.
func (s *Service) AddToWarehouse(m *domain.Match, nickname string, depotNumber int, resources domain.ResourceMap) ([]Event, error) {
	player, err := s.resolveActor(m, nickname)
	if err != nil {
		return nil, err
	}
	before := player.Board.Phase()
	if err := player.Board.AddToWarehouse(depotNumber, resources); err != nil {
		return nil, err
	}
	events := []Event{warehouseEvent(player), temporaryEvent(player)}
	if before == domain.BoardTakeFromMarket && player.Board.Phase() == domain.BoardActionDone {
		events = append(events, actionDoneEvent(player))
	}
	events = append(events, s.roundStartEvents(m)...)
	return events, nil
}

// SwapDepots exchanges two standard depots.
func (s *Service) SwapDepots(m *domain.Match, nickname string, depotNumber1, depotNumber2 int) ([]Event, error) {
	player, err := s.resolveActor(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.Swap(depotNumber1, depotNumber2); err != nil {
		return nil, err
	}
	return []Event{warehouseEvent(player)}, nil
}

// MoveDepots shuttles resources between a standard and a special depot.
func (s *Service) MoveDepots(m *domain.Match, nickname string, sourceDepotNumber, destinationDepotNumber, quantity int) ([]Event, error) {
	player, err := s.resolveActor(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.MoveToFromSpecialDepot(sourceDepotNumber, destinationDepotNumber, quantity); err != nil {
		return nil, err
	}
	return []Event{warehouseEvent(player)}, nil
}

// TakeFromMarket draws a market line as the main action of the turn.
func (s *Service) TakeFromMarket(m *domain.Match, nickname string, selector domain.LineSelector, index int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.TakeFromMarket(selector, index); err != nil {
		return nil, err
	}
	events := []Event{marketEvent(m), temporaryEvent(player)}
	events = append(events, s.faithEvents(m)...)
	return events, nil
}

// TransformWhiteMarbles converts drawn white marbles through an active
// leader.
func (s *Service) TransformWhiteMarbles(m *domain.Match, nickname string, leaderID, count int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.TransformWhiteMarbles(leaderID, count); err != nil {
		return nil, err
	}
	return []Event{temporaryEvent(player)}, nil
}

// TransformMarbles turns the drawn marbles into depot-eligible resources.
func (s *Service) TransformMarbles(m *domain.Match, nickname string) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.TransformMarbles(); err != nil {
		return nil, err
	}
	events := []Event{temporaryEvent(player)}
	if player.Board.Phase() == domain.BoardActionDone {
		events = append(events, actionDoneEvent(player))
	}
	return events, nil
}

// DiscardResources throws away unstored market resources, granting faith to
// every opponent.
func (s *Service) DiscardResources(m *domain.Match, nickname string) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.DiscardResourcesFromMarket(); err != nil {
		return nil, err
	}
	events := []Event{temporaryEvent(player), actionDoneEvent(player)}
	events = append(events, s.faithEvents(m)...)
	events = append(events, s.endGameEvents(m)...)
	return events, nil
}

// BuyCard purchases a grid card into a tableau slot as the main action.
func (s *Service) BuyCard(m *domain.Match, nickname string, row, column, slot int, leaderIDs []int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.BuyDevelopmentCard(row, column, slot, leaderIDs); err != nil {
		return nil, err
	}
	return []Event{
		gridEvent(m),
		cardSpaceEvent(player),
		warehouseEvent(player),
		strongboxEvent(player),
		actionDoneEvent(player),
	}, nil
}

// CardProduction fires the power of the top card in a tableau slot.
func (s *Service) CardProduction(m *domain.Match, nickname string, slot int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.ActivateProduction(slot); err != nil {
		return nil, err
	}
	return s.productionEvents(m, player), nil
}

// BasicProduction fires the board's built-in two-for-one power.
func (s *Service) BasicProduction(m *domain.Match, nickname string, payment1, payment2, produced domain.Resource) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.ActivateBasicProduction(payment1, payment2, produced); err != nil {
		return nil, err
	}
	return s.productionEvents(m, player), nil
}

// LeaderProduction fires an active production leader.
func (s *Service) LeaderProduction(m *domain.Match, nickname string, leaderID int, produced domain.Resource) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.ActivateLeaderProduction(leaderID, produced); err != nil {
		return nil, err
	}
	return s.productionEvents(m, player), nil
}

// EndProduction closes the production chain, spending the main action.
func (s *Service) EndProduction(m *domain.Match, nickname string) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.EndProduction(); err != nil {
		return nil, err
	}
	return []Event{actionDoneEvent(player)}, nil
}

// ActivateLeader turns one of the player's leaders face up.
func (s *Service) ActivateLeader(m *domain.Match, nickname string, leaderID int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	depotsBefore := player.Board.Warehouse().NumDepots()
	if err := player.Board.ActivateLeader(leaderID); err != nil {
		return nil, err
	}
	events := []Event{leadersPublicEvent(player)}
	if player.Board.Warehouse().NumDepots() > depotsBefore {
		depot := player.Board.Warehouse().Depot(player.Board.Warehouse().NumDepots())
		events = append(events,
			Event{Kind: EventSpecialDepotAdded, Payload: SpecialDepotAddedPayload{
				Nickname: player.Nickname,
				Resource: depot.RestrictedTo(),
			}},
			warehouseEvent(player),
		)
	}
	return events, nil
}

// DiscardLeader throws away an inactive leader for one faith step.
func (s *Service) DiscardLeader(m *domain.Match, nickname string, leaderID int) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.DiscardLeader(leaderID); err != nil {
		return nil, err
	}
	events := []Event{leaderHandEvent(player), leadersPublicEvent(player)}
	events = append(events, s.faithEvents(m)...)
	events = append(events, s.endGameEvents(m)...)
	return events, nil
}

// EndTurn passes the turn. In a solo match the rival acts in between; the
// last round may end the game here.
func (s *Service) EndTurn(m *domain.Match, nickname string) ([]Event, error) {
	player, err := s.resolveCurrentPlayer(m, nickname)
	if err != nil {
		return nil, err
	}
	if err := player.Board.EndTurn(); err != nil {
		return nil, err
	}
	if err := m.NextPlayer(); err != nil {
		return nil, err
	}
	var events []Event
	if m.Lorenzo() != nil {
		events = append(events, lorenzoEvent(m), gridEvent(m))
		events = append(events, s.faithEvents(m)...)
	}
	if end := s.endGameEvents(m); len(end) > 0 {
		return append(events, end...), nil
	}
	events = append(events, Event{
		Kind:    EventTurnStarted,
		Payload: TurnStartedPayload{Nickname: m.CurrentPlayer().Nickname},
	})
	return events, nil
}

// Snapshot rebuilds the full visible state for one seated player, used when
// a connection comes back. Every event targets only that player.
func (s *Service) Snapshot(m *domain.Match, nickname string) ([]Event, error) {
	player, err := m.Player(nickname)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, nickname)
	}
	events := []Event{matchPhaseEvent(m), marketEvent(m), gridEvent(m)}
	for _, p := range m.Players() {
		events = append(events,
			warehouseEvent(p),
			strongboxEvent(p),
			faithEvent(p),
			cardSpaceEvent(p),
			leadersPublicEvent(p),
		)
	}
	if m.Lorenzo() != nil {
		events = append(events, lorenzoEvent(m))
	}
	events = append(events, leaderHandEvent(player), temporaryEvent(player))
	if m.Phase() == domain.MatchEndGame {
		events = append(events, Event{Kind: EventRanking, Payload: RankingPayload{Entries: m.Ranking(), LorenzoWon: m.LorenzoWon()}})
	}
	for i := range events {
		events[i].Recipients = []string{nickname}
	}
	return events, nil
}

// Leave reports a departed player to the rest of the roster.
func (s *Service) Leave(m *domain.Match, nickname string) []Event {
	return []Event{{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{Nickname: nickname}}}
}

// roundStartEvents announces the standard round once the last setup step
// completes.
func (s *Service) roundStartEvents(m *domain.Match) []Event {
	if m.Phase() != domain.MatchStandardRound || m.CurrentPlayer() == nil {
		return nil
	}
	// Fires only on the transition out of setup: the commands calling this
	// are refused once the rounds are running.
	for _, p := range m.Players() {
		if p.Board.Phase() != domain.BoardActionAvailable {
			return nil
		}
	}
	return []Event{
		matchPhaseEvent(m),
		{Kind: EventTurnStarted, Payload: TurnStartedPayload{Nickname: m.CurrentPlayer().Nickname}},
	}
}

// productionEvents rebuilds the ledgers and faith state touched by any fired
// power.
func (s *Service) productionEvents(m *domain.Match, player *domain.Player) []Event {
	events := []Event{warehouseEvent(player), strongboxEvent(player)}
	events = append(events, s.faithEvents(m)...)
	events = append(events, s.endGameEvents(m)...)
	return events
}

// faithEvents drains pending vatican reports and republishes every marker.
func (s *Service) faithEvents(m *domain.Match) []Event {
	var events []Event
	for _, tile := range m.DrainVaticanReports() {
		events = append(events, Event{Kind: EventVaticanReport, Payload: VaticanReportPayload{Tile: tile}})
	}
	for _, p := range m.Players() {
		events = append(events, faithEvent(p))
	}
	if m.Lorenzo() != nil {
		events = append(events, lorenzoEvent(m))
	}
	return events
}

// endGameEvents publishes the final ranking once the match has ended.
func (s *Service) endGameEvents(m *domain.Match) []Event {
	if m.Phase() != domain.MatchEndGame {
		return nil
	}
	return []Event{
		matchPhaseEvent(m),
		{Kind: EventRanking, Payload: RankingPayload{Entries: m.Ranking(), LorenzoWon: m.LorenzoWon()}},
	}
}

func matchPhaseEvent(m *domain.Match) Event {
	order := make([]string, 0, len(m.Players()))
	for _, p := range m.Players() {
		order = append(order, p.Nickname)
	}
	payload := MatchPhasePayload{Phase: m.Phase(), PlayersOrder: order}
	if current := m.CurrentPlayer(); current != nil {
		payload.CurrentPlayer = current.Nickname
	}
	return Event{Kind: EventMatchPhase, Payload: payload}
}

func marketEvent(m *domain.Match) Event {
	return Event{Kind: EventMarketUpdate, Payload: MarketUpdatePayload{
		Grid:  m.Market().Grid(),
		Extra: m.Market().Extra(),
	}}
}

func gridEvent(m *domain.Match) Event {
	return Event{Kind: EventGridUpdate, Payload: GridUpdatePayload{Cells: m.CardGrid().Snapshot()}}
}

func leaderHandEvent(p *domain.Player) Event {
	ids := make([]int, 0, len(p.Board.Leaders()))
	for _, l := range p.Board.Leaders() {
		ids = append(ids, l.ID)
	}
	return Event{
		Kind:       EventLeaderHand,
		Payload:    LeaderHandPayload{Nickname: p.Nickname, LeaderIDs: ids},
		Recipients: []string{p.Nickname},
	}
}

// leadersPublicEvent shows the roster only the face-up cards.
func leadersPublicEvent(p *domain.Player) Event {
	views := make([]LeaderView, 0, len(p.Board.Leaders()))
	for _, l := range p.Board.Leaders() {
		if l.Active() {
			views = append(views, LeaderView{ID: l.ID, Active: true})
		}
	}
	return Event{Kind: EventLeadersUpdate, Payload: LeadersUpdatePayload{Nickname: p.Nickname, Leaders: views}}
}

func warehouseEvent(p *domain.Player) Event {
	return Event{Kind: EventWarehouseUpdate, Payload: WarehouseUpdatePayload{
		Nickname: p.Nickname,
		Depots:   p.Board.Warehouse().Contents(),
	}}
}

func strongboxEvent(p *domain.Player) Event {
	return Event{Kind: EventStrongboxUpdate, Payload: StrongboxUpdatePayload{
		Nickname:  p.Nickname,
		Resources: p.Board.Strongbox().Contents(),
	}}
}

func faithEvent(p *domain.Player) Event {
	return Event{Kind: EventFaithUpdate, Payload: FaithUpdatePayload{
		Nickname: p.Nickname,
		Position: p.Board.FaithTrack().Position(),
		Tiles:    p.Board.FaithTrack().TileStates(),
	}}
}

func cardSpaceEvent(p *domain.Player) Event {
	return Event{Kind: EventCardSpaceUpdate, Payload: CardSpaceUpdatePayload{
		Nickname: p.Nickname,
		Slots:    p.Board.CardSpace().Snapshot(),
	}}
}

func actionDoneEvent(p *domain.Player) Event {
	return Event{Kind: EventActionDone, Payload: ActionDonePayload{Nickname: p.Nickname}}
}

func temporaryEvent(p *domain.Player) Event {
	return Event{
		Kind: EventTemporaryUpdate,
		Payload: TemporaryUpdatePayload{
			Nickname:  p.Nickname,
			Marbles:   p.Board.TemporaryMarbles(),
			Resources: p.Board.TemporaryResources(),
		},
		Recipients: []string{p.Nickname},
	}
}

func lorenzoEvent(m *domain.Match) Event {
	return Event{Kind: EventLorenzoUpdate, Payload: LorenzoUpdatePayload{
		Action:   m.LastLorenzoAction(),
		Position: m.Lorenzo().FaithTrack().Position(),
		Won:      m.LorenzoWon(),
	}}
}
