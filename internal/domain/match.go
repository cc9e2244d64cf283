package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// MaxPlayers is the largest supported roster.
const MaxPlayers = 4

// DefaultDevCardEndCount is how many tableau cards trigger the last round.
const DefaultDevCardEndCount = 7

// MatchPhase is the coarse lifecycle of a match.
type MatchPhase string

const (
	// MatchSetup waits for the declared number of players to join.
	MatchSetup MatchPhase = "setup"
	// MatchLeaderChoice waits for every player to keep two leaders.
	MatchLeaderChoice MatchPhase = "leader_choice"
	// MatchResourceChoice waits for every player to commit starting resources.
	MatchResourceChoice MatchPhase = "resource_choice"
	// MatchStandardRound is the round-robin turn loop.
	MatchStandardRound MatchPhase = "standard_round"
	// MatchLastRound finishes the current round after an end trigger fired.
	MatchLastRound MatchPhase = "last_round"
	// MatchEndGame means the final ranking is fixed.
	MatchEndGame MatchPhase = "end_game"
)

// Seat-dependent starting allotments, by join order.
var (
	initialResourceAllotment = [MaxPlayers]int{0, 1, 1, 2}
	initialFaithAllotment    = [MaxPlayers]int{0, 0, 1, 1}
)

// Options tunes a match at creation time. The zero value plays the standard
// game.
type Options struct {
	// DevCardEndCount overrides how many bought cards trigger the last
	// round. Zero keeps the standard count; demo deployments lower it.
	DevCardEndCount int
	// DevelopmentCards overrides the card set dealt into the grid.
	DevelopmentCards []*DevelopmentCard
	// LeaderCards overrides the leader deck.
	LeaderCards []*LeaderCard
}

// Player couples a roster nickname with its personal board.
type Player struct {
	Nickname string
	Board    *PersonalBoard
}

// RankEntry is one line of the final ranking.
type RankEntry struct {
	Nickname      string `json:"nickname"`
	VictoryPoints int    `json:"victory_points"`
	Resources     int    `json:"resources"`
}

// Match owns the roster, the shared market and card grid, the phase machine
// and the cross-player effects of faith movement. A single-player match also
// runs the automated rival. Match methods are not safe for concurrent use;
// the caller serializes access.
type Match struct {
	rng        *rand.Rand
	numPlayers int
	players    []*Player

	market     *Market
	cardGrid   *CardGrid
	leaderDeck []*LeaderCard
	dealt      int

	phase      MatchPhase
	current    int
	readyCount int

	reportedTiles   [NumPopeTiles]bool
	pendingReports  []int
	devCardEndCount int

	lorenzo           *Lorenzo
	lorenzoWon        bool
	lastLorenzoAction LorenzoAction

	ranking []RankEntry
}

// NewMatch prepares a match for the declared number of players.
func NewMatch(numPlayers int, opts Options, rng *rand.Rand) (*Match, error) {
	if numPlayers < 1 || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("%w: player count must be between 1 and %d", ErrInvalidParameter, MaxPlayers)
	}
	devCards := opts.DevelopmentCards
	if devCards == nil {
		devCards = DefaultDevelopmentCards()
	}
	leaderDeck := opts.LeaderCards
	if leaderDeck == nil {
		leaderDeck = DefaultLeaderCards()
	}
	if len(leaderDeck) < numPlayers*4 {
		return nil, fmt.Errorf("%w: leader deck too small", ErrInvalidParameter)
	}
	leaderDeck = append([]*LeaderCard(nil), leaderDeck...)
	rng.Shuffle(len(leaderDeck), func(i, j int) { leaderDeck[i], leaderDeck[j] = leaderDeck[j], leaderDeck[i] })

	endCount := opts.DevCardEndCount
	if endCount <= 0 {
		endCount = DefaultDevCardEndCount
	}

	m := &Match{
		rng:             rng,
		numPlayers:      numPlayers,
		market:          NewMarket(rng),
		cardGrid:        NewCardGrid(devCards, rng),
		leaderDeck:      leaderDeck,
		phase:           MatchSetup,
		devCardEndCount: endCount,
	}
	if numPlayers == 1 {
		m.lorenzo = NewLorenzo(rng)
	}
	return m, nil
}

// Phase returns the match phase.
func (m *Match) Phase() MatchPhase { return m.phase }

// NumPlayers returns the declared roster size.
func (m *Match) NumPlayers() int { return m.numPlayers }

// Players returns the roster in join order.
func (m *Match) Players() []*Player { return m.players }

// Market returns the shared marble market.
func (m *Match) Market() *Market { return m.market }

// CardGrid returns the shared development card grid.
func (m *Match) CardGrid() *CardGrid { return m.cardGrid }

// Lorenzo returns the solo rival, or nil in a multiplayer match.
func (m *Match) Lorenzo() *Lorenzo { return m.lorenzo }

// LorenzoWon reports whether the solo rival ended the game in its favour.
func (m *Match) LorenzoWon() bool { return m.lorenzoWon }

// LastLorenzoAction returns the most recently revealed rival token.
func (m *Match) LastLorenzoAction() LorenzoAction { return m.lastLorenzoAction }

// AddPlayer seats a new nickname. Once the declared count is reached the
// match deals starting advantages and opens the leader choice.
func (m *Match) AddPlayer(nickname string) (*Player, error) {
	if m.phase != MatchSetup {
		return nil, ErrMatchFull
	}
	if nickname == "" {
		return nil, fmt.Errorf("%w: empty nickname", ErrInvalidNickname)
	}
	for _, p := range m.players {
		if p.Nickname == nickname {
			return nil, fmt.Errorf("%w: %q is taken", ErrInvalidNickname, nickname)
		}
	}
	hand := append([]*LeaderCard(nil), m.leaderDeck[m.dealt:m.dealt+4]...)
	m.dealt += 4
	player := &Player{Nickname: nickname, Board: newPersonalBoard(m, hand)}
	m.players = append(m.players, player)

	if len(m.players) == m.numPlayers {
		for seat, p := range m.players {
			p.Board.grantInitialAdvantage(initialResourceAllotment[seat], initialFaithAllotment[seat])
		}
		m.phase = MatchLeaderChoice
	}
	return player, nil
}

// Player finds a roster entry by nickname.
func (m *Match) Player(nickname string) (*Player, error) {
	for _, p := range m.players {
		if p.Nickname == nickname {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not seated here", ErrInvalidNickname, nickname)
}

// CurrentPlayer returns the player whose turn it is, or nil outside the
// round phases.
func (m *Match) CurrentPlayer() *Player {
	if m.phase != MatchStandardRound && m.phase != MatchLastRound {
		return nil
	}
	return m.players[m.current]
}

// playerLeadersChosen counts leader choices; the last one opens the
// resource choice.
func (m *Match) playerLeadersChosen() {
	m.readyCount++
	if m.readyCount == m.numPlayers {
		m.readyCount = 0
		m.phase = MatchResourceChoice
	}
}

// playerSetupDone counts completed setups; the last one starts the rounds.
func (m *Match) playerSetupDone() {
	m.readyCount++
	if m.readyCount == m.numPlayers {
		m.readyCount = 0
		m.current = 0
		m.phase = MatchStandardRound
	}
}

// NextPlayer passes the turn. In a solo match the rival acts in between; in
// the last round, completing the circle ends the game.
func (m *Match) NextPlayer() error {
	if m.phase != MatchStandardRound && m.phase != MatchLastRound {
		return fmt.Errorf("%w: no turn in progress", ErrInvalidMove)
	}
	// The rival draws tokens only during standard rounds.
	if m.lorenzo != nil && m.phase == MatchStandardRound {
		m.advanceLorenzo()
		if m.phase == MatchEndGame {
			return nil
		}
	}
	next := (m.current + 1) % len(m.players)
	if m.phase == MatchLastRound && next == 0 {
		m.endGame()
		return nil
	}
	m.current = next
	return nil
}

// advanceLorenzo draws and applies one rival token.
func (m *Match) advanceLorenzo() {
	action := m.lorenzo.Draw()
	m.lastLorenzoAction = action
	if color, ok := action.discardColor(); ok {
		m.cardGrid.DiscardLowest(color, lorenzoDiscardCards)
		if m.cardGrid.ColorExhausted(color) {
			m.lorenzoWon = true
			m.endGame()
		}
		return
	}
	steps := 1
	if action == LorenzoFaithTwo {
		steps = 2
	}
	m.lorenzo.faith.MoveFaithMarker(steps)
	m.onFaithAdvance(m.lorenzo.faith)
}

// onFaithAdvance reacts to any marker reaching a new position: it fires
// vatican reports for windows entered for the first time and checks the
// end-of-game trigger.
func (m *Match) onFaithAdvance(track *FaithTrack) {
	for tile := 1; tile <= NumPopeTiles; tile++ {
		if m.reportedTiles[tile-1] || !track.InTileWindow(tile) {
			continue
		}
		m.reportedTiles[tile-1] = true
		for _, p := range m.players {
			p.Board.faith.SetPopeFavourTile(tile)
		}
		if m.lorenzo != nil {
			m.lorenzo.faith.SetPopeFavourTile(tile)
		}
		m.pendingReports = append(m.pendingReports, tile)
	}
	if track.Position() < TrackCeiling {
		return
	}
	if m.lorenzo != nil && track == m.lorenzo.faith {
		m.lorenzoWon = true
		m.endGame()
		return
	}
	m.triggerLastRound()
}

// playerBoughtCard checks the purchase-driven end triggers.
func (m *Match) playerBoughtCard(b *PersonalBoard) {
	if b.cardSpace.TotalCards() >= m.devCardEndCount || m.cardGrid.AnyColorExhausted() {
		m.triggerLastRound()
	}
}

// penalizeOpponents advances everyone else's marker after a market discard.
// The solo rival takes the penalty in a single-player match.
func (m *Match) penalizeOpponents(b *PersonalBoard, steps int) {
	if m.lorenzo != nil {
		m.lorenzo.faith.MoveFaithMarker(steps)
		m.onFaithAdvance(m.lorenzo.faith)
		return
	}
	for _, p := range m.players {
		if p.Board == b {
			continue
		}
		p.Board.advanceFaith(steps)
	}
}

// triggerLastRound flips the round loop into its final lap.
func (m *Match) triggerLastRound() {
	if m.phase == MatchStandardRound {
		m.phase = MatchLastRound
	}
}

// endGame fixes the final ranking: victory points, ties broken by stored
// resource count.
func (m *Match) endGame() {
	m.phase = MatchEndGame
	ranking := make([]RankEntry, 0, len(m.players))
	for _, p := range m.players {
		ranking = append(ranking, RankEntry{
			Nickname:      p.Nickname,
			VictoryPoints: p.Board.SumVictoryPoints(),
			Resources:     p.Board.TotalResources(),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].VictoryPoints != ranking[j].VictoryPoints {
			return ranking[i].VictoryPoints > ranking[j].VictoryPoints
		}
		return ranking[i].Resources > ranking[j].Resources
	})
	m.ranking = ranking
}

// Ranking returns the final standings once the match ended.
func (m *Match) Ranking() []RankEntry {
	return append([]RankEntry(nil), m.ranking...)
}

// DrainVaticanReports returns the tile numbers reported since the last call.
func (m *Match) DrainVaticanReports() []int {
	reports := m.pendingReports
	m.pendingReports = nil
	return reports
}
