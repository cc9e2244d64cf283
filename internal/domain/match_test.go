package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestAddPlayerValidation(t *testing.T) {
	m, err := NewMatch(2, Options{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if _, err := m.AddPlayer(""); !errors.Is(err, ErrInvalidNickname) {
		t.Fatalf("empty nickname = %v, want invalid nickname", err)
	}
	if _, err := m.AddPlayer("alice"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, err := m.AddPlayer("alice"); !errors.Is(err, ErrInvalidNickname) {
		t.Fatalf("duplicate nickname = %v, want invalid nickname", err)
	}
	if _, err := m.AddPlayer("bob"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, err := m.AddPlayer("carol"); !errors.Is(err, ErrMatchFull) {
		t.Fatalf("extra player = %v, want match full", err)
	}
}

func TestNewMatchPlayerCountBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewMatch(0, Options{}, rng); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("0 players = %v, want invalid parameter", err)
	}
	if _, err := NewMatch(5, Options{}, rng); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("5 players = %v, want invalid parameter", err)
	}
}

func TestSetupPhaseTransitions(t *testing.T) {
	m, _ := NewMatch(2, Options{}, rand.New(rand.NewSource(4)))
	if m.Phase() != MatchSetup {
		t.Fatalf("phase = %s, want setup", m.Phase())
	}
	alice, _ := m.AddPlayer("alice")
	if m.Phase() != MatchSetup {
		t.Fatalf("phase advanced before the roster filled")
	}
	bob, _ := m.AddPlayer("bob")
	if m.Phase() != MatchLeaderChoice {
		t.Fatalf("phase = %s, want leader choice", m.Phase())
	}
	if len(alice.Board.Leaders()) != 4 || len(bob.Board.Leaders()) != 4 {
		t.Fatalf("dealt hands = %d/%d, want 4/4", len(alice.Board.Leaders()), len(bob.Board.Leaders()))
	}

	aliceHand := alice.Board.Leaders()
	alice.Board.DiscardInitialLeaders(aliceHand[0].ID, aliceHand[1].ID)
	if m.Phase() != MatchLeaderChoice {
		t.Fatalf("phase advanced before every choice was in")
	}
	bobHand := bob.Board.Leaders()
	bob.Board.DiscardInitialLeaders(bobHand[2].ID, bobHand[3].ID)
	if m.Phase() != MatchResourceChoice {
		t.Fatalf("phase = %s, want resource choice", m.Phase())
	}

	alice.Board.ChooseInitialResources(ResourceMap{})
	if m.Phase() != MatchResourceChoice {
		t.Fatalf("phase advanced before every setup finished")
	}
	bob.Board.ChooseInitialResources(ResourceMap{Servant: 1})
	bob.Board.AddToWarehouse(2, ResourceMap{Servant: 1})
	if m.Phase() != MatchStandardRound {
		t.Fatalf("phase = %s, want standard round", m.Phase())
	}
	if m.CurrentPlayer() != alice {
		t.Fatalf("current = %v, want alice", m.CurrentPlayer())
	}
}

func TestVaticanReportFiresOncePerTile(t *testing.T) {
	m, alice, bob := twoPlayerMatch(t)

	bob.Board.faith.MoveFaithMarker(8) // inside tile 1 window, moved silently
	alice.Board.advanceFaith(5)        // alice enters the window and triggers

	if reports := m.DrainVaticanReports(); len(reports) != 1 || reports[0] != 1 {
		t.Fatalf("reports = %v, want [1]", reports)
	}
	if alice.Board.FaithTrack().Tile(1) != TileActive {
		t.Fatalf("alice tile 1 = %v, want active", alice.Board.FaithTrack().Tile(1))
	}
	if bob.Board.FaithTrack().Tile(1) != TileActive {
		t.Fatalf("bob tile 1 = %v, want active", bob.Board.FaithTrack().Tile(1))
	}

	// Another movement inside the same window must not re-report.
	alice.Board.advanceFaith(1)
	if reports := m.DrainVaticanReports(); len(reports) != 0 {
		t.Fatalf("tile 1 reported twice: %v", reports)
	}
}

func TestVaticanReportLapsesOutOfWindow(t *testing.T) {
	m, alice, bob := twoPlayerMatch(t)
	alice.Board.advanceFaith(5)
	m.DrainVaticanReports()

	// Bob sits at 0, outside the window, so his tile lapses for good.
	if got := bob.Board.FaithTrack().Tile(1); got != TileLapsed {
		t.Fatalf("bob tile 1 = %v, want lapsed", got)
	}
	bob.Board.advanceFaith(8)
	if got := bob.Board.FaithTrack().Tile(1); got != TileLapsed {
		t.Fatalf("bob tile 1 re-evaluated to %v", got)
	}
}

func TestFaithCeilingTriggersLastRound(t *testing.T) {
	m, alice, bob := twoPlayerMatch(t)

	alice.Board.advanceFaith(TrackCeiling)
	if m.Phase() != MatchLastRound {
		t.Fatalf("phase = %s, want last round", m.Phase())
	}

	// Alice finishes her turn; bob takes the final one; the wrap ends the
	// game.
	alice.Board.phase = BoardActionDone
	if err := alice.Board.EndTurn(); err != nil {
		t.Fatalf("EndTurn(alice): %v", err)
	}
	if err := m.NextPlayer(); err != nil {
		t.Fatalf("NextPlayer: %v", err)
	}
	if m.CurrentPlayer() != bob {
		t.Fatalf("current is not bob")
	}
	bob.Board.phase = BoardActionDone
	bob.Board.EndTurn()
	if err := m.NextPlayer(); err != nil {
		t.Fatalf("NextPlayer: %v", err)
	}
	if m.Phase() != MatchEndGame {
		t.Fatalf("phase = %s, want end game", m.Phase())
	}
	if len(m.Ranking()) != 2 {
		t.Fatalf("ranking = %v", m.Ranking())
	}
	if m.Ranking()[0].Nickname != "alice" {
		t.Fatalf("winner = %s, want alice", m.Ranking()[0].Nickname)
	}
}

func TestDevCardCountTriggersLastRound(t *testing.T) {
	m, alice, _ := twoPlayerMatch(t)
	if m.Phase() != MatchStandardRound {
		t.Fatalf("phase = %s", m.Phase())
	}

	// A demo threshold of one card ends the round on the first purchase.
	m.devCardEndCount = 1
	alice.Board.Strongbox().Add(ResourceMap{Coin: 1})
	if err := alice.Board.BuyDevelopmentCard(0, 0, 1, nil); err != nil {
		t.Fatalf("BuyDevelopmentCard: %v", err)
	}
	if m.Phase() != MatchLastRound {
		t.Fatalf("phase = %s, want last round", m.Phase())
	}
}

func TestRankingTieBreakByResources(t *testing.T) {
	m, alice, bob := twoPlayerMatch(t)

	// Equal victory points; bob holds more resources.
	alice.Board.Strongbox().Add(ResourceMap{Coin: 1})
	bob.Board.Strongbox().Add(ResourceMap{Coin: 2})
	m.endGame()

	ranking := m.Ranking()
	if ranking[0].Nickname != "bob" {
		t.Fatalf("ranking = %v, want bob first", ranking)
	}
	if ranking[0].VictoryPoints != ranking[1].VictoryPoints {
		t.Fatalf("expected a tie on points: %v", ranking)
	}
}

func TestSoloLorenzoActs(t *testing.T) {
	m, p := soloMatch(t)
	if m.Lorenzo() == nil {
		t.Fatalf("solo match has no rival")
	}

	gridBefore := 0
	for _, row := range m.CardGrid().Snapshot() {
		for _, cell := range row {
			gridBefore += cell.Remaining
		}
	}

	p.Board.phase = BoardActionDone
	p.Board.EndTurn()
	if err := m.NextPlayer(); err != nil {
		t.Fatalf("NextPlayer: %v", err)
	}

	gridAfter := 0
	for _, row := range m.CardGrid().Snapshot() {
		for _, cell := range row {
			gridAfter += cell.Remaining
		}
	}

	// Exactly one token fired: either cards left the grid or the rival's
	// marker moved.
	moved := m.Lorenzo().FaithTrack().Position()
	if gridBefore-gridAfter == 0 && moved == 0 {
		t.Fatalf("no rival effect observed")
	}
	if m.LastLorenzoAction() == "" {
		t.Fatalf("no rival token recorded")
	}
	if m.CurrentPlayer() != p {
		t.Fatalf("turn did not come back to the player")
	}
}

func TestSoloLorenzoGridWin(t *testing.T) {
	m, _ := soloMatch(t)
	// Drain a color down to the rival's reach.
	m.cardGrid.DiscardLowest(GreenCard, 2)
	m.lorenzo.deck = []LorenzoAction{LorenzoDiscardGreen}
	m.lorenzo.next = 0

	m.advanceLorenzo()
	if !m.LorenzoWon() {
		t.Fatalf("rival should win on grid exhaustion")
	}
	if m.Phase() != MatchEndGame {
		t.Fatalf("phase = %s, want end game", m.Phase())
	}
}

func TestSoloRivalSitsOutLastRound(t *testing.T) {
	m, p := soloMatch(t)
	// Two green cards within the rival's reach; a token draw would win.
	m.cardGrid.DiscardLowest(GreenCard, 2)
	m.lorenzo.deck = []LorenzoAction{LorenzoDiscardGreen}
	m.lorenzo.next = 0

	p.Board.advanceFaith(TrackCeiling)
	if m.Phase() != MatchLastRound {
		t.Fatalf("phase = %s, want last round", m.Phase())
	}

	p.Board.phase = BoardActionDone
	p.Board.EndTurn()
	if err := m.NextPlayer(); err != nil {
		t.Fatalf("NextPlayer: %v", err)
	}
	if m.LorenzoWon() {
		t.Fatalf("rival drew a token during the last round")
	}
	if m.Phase() != MatchEndGame {
		t.Fatalf("phase = %s, want end game", m.Phase())
	}
	if m.Ranking()[0].Nickname != p.Nickname {
		t.Fatalf("winner = %s, want %s", m.Ranking()[0].Nickname, p.Nickname)
	}
}

func TestSoloDiscardPenaltyMovesLorenzo(t *testing.T) {
	m, p := soloMatch(t)
	b := p.Board

	if err := b.TakeFromMarket(ColumnLine, 0); err != nil {
		t.Fatalf("TakeFromMarket: %v", err)
	}
	if b.TemporaryMarbles().Total() > 0 {
		if err := b.TransformMarbles(); err != nil {
			t.Fatalf("TransformMarbles: %v", err)
		}
	}
	discarded := b.TemporaryResources().Total()
	if discarded == 0 {
		t.Skip("column yielded no storable resources with this seed")
	}
	if err := b.DiscardResourcesFromMarket(); err != nil {
		t.Fatalf("DiscardResourcesFromMarket: %v", err)
	}
	if got := m.Lorenzo().FaithTrack().Position(); got != discarded {
		t.Fatalf("rival faith = %d, want %d", got, discarded)
	}
}
