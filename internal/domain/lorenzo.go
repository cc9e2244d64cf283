package domain

import "math/rand"

// LorenzoName is the fixed roster name of the solo rival.
const LorenzoName = "Lorenzo il Magnifico"

// LorenzoAction is one face-down rival token.
type LorenzoAction string

const (
	// LorenzoDiscardGreen removes two green cards from the grid, lowest first.
	LorenzoDiscardGreen LorenzoAction = "discard_green"
	// LorenzoDiscardBlue removes two blue cards from the grid, lowest first.
	LorenzoDiscardBlue LorenzoAction = "discard_blue"
	// LorenzoDiscardYellow removes two yellow cards from the grid, lowest first.
	LorenzoDiscardYellow LorenzoAction = "discard_yellow"
	// LorenzoDiscardPurple removes two purple cards from the grid, lowest first.
	LorenzoDiscardPurple LorenzoAction = "discard_purple"
	// LorenzoFaithTwo advances the rival's faith marker by two.
	LorenzoFaithTwo LorenzoAction = "faith_two"
	// LorenzoFaithShuffle advances the rival's marker by one and reshuffles
	// the token deck.
	LorenzoFaithShuffle LorenzoAction = "faith_shuffle"
)

// lorenzoDiscardCards is how many cards each discard token removes.
const lorenzoDiscardCards = 2

// discardColor maps a discard token to its grid column color.
func (a LorenzoAction) discardColor() (CardColor, bool) {
	switch a {
	case LorenzoDiscardGreen:
		return GreenCard, true
	case LorenzoDiscardBlue:
		return BlueCard, true
	case LorenzoDiscardYellow:
		return YellowCard, true
	case LorenzoDiscardPurple:
		return PurpleCard, true
	}
	return "", false
}

// Lorenzo is the automated rival of a solo match. It draws one token after
// every player turn; the match applies the token's effect.
type Lorenzo struct {
	rng   *rand.Rand
	faith *FaithTrack
	deck  []LorenzoAction
	next  int
}

// NewLorenzo deals a shuffled rival token deck.
func NewLorenzo(rng *rand.Rand) *Lorenzo {
	l := &Lorenzo{rng: rng, faith: NewFaithTrack()}
	l.shuffle()
	return l
}

func (l *Lorenzo) shuffle() {
	l.deck = []LorenzoAction{
		LorenzoDiscardGreen, LorenzoDiscardBlue, LorenzoDiscardYellow, LorenzoDiscardPurple,
		LorenzoFaithTwo, LorenzoFaithShuffle,
	}
	l.rng.Shuffle(len(l.deck), func(i, j int) { l.deck[i], l.deck[j] = l.deck[j], l.deck[i] })
	l.next = 0
}

// Draw reveals the next token. The shuffle token rebuilds the deck after its
// own effect; the deck can never run dry before it shows up.
func (l *Lorenzo) Draw() LorenzoAction {
	action := l.deck[l.next]
	l.next++
	if action == LorenzoFaithShuffle || l.next >= len(l.deck) {
		l.shuffle()
	}
	return action
}

// FaithTrack returns the rival's faith track.
func (l *Lorenzo) FaithTrack() *FaithTrack { return l.faith }
