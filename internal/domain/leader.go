package domain

import "fmt"

// AbilityKind tags the single power variant a leader card carries.
type AbilityKind string

const (
	// AbilityDiscount subtracts a fixed quantity of one resource from prices.
	AbilityDiscount AbilityKind = "discount"
	// AbilityExtraDepot grants a special depot keyed to one resource kind.
	AbilityExtraDepot AbilityKind = "extra_depot"
	// AbilityWhiteMarble converts drawn white marbles into one resource kind.
	AbilityWhiteMarble AbilityKind = "white_marble"
	// AbilityProduction grants an extra production power.
	AbilityProduction AbilityKind = "production"
)

// Ability is the tagged variant of a leader power. Resource and Amount are
// interpreted per kind: the discounted resource and quantity, the special
// depot's resource kind and capacity, the white-marble yield kind (Amount
// unused; conversions are uncapped), or the production cost kind and
// quantity.
type Ability struct {
	Kind     AbilityKind
	Resource Resource
	Amount   int
}

// LeaderCard is a player-private card granting one ability once activated.
type LeaderCard struct {
	ID            int
	VictoryPoints int
	Requirement   Requirement
	Ability       Ability

	active bool
}

// Active reports whether the card has been activated this match.
func (l *LeaderCard) Active() bool { return l.active }

// Activate irreversibly turns the card face up. Requirement checks are the
// personal board's responsibility, since they need the board's ledgers.
func (l *LeaderCard) Activate() { l.active = true }

// DiscountPrice applies the discount ability to a price map, flooring each
// entry at removal of the key. Cards without the discount ability report an
// invalid leader action instead of silently doing nothing.
func (l *LeaderCard) DiscountPrice(price ResourceMap) error {
	if l.Ability.Kind != AbilityDiscount {
		return fmt.Errorf("%w: card %d has no discount power", ErrInvalidLeaderAction, l.ID)
	}
	current, ok := price[l.Ability.Resource]
	if !ok {
		return nil
	}
	if current > l.Ability.Amount {
		price[l.Ability.Resource] = current - l.Ability.Amount
	} else {
		delete(price, l.Ability.Resource)
	}
	return nil
}

// SpecialDepotResource returns the resource kind of the depot this card
// grants on activation.
func (l *LeaderCard) SpecialDepotResource() (Resource, error) {
	if l.Ability.Kind != AbilityExtraDepot {
		return "", fmt.Errorf("%w: card %d grants no depot", ErrInvalidLeaderAction, l.ID)
	}
	return l.Ability.Resource, nil
}

// TransformWhiteMarbles converts count white marbles in the given multiset
// into the marbles of this card's yield resource.
func (l *LeaderCard) TransformWhiteMarbles(marbles MarbleMap, count int) error {
	if l.Ability.Kind != AbilityWhiteMarble {
		return fmt.Errorf("%w: card %d has no marble power", ErrInvalidLeaderAction, l.ID)
	}
	if count <= 0 {
		return fmt.Errorf("%w: conversion count must be positive", ErrInvalidParameter)
	}
	if marbles[WhiteMarble] < count {
		return ErrNotEnoughWhiteMarbles
	}
	yield, ok := marbleFor(l.Ability.Resource)
	if !ok {
		return fmt.Errorf("%w: card %d yields no marble", ErrInvalidLeaderAction, l.ID)
	}
	marbles[WhiteMarble] -= count
	if marbles[WhiteMarble] == 0 {
		delete(marbles, WhiteMarble)
	}
	marbles[yield] += count
	return nil
}

// ProductionPower returns the extra production power of this card. The
// produced resource is chosen by the player at activation time; the power's
// production map carries only the fixed faith point.
func (l *LeaderCard) ProductionPower() (PowerOfProduction, error) {
	if l.Ability.Kind != AbilityProduction {
		return PowerOfProduction{}, fmt.Errorf("%w: card %d has no production power", ErrInvalidLeaderAction, l.ID)
	}
	return PowerOfProduction{
		Cost:       ResourceMap{l.Ability.Resource: l.Ability.Amount},
		Production: ResourceMap{Faith: 1},
	}, nil
}
