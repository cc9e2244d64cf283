package domain

import "errors"

// Domain rule violations. Every mutator returns one of these sentinels,
// possibly wrapped with detail; the adapter converts them to error events.
var (
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrInvalidAddition        = errors.New("invalid addition")
	ErrInvalidRemoval         = errors.New("invalid removal")
	ErrInvalidSwap            = errors.New("invalid swap")
	ErrInvalidMove            = errors.New("invalid move")
	ErrInvalidCost            = errors.New("invalid cost")
	ErrInvalidProduction      = errors.New("invalid production")
	ErrInvalidLeaderAction    = errors.New("invalid leader action")
	ErrRequirementNotMet      = errors.New("requirement not met")
	ErrInvalidDevelopmentCard = errors.New("invalid development card placement")
	ErrNoCard                 = errors.New("no card in the selected stack")
	ErrInvalidNickname        = errors.New("invalid nickname")
	ErrNotEnoughWhiteMarbles  = errors.New("not enough white marbles")
	ErrMatchFull              = errors.New("match is full")
)
