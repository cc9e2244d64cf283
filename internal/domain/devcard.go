package domain

// CardColor is the family color of a development card.
type CardColor string

const (
	GreenCard  CardColor = "green"
	BlueCard   CardColor = "blue"
	YellowCard CardColor = "yellow"
	PurpleCard CardColor = "purple"
)

// CardColors lists every color in grid column order.
var CardColors = []CardColor{GreenCard, BlueCard, YellowCard, PurpleCard}

// PowerOfProduction is a cost-to-output resource mapping, activatable at most
// once per turn per source.
type PowerOfProduction struct {
	Cost       ResourceMap
	Production ResourceMap
}

// DevelopmentCard is an immutable purchasable card.
type DevelopmentCard struct {
	ID            int
	Color         CardColor
	Level         int
	Price         ResourceMap
	VictoryPoints int
	Power         PowerOfProduction
}

// CardRequirement is one threshold over owned development cards. Level is a
// minimum, with 0 matching any level; Count 0 is treated as 1.
type CardRequirement struct {
	Color CardColor
	Level int
	Count int
}

// Requirement gates the activation of a leader card. Both parts must hold;
// a nil part always holds.
type Requirement struct {
	Resources ResourceMap
	Cards     []CardRequirement
}
