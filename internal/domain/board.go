package domain

import "fmt"

// BoardPhase tracks where a single player stands inside the setup flow and,
// once the rounds start, inside their own turn.
type BoardPhase string

const (
	// BoardLeaderChoice waits for the player to keep two of four leader cards.
	BoardLeaderChoice BoardPhase = "leader_choice"
	// BoardResourceChoice waits for the player to pick their initial resources.
	BoardResourceChoice BoardPhase = "resource_choice"
	// BoardAddInitialResources waits for the chosen resources to be stored.
	BoardAddInitialResources BoardPhase = "add_initial_resources"
	// BoardActionAvailable means the main action of the turn is still open.
	BoardActionAvailable BoardPhase = "action_available"
	// BoardTakeFromMarket means drawn marbles or resources await handling.
	BoardTakeFromMarket BoardPhase = "take_from_market"
	// BoardProduction means at least one production fired and more may follow.
	BoardProduction BoardPhase = "production"
	// BoardActionDone means the main action is spent; only leader actions and
	// depot reshuffles remain until the turn ends.
	BoardActionDone BoardPhase = "action_done"
)

// ProductionSourceKind discriminates where a production power comes from.
type ProductionSourceKind string

const (
	SourceBasic    ProductionSourceKind = "basic"
	SourceCardSlot ProductionSourceKind = "card_slot"
	SourceLeader   ProductionSourceKind = "leader"
)

// ProductionSource identifies one production power for the once-per-turn
// rule. Card slot sources carry the slot number, leader sources the card id,
// so the key stays stable even when cards move or leaders are discarded.
type ProductionSource struct {
	Kind  ProductionSourceKind
	Index int
}

// BasicSource keys the board's built-in production.
func BasicSource() ProductionSource { return ProductionSource{Kind: SourceBasic} }

// CardSlotSource keys the production of the top card in a 1-based slot.
func CardSlotSource(slot int) ProductionSource {
	return ProductionSource{Kind: SourceCardSlot, Index: slot}
}

// LeaderSource keys the production of a leader card by its id.
func LeaderSource(cardID int) ProductionSource {
	return ProductionSource{Kind: SourceLeader, Index: cardID}
}

// PersonalBoard holds everything owned by one player: the resource ledgers,
// the faith track, the card tableau, the leader hand and the per-turn state.
// All mutating methods assume the caller already verified it is this
// player's turn; the board only enforces its own phase machine.
type PersonalBoard struct {
	match *Match

	phase     BoardPhase
	warehouse *WarehouseDepots
	strongbox *Strongbox
	faith     *FaithTrack
	cardSpace *DevelopmentCardSpace
	leaders   []*LeaderCard

	temporaryMarbles   MarbleMap
	temporaryResources ResourceMap
	productionUsed     map[ProductionSource]bool

	initialResources int
}

func newPersonalBoard(match *Match, leaders []*LeaderCard) *PersonalBoard {
	return &PersonalBoard{
		match:              match,
		phase:              BoardLeaderChoice,
		warehouse:          NewWarehouseDepots(),
		strongbox:          NewStrongbox(),
		faith:              NewFaithTrack(),
		cardSpace:          NewDevelopmentCardSpace(),
		leaders:            leaders,
		temporaryMarbles:   MarbleMap{},
		temporaryResources: ResourceMap{},
		productionUsed:     map[ProductionSource]bool{},
	}
}

// grantInitialAdvantage applies the seat-dependent starting allotment. The
// faith bonus moves the marker directly: positions this low cannot touch a
// tile window or the track ceiling.
func (b *PersonalBoard) grantInitialAdvantage(resources, faith int) {
	b.initialResources = resources
	if faith > 0 {
		b.faith.MoveFaithMarker(faith)
	}
}

// Phase returns the board's current phase.
func (b *PersonalBoard) Phase() BoardPhase { return b.phase }

// Warehouse returns the board's warehouse.
func (b *PersonalBoard) Warehouse() *WarehouseDepots { return b.warehouse }

// Strongbox returns the board's strongbox.
func (b *PersonalBoard) Strongbox() *Strongbox { return b.strongbox }

// FaithTrack returns the board's faith track.
func (b *PersonalBoard) FaithTrack() *FaithTrack { return b.faith }

// CardSpace returns the board's development card tableau.
func (b *PersonalBoard) CardSpace() *DevelopmentCardSpace { return b.cardSpace }

// Leaders returns the leader cards still in hand or on the board.
func (b *PersonalBoard) Leaders() []*LeaderCard { return b.leaders }

// TemporaryMarbles returns a snapshot of the marbles awaiting conversion.
func (b *PersonalBoard) TemporaryMarbles() MarbleMap { return b.temporaryMarbles.Clone() }

// TemporaryResources returns a snapshot of the resources awaiting storage.
func (b *PersonalBoard) TemporaryResources() ResourceMap { return b.temporaryResources.Clone() }

// InitialResources returns how many starting resources this seat may pick.
func (b *PersonalBoard) InitialResources() int { return b.initialResources }

// Leader returns the owned leader card with the given id.
func (b *PersonalBoard) Leader(cardID int) (*LeaderCard, error) {
	for _, l := range b.leaders {
		if l.ID == cardID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: leader %d not in hand", ErrNoCard, cardID)
}

// DiscardInitialLeaders keeps the two named leaders and discards the rest of
// the dealt hand, moving the board on to the resource choice.
func (b *PersonalBoard) DiscardInitialLeaders(keepID1, keepID2 int) error {
	if b.phase != BoardLeaderChoice {
		return fmt.Errorf("%w: leaders already chosen", ErrInvalidLeaderAction)
	}
	if keepID1 == keepID2 {
		return fmt.Errorf("%w: the two leaders must differ", ErrInvalidParameter)
	}
	first, err := b.Leader(keepID1)
	if err != nil {
		return err
	}
	second, err := b.Leader(keepID2)
	if err != nil {
		return err
	}
	b.leaders = []*LeaderCard{first, second}
	b.phase = BoardResourceChoice
	b.match.playerLeadersChosen()
	return nil
}

// ChooseInitialResources fixes the starting resources of this seat. The
// selection total must match the seat allotment exactly; a zero allotment
// takes an empty selection and completes setup immediately.
func (b *PersonalBoard) ChooseInitialResources(selection ResourceMap) error {
	if b.phase != BoardResourceChoice {
		return fmt.Errorf("%w: initial resources already chosen", ErrInvalidParameter)
	}
	for r, q := range selection {
		if q < 0 || !r.Storable() {
			return fmt.Errorf("%w: %s is not a valid starting resource", ErrInvalidParameter, r)
		}
	}
	if selection.Total() != b.initialResources {
		return fmt.Errorf("%w: this seat starts with %d resources", ErrInvalidParameter, b.initialResources)
	}
	if b.initialResources == 0 {
		b.phase = BoardActionAvailable
		b.match.playerSetupDone()
		return nil
	}
	b.temporaryResources = selection.Clone()
	b.phase = BoardAddInitialResources
	return nil
}

// AddToWarehouse stores part of the temporary resources into a depot. During
// setup, draining the temporary pool completes the player's setup; during a
// market action it completes the main action.
func (b *PersonalBoard) AddToWarehouse(depotNumber int, m ResourceMap) error {
	if b.phase != BoardAddInitialResources && b.phase != BoardTakeFromMarket {
		return fmt.Errorf("%w: no resources to store", ErrInvalidAddition)
	}
	for r, q := range m {
		if q < 0 {
			return fmt.Errorf("%w: negative quantity", ErrInvalidAddition)
		}
		if b.temporaryResources[r] < q {
			return fmt.Errorf("%w: %s not among the pending resources", ErrInvalidAddition, r)
		}
	}
	if err := b.warehouse.Add(depotNumber, m); err != nil {
		return err
	}
	for r, q := range m {
		if b.temporaryResources[r] == q {
			delete(b.temporaryResources, r)
		} else {
			b.temporaryResources[r] -= q
		}
	}
	if !b.temporaryResources.IsEmpty() {
		return nil
	}
	switch b.phase {
	case BoardAddInitialResources:
		b.phase = BoardActionAvailable
		b.match.playerSetupDone()
	case BoardTakeFromMarket:
		b.phase = BoardActionDone
	}
	return nil
}

// TakeFromMarket draws a market line as the turn's main action. Red marbles
// advance the faith marker immediately; the rest wait in the temporary pool
// for conversion.
func (b *PersonalBoard) TakeFromMarket(selector LineSelector, index int) error {
	if b.phase != BoardActionAvailable {
		return fmt.Errorf("%w: main action not available", ErrInvalidMove)
	}
	marbles, err := b.match.market.TakeBoughtMarbles(selector, index)
	if err != nil {
		return err
	}
	faith := 0
	for marble, count := range marbles {
		if marble.IsFaith() {
			faith += count
			continue
		}
		b.temporaryMarbles[marble] += count
	}
	b.phase = BoardTakeFromMarket
	if faith > 0 {
		b.advanceFaith(faith)
	}
	return nil
}

// TransformWhiteMarbles converts pending white marbles through an active
// white-marble leader before the final marble conversion.
func (b *PersonalBoard) TransformWhiteMarbles(leaderID, count int) error {
	if b.phase != BoardTakeFromMarket || b.temporaryMarbles.Total() == 0 {
		return fmt.Errorf("%w: no marbles to transform", ErrInvalidMove)
	}
	leader, err := b.Leader(leaderID)
	if err != nil {
		return err
	}
	if !leader.Active() {
		return fmt.Errorf("%w: leader %d is not active", ErrInvalidLeaderAction, leaderID)
	}
	return leader.TransformWhiteMarbles(b.temporaryMarbles, count)
}

// TransformMarbles converts every pending colored marble into a temporary
// resource and drops unconverted white marbles. When nothing comes out the
// main action completes on the spot.
func (b *PersonalBoard) TransformMarbles() error {
	if b.phase != BoardTakeFromMarket || b.temporaryMarbles.Total() == 0 {
		return fmt.Errorf("%w: no marbles to transform", ErrInvalidMove)
	}
	for marble, count := range b.temporaryMarbles {
		if resource, ok := marble.ResourceYield(); ok {
			b.temporaryResources[resource] += count
		}
	}
	b.temporaryMarbles = MarbleMap{}
	if b.temporaryResources.IsEmpty() {
		b.temporaryResources = ResourceMap{}
		b.phase = BoardActionDone
	}
	return nil
}

// DiscardResourcesFromMarket throws away whatever the player chose not to
// store and closes the market action. Every opponent gains one faith point
// per discarded resource.
func (b *PersonalBoard) DiscardResourcesFromMarket() error {
	if b.phase != BoardTakeFromMarket {
		return fmt.Errorf("%w: no market action in progress", ErrInvalidMove)
	}
	if b.temporaryMarbles.Total() > 0 {
		return fmt.Errorf("%w: marbles must be transformed first", ErrInvalidMove)
	}
	discarded := b.temporaryResources.Total()
	b.temporaryResources = ResourceMap{}
	b.phase = BoardActionDone
	if discarded > 0 {
		b.match.penalizeOpponents(b, discarded)
	}
	return nil
}

// Swap exchanges the contents of two standard depots. Reorganizing the
// warehouse never consumes the main action.
func (b *PersonalBoard) Swap(depotNumber1, depotNumber2 int) error {
	return b.warehouse.Swap(depotNumber1, depotNumber2)
}

// MoveToFromSpecialDepot shuttles resources between a standard depot and a
// leader-granted one.
func (b *PersonalBoard) MoveToFromSpecialDepot(sourceDepotNumber, destinationDepotNumber, quantity int) error {
	return b.warehouse.MoveToFromSpecialDepot(sourceDepotNumber, destinationDepotNumber, quantity)
}

// checkCost verifies that the two ledgers together cover the cost, without
// touching either.
func (b *PersonalBoard) checkCost(cost ResourceMap) error {
	missing := b.strongbox.ResourcesNotAvailable(b.warehouse.ResourcesNotAvailable(cost))
	if !missing.IsEmpty() {
		return fmt.Errorf("%w: missing %v", ErrInvalidCost, map[Resource]int(missing))
	}
	return nil
}

// pay settles a verified cost, draining the warehouse first and the
// strongbox for the remainder.
func (b *PersonalBoard) pay(cost ResourceMap) {
	remainder := b.warehouse.ResourcesNotAvailable(cost)
	b.warehouse.UncheckedRemove(cost)
	b.strongbox.UncheckedRemove(remainder)
}

// BuyDevelopmentCard buys the top card at the grid position into the given
// slot as the turn's main action. Active discount leaders named in leaderIDs
// lower the price. Nothing is paid or placed unless every check passes.
func (b *PersonalBoard) BuyDevelopmentCard(row, column, slot int, leaderIDs []int) error {
	if b.phase != BoardActionAvailable {
		return fmt.Errorf("%w: main action not available", ErrInvalidMove)
	}
	card, err := b.match.cardGrid.Card(row, column)
	if err != nil {
		return err
	}
	price := card.Price.Clone()
	for _, id := range leaderIDs {
		leader, err := b.Leader(id)
		if err != nil {
			return err
		}
		if !leader.Active() {
			return fmt.Errorf("%w: leader %d is not active", ErrInvalidLeaderAction, id)
		}
		if err := leader.DiscountPrice(price); err != nil {
			return err
		}
	}
	if err := b.checkCost(price); err != nil {
		return err
	}
	if err := b.cardSpace.AddCard(card, slot); err != nil {
		return err
	}
	b.pay(price)
	b.match.cardGrid.BuyCard(row, column)
	b.phase = BoardActionDone
	b.match.playerBoughtCard(b)
	return nil
}

// checkProductionSource enforces the once-per-turn rule for one power.
func (b *PersonalBoard) checkProductionSource(source ProductionSource) error {
	if b.phase != BoardActionAvailable && b.phase != BoardProduction {
		return fmt.Errorf("%w: main action not available", ErrInvalidProduction)
	}
	if b.productionUsed[source] {
		return fmt.Errorf("%w: power already used this turn", ErrInvalidProduction)
	}
	return nil
}

// produce settles the output of a fired power: storables land in the
// strongbox, faith advances the marker.
func (b *PersonalBoard) produce(production ResourceMap) {
	output := ResourceMap{}
	faith := 0
	for r, q := range production {
		if r == Faith {
			faith += q
			continue
		}
		output[r] = q
	}
	b.strongbox.Add(output)
	if faith > 0 {
		b.advanceFaith(faith)
	}
}

// ActivateProduction fires the power of the top card in a slot.
func (b *PersonalBoard) ActivateProduction(slot int) error {
	source := CardSlotSource(slot)
	if err := b.checkProductionSource(source); err != nil {
		return err
	}
	power, err := b.cardSpace.PowerOfProduction(slot)
	if err != nil {
		return err
	}
	if err := b.checkCost(power.Cost); err != nil {
		return err
	}
	b.pay(power.Cost)
	b.productionUsed[source] = true
	b.phase = BoardProduction
	b.produce(power.Production)
	return nil
}

// ActivateBasicProduction fires the board's built-in power: pay any two
// storable resources, produce one of choice.
func (b *PersonalBoard) ActivateBasicProduction(payment1, payment2, produced Resource) error {
	source := BasicSource()
	if err := b.checkProductionSource(source); err != nil {
		return err
	}
	if !payment1.Storable() || !payment2.Storable() || !produced.Storable() {
		return fmt.Errorf("%w: basic production handles storable resources only", ErrInvalidProduction)
	}
	cost := ResourceMap{payment1: 1}
	cost[payment2]++
	if err := b.checkCost(cost); err != nil {
		return err
	}
	b.pay(cost)
	b.productionUsed[source] = true
	b.phase = BoardProduction
	b.produce(ResourceMap{produced: 1})
	return nil
}

// ActivateLeaderProduction fires an active production leader, producing one
// storable resource of choice plus one faith point.
func (b *PersonalBoard) ActivateLeaderProduction(leaderID int, produced Resource) error {
	source := LeaderSource(leaderID)
	if err := b.checkProductionSource(source); err != nil {
		return err
	}
	leader, err := b.Leader(leaderID)
	if err != nil {
		return err
	}
	if !leader.Active() {
		return fmt.Errorf("%w: leader %d is not active", ErrInvalidLeaderAction, leaderID)
	}
	power, err := leader.ProductionPower()
	if err != nil {
		return err
	}
	if !produced.Storable() {
		return fmt.Errorf("%w: produced resource must be storable", ErrInvalidProduction)
	}
	if err := b.checkCost(power.Cost); err != nil {
		return err
	}
	b.pay(power.Cost)
	b.productionUsed[source] = true
	b.phase = BoardProduction
	production := power.Production.Clone()
	production[produced]++
	b.produce(production)
	return nil
}

// EndProduction closes the production chain and spends the main action.
func (b *PersonalBoard) EndProduction() error {
	if b.phase != BoardProduction {
		return fmt.Errorf("%w: no production in progress", ErrInvalidProduction)
	}
	b.phase = BoardActionDone
	return nil
}

// leaderActionAllowed reports whether a free leader action fits the phase.
func (b *PersonalBoard) leaderActionAllowed() bool {
	switch b.phase {
	case BoardActionAvailable, BoardProduction, BoardActionDone:
		return true
	}
	return false
}

// ActivateLeader turns a leader card face up once its requirement holds.
// Extra-depot leaders grow the warehouse as a side effect.
func (b *PersonalBoard) ActivateLeader(leaderID int) error {
	if !b.leaderActionAllowed() {
		return fmt.Errorf("%w: leader actions are closed right now", ErrInvalidLeaderAction)
	}
	leader, err := b.Leader(leaderID)
	if err != nil {
		return err
	}
	if leader.Active() {
		return fmt.Errorf("%w: leader %d is already active", ErrInvalidLeaderAction, leaderID)
	}
	missing := b.strongbox.ResourcesNotAvailable(b.warehouse.ResourcesNotAvailable(leader.Requirement.Resources))
	if !missing.IsEmpty() || !b.cardSpace.CheckRequirement(leader.Requirement.Cards) {
		return fmt.Errorf("%w: leader %d", ErrRequirementNotMet, leaderID)
	}
	leader.Activate()
	if resource, err := leader.SpecialDepotResource(); err == nil {
		b.warehouse.AddSpecialDepot(resource)
	}
	return nil
}

// DiscardLeader throws away an inactive leader for one faith point.
func (b *PersonalBoard) DiscardLeader(leaderID int) error {
	if !b.leaderActionAllowed() {
		return fmt.Errorf("%w: leader actions are closed right now", ErrInvalidLeaderAction)
	}
	leader, err := b.Leader(leaderID)
	if err != nil {
		return err
	}
	if leader.Active() {
		return fmt.Errorf("%w: active leaders cannot be discarded", ErrInvalidLeaderAction)
	}
	kept := b.leaders[:0]
	for _, l := range b.leaders {
		if l.ID != leaderID {
			kept = append(kept, l)
		}
	}
	b.leaders = kept
	b.advanceFaith(1)
	return nil
}

// EndTurn resets the per-turn state for the next round. The main action must
// be spent first.
func (b *PersonalBoard) EndTurn() error {
	if b.phase != BoardActionDone {
		return fmt.Errorf("%w: the main action is still open", ErrInvalidMove)
	}
	b.productionUsed = map[ProductionSource]bool{}
	b.temporaryMarbles = MarbleMap{}
	b.temporaryResources = ResourceMap{}
	b.phase = BoardActionAvailable
	return nil
}

// advanceFaith moves this board's marker and lets the match react to the new
// position, reporting vatican tiles and checking the end trigger.
func (b *PersonalBoard) advanceFaith(steps int) {
	b.faith.MoveFaithMarker(steps)
	b.match.onFaithAdvance(b.faith)
}

// TotalResources counts every stored resource across both ledgers.
func (b *PersonalBoard) TotalResources() int {
	return b.warehouse.TotalResources() + b.strongbox.TotalResources()
}

// SumVictoryPoints scores the board: tableau cards, faith track, active
// leaders, and one point per five stored resources.
func (b *PersonalBoard) SumVictoryPoints() int {
	vp := b.cardSpace.VictoryPoints() + b.faith.VictoryPoints()
	for _, leader := range b.leaders {
		if leader.Active() {
			vp += leader.VictoryPoints
		}
	}
	return vp + b.TotalResources()/5
}
