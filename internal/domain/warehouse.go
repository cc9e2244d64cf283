package domain

import "fmt"

// standardDepots is the number of fixed depots every warehouse starts with.
const standardDepots = 3

// WarehouseDepots coordinates the ordered depots of a personal board.
// Standard depots have capacities 1, 2 and 3; special depots granted by
// leader abilities are appended after them. No resource kind may occupy two
// standard depots at once.
type WarehouseDepots struct {
	depots []*Depot
}

// NewWarehouseDepots returns a warehouse with the three standard depots.
func NewWarehouseDepots() *WarehouseDepots {
	w := &WarehouseDepots{}
	for i := 0; i < standardDepots; i++ {
		w.depots = append(w.depots, NewDepot(i+1))
	}
	return w
}

// NumDepots returns how many depots the warehouse currently has.
func (w *WarehouseDepots) NumDepots() int { return len(w.depots) }

// Depot returns the 1-based depot, or nil when out of range.
func (w *WarehouseDepots) Depot(number int) *Depot {
	if number < 1 || number > len(w.depots) {
		return nil
	}
	return w.depots[number-1]
}

// AddSpecialDepot appends a leader-granted depot keyed to one resource kind.
func (w *WarehouseDepots) AddSpecialDepot(resource Resource) {
	w.depots = append(w.depots, NewSpecialDepot(resource))
}

// checkAdd validates warehouse-level rules for an addition to the given depot.
func (w *WarehouseDepots) checkAdd(depotNumber int, m ResourceMap) error {
	if depotNumber < 1 || depotNumber > len(w.depots) {
		return fmt.Errorf("%w: invalid depot", ErrInvalidAddition)
	}
	kind, _, ok := m.singleKind()
	if !ok {
		return fmt.Errorf("%w: not one resource", ErrInvalidAddition)
	}
	// Family uniqueness applies to standard depots only.
	if depotNumber <= standardDepots {
		for i := 0; i < standardDepots; i++ {
			if i == depotNumber-1 {
				continue
			}
			if w.depots[i].Resource() == kind {
				return fmt.Errorf("%w: same resource in another depot", ErrInvalidAddition)
			}
		}
	}
	return nil
}

// Add stores a single-kind resource map into the given 1-based depot.
func (w *WarehouseDepots) Add(depotNumber int, m ResourceMap) error {
	if err := w.checkAdd(depotNumber, m); err != nil {
		return err
	}
	return w.depots[depotNumber-1].Add(m)
}

// Swap exchanges the contents of two standard depots. Each depot's occupancy
// must fit within the other's capacity.
func (w *WarehouseDepots) Swap(depotNumber1, depotNumber2 int) error {
	if depotNumber1 < 1 || depotNumber1 > standardDepots ||
		depotNumber2 < 1 || depotNumber2 > standardDepots {
		return fmt.Errorf("%w: only standard depots can be swapped", ErrInvalidSwap)
	}
	d1 := w.depots[depotNumber1-1]
	d2 := w.depots[depotNumber2-1]
	if d1.NumberResources() > d2.Capacity() || d2.NumberResources() > d1.Capacity() {
		return fmt.Errorf("%w: not enough space in the depots", ErrInvalidSwap)
	}
	r1, q1 := d1.Resource(), d1.Quantity()
	d1.setContents(d2.Resource(), d2.Quantity())
	d2.setContents(r1, q1)
	return nil
}

// MoveToFromSpecialDepot moves a quantity between a standard and a special
// depot. Exactly one of the two depots must be special, and the transfer is
// fully verified before anything is removed.
func (w *WarehouseDepots) MoveToFromSpecialDepot(sourceDepotNumber, destinationDepotNumber, quantity int) error {
	if (sourceDepotNumber <= standardDepots) == (destinationDepotNumber <= standardDepots) {
		return fmt.Errorf("%w: exactly one depot must be special", ErrInvalidMove)
	}
	if sourceDepotNumber < 1 || sourceDepotNumber > len(w.depots) ||
		destinationDepotNumber < 1 || destinationDepotNumber > len(w.depots) {
		return fmt.Errorf("%w: the depot does not exist", ErrInvalidMove)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidMove)
	}

	source := w.depots[sourceDepotNumber-1]
	destination := w.depots[destinationDepotNumber-1]
	if source.Quantity() == 0 {
		return fmt.Errorf("%w: source depot is empty", ErrInvalidRemoval)
	}
	moved := ResourceMap{source.Resource(): quantity}

	// Verify both ends, then commit.
	residual := moved.Clone()
	source.CheckAvailability(residual)
	if !residual.IsEmpty() {
		return fmt.Errorf("%w: not enough resources in the source depot", ErrInvalidRemoval)
	}
	if err := w.checkAdd(destinationDepotNumber, moved); err != nil {
		return err
	}
	if err := destination.CheckAdd(moved); err != nil {
		return err
	}

	toRemove := moved.Clone()
	source.UncheckedRemove(toRemove)
	destination.UncheckedAdd(moved)
	return nil
}

// IsAvailable reports whether the warehouse alone covers the whole request.
func (w *WarehouseDepots) IsAvailable(request ResourceMap) bool {
	return w.ResourcesNotAvailable(request).IsEmpty()
}

// ResourcesNotAvailable returns the residual of request not covered by the
// warehouse contents.
func (w *WarehouseDepots) ResourcesNotAvailable(request ResourceMap) ResourceMap {
	residual := request.Clone()
	for _, depot := range w.depots {
		depot.CheckAvailability(residual)
	}
	return residual
}

// UncheckedRemove removes the request from the depots in order. Callers must
// have verified availability first.
func (w *WarehouseDepots) UncheckedRemove(request ResourceMap) {
	toRemove := request.Clone()
	for _, depot := range w.depots {
		depot.UncheckedRemove(toRemove)
	}
}

// TotalResources returns the total quantity stored across all depots.
func (w *WarehouseDepots) TotalResources() int {
	total := 0
	for _, depot := range w.depots {
		total += depot.NumberResources()
	}
	return total
}

// Contents returns a snapshot of every depot's occupancy, in depot order.
func (w *WarehouseDepots) Contents() []ResourceMap {
	out := make([]ResourceMap, len(w.depots))
	for i, depot := range w.depots {
		out[i] = depot.Contents()
	}
	return out
}
