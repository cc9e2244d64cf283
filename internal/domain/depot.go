package domain

import "fmt"

// specialDepotCapacity is the fixed size of leader-granted depots.
const specialDepotCapacity = 2

// Depot is an ordered storage cell holding at most one resource kind at a
// time, up to its capacity. Special depots are keyed to a single resource
// kind and are exempt from the warehouse family-uniqueness rule.
type Depot struct {
	capacity   int
	resource   Resource // "" when empty
	quantity   int
	special    bool
	restricted Resource // only set for special depots
}

// NewDepot returns an empty standard depot of the given capacity.
func NewDepot(capacity int) *Depot {
	return &Depot{capacity: capacity}
}

// NewSpecialDepot returns a leader-granted depot restricted to one resource kind.
func NewSpecialDepot(resource Resource) *Depot {
	return &Depot{capacity: specialDepotCapacity, special: true, restricted: resource}
}

// Capacity returns the maximum quantity the depot can hold.
func (d *Depot) Capacity() int { return d.capacity }

// Special reports whether this is a leader-granted depot.
func (d *Depot) Special() bool { return d.special }

// RestrictedTo returns the resource kind a special depot is keyed to.
func (d *Depot) RestrictedTo() Resource { return d.restricted }

// Resource returns the kind currently stored, or "" when empty.
func (d *Depot) Resource() Resource { return d.resource }

// Quantity returns the stored amount.
func (d *Depot) Quantity() int { return d.quantity }

// Contents returns the depot occupancy as a resource map.
func (d *Depot) Contents() ResourceMap {
	if d.quantity == 0 {
		return ResourceMap{}
	}
	return ResourceMap{d.resource: d.quantity}
}

// NumberResources returns the total quantity stored in the depot.
func (d *Depot) NumberResources() int { return d.quantity }

// CheckAdd verifies that the single-kind resource map fits the depot. The
// depot is left untouched; use UncheckedAdd afterwards to commit.
func (d *Depot) CheckAdd(m ResourceMap) error {
	kind, quantity, ok := m.singleKind()
	if !ok {
		return fmt.Errorf("%w: not one resource", ErrInvalidAddition)
	}
	if !kind.Storable() {
		return fmt.Errorf("%w: %s cannot be stored", ErrInvalidAddition, kind)
	}
	if d.special && kind != d.restricted {
		return fmt.Errorf("%w: special depot holds only %s", ErrInvalidAddition, d.restricted)
	}
	if d.resource != "" && d.resource != kind {
		return fmt.Errorf("%w: another resource is in the depot", ErrInvalidAddition)
	}
	if d.quantity+quantity > d.capacity {
		return fmt.Errorf("%w: not enough space", ErrInvalidAddition)
	}
	return nil
}

// UncheckedAdd commits an addition previously validated with CheckAdd.
func (d *Depot) UncheckedAdd(m ResourceMap) {
	kind, quantity, ok := m.singleKind()
	if !ok {
		return
	}
	d.resource = kind
	d.quantity += quantity
}

// Add validates and commits a single-kind addition.
func (d *Depot) Add(m ResourceMap) error {
	if err := d.CheckAdd(m); err != nil {
		return err
	}
	d.UncheckedAdd(m)
	return nil
}

// CheckAvailability subtracts from residual whatever part of the request this
// depot can cover. Used to merge availability checks across the warehouse
// before any removal takes place.
func (d *Depot) CheckAvailability(residual ResourceMap) {
	if d.quantity == 0 {
		return
	}
	needed, ok := residual[d.resource]
	if !ok || needed <= 0 {
		return
	}
	if d.quantity >= needed {
		delete(residual, d.resource)
	} else {
		residual[d.resource] = needed - d.quantity
	}
}

// UncheckedRemove takes from the depot as much of toRemove as it holds,
// shrinking toRemove accordingly. Callers must have verified availability.
func (d *Depot) UncheckedRemove(toRemove ResourceMap) {
	if d.quantity == 0 {
		return
	}
	wanted, ok := toRemove[d.resource]
	if !ok || wanted <= 0 {
		return
	}
	switch {
	case wanted >= d.quantity:
		if wanted == d.quantity {
			delete(toRemove, d.resource)
		} else {
			toRemove[d.resource] = wanted - d.quantity
		}
		d.quantity = 0
		d.resource = ""
	default:
		d.quantity -= wanted
		delete(toRemove, d.resource)
	}
}

// setContents replaces the depot occupancy. Used by the warehouse swap,
// which has already validated capacities.
func (d *Depot) setContents(resource Resource, quantity int) {
	if quantity == 0 {
		resource = ""
	}
	d.resource = resource
	d.quantity = quantity
}
