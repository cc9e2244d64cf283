package domain

// Resource is a resource kind handled by the economy.
type Resource string

const (
	// Servant is one of the four storable resource kinds.
	Servant Resource = "servant"
	// Shield is one of the four storable resource kinds.
	Shield Resource = "shield"
	// Coin is one of the four storable resource kinds.
	Coin Resource = "coin"
	// Stone is one of the four storable resource kinds.
	Stone Resource = "stone"
	// Faith is never stored; it only advances the faith track.
	Faith Resource = "faith"
)

// StorableResources lists the kinds a depot or strongbox may hold.
var StorableResources = []Resource{Servant, Shield, Coin, Stone}

// Valid reports whether r is a known resource kind.
func (r Resource) Valid() bool {
	switch r {
	case Servant, Shield, Coin, Stone, Faith:
		return true
	}
	return false
}

// Storable reports whether r may occupy a depot or strongbox slot.
func (r Resource) Storable() bool {
	return r.Valid() && r != Faith
}

// ResourceMap counts resources by kind. A missing key means zero.
type ResourceMap map[Resource]int

// Clone returns an independent copy of the map.
func (m ResourceMap) Clone() ResourceMap {
	out := make(ResourceMap, len(m))
	for r, q := range m {
		out[r] = q
	}
	return out
}

// Total sums every quantity in the map.
func (m ResourceMap) Total() int {
	total := 0
	for _, q := range m {
		total += q
	}
	return total
}

// Merge adds every entry of other into m.
func (m ResourceMap) Merge(other ResourceMap) {
	for r, q := range other {
		m[r] += q
	}
}

// IsEmpty reports whether the map carries no positive quantity.
func (m ResourceMap) IsEmpty() bool {
	for _, q := range m {
		if q > 0 {
			return false
		}
	}
	return true
}

// Equal compares two maps ignoring zero-quantity entries.
func (m ResourceMap) Equal(other ResourceMap) bool {
	for r, q := range m {
		if q != 0 && other[r] != q {
			return false
		}
	}
	for r, q := range other {
		if q != 0 && m[r] != q {
			return false
		}
	}
	return true
}

// singleKind returns the only resource kind in the map when the map holds
// exactly one kind with a positive quantity.
func (m ResourceMap) singleKind() (Resource, int, bool) {
	var kind Resource
	quantity := 0
	kinds := 0
	for r, q := range m {
		if q < 0 {
			return "", 0, false
		}
		if q == 0 {
			continue
		}
		kind = r
		quantity = q
		kinds++
	}
	if kinds != 1 {
		return "", 0, false
	}
	return kind, quantity, true
}
