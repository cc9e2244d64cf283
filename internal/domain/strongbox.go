package domain

// Strongbox is the uncapped resource store of a personal board. It is only
// reached through production and purchase settlement, never directly from
// the market.
type Strongbox struct {
	resources ResourceMap
}

// NewStrongbox returns an empty strongbox.
func NewStrongbox() *Strongbox {
	return &Strongbox{resources: ResourceMap{}}
}

// Add stores the given resources.
func (s *Strongbox) Add(m ResourceMap) {
	s.resources.Merge(m)
}

// IsAvailable reports whether the strongbox alone covers the whole request.
func (s *Strongbox) IsAvailable(request ResourceMap) bool {
	for r, q := range request {
		if s.resources[r] < q {
			return false
		}
	}
	return true
}

// ResourcesNotAvailable returns the residual of request not covered by the
// strongbox contents.
func (s *Strongbox) ResourcesNotAvailable(request ResourceMap) ResourceMap {
	residual := request.Clone()
	for r, q := range request {
		have := s.resources[r]
		if have >= q {
			delete(residual, r)
		} else if have > 0 {
			residual[r] = q - have
		}
	}
	return residual
}

// UncheckedRemove removes the request from the strongbox. Callers must have
// verified availability first.
func (s *Strongbox) UncheckedRemove(request ResourceMap) {
	for r, q := range request {
		if s.resources[r] <= q {
			delete(s.resources, r)
		} else {
			s.resources[r] -= q
		}
	}
}

// ResourceQuantity returns the stored amount of one resource kind.
func (s *Strongbox) ResourceQuantity(r Resource) int {
	return s.resources[r]
}

// TotalResources returns the total quantity stored.
func (s *Strongbox) TotalResources() int {
	return s.resources.Total()
}

// Contents returns a snapshot of the stored resources.
func (s *Strongbox) Contents() ResourceMap {
	return s.resources.Clone()
}
