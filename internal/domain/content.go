package domain

// Built-in card set. Deployments can override it with a JSON card file (see
// internal/config); the generated set keeps the same shape as the boxed
// game: 48 development cards in 3 levels x 4 colors x 4 copies, and 16
// leader cards, 4 per ability kind.

// DefaultDevelopmentCards builds the standard development card set.
func DefaultDevelopmentCards() []*DevelopmentCard {
	var cards []*DevelopmentCard
	id := 1
	for colorIdx, color := range CardColors {
		primary := StorableResources[colorIdx]
		secondary := StorableResources[(colorIdx+1)%len(StorableResources)]
		tertiary := StorableResources[(colorIdx+2)%len(StorableResources)]
		for level := 1; level <= GridLevels; level++ {
			for variant := 0; variant < 4; variant++ {
				price := ResourceMap{primary: level + 1}
				if variant >= 2 {
					price[secondary] = level
				}
				cards = append(cards, &DevelopmentCard{
					ID:            id,
					Color:         color,
					Level:         level,
					Price:         price,
					VictoryPoints: (level-1)*4 + variant + 1,
					Power: PowerOfProduction{
						Cost:       ResourceMap{secondary: 1 + variant%2},
						Production: ResourceMap{tertiary: 1 + variant/2, Faith: 1},
					},
				})
				id++
			}
		}
	}
	return cards
}

// DefaultLeaderCards builds the standard leader deck.
func DefaultLeaderCards() []*LeaderCard {
	var leaders []*LeaderCard
	n := len(StorableResources)
	for i, resource := range StorableResources {
		colorA := CardColors[i]
		colorB := CardColors[(i+1)%n]
		leaders = append(leaders,
			&LeaderCard{
				ID:            101 + i,
				VictoryPoints: 2,
				Requirement: Requirement{Cards: []CardRequirement{
					{Color: colorA, Count: 1},
					{Color: colorB, Count: 1},
				}},
				Ability: Ability{Kind: AbilityDiscount, Resource: resource, Amount: 1},
			},
			&LeaderCard{
				ID:            105 + i,
				VictoryPoints: 3,
				Requirement: Requirement{
					Resources: ResourceMap{StorableResources[(i+1)%n]: 5},
				},
				Ability: Ability{Kind: AbilityExtraDepot, Resource: resource, Amount: specialDepotCapacity},
			},
			&LeaderCard{
				ID:            109 + i,
				VictoryPoints: 5,
				Requirement: Requirement{Cards: []CardRequirement{
					{Color: colorA, Count: 2},
					{Color: colorB, Count: 1},
				}},
				Ability: Ability{Kind: AbilityWhiteMarble, Resource: resource, Amount: 1},
			},
			&LeaderCard{
				ID:            113 + i,
				VictoryPoints: 4,
				Requirement: Requirement{Cards: []CardRequirement{
					{Color: colorA, Level: 2, Count: 1},
				}},
				Ability: Ability{Kind: AbilityProduction, Resource: resource, Amount: 1},
			},
		)
	}
	return leaders
}
