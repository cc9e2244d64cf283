package nakama

import (
	"fmt"

	"renaissance/internal/domain"
)

// Client command payloads, one JSON document per opcode.

type JoinRequest struct {
	Nickname string `json:"nickname"`
}

type ChooseLeadersRequest struct {
	Keep1 int `json:"keep1"`
	Keep2 int `json:"keep2"`
}

type ChooseResourcesRequest struct {
	Resources domain.ResourceMap `json:"resources"`
}

type AddToWarehouseRequest struct {
	Depot     int                `json:"depot"`
	Resources domain.ResourceMap `json:"resources"`
}

type SwapDepotsRequest struct {
	Depot1 int `json:"depot1"`
	Depot2 int `json:"depot2"`
}

type MoveDepotsRequest struct {
	Source      int `json:"source"`
	Destination int `json:"destination"`
	Quantity    int `json:"quantity"`
}

type TakeFromMarketRequest struct {
	Line  string `json:"line"` // "row" or "column"
	Index int    `json:"index"`
}

type TransformWhiteMarblesRequest struct {
	LeaderID int `json:"leader_id"`
	Count    int `json:"count"`
}

type BuyCardRequest struct {
	Row       int   `json:"row"`
	Column    int   `json:"column"`
	Slot      int   `json:"slot"`
	LeaderIDs []int `json:"leader_ids"`
}

type CardProductionRequest struct {
	Slot int `json:"slot"`
}

type BasicProductionRequest struct {
	Payment1 domain.Resource `json:"payment1"`
	Payment2 domain.Resource `json:"payment2"`
	Produced domain.Resource `json:"produced"`
}

type LeaderProductionRequest struct {
	LeaderID int             `json:"leader_id"`
	Produced domain.Resource `json:"produced"`
}

// LeaderRequest serves both leader activation and leader discard.
type LeaderRequest struct {
	LeaderID int `json:"leader_id"`
}

// lineSelector maps the wire line discriminator to the domain selector.
func lineSelector(line string) (domain.LineSelector, error) {
	switch line {
	case "row":
		return domain.RowLine, nil
	case "column":
		return domain.ColumnLine, nil
	}
	return 0, fmt.Errorf("%w: line must be row or column", domain.ErrInvalidParameter)
}
