package nakama

const (
	// RpcFindMatch is the Nakama RPC id clients call to find or create a
	// match for their declared roster size.
	RpcFindMatch = "find_match"

	// MatchName is the authoritative match handler name registered with
	// Nakama.
	MatchName = "renaissance_match"
)

// Op codes for client commands and server events.
const (
	// Client -> Server
	OpJoin                  int64 = 1
	OpChooseLeaders         int64 = 2
	OpChooseResources       int64 = 3
	OpAddToWarehouse        int64 = 4
	OpSwapDepots            int64 = 5
	OpMoveDepots            int64 = 6
	OpTakeFromMarket        int64 = 7
	OpTransformWhiteMarbles int64 = 8
	OpTransformMarbles      int64 = 9
	OpDiscardResources      int64 = 10
	OpBuyCard               int64 = 11
	OpCardProduction        int64 = 12
	OpBasicProduction       int64 = 13
	OpLeaderProduction      int64 = 14
	OpEndProduction         int64 = 15
	OpActivateLeader        int64 = 16
	OpDiscardLeader         int64 = 17
	OpEndTurn               int64 = 18

	// Server -> Client events
	OpError             int64 = 100
	OpPlayerJoined      int64 = 101
	OpMatchPhase        int64 = 102
	OpLeaderHand        int64 = 103 // sent privately
	OpMarketUpdate      int64 = 104
	OpGridUpdate        int64 = 105
	OpWarehouseUpdate   int64 = 106
	OpStrongboxUpdate   int64 = 107
	OpFaithUpdate       int64 = 108
	OpCardSpaceUpdate   int64 = 109
	OpLeadersUpdate     int64 = 110
	OpTemporaryUpdate   int64 = 111 // sent privately
	OpSpecialDepotAdded int64 = 112
	OpVaticanReport     int64 = 113
	OpTurnStarted       int64 = 114
	OpActionDone        int64 = 115
	OpLorenzoUpdate     int64 = 116
	OpRanking           int64 = 117
	OpPlayerLeft        int64 = 118
)
