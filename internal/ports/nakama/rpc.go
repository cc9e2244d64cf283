package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"renaissance/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FindMatchRequest is the payload clients send to find or create a match.
type FindMatchRequest struct {
	NumPlayers int `json:"num_players"`
}

// FindMatchResponse carries the match id to join.
type FindMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcFindMatch, rpcFindMatch)
}

// rpcFindMatch finds a still-open match of the requested size, or creates
// one. This is the whole lobby: seating itself happens inside the match.
func rpcFindMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	req := FindMatchRequest{NumPlayers: 2}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3)
		}
	}
	if req.NumPlayers < 1 || req.NumPlayers > domain.MaxPlayers {
		return "", runtime.NewError("num_players out of range", 3)
	}

	query := fmt.Sprintf("+label.open:>=1 +label.size:%d +label.phase:setup", req.NumPlayers)
	limit := 1
	authoritative := true
	minSize := 0
	maxSize := domain.MaxPlayers

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcFindMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}
	if len(matches) > 0 {
		resp := FindMatchResponse{MatchID: matches[0].MatchId}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchName, map[string]interface{}{"num_players": req.NumPlayers})
	if err != nil {
		logger.Error("rpcFindMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("rpcFindMatch [User:%s]: Created match %s for %d players.", userID, matchID, req.NumPlayers)

	resp := FindMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
