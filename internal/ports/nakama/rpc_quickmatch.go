package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"azool/internal/app"
	"azool/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby match.
type QuickMatchResponse struct {
	MatchID   string `json:"match_id"`
	IsNew     bool   `json:"is_new"`
	SeatToken string `json:"seat_token,omitempty"`
}

// matchFinder is the part of runtime.NakamaModule quick_match uses.
type matchFinder interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, tokens *app.SeatTokenService) error {
	return initializer.RegisterRpc(RpcQuickMatch, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		return quickMatch(ctx, logger, nk, tokens, config.GetGameConfig())
	})
}

func quickMatch(ctx context.Context, logger runtime.Logger, nk matchFinder, tokens *app.SeatTokenService, cfg config.GameConfig) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user in context", 16) // UNAUTHENTICATED
	}

	query := fmt.Sprintf("+label.%s:%s +label.%s:%s +label.%s:>=1", LabelKeyGame, LabelGame, LabelKeyPhase, PhaseLobby, LabelKeyOpen)
	limit := 10
	authoritative := true
	minSize := 0
	maxSize := cfg.NumPlayers - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", runtime.NewError("failed to list matches", 13) // INTERNAL
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
	} else {
		// Seats are assigned in MatchJoin (server-authoritative).
		matchID, err := nk.MatchCreate(ctx, MatchNameAzool, map[string]interface{}{"num_players": cfg.NumPlayers})
		if err != nil {
			logger.Error("MatchCreate error: %v", err)
			return "", runtime.NewError("failed to create match", 13) // INTERNAL
		}
		resp.MatchID = matchID
		resp.IsNew = true
	}

	if tokens != nil {
		token, err := tokens.Issue(userID, resp.MatchID)
		if err != nil {
			logger.Error("Seat token error for user %s: %v", userID, err)
			return "", runtime.NewError("failed to issue seat token", 13) // INTERNAL
		}
		resp.SeatToken = token
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("failed to encode response", 13) // INTERNAL
	}
	logger.Info("quick_match [User:%s]: match %s (new=%v)", userID, resp.MatchID, resp.IsNew)
	return string(b), nil
}
