package nakama

import (
	"context"
	"database/sql"

	"azool/internal/app"
	"azool/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(GameConfigPath); err != nil {
		logger.Warn("Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()

	var tokens *app.SeatTokenService
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok && env[EnvSeatSecret] != "" {
		tokens = app.NewSeatTokenService(env[EnvSeatSecret], cfg.SeatTokenTTL())
	} else {
		logger.Warn("%s not set, seat tokens disabled.", EnvSeatSecret)
	}

	if err := RegisterRPCs(initializer, tokens); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameAzool, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(tokens), nil
	}); err != nil {
		return err
	}

	logger.Info("Azool Go module loaded.")
	return nil
}
