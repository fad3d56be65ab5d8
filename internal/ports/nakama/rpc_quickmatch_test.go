package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"azool/internal/app"
	"azool/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

type fakeFinder struct {
	matches     []*api.Match
	listErr     error
	created     int
	createParam map[string]interface{}
	lastQuery   string
	lastMaxSize int
}

func (f *fakeFinder) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	f.lastMaxSize = *maxSize
	return f.matches, f.listErr
}

func (f *fakeFinder) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created++
	f.createParam = params
	return "new-match", nil
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestQuickMatchJoinsOpenMatch(t *testing.T) {
	finder := &fakeFinder{matches: []*api.Match{{MatchId: "open-match"}}}
	tokens := app.NewSeatTokenService("secret", time.Minute)

	payload, err := quickMatch(userCtx("user-1"), noopLogger{}, finder, tokens, config.Default())
	if err != nil {
		t.Fatalf("quick match: %v", err)
	}
	var resp QuickMatchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.MatchID != "open-match" || resp.IsNew || finder.created != 0 {
		t.Fatalf("response = %+v, created=%d", resp, finder.created)
	}
	if err := tokens.Verify(resp.SeatToken, "user-1", "open-match"); err != nil {
		t.Fatalf("seat token: %v", err)
	}
	if finder.lastMaxSize != config.DefaultNumPlayers-1 {
		t.Fatalf("max size = %d", finder.lastMaxSize)
	}
}

func TestQuickMatchCreatesMatch(t *testing.T) {
	finder := &fakeFinder{}
	cfg := config.Default()
	cfg.NumPlayers = 3

	payload, err := quickMatch(userCtx("user-1"), noopLogger{}, finder, nil, cfg)
	if err != nil {
		t.Fatalf("quick match: %v", err)
	}
	var resp QuickMatchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.MatchID != "new-match" || !resp.IsNew || resp.SeatToken != "" {
		t.Fatalf("response = %+v", resp)
	}
	if finder.createParam["num_players"] != 3 {
		t.Fatalf("create params = %v", finder.createParam)
	}
}

func TestQuickMatchErrors(t *testing.T) {
	if _, err := quickMatch(context.Background(), noopLogger{}, &fakeFinder{}, nil, config.Default()); err == nil {
		t.Fatal("expected error without a user")
	}
	finder := &fakeFinder{listErr: errors.New("down")}
	if _, err := quickMatch(userCtx("user-1"), noopLogger{}, finder, nil, config.Default()); err == nil {
		t.Fatal("expected error when listing fails")
	}
}
