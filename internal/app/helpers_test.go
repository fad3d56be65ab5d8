package app

import (
	"context"
	"testing"
	"time"

	"azool/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// keepOrder leaves the bag as filled, so deals pop White tiles first.
func keepOrder([]domain.Color) {}

// firstLegal plays the first move LegalMoves offers.
var firstLegal = ChooserFunc(func(_ context.Context, v TurnView) (Move, error) {
	moves := v.LegalMoves()
	if len(moves) == 0 {
		return Move{}, ErrMoveRejected
	}
	return moves[0], nil
})

func recvMessage(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func recvRequest(t *testing.T, ch <-chan Request) Request {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for request")
	}
	return nil
}
