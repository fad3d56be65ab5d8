package nakama

import (
	"sync"

	"azool/internal/app"
)

// frame is one outbound message waiting for the next MatchLoop tick.
type frame struct {
	op      int64
	body    app.Envelope
	players []int // game player indices; empty means broadcast
}

// outbox carries frames from game goroutines to the match loop, which is the
// only place allowed to touch the dispatcher.
type outbox struct {
	mu     sync.Mutex
	frames []frame
}

func newOutbox() *outbox {
	return &outbox{}
}

func (o *outbox) push(f frame) {
	o.mu.Lock()
	o.frames = append(o.frames, f)
	o.mu.Unlock()
}

func (o *outbox) drain() []frame {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.frames
	o.frames = nil
	return out
}
