package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrSuperseded marks a query whose answer was made obsolete by a newer
// query from the same session. Callers should drop it without rendering.
var ErrSuperseded = errors.New("superseded by a newer query")

// LatestGate keeps at most one in-flight query per key (one per session).
//
// Entering with a new fingerprint cancels the previous query's context with
// ErrSuperseded. Entering with the fingerprint already in flight joins it, so
// a double submit shares one remote call instead of cancelling itself.
type LatestGate struct {
	mu      sync.Mutex
	entries map[string]*gateEntry
	gen     uint64
}

type gateEntry struct {
	fingerprint string
	flightKey   string
	ctx         context.Context
	cancel      context.CancelCauseFunc
	refs        int
}

// NewLatestGate returns an empty gate.
func NewLatestGate() *LatestGate {
	return &LatestGate{entries: make(map[string]*gateEntry)}
}

// Enter registers a query and returns the context it must run under, a key
// unique to this generation of the query (for singleflight), and a release
// func that must be called when the caller is done.
//
// The returned context does not inherit the caller's cancellation: joined
// callers share it, and it is cancelled when the last of them releases or a
// newer query supersedes it.
func (g *LatestGate) Enter(ctx context.Context, key, fingerprint string) (context.Context, string, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cur, ok := g.entries[key]; ok {
		if cur.fingerprint == fingerprint && cur.ctx.Err() == nil {
			cur.refs++
			return cur.ctx, cur.flightKey, g.releaseFunc(key, cur)
		}
		cur.cancel(ErrSuperseded)
	}

	g.gen++
	entryCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	entry := &gateEntry{
		fingerprint: fingerprint,
		flightKey:   key + "\x00" + strconv.FormatUint(g.gen, 10) + "\x00" + fingerprint,
		ctx:         entryCtx,
		cancel:      cancel,
		refs:        1,
	}
	g.entries[key] = entry
	return entry.ctx, entry.flightKey, g.releaseFunc(key, entry)
}

// Superseded reports whether ctx was cancelled because a newer query arrived.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}

// InFlight reports how many keys currently have a live query.
func (g *LatestGate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *LatestGate) releaseFunc(key string, e *gateEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			e.refs--
			if e.refs > 0 {
				return
			}
			e.cancel(context.Canceled)
			if g.entries[key] == e {
				delete(g.entries, key)
			}
		})
	}
}
