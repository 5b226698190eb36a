package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// saveGuard — prevents concurrent saves of the same session
// ─────────────────────────────────────────────────────────────

// saveGuard ensures only one save of a given session id runs at a time,
// so a manual save and an autosave tick never interleave their writes.
type saveGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock attempts to mark sessionID as saving. Returns false if a save of
// that session is already in flight.
func (g *saveGuard) TryLock(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[sessionID]; ok {
		return false
	}
	g.running[sessionID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the save as finished. Must be called after TryLock returns true.
func (g *saveGuard) Unlock(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, sessionID)
	g.wg.Done()
}

// WaitAll blocks until all in-flight saves complete or ctx is cancelled.
func (g *saveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
