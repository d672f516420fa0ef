package identity

import "sync"

// ActionGuard serializes invocations per action. Acquisition never blocks:
// the caller either gets the slot or learns the action is still running.
type ActionGuard struct {
	mu       sync.Mutex
	inflight map[Action]bool
}

func NewActionGuard() *ActionGuard {
	return &ActionGuard{inflight: make(map[Action]bool)}
}

func (g *ActionGuard) TryAcquire(action Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[action] {
		return false
	}
	g.inflight[action] = true
	return true
}

func (g *ActionGuard) Release(action Action) {
	g.mu.Lock()
	delete(g.inflight, action)
	g.mu.Unlock()
}
