package player

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/thruflo/reel/internal/config"
)

// Manager owns the players of a process, one per named target.
type Manager struct {
	mu       sync.Mutex
	byTarget map[string]*Player
	byID     map[uuid.UUID]string
	opts     []Option
}

// NewManager creates a Manager. opts are applied to every player it creates,
// before the options passed to Init.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		byTarget: map[string]*Player{},
		byID:     map[uuid.UUID]string{},
		opts:     opts,
	}
}

// Init creates a player for target. A target whose player has not been
// destroyed cannot be initialised again.
func (m *Manager) Init(target string, cfg *config.Config, opts ...Option) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.byTarget[target]; ok {
		if !p.Destroyed() {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyInitialized, target)
		}
		delete(m.byID, p.ID())
	}

	all := make([]Option, 0, len(m.opts)+len(opts))
	all = append(all, m.opts...)
	all = append(all, opts...)
	p, err := New(cfg, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", target, err)
	}
	m.byTarget[target] = p
	m.byID[p.ID()] = target
	return p, nil
}

// Get returns the live player of target.
func (m *Manager) Get(target string) (*Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byTarget[target]
	if !ok || p.Destroyed() {
		return nil, false
	}
	return p, true
}

// Lookup returns a live player by its handle.
func (m *Manager) Lookup(id uuid.UUID) (*Player, bool) {
	m.mu.Lock()
	target, ok := m.byID[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	return m.Get(target)
}

// Destroy destroys the player of target and forgets it. It reports whether
// there was one.
func (m *Manager) Destroy(target string) bool {
	m.mu.Lock()
	p, ok := m.byTarget[target]
	if ok {
		delete(m.byTarget, target)
		delete(m.byID, p.ID())
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	p.Destroy()
	return true
}

// DestroyAll destroys every player.
func (m *Manager) DestroyAll() {
	for _, target := range m.Targets() {
		m.Destroy(target)
	}
}

// Targets returns the targets with a player, sorted.
func (m *Manager) Targets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.byTarget))
	for t := range m.byTarget {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
