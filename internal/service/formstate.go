package service

import (
	"sync"

	appErrors "github.com/unikl-dcms/dcms-api/pkg/errors"
)

// Admin panel tabs guarded against accidental switches.
const (
	TabContent = "content"
	TabUsers   = "users"
)

// FormGuard tracks per-user admin panel form state so a tab switch with an
// open, unsaved form is rejected unless forced. Forcing the switch resets
// the pending edit, matching the dashboard's discard confirmation.
type FormGuard struct {
	mu     sync.Mutex
	states map[string]*formState
}

type formState struct {
	ActiveTab string
	Dirty     bool
}

// NewFormGuard constructs the guard.
func NewFormGuard() *FormGuard {
	return &FormGuard{states: make(map[string]*formState)}
}

// State reports the active tab and dirty flag for a user.
func (g *FormGuard) State(username string) (activeTab string, dirty bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	state := g.get(username)
	return state.ActiveTab, state.Dirty
}

// MarkDirty records that the user has an unsaved form open.
func (g *FormGuard) MarkDirty(username string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.get(username).Dirty = true
}

// Reset clears the pending edit, e.g. after a save or explicit discard.
func (g *FormGuard) Reset(username string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.get(username).Dirty = false
}

// SwitchTab moves the user to another tab. Switching to the current tab is
// a no-op. With unsaved changes the switch fails unless force is set, in
// which case the pending edit is discarded.
func (g *FormGuard) SwitchTab(username, tab string, force bool) error {
	if tab != TabContent && tab != TabUsers {
		return appErrors.Clone(appErrors.ErrValidation, "unknown tab")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.get(username)
	if state.ActiveTab == tab {
		return nil
	}
	if state.Dirty && !force {
		return appErrors.Clone(appErrors.ErrValidation, "unsaved changes; confirm to discard")
	}
	state.ActiveTab = tab
	state.Dirty = false
	return nil
}

// get returns the state for a user, creating it on first use. Callers must
// hold g.mu.
func (g *FormGuard) get(username string) *formState {
	state, ok := g.states[username]
	if !ok {
		state = &formState{ActiveTab: TabContent}
		g.states[username] = state
	}
	return state
}
