package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormGuardDefaultsToContentTab(t *testing.T) {
	guard := NewFormGuard()

	tab, dirty := guard.State("super_admin")
	assert.Equal(t, TabContent, tab)
	assert.False(t, dirty)
}

func TestSwitchTabCleanForm(t *testing.T) {
	guard := NewFormGuard()

	require.NoError(t, guard.SwitchTab("super_admin", TabUsers, false))
	tab, _ := guard.State("super_admin")
	assert.Equal(t, TabUsers, tab)
}

func TestSwitchTabBlockedByUnsavedForm(t *testing.T) {
	guard := NewFormGuard()
	guard.MarkDirty("super_admin")

	err := guard.SwitchTab("super_admin", TabUsers, false)
	require.Error(t, err)

	tab, dirty := guard.State("super_admin")
	assert.Equal(t, TabContent, tab)
	assert.True(t, dirty)
}

func TestForcedSwitchDiscardsPendingEdit(t *testing.T) {
	guard := NewFormGuard()
	guard.MarkDirty("super_admin")

	require.NoError(t, guard.SwitchTab("super_admin", TabUsers, true))
	tab, dirty := guard.State("super_admin")
	assert.Equal(t, TabUsers, tab)
	assert.False(t, dirty)
}

func TestSwitchToCurrentTabIsNoOp(t *testing.T) {
	guard := NewFormGuard()
	guard.MarkDirty("super_admin")

	// Same tab: no error and the pending edit survives.
	require.NoError(t, guard.SwitchTab("super_admin", TabContent, false))
	_, dirty := guard.State("super_admin")
	assert.True(t, dirty)
}

func TestSwitchTabRejectsUnknownTab(t *testing.T) {
	guard := NewFormGuard()

	require.Error(t, guard.SwitchTab("super_admin", "reports", false))
}

func TestFormGuardIsolatesUsers(t *testing.T) {
	guard := NewFormGuard()
	guard.MarkDirty("miit_admin")

	require.NoError(t, guard.SwitchTab("bis_admin", TabUsers, false))
	_, dirty := guard.State("miit_admin")
	assert.True(t, dirty)
}

func TestResetClearsDirtyFlag(t *testing.T) {
	guard := NewFormGuard()
	guard.MarkDirty("super_admin")
	guard.Reset("super_admin")

	_, dirty := guard.State("super_admin")
	assert.False(t, dirty)
}
