package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMap_Action(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name   string
		screen Screen
		msg    tea.KeyMsg
		want   Action
	}{
		{"q quits", ScreenProcesses, runeKey('q'), ActionQuit},
		{"Q quits", ScreenNetwork, runeKey('Q'), ActionQuit},
		{"ctrl+c quits", ScreenCPU, tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
		{"tab on processes", ScreenProcesses, tea.KeyMsg{Type: tea.KeyTab}, ActionNextScreen},
		{"tab on network", ScreenNetwork, tea.KeyMsg{Type: tea.KeyTab}, ActionNextScreen},
		{"up on processes", ScreenProcesses, tea.KeyMsg{Type: tea.KeyUp}, ActionUp},
		{"down on processes", ScreenProcesses, tea.KeyMsg{Type: tea.KeyDown}, ActionDown},
		{"k on processes", ScreenProcesses, runeKey('k'), ActionKill},
		{"K on processes", ScreenProcesses, runeKey('K'), ActionKill},
		{"up ignored on cpu", ScreenCPU, tea.KeyMsg{Type: tea.KeyUp}, ActionNone},
		{"down ignored on network", ScreenNetwork, tea.KeyMsg{Type: tea.KeyDown}, ActionNone},
		{"kill ignored on cpu", ScreenCPU, runeKey('k'), ActionNone},
		{"unbound key", ScreenProcesses, runeKey('x'), ActionNone},
		{"enter unbound", ScreenProcesses, tea.KeyMsg{Type: tea.KeyEnter}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys.Action(tt.screen, tt.msg))
		})
	}
}

func TestKeyMap_Bindings(t *testing.T) {
	keys := DefaultKeyMap()
	assert.Len(t, keys.Bindings(ScreenProcesses), 5)
	assert.Len(t, keys.Bindings(ScreenCPU), 2)
	assert.Len(t, keys.Bindings(ScreenNetwork), 2)
}
