package ui

import (
	"github.com/Dicklesworthstone/system_observer/internal/model"
	"github.com/Dicklesworthstone/system_observer/internal/telemetry"
)

// Selection is the highlighted row of the process table, or none. The zero
// value is none. Whenever a Selection is valid its index lies in [0, n) for
// the n it was last moved or revalidated against.
type Selection struct {
	index int
	valid bool
}

// NoSelection returns the empty selection.
func NoSelection() Selection { return Selection{} }

// SelectAt returns a selection on row i. Negative i yields none.
func SelectAt(i int) Selection {
	if i < 0 {
		return Selection{}
	}
	return Selection{index: i, valid: true}
}

// Index returns the selected row and whether there is one.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

func (s Selection) IsNone() bool { return !s.valid }

// Move shifts the selection by delta over a table of n rows. From none it
// lands on row 0 regardless of delta. Movement saturates at both ends.
func (s Selection) Move(delta, n int) Selection {
	if n <= 0 {
		return Selection{}
	}
	if !s.valid {
		return Selection{index: 0, valid: true}
	}
	return Selection{index: clampIndex(s.index+delta, n), valid: true}
}

// Revalidate keeps the selection inside a table that now has n rows.
func (s Selection) Revalidate(n int) Selection {
	if !s.valid {
		return s
	}
	if n <= 0 {
		return Selection{}
	}
	if s.index >= n {
		return Selection{index: n - 1, valid: true}
	}
	return s
}

// Resolve returns the process the selection points at in snap.
func (s Selection) Resolve(snap model.Snapshot) (model.ProcessRecord, bool) {
	if !s.valid || s.index >= len(snap.Processes) {
		return model.ProcessRecord{}, false
	}
	return snap.Processes[s.index], true
}

// KillSelected asks t to terminate the selected process of snap. With no
// selection it does nothing and reports attempted=false. The selection itself
// is never changed; the caller re-samples on success.
func KillSelected(s Selection, snap model.Snapshot, t telemetry.Terminator) (target model.ProcessRecord, attempted bool, err error) {
	target, ok := s.Resolve(snap)
	if !ok {
		return model.ProcessRecord{}, false, nil
	}
	return target, true, t.Terminate(target.PID)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
