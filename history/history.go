// Package history provides a bounded undo/redo stack for surface edits.
package history

import (
	"errors"
	"sync"

	"github.com/gogpu/rasterlayer"
)

var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = errors.New("history: nothing to undo")

	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Manager keeps the most recent edits. Recording an edit clears the redo
// stack; edits pushed out of either stack are disposed with Die.
//
// Manager never holds its lock while calling Undo or Redo on an edit, so
// surfaces may query Edits during those calls.
type Manager struct {
	mu    sync.Mutex
	limit int
	undo  []rasterlayer.Edit
	redo  []rasterlayer.Edit
}

var _ rasterlayer.History = (*Manager)(nil)

// New returns a Manager keeping at most limit undoable edits. A limit of
// zero or less means unbounded.
func New(limit int) *Manager {
	return &Manager{limit: limit}
}

// Record implements rasterlayer.History.
func (m *Manager) Record(e rasterlayer.Edit) {
	if e == nil {
		return
	}
	m.mu.Lock()
	dead := m.redo
	m.redo = nil
	m.undo = append(m.undo, e)
	if m.limit > 0 && len(m.undo) > m.limit {
		n := len(m.undo) - m.limit
		dead = append(dead, m.undo[:n]...)
		m.undo = append([]rasterlayer.Edit(nil), m.undo[n:]...)
	}
	m.mu.Unlock()

	for _, d := range dead {
		d.Die()
	}
}

// Edits implements rasterlayer.History. It returns both stacks.
func (m *Manager) Edits() []rasterlayer.Edit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]rasterlayer.Edit, 0, len(m.undo)+len(m.redo))
	out = append(out, m.undo...)
	return append(out, m.redo...)
}

// CanUndo reports whether Undo has something to do.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo has something to do.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Undo reverts the most recent edit and returns it.
func (m *Manager) Undo() (rasterlayer.Edit, error) {
	m.mu.Lock()
	if len(m.undo) == 0 {
		m.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	e := m.undo[len(m.undo)-1]
	m.mu.Unlock()

	if err := e.Undo(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.undo, e); i >= 0 {
		m.undo = append(m.undo[:i], m.undo[i+1:]...)
	}
	m.redo = append(m.redo, e)
	return e, nil
}

// Redo reapplies the most recently undone edit and returns it.
func (m *Manager) Redo() (rasterlayer.Edit, error) {
	m.mu.Lock()
	if len(m.redo) == 0 {
		m.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	e := m.redo[len(m.redo)-1]
	m.mu.Unlock()

	if err := e.Redo(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.redo, e); i >= 0 {
		m.redo = append(m.redo[:i], m.redo[i+1:]...)
	}
	m.undo = append(m.undo, e)
	return e, nil
}

// Clear disposes every edit.
func (m *Manager) Clear() {
	m.mu.Lock()
	dead := append(m.undo, m.redo...)
	m.undo, m.redo = nil, nil
	m.mu.Unlock()
	for _, d := range dead {
		d.Die()
	}
}

// Len returns the sizes of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func indexOf(es []rasterlayer.Edit, e rasterlayer.Edit) int {
	for i := len(es) - 1; i >= 0; i-- {
		if es[i] == e {
			return i
		}
	}
	return -1
}
