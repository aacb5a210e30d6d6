package rasterlayer

import "errors"

var (
	// ErrEditInProgress is returned by BeginEdit while another edit is open.
	ErrEditInProgress = errors.New("rasterlayer: edit already in progress")

	// ErrNoEdit is returned by CommitEdit and CancelEdit without an open edit.
	ErrNoEdit = errors.New("rasterlayer: no edit in progress")

	// ErrCannotUndo is returned when undoing a record that is already undone.
	ErrCannotUndo = errors.New("rasterlayer: cannot undo")

	// ErrCannotRedo is returned when redoing a record that is not undone.
	ErrCannotRedo = errors.New("rasterlayer: cannot redo")

	// ErrEditDead is returned when using a record after Die.
	ErrEditDead = errors.New("rasterlayer: edit has been disposed")

	// ErrHibernated is returned when pixels are needed but the surface is
	// parked and no queue is attached to wake it.
	ErrHibernated = errors.New("rasterlayer: surface is hibernated")
)
