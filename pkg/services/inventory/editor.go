package inventory

import (
	"fmt"

	"github.com/bakeops/ovenboard/pkg/models/api"
)

// EditPhase is the tagged presentation state of one inventory row.
// Transitions: Viewing -> Editing -> Saving -> Viewing on success, or
// Saving -> SaveFailed -> Editing on retry. Making the phases explicit keeps
// illegal combinations (saving a row nobody is editing) unrepresentable.
type EditPhase int

const (
	PhaseViewing EditPhase = iota
	PhaseEditing
	PhaseSaving
	PhaseSaveFailed
)

func (p EditPhase) String() string {
	switch p {
	case PhaseViewing:
		return "viewing"
	case PhaseEditing:
		return "editing"
	case PhaseSaving:
		return "saving"
	case PhaseSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

type rowEdit struct {
	phase   EditPhase
	draft   api.PositionEdit
	failure string
}

// Editor tracks per-row edit state. Rows it has never seen are Viewing.
// The in-memory position is only updated after the bakehouse confirms a
// save; the draft never leaks into a rendered view.
type Editor struct {
	rows map[string]*rowEdit
}

func NewEditor() *Editor {
	return &Editor{rows: make(map[string]*rowEdit)}
}

func (e *Editor) Phase(key string) EditPhase {
	if row, ok := e.rows[key]; ok {
		return row.phase
	}
	return PhaseViewing
}

// Draft returns the pending edit for a row, if it is being edited.
func (e *Editor) Draft(key string) (api.PositionEdit, bool) {
	row, ok := e.rows[key]
	if !ok || (row.phase != PhaseEditing && row.phase != PhaseSaving) {
		return api.PositionEdit{}, false
	}
	return row.draft, true
}

// Failure returns the last save failure message for a row.
func (e *Editor) Failure(key string) (string, bool) {
	row, ok := e.rows[key]
	if !ok || row.phase != PhaseSaveFailed {
		return "", false
	}
	return row.failure, true
}

// Begin puts a row into Editing. Beginning an edit on a row that is mid-save
// is refused.
func (e *Editor) Begin(key string) error {
	if row, ok := e.rows[key]; ok && row.phase == PhaseSaving {
		return fmt.Errorf("row %q is saving, cannot start a new edit", key)
	}
	e.rows[key] = &rowEdit{phase: PhaseEditing}
	return nil
}

// SetDraft replaces the pending edit of a row in Editing or SaveFailed state.
func (e *Editor) SetDraft(key string, draft api.PositionEdit) error {
	row, ok := e.rows[key]
	if !ok || (row.phase != PhaseEditing && row.phase != PhaseSaveFailed) {
		return fmt.Errorf("row %q is not being edited", key)
	}
	row.phase = PhaseEditing
	row.draft = draft
	row.failure = ""
	return nil
}

// MarkSaving transitions Editing -> Saving and returns the draft to submit.
func (e *Editor) MarkSaving(key string) (api.PositionEdit, error) {
	row, ok := e.rows[key]
	if !ok || row.phase != PhaseEditing {
		return api.PositionEdit{}, fmt.Errorf("row %q is not being edited, cannot save", key)
	}
	row.phase = PhaseSaving
	return row.draft, nil
}

// Complete ends a successful save; the row returns to Viewing.
func (e *Editor) Complete(key string) error {
	row, ok := e.rows[key]
	if !ok || row.phase != PhaseSaving {
		return fmt.Errorf("row %q is not saving", key)
	}
	delete(e.rows, key)
	return nil
}

// Fail records a save failure; the draft is kept so the user can retry.
func (e *Editor) Fail(key string, message string) error {
	row, ok := e.rows[key]
	if !ok || row.phase != PhaseSaving {
		return fmt.Errorf("row %q is not saving", key)
	}
	row.phase = PhaseSaveFailed
	row.failure = message
	return nil
}

// Cancel discards any edit state for a row.
func (e *Editor) Cancel(key string) {
	delete(e.rows, key)
}
