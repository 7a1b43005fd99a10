package pipeline

import (
	"errors"
	"slices"
)

// State is a stage of a glossary run.
type State string

const (
	StateIdle            State = "idle"
	StateResolvingFolder State = "resolving_folder"
	StateListing         State = "listing"
	StateSorting         State = "sorting"
	StateGenerating      State = "generating"
	StateAssembling      State = "assembling"
	StateWritingTitle    State = "writing_title"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidTransitions defines allowed state transitions.
// Generating and Assembling alternate once per item; any active state may fail.
var ValidTransitions = map[State][]State{
	StateIdle:            {StateResolvingFolder},
	StateResolvingFolder: {StateListing, StateFailed},
	StateListing:         {StateSorting, StateFailed},
	StateSorting:         {StateGenerating, StateWritingTitle, StateFailed},
	StateGenerating:      {StateAssembling, StateFailed},
	StateAssembling:      {StateGenerating, StateWritingTitle, StateFailed},
	StateWritingTitle:    {StateDone, StateFailed},
	StateDone:            {StateResolvingFolder},
	StateFailed:          {StateResolvingFolder},
}

// CanTransition checks if a transition from one state to another is valid.
func CanTransition(from, to State) bool {
	return slices.Contains(ValidTransitions[from], to)
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Description returns a human-readable description of a state.
func (s State) Description() string {
	switch s {
	case StateIdle:
		return "No run started"
	case StateResolvingFolder:
		return "Looking up the root folder"
	case StateListing:
		return "Walking the folder tree"
	case StateSorting:
		return "Ordering discovered documents"
	case StateGenerating:
		return "Summarizing a document"
	case StateAssembling:
		return "Writing an entry to the output document"
	case StateWritingTitle:
		return "Writing the document title"
	case StateDone:
		return "Run finished"
	case StateFailed:
		return "Run failed"
	default:
		return "Unknown state"
	}
}
