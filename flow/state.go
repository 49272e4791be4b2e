package flow

import "github.com/spetersoncode/cinematch"

// Step names the three states of a flow.
type Step string

const (
	StepInput   Step = "input"
	StepLoading Step = "loading"
	StepResults Step = "results"
)

// State is one of Input, Loading or Results.
// The unexported method seals the set.
type State interface {
	Step() Step
	state()
}

// Input is the initial state: the user edits a draft record.
// Err holds a validation or request failure message from the last submit.
type Input struct {
	Draft cinematch.Preferences
	Err   string
}

// Loading is entered on a valid submit and lasts until the oracle answers.
type Loading struct{}

// Results holds the reply of the last successful submit.
type Results struct {
	Result *cinematch.Result
}

func (Input) Step() Step   { return StepInput }
func (Loading) Step() Step { return StepLoading }
func (Results) Step() Step { return StepResults }

func (Input) state()   {}
func (Loading) state() {}
func (Results) state() {}

// Transition describes a state change.
type Transition struct {
	From State
	To   State
}
