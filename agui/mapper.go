package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

// StepLoading names the AG-UI step covering the oracle call.
const StepLoading = string(flow.StepLoading)

// Snapshot is the state sent in STATE_SNAPSHOT events.
type Snapshot struct {
	Step        flow.Step             `json:"step"`
	Preferences cinematch.Preferences `json:"preferences"`
	Result      *cinematch.Result     `json:"result,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// Mapper converts flow transitions to AG-UI events.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string
	prefs    cinematch.Preferences
}

// NewMapper creates a new Mapper for a single run.
func NewMapper(threadID, runID string, prefs cinematch.Preferences) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
		prefs:    prefs,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event with the user-visible message for err.
func (m *Mapper) RunError(err error) events.Event {
	return events.NewRunErrorEvent(cinematch.UserMessage(err))
}

// StateSnapshot returns a STATE_SNAPSHOT event for s.
func (m *Mapper) StateSnapshot(s Snapshot) events.Event {
	return events.NewStateSnapshotEvent(s)
}

// MapTransition converts a flow transition to AG-UI events. Returning to
// input after loading only closes the step; the caller reports the error.
func (m *Mapper) MapTransition(t flow.Transition) []events.Event {
	switch to := t.To.(type) {
	case flow.Loading:
		return []events.Event{events.NewStepStartedEvent(StepLoading)}
	case flow.Results:
		return []events.Event{
			m.StateSnapshot(Snapshot{Step: flow.StepResults, Preferences: m.prefs, Result: to.Result}),
			events.NewStepFinishedEvent(StepLoading),
		}
	case flow.Input:
		if t.From.Step() == flow.StepLoading {
			return []events.Event{events.NewStepFinishedEvent(StepLoading)}
		}
	}
	return nil
}
