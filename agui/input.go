package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cinematch"
)

// RecommendInput is the request body for a recommendation run.
type RecommendInput struct {
	ThreadID    string                `json:"threadId"`
	RunID       string                `json:"runId"`
	Preferences cinematch.Preferences `json:"preferences"`
}

// PreparedInput is a validated input with IDs filled in.
type PreparedInput struct {
	ThreadID    string
	RunID       string
	Preferences cinematch.Preferences
}

// Prepare fills in missing IDs and normalizes the preference lists.
// Submittability is checked by the flow, not here, so that an empty draft
// still produces a RUN_ERROR event rather than an HTTP error.
func (r *RecommendInput) Prepare() *PreparedInput {
	threadID := r.ThreadID
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	runID := r.RunID
	if runID == "" {
		runID = events.GenerateRunID()
	}
	prefs := r.Preferences.Clone()
	prefs.Normalize()
	return &PreparedInput{
		ThreadID:    threadID,
		RunID:       runID,
		Preferences: prefs,
	}
}
