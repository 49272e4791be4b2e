package agui

import (
	"context"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

// Run drives a single-use flow for input and streams its AG-UI events.
// STEP_STARTED is delivered before the oracle is called. The channel is
// closed after RUN_FINISHED or RUN_ERROR, or when ctx is done. Extra flow
// options (for example a metrics listener) are applied after the run's own.
func Run(ctx context.Context, rec cinematch.Recommender, input *PreparedInput, opts ...flow.Option) <-chan events.Event {
	ch := make(chan events.Event)
	mapper := NewMapper(input.ThreadID, input.RunID, input.Preferences)

	send := func(ev events.Event) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)

		if !send(mapper.RunStarted()) {
			return
		}

		// Listeners run on this goroutine, outside the flow's lock.
		flowOpts := append([]flow.Option{
			flow.WithDraft(input.Preferences),
			flow.WithListener(func(t flow.Transition) {
				for _, ev := range mapper.MapTransition(t) {
					send(ev)
				}
			}),
		}, opts...)

		_, err := flow.New(rec, flowOpts...).Submit(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			send(mapper.RunError(err))
			return
		}
		send(mapper.RunFinished())
	}()

	return ch
}
