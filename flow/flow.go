package flow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/spetersoncode/cinematch"
)

var (
	// ErrBusy is returned when an action is attempted while a request is in flight.
	ErrBusy = errors.New("flow: recommendation request in progress")

	// ErrNotEditable is returned when preferences are edited or submitted
	// outside the input state.
	ErrNotEditable = errors.New("flow: preferences can only be changed in the input state")
)

// Listener observes state transitions. Listeners are called without the
// flow's lock held, one transition at a time and in the order the
// transitions happened. A listener must not start another transition on the
// same flow.
type Listener func(Transition)

// Option configures a Flow.
type Option func(*Flow)

// WithListener registers a transition listener.
func WithListener(l Listener) Option {
	return func(f *Flow) {
		f.listeners = append(f.listeners, l)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// WithDraft starts the flow with a pre-filled draft instead of an empty one.
func WithDraft(p cinematch.Preferences) Option {
	return func(f *Flow) {
		p.Normalize()
		f.state = Input{Draft: p}
	}
}

// Flow drives one session through input, loading and results.
//
// A Flow is safe for concurrent use. At most one oracle call is in flight:
// Submit releases the lock while waiting on the recommender, and the Loading
// state rejects every other action until the call returns.
type Flow struct {
	recommender cinematch.Recommender
	listeners   []Listener
	log         *slog.Logger

	mu     sync.Mutex
	state  State
	issued uint64 // guarded by mu

	emitMu    sync.Mutex
	emitCond  *sync.Cond
	delivered uint64 // guarded by emitMu
}

// New creates a Flow in the input state with an empty draft.
func New(r cinematch.Recommender, opts ...Option) *Flow {
	f := &Flow{
		recommender: r,
		log:         slog.Default(),
		state:       Input{},
	}
	f.emitCond = sync.NewCond(&f.emitMu)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return snapshot(f.state)
}

// snapshot copies the draft so callers cannot mutate flow-owned slices.
func snapshot(s State) State {
	if in, ok := s.(Input); ok {
		in.Draft = in.Draft.Clone()
		return in
	}
	return s
}

// edit applies fn to the draft if the flow is in the input state.
func (f *Flow) edit(fn func(*cinematch.Preferences) bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	in, ok := f.state.(Input)
	if !ok {
		return false, f.notEditable()
	}
	changed := fn(&in.Draft)
	f.state = in
	return changed, nil
}

func (f *Flow) notEditable() error {
	if _, ok := f.state.(Loading); ok {
		return ErrBusy
	}
	return ErrNotEditable
}

// Add appends value to a list field of the draft.
// Returns whether the draft changed.
func (f *Flow) Add(field cinematch.Field, value string) (bool, error) {
	return f.edit(func(p *cinematch.Preferences) bool { return p.Add(field, value) })
}

// Remove deletes value from a list field of the draft.
// Returns whether the draft changed.
func (f *Flow) Remove(field cinematch.Field, value string) (bool, error) {
	return f.edit(func(p *cinematch.Preferences) bool { return p.Remove(field, value) })
}

// Set assigns a free-text field of the draft.
func (f *Flow) Set(s cinematch.Scalar, value string) error {
	_, err := f.edit(func(p *cinematch.Preferences) bool {
		p.Set(s, value)
		return true
	})
	return err
}

// Submit validates the draft and, if it is submittable, asks the recommender
// for results.
//
// An unsubmittable draft leaves the flow in input with a validation message
// and returns *cinematch.ValidationError. A recommender failure returns the
// flow to input with the draft intact and returns *cinematch.RequestError.
// There is no timeout beyond ctx and no way to abort from another caller.
func (f *Flow) Submit(ctx context.Context) (*cinematch.Result, error) {
	draft, err := f.begin()
	if err != nil {
		return nil, err
	}
	return f.finish(ctx, draft)
}

// Outcome is the result of an asynchronous submit.
type Outcome struct {
	Result *cinematch.Result
	Err    error
}

// SubmitAsync validates the draft and enters loading before returning, then
// calls the recommender on a new goroutine. Validation and state errors are
// returned directly; the channel receives the outcome of the oracle call and
// is then closed.
func (f *Flow) SubmitAsync(ctx context.Context) (<-chan Outcome, error) {
	draft, err := f.begin()
	if err != nil {
		return nil, err
	}
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		result, err := f.finish(ctx, draft)
		ch <- Outcome{Result: result, Err: err}
	}()
	return ch, nil
}

// begin validates the draft and moves input to loading.
func (f *Flow) begin() (cinematch.Preferences, error) {
	f.mu.Lock()
	in, ok := f.state.(Input)
	if !ok {
		err := f.notEditable()
		f.mu.Unlock()
		return cinematch.Preferences{}, err
	}
	if !in.Draft.Submittable() {
		verr := cinematch.NewValidationError()
		in.Err = verr.Error()
		f.state = in
		f.mu.Unlock()
		f.log.Debug("submit rejected", "reason", "nothing submittable")
		return cinematch.Preferences{}, verr
	}
	draft := in.Draft.Clone()
	f.state = Loading{}
	seq := f.nextSeq()
	f.mu.Unlock()
	f.emit(seq, snapshot(in), Loading{})
	return draft, nil
}

// finish calls the recommender and leaves loading.
func (f *Flow) finish(ctx context.Context, draft cinematch.Preferences) (*cinematch.Result, error) {
	result, err := f.recommender.Recommend(ctx, draft.Clone())

	f.mu.Lock()
	var next State
	if err != nil {
		if !cinematch.IsRequestFailure(err) {
			err = &cinematch.RequestError{Op: "generate", Cause: err}
		}
		next = Input{Draft: draft, Err: cinematch.MsgRequest}
	} else {
		next = Results{Result: result}
	}
	f.state = next
	seq := f.nextSeq()
	f.mu.Unlock()
	f.emit(seq, Loading{}, snapshot(next))

	if err != nil {
		f.log.Warn("recommendation failed", "error", err)
		return nil, err
	}
	return result, nil
}

// Restart leaves the results state, discarding the result and the draft.
// It is a no-op in the input state and returns ErrBusy while loading.
func (f *Flow) Restart() error {
	f.mu.Lock()
	from := f.state
	switch from.(type) {
	case Loading:
		f.mu.Unlock()
		return ErrBusy
	case Input:
		f.mu.Unlock()
		return nil
	}
	f.state = Input{}
	seq := f.nextSeq()
	f.mu.Unlock()
	f.emit(seq, from, Input{})
	return nil
}

// nextSeq numbers a transition. Callers hold mu.
func (f *Flow) nextSeq() uint64 {
	seq := f.issued
	f.issued++
	return seq
}

// emit delivers transition seq once every earlier transition has been
// delivered.
func (f *Flow) emit(seq uint64, from, to State) {
	f.emitMu.Lock()
	defer f.emitMu.Unlock()
	for f.delivered != seq {
		f.emitCond.Wait()
	}
	for _, l := range f.listeners {
		l(Transition{From: from, To: to})
	}
	f.delivered++
	f.emitCond.Broadcast()
}
