package system

import (
	"fmt"

	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/event"
	"github.com/ejohnd98/DarkRelic-sub001/internal/world"
	"go.uber.org/zap"
)

// Intent is what an action does when performed. Perform reports success;
// a false return is a precondition failure and costs no turn.
type Intent interface {
	Name() string
	Perform(s *Sim, a *Action) bool
}

// InputRequest is one deferred, validated grid position an action needs.
type InputRequest struct {
	Prompt   string
	Valid    func(world.Point) bool
	Prompted bool
	HasValue bool
	Abort    bool
	Value    world.Point
}

// Offer validates a candidate. An accepted value fills the request.
func (r *InputRequest) Offer(p world.Point) bool {
	if r.Abort || r.HasValue {
		return false
	}
	if r.Valid != nil && !r.Valid(p) {
		return false
	}
	r.Value = p
	r.HasValue = true
	return true
}

// Cancel aborts the request and with it the owning action.
func (r *InputRequest) Cancel() { r.Abort = true }

// MarkPrompted records that the prompt was shown. Returns false if it
// already had been.
func (r *InputRequest) MarkPrompted() bool {
	if r.Prompted {
		return false
	}
	r.Prompted = true
	return true
}

// Action is a one-shot command: built, optionally filled with input,
// performed exactly once, then discarded.
type Action struct {
	Owner    ecs.EntityID
	Intent   Intent
	Success  bool
	Loggable bool
	Requests []*InputRequest
	Hints    []Hint
	Lines    []string

	performed bool
}

// NewAction builds a loggable action defaulting to success.
func NewAction(owner ecs.EntityID, intent Intent) *Action {
	return &Action{Owner: owner, Intent: intent, Success: true, Loggable: true}
}

// Request appends an input request and returns it.
func (a *Action) Request(prompt string, valid func(world.Point) bool) *InputRequest {
	r := &InputRequest{Prompt: prompt, Valid: valid}
	a.Requests = append(a.Requests, r)
	return r
}

// NextRequest returns the first unfilled request, or nil when all are
// filled. An aborted request is returned so the caller sees the abort.
func (a *Action) NextRequest() *InputRequest {
	for _, r := range a.Requests {
		if r.Abort || !r.HasValue {
			return r
		}
	}
	return nil
}

// Aborted reports whether any request was cancelled.
func (a *Action) Aborted() bool {
	for _, r := range a.Requests {
		if r.Abort {
			return true
		}
	}
	return false
}

// Ready reports whether every request holds a value and none aborted.
func (a *Action) Ready() bool { return a.NextRequest() == nil }

func (a *Action) Performed() bool { return a.performed }

// Value returns the i-th request's value.
func (a *Action) Value(i int) world.Point { return a.Requests[i].Value }

func (a *Action) String() string {
	if a.Intent == nil {
		return "action"
	}
	return a.Intent.Name()
}

// Perform executes the action once. Errors are invariant violations;
// precondition failures only clear a.Success.
func (s *Sim) Perform(a *Action) error {
	var err error
	switch {
	case a.performed:
		err = ErrAlreadyPerformed
	case a.Aborted():
		err = ErrAborted
	case !a.Ready():
		err = ErrInputPending
	case !s.Valid(a.Owner):
		err = ErrInvalidEntity
	}
	if err != nil {
		s.log.Error("action refused",
			zap.String("action", a.String()), zap.Uint64("owner", uint64(a.Owner)), zap.Error(err))
		return fmt.Errorf("perform %s: %w", a, err)
	}

	a.performed = true
	prev := s.current
	s.current = a
	s.fire(a.Owner, &Notice{Kind: event.ActionStarted, Action: a})
	if a.Intent != nil && !a.Intent.Perform(s, a) {
		a.Success = false
	}
	if s.Valid(a.Owner) {
		s.fire(a.Owner, &Notice{Kind: event.ActionEnded, Action: a})
	}
	s.current = prev

	if !a.Success {
		s.log.Debug("action failed", zap.String("action", a.String()), zap.String("owner", s.Name(a.Owner)))
		return nil
	}
	if len(a.Hints) > 0 {
		s.presenter.Enqueue(a.Owner, a.Hints)
	}
	if a.Loggable {
		for _, line := range a.Lines {
			s.journal.Record(line)
		}
	}
	for _, l := range s.listeners {
		l(a)
	}
	return nil
}
