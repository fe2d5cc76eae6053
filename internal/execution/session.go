// internal/execution/session.go

// Package execution composes the begin/apply/finalize protocol for a
// staged batch into one atomic unit. Begin produces a single-use
// handle that only Finalize may consume; every apply threads it
// through. The ledger enforces this with a linear capability; the
// client mirrors it with a runtime single-use token plus a loud
// must-consume check at Close.
package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/ledger"
)

var (
	// ErrSessionActive rejects Begin while a handle is outstanding
	// for the same target.
	ErrSessionActive = errors.New("execution: session already began")
	// ErrHandleConsumed rejects use of a handle after Finalize.
	ErrHandleConsumed = errors.New("execution: handle already consumed")
	// ErrForeignHandle rejects a handle that belongs to another
	// session.
	ErrForeignHandle = errors.New("execution: handle belongs to a different session")
	// ErrWrongState rejects calls out of protocol order.
	ErrWrongState = errors.New("execution: wrong session state")
	// ErrWindowExpired rejects Begin after the execution deadline.
	ErrWindowExpired = errors.New("execution: execution window expired")
	// ErrWindowNotExpired rejects ForceRejectOnTimeout before the
	// deadline.
	ErrWindowNotExpired = errors.New("execution: execution window not expired")
	// ErrLosingOutcome rejects execution of an outcome that did not
	// win.
	ErrLosingOutcome = errors.New("execution: outcome did not win")
	// ErrOrderMismatch rejects an apply whose action does not match
	// the staged order.
	ErrOrderMismatch = errors.New("execution: action does not match staged order")
	// ErrUnknownResultKey rejects a resource-bound action consuming a
	// key no earlier operation produced.
	ErrUnknownResultKey = errors.New("execution: coin source key not produced by an earlier operation")
	// ErrHandleUnconsumed is reported by Close when Begin ran but
	// Finalize never consumed the handle.
	ErrHandleUnconsumed = errors.New("execution: handle produced but never consumed by finalize")
)

// State is the session's protocol position.
type State uint8

const (
	StateNotStarted State = iota
	StateBegan
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateBegan:
		return "began"
	case StateFinalized:
		return "finalized"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Handle is the single-use capability returned by Begin and consumed
// by Finalize. It cannot be usefully copied: only the pointer handed
// out by Begin passes the session's identity check.
type Handle struct {
	res      ledger.Result
	session  *Session
	mu       sync.Mutex
	consumed bool
}

func (h *Handle) consume() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return ErrHandleConsumed
	}
	h.consumed = true
	return nil
}

func (h *Handle) live() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return ErrHandleConsumed
	}
	return nil
}

const moduleExecution = "execution"

// TargetState is the client-side read of the target's lifecycle,
// used to pre-check Begin. The ledger re-checks authoritatively.
type TargetState struct {
	Resolved       bool
	WinningOutcome uint64
	ExecuteBy      time.Time
	Executed       bool
}

// ReadTargetState extracts the execution-relevant fields of a raise
// or proposal object.
func ReadTargetState(ctx context.Context, reader ledger.ObjectReader, id ledger.ObjectID) (*TargetState, error) {
	obj, err := reader.GetObject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading target %s: %w", id, err)
	}
	st := &TargetState{}
	if v, ok := obj.Fields["resolved"].(bool); ok {
		st.Resolved = v
	}
	if v, ok := obj.Fields["winning_outcome"].(uint64); ok {
		st.WinningOutcome = v
	}
	if v, ok := obj.Fields["execute_by_ms"].(uint64); ok {
		st.ExecuteBy = time.UnixMilli(int64(v))
	}
	if v, ok := obj.Fields["executed"].(bool); ok {
		st.Executed = v
	}
	return st, nil
}

// Session drives one execution of a staged batch. It is not safe for
// concurrent use; the composition it builds is inherently sequential.
type Session struct {
	unit   *ledger.Unit
	pkg    ledger.ObjectID
	target ledger.SharedRef
	staged []intent.Action

	state    State
	handle   *Handle
	applied  int
	produced map[string]int // result key -> producing apply index
	logger   *zap.Logger
}

// NewSession prepares an execution of the staged actions against the
// target. staged must list the actions in their staged order; Apply
// enforces that order.
func NewSession(unit *ledger.Unit, pkg ledger.ObjectID, target ledger.SharedRef, staged []intent.Action, logger *zap.Logger) *Session {
	return &Session{
		unit:     unit,
		pkg:      pkg,
		target:   target,
		staged:   staged,
		produced: make(map[string]int),
		logger:   logger.Named("execution"),
	}
}

// Begin pre-checks the target's lifecycle and appends the
// begin_execution call, returning the execution handle. outcome is
// the branch being executed; it must be the resolved winner and must
// not be the reject outcome.
func (s *Session) Begin(ctx context.Context, reader ledger.ObjectReader, outcome uint64, now time.Time) (*Handle, error) {
	if s.state != StateNotStarted {
		return nil, ErrSessionActive
	}

	st, err := ReadTargetState(ctx, reader, s.target.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case !st.Resolved || st.Executed:
		return nil, fmt.Errorf("%w: resolved=%t executed=%t", ErrWrongState, st.Resolved, st.Executed)
	case outcome == 0 || st.WinningOutcome != outcome:
		return nil, fmt.Errorf("%w: winner is %d, requested %d", ErrLosingOutcome, st.WinningOutcome, outcome)
	case !st.ExecuteBy.IsZero() && now.After(st.ExecuteBy):
		return nil, fmt.Errorf("%w: deadline %s", ErrWindowExpired, st.ExecuteBy.UTC().Format(time.RFC3339))
	}

	res := s.unit.Append(ledger.Call{
		Target: ledger.Target{Package: s.pkg, Module: moduleExecution, Function: "begin_execution"},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: s.target},
			ledger.PureU64(outcome),
		},
	})
	s.handle = &Handle{res: res, session: s}
	s.state = StateBegan
	s.logger.Info("Execution began",
		zap.String("target", s.target.ID.String()),
		zap.Uint64("outcome", outcome),
		zap.Int("staged", len(s.staged)))
	return s.handle, nil
}

// Apply appends the do_* dispatch call for the next staged action.
// Actions must be applied strictly in staged order; any mismatch is a
// client bug caught before submission. Resource-bound actions are
// checked against the keys produced so far in this run.
func (s *Session) Apply(h *Handle, a intent.Action) error {
	if s.state != StateBegan {
		return fmt.Errorf("%w: %s", ErrWrongState, s.state)
	}
	if h != s.handle {
		return ErrForeignHandle
	}
	if err := h.live(); err != nil {
		return err
	}
	if s.applied >= len(s.staged) {
		return fmt.Errorf("%w: all %d staged actions already applied", ErrOrderMismatch, len(s.staged))
	}
	if want := s.staged[s.applied].Kind(); want != a.Kind() {
		return fmt.Errorf("%w: position %d staged %s, got %s", ErrOrderMismatch, s.applied, want, a.Kind())
	}

	produces, consumes, err := intent.ResourceKeys(a)
	if err != nil {
		return err
	}
	for _, k := range consumes {
		if _, ok := s.produced[k]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownResultKey, k)
		}
	}

	call, err := intent.ExecCall(s.pkg, h.res, a)
	if err != nil {
		return err
	}
	s.unit.Append(call)
	for _, k := range produces {
		s.produced[k] = s.applied
	}
	s.applied++
	s.logger.Debug("Operation applied",
		zap.String("kind", string(a.Kind())),
		zap.Int("position", s.applied-1))
	return nil
}

// Finalize consumes the handle and appends the finalize call, which
// confirms on-ledger that the applied count and order match the
// staged list and transitions the target to executed. After Finalize
// the handle is dead; a second Finalize fails.
func (s *Session) Finalize(h *Handle) (ledger.Result, error) {
	if s.state != StateBegan {
		return ledger.Result{}, fmt.Errorf("%w: %s", ErrWrongState, s.state)
	}
	if h != s.handle {
		return ledger.Result{}, ErrForeignHandle
	}
	if err := h.consume(); err != nil {
		return ledger.Result{}, err
	}

	res := s.unit.Append(ledger.Call{
		Target: ledger.Target{Package: s.pkg, Module: moduleExecution, Function: "finalize_execution"},
		Args: []ledger.CallArg{
			h.res.Arg(),
			ledger.SharedArg{Ref: s.target},
			ledger.PureU64(uint64(s.applied)),
		},
	})
	s.state = StateFinalized
	s.logger.Info("Execution finalized",
		zap.String("target", s.target.ID.String()),
		zap.Int("applied", s.applied))
	return res, nil
}

// Applied reports how many operations have been applied so far.
func (s *Session) Applied() int { return s.applied }

// State reports the session's protocol position.
func (s *Session) State() State { return s.state }

// Close verifies the hot-potato discipline: a handle produced by
// Begin must have been consumed by Finalize before the composing
// function returns. Call it (usually deferred) at the end of the
// composition; an unconsumed handle is a bug that must fail loudly
// before the unit is submitted.
func (s *Session) Close() error {
	if s.state == StateBegan {
		return ErrHandleUnconsumed
	}
	return nil
}
