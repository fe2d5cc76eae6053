// internal/intent/batch.go
package intent

import (
	"errors"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/ledger"
)

var (
	// ErrBuilderClosed is returned by Add after Compile.
	ErrBuilderClosed = errors.New("intent: batch builder already compiled")
	// ErrDoubleCompile is returned by a second Compile. Compilation
	// is a one-way transition; compiling twice is a programmer error.
	ErrDoubleCompile = errors.New("intent: batch already compiled")
	// ErrEmptyBatch is returned when compiling a batch with no
	// actions.
	ErrEmptyBatch = errors.New("intent: batch has no actions")
)

type batchState uint8

const (
	batchOpen batchState = iota
	batchCompiled
)

// Batch accumulates actions in order against an in-progress spec
// builder on the ledger side. Actions apply at execution time in
// exactly the order they were added; there is no reordering or
// deduplication.
type Batch struct {
	unit    *ledger.Unit
	pkg     ledger.ObjectID
	builder ledger.Result
	actions []Action
	state   batchState
	logger  *zap.Logger
}

const moduleSpec = "intent_spec"

// NewBatch opens a fresh batch: zero actions and a newly acquired
// builder handle on the unit.
func NewBatch(unit *ledger.Unit, pkg ledger.ObjectID, logger *zap.Logger) *Batch {
	b := &Batch{
		unit:   unit,
		pkg:    pkg,
		logger: logger.Named("batch"),
	}
	b.builder = unit.Append(ledger.Call{
		Target: ledger.Target{Package: pkg, Module: moduleSpec, Function: "new_builder"},
	})
	return b
}

// Add validates the action and appends its ledger call against the
// current builder handle. Returns the same batch for chaining;
// construction errors surface immediately and nothing is appended.
func (b *Batch) Add(a Action) (*Batch, error) {
	if b.state == batchCompiled {
		return b, ErrBuilderClosed
	}
	call, err := StageCall(b.pkg, b.builder, a)
	if err != nil {
		return b, err
	}
	b.unit.Append(call)
	b.actions = append(b.actions, a)
	b.logger.Debug("Action added",
		zap.String("kind", string(a.Kind())),
		zap.Int("position", len(b.actions)-1))
	return b, nil
}

// Compile lowers the builder handle into a specification list value
// and freezes the batch. Calling twice is a programmer error.
func (b *Batch) Compile() (ledger.Result, error) {
	if b.state == batchCompiled {
		return ledger.Result{}, ErrDoubleCompile
	}
	if len(b.actions) == 0 {
		return ledger.Result{}, ErrEmptyBatch
	}
	spec := b.unit.Append(ledger.Call{
		Target: ledger.Target{Package: b.pkg, Module: moduleSpec, Function: "compile"},
		Args:   []ledger.CallArg{b.builder.Arg()},
	})
	b.state = batchCompiled
	b.logger.Debug("Batch compiled", zap.Int("actions", len(b.actions)))
	return spec, nil
}

// Reset discards all actions and handle state and returns the batch
// to a fresh Open state on the same unit. Used when staging several
// outcomes inside one larger transaction.
func (b *Batch) Reset() *Batch {
	b.builder = b.unit.Append(ledger.Call{
		Target: ledger.Target{Package: b.pkg, Module: moduleSpec, Function: "new_builder"},
	})
	b.actions = nil
	b.state = batchOpen
	return b
}

// Len reports the number of added actions.
func (b *Batch) Len() int { return len(b.actions) }

// Actions returns the ordered actions added so far.
func (b *Batch) Actions() []Action {
	out := make([]Action, len(b.actions))
	copy(out, b.actions)
	return out
}

// Compiled reports whether Compile has run.
func (b *Batch) Compiled() bool { return b.state == batchCompiled }
