// internal/execution/timeout.go
package execution

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/ledger"
)

// ForceRejectOnTimeout appends the permissionless call that forces
// the reject outcome after the execution window lapsed without a
// finalize. It exists so an unexecutable winning outcome can never
// leave the target stuck. The call is rejected before the deadline;
// this helper pre-checks the deadline so an early caller fails
// client-side without submitting. Calling it again after it already
// fired is a no-op-equivalent ledger rejection, not an error class
// the caller needs to handle specially.
func ForceRejectOnTimeout(
	ctx context.Context,
	unit *ledger.Unit,
	reader ledger.ObjectReader,
	pkg ledger.ObjectID,
	target ledger.SharedRef,
	now time.Time,
	logger *zap.Logger,
) error {
	st, err := ReadTargetState(ctx, reader, target.ID)
	if err != nil {
		return err
	}
	if st.Executed {
		return fmt.Errorf("%w: target already executed", ErrWrongState)
	}
	if st.ExecuteBy.IsZero() || !now.After(st.ExecuteBy) {
		return fmt.Errorf("execution: window not expired until %s: %w",
			st.ExecuteBy.UTC().Format(time.RFC3339), ErrWindowNotExpired)
	}

	unit.Append(ledger.Call{
		Target: ledger.Target{Package: pkg, Module: moduleExecution, Function: "force_reject_on_timeout"},
		Args:   []ledger.CallArg{ledger.SharedArg{Ref: target}},
	})
	logger.Info("Forcing reject outcome after expired execution window",
		zap.String("target", target.ID.String()),
		zap.Time("deadline", st.ExecuteBy))
	return nil
}
