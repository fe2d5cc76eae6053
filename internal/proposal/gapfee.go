// internal/proposal/gapfee.go
package proposal

import (
	"time"

	"github.com/holiman/uint256"
)

// GapFee computes the time-decaying fee charged when advancing a
// proposal to trading, based on the time elapsed since the previous
// proposal's trading period ended. The schedule starts at
// baseFee*startMultiple and halves every halfLife, with linear
// interpolation inside the current half-life, decaying toward zero.
// Integer arithmetic throughout so the client-side figure matches the
// ledger's charge exactly; any overpayment is refunded in the same
// atomic unit by the advance call itself.
func GapFee(baseFee, startMultiple uint64, halfLife, elapsed time.Duration) uint64 {
	if baseFee == 0 || startMultiple == 0 || halfLife <= 0 {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}

	start := new(uint256.Int).SetUint64(baseFee)
	start.Mul(start, uint256.NewInt(startMultiple))

	periods := uint64(elapsed / halfLife)
	if periods >= 256 {
		return 0
	}
	cur := new(uint256.Int).Rsh(start, uint(periods))
	if cur.IsZero() {
		return 0
	}

	// Linear interpolation between cur and cur/2 across the current
	// half-life.
	rem := elapsed % halfLife
	next := new(uint256.Int).Rsh(cur, 1)
	span := new(uint256.Int).Sub(cur, next)
	span.Mul(span, uint256.NewInt(uint64(rem)))
	span.Div(span, uint256.NewInt(uint64(halfLife)))
	fee := new(uint256.Int).Sub(cur, span)

	if !fee.IsUint64() {
		// Caller passed inputs whose product exceeds u64; the ledger
		// caps the charge at the start amount, so saturate.
		return ^uint64(0)
	}
	return fee.Uint64()
}
