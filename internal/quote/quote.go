// internal/quote/quote.go

// Package quote computes swap outputs and price impact under the
// constant-product rule, in the same truncating integer arithmetic
// the ledger uses. A floating-point approximation here would make
// quoted slippage bounds wrong; impact figures are advisory only and
// never gate execution — gating is always an explicit minimum-output
// bound enforced by the apply step.
package quote

import (
	"errors"

	"github.com/holiman/uint256"
)

// FeeDenomBps is the basis-point denominator of pool fees.
const FeeDenomBps = 10_000

var (
	// ErrEmptyReserves rejects a quote against a drained pool side.
	ErrEmptyReserves = errors.New("quote: pool reserves are empty")
	// ErrFeeTooLarge rejects a fee of 100% or more.
	ErrFeeTooLarge = errors.New("quote: fee must be below 10000 bps")
)

// SwapOutput returns the output amount for swapping amountIn against
// the given reserves with a proportional fee in basis points. The fee
// applies to the input first, then
//
//	out = reserveOut * amountInAfterFee / (reserveIn + amountInAfterFee)
//
// with truncating division throughout. SwapOutput(0, ...) is 0, and
// output is monotonically non-decreasing in amountIn.
func SwapOutput(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrEmptyReserves
	}
	if feeBps >= FeeDenomBps {
		return 0, ErrFeeTooLarge
	}
	if amountIn == 0 {
		return 0, nil
	}

	// afterFee = amountIn * (10000 - feeBps) / 10000, truncating.
	afterFee := new(uint256.Int).SetUint64(amountIn)
	afterFee.Mul(afterFee, uint256.NewInt(uint64(FeeDenomBps-feeBps)))
	afterFee.Div(afterFee, uint256.NewInt(FeeDenomBps))

	num := new(uint256.Int).SetUint64(reserveOut)
	num.Mul(num, afterFee)
	den := new(uint256.Int).SetUint64(reserveIn)
	den.Add(den, afterFee)
	out := num.Div(num, den)

	// Output of a constant-product swap never exceeds reserveOut,
	// which fits u64.
	return out.Uint64(), nil
}

// PriceImpactBps returns the relative gap between the spot price
// (reserveOut/reserveIn) and the effective execution price of the
// simulated trade, in basis points of the spot price.
func PriceImpactBps(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint64, error) {
	out, err := SwapOutput(amountIn, reserveIn, reserveOut, feeBps)
	if err != nil {
		return 0, err
	}
	if amountIn == 0 {
		return 0, nil
	}
	if out == 0 {
		return FeeDenomBps, nil
	}

	// impact = 1 - (out/amountIn) / (reserveOut/reserveIn)
	//        = 1 - out*reserveIn / (amountIn*reserveOut), in bps.
	num := new(uint256.Int).SetUint64(out)
	num.Mul(num, uint256.NewInt(reserveIn))
	num.Mul(num, uint256.NewInt(FeeDenomBps))
	den := new(uint256.Int).SetUint64(amountIn)
	den.Mul(den, uint256.NewInt(reserveOut))
	ratio := num.Div(num, den).Uint64()

	if ratio >= FeeDenomBps {
		return 0, nil
	}
	return FeeDenomBps - ratio, nil
}

// MinOutputForSlippage derives the minimum-output bound for a quoted
// output and a tolerance in basis points. The bound, not the quote,
// is what the apply step enforces.
func MinOutputForSlippage(quoted uint64, toleranceBps uint16) uint64 {
	if toleranceBps >= FeeDenomBps {
		return 0
	}
	keep := new(uint256.Int).SetUint64(quoted)
	keep.Mul(keep, uint256.NewInt(uint64(FeeDenomBps-toleranceBps)))
	keep.Div(keep, uint256.NewInt(FeeDenomBps))
	return keep.Uint64()
}
