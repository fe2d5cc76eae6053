// internal/quote/quote_test.go
package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapOutputExactValues(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   uint64
		reserveIn  uint64
		reserveOut uint64
		feeBps     uint16
		want       uint64
	}{
		// 0 fee: out = 1000*100/(1000+100) = 90 (truncated from 90.909...)
		{name: "no fee", amountIn: 100, reserveIn: 1000, reserveOut: 1000, feeBps: 0, want: 90},
		// 30 bps: afterFee = 100*9970/10000 = 99 (truncated),
		// out = 1000*99/(1000+99) = 90
		{name: "30 bps fee", amountIn: 100, reserveIn: 1000, reserveOut: 1000, feeBps: 30, want: 90},
		// Larger trade moves the price more: out = 1000*500/(1000+500) = 333
		{name: "large trade", amountIn: 500, reserveIn: 1000, reserveOut: 1000, feeBps: 0, want: 333},
		// Asymmetric reserves: out = 2000*100/(1000+100) = 181
		{name: "asymmetric", amountIn: 100, reserveIn: 1000, reserveOut: 2000, feeBps: 0, want: 181},
		{name: "zero input", amountIn: 0, reserveIn: 1000, reserveOut: 1000, feeBps: 30, want: 0},
		// Tiny trade rounds to zero output after fee truncation.
		{name: "dust input", amountIn: 1, reserveIn: 1_000_000, reserveOut: 1_000_000, feeBps: 30, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SwapOutput(tc.amountIn, tc.reserveIn, tc.reserveOut, tc.feeBps)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSwapOutputErrors(t *testing.T) {
	_, err := SwapOutput(100, 0, 1000, 0)
	assert.ErrorIs(t, err, ErrEmptyReserves)

	_, err = SwapOutput(100, 1000, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyReserves)

	_, err = SwapOutput(100, 1000, 1000, FeeDenomBps)
	assert.ErrorIs(t, err, ErrFeeTooLarge)
}

func TestSwapOutputMonotonicInInput(t *testing.T) {
	var prev uint64
	for amountIn := uint64(0); amountIn <= 10_000; amountIn += 97 {
		out, err := SwapOutput(amountIn, 1_000_000, 2_000_000, 30)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out, prev, "output must not decrease at amountIn=%d", amountIn)
		prev = out
	}
}

func TestSwapOutputNeverExceedsReserve(t *testing.T) {
	out, err := SwapOutput(^uint64(0), 1000, 500, 0)
	require.NoError(t, err)
	assert.Less(t, out, uint64(500))
}

func TestPriceImpact(t *testing.T) {
	// Tiny trade against deep reserves: negligible impact.
	small, err := PriceImpactBps(1000, 1_000_000_000, 1_000_000_000, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, small, uint64(10))

	// Trading 50% of the input reserve: roughly a third of the value
	// is lost to slippage.
	big, err := PriceImpactBps(500_000_000, 1_000_000_000, 1_000_000_000, 0)
	require.NoError(t, err)
	assert.Greater(t, big, uint64(3000))
	assert.Less(t, big, uint64(3500))

	// Zero output quotes as full impact.
	full, err := PriceImpactBps(1, 1_000_000, 1_000_000, 30)
	require.NoError(t, err)
	assert.Equal(t, uint64(FeeDenomBps), full)

	zero, err := PriceImpactBps(0, 1_000_000, 1_000_000, 30)
	require.NoError(t, err)
	assert.Zero(t, zero)
}

func TestMinOutputForSlippage(t *testing.T) {
	assert.Equal(t, uint64(990), MinOutputForSlippage(1000, 100))
	assert.Equal(t, uint64(1000), MinOutputForSlippage(1000, 0))
	assert.Equal(t, uint64(0), MinOutputForSlippage(1000, FeeDenomBps))
	// Truncating division biases the bound down, never up.
	assert.Equal(t, uint64(98), MinOutputForSlippage(99, 100))
}
