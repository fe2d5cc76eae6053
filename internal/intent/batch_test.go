// internal/intent/batch_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/ledger"
)

func newTestBatch(t *testing.T) (*ledger.Unit, *Batch) {
	t.Helper()
	u := ledger.NewUnit(testAddr)
	return u, NewBatch(u, testPkg, zap.NewNop())
}

func TestBatchAppendsCallsInOrder(t *testing.T) {
	u, b := newTestBatch(t)

	_, err := b.Add(Mint{CoinType: testCoin, Amount: 1000, SaveAs: "grant"})
	require.NoError(t, err)
	_, err = b.Add(TransferCoins{
		CoinType:  testCoin,
		Source:    CoinFromResult("grant"),
		Recipient: testAddr,
	})
	require.NoError(t, err)

	spec, err := b.Compile()
	require.NoError(t, err)

	calls := u.Calls()
	require.Equal(t, 4, len(calls)) // new_builder, add_mint, add_transfer_coins, compile
	assert.Equal(t, "new_builder", calls[0].Target.Function)
	assert.Equal(t, "add_mint", calls[1].Target.Function)
	assert.Equal(t, "add_transfer_coins", calls[2].Target.Function)
	assert.Equal(t, "compile", calls[3].Target.Function)
	assert.Equal(t, 3, spec.Index())

	kinds := make([]Kind, 0, b.Len())
	for _, a := range b.Actions() {
		kinds = append(kinds, a.Kind())
	}
	assert.Equal(t, []Kind{KindMint, KindTransferCoins}, kinds)
}

func TestBatchAddAfterCompileFails(t *testing.T) {
	_, b := newTestBatch(t)
	_, err := b.Add(Mint{CoinType: testCoin, Amount: 1})
	require.NoError(t, err)

	_, err = b.Compile()
	require.NoError(t, err)
	assert.True(t, b.Compiled())

	_, err = b.Add(Mint{CoinType: testCoin, Amount: 2})
	assert.ErrorIs(t, err, ErrBuilderClosed)
}

func TestBatchDoubleCompileFails(t *testing.T) {
	_, b := newTestBatch(t)
	_, err := b.Add(Mint{CoinType: testCoin, Amount: 1})
	require.NoError(t, err)

	_, err = b.Compile()
	require.NoError(t, err)
	_, err = b.Compile()
	assert.ErrorIs(t, err, ErrDoubleCompile)
}

func TestBatchCompileEmptyFails(t *testing.T) {
	_, b := newTestBatch(t)
	_, err := b.Compile()
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestBatchInvalidActionAppendsNothing(t *testing.T) {
	u, b := newTestBatch(t)
	before := u.Len()

	_, err := b.Add(Mint{Amount: 1}) // no coin type
	require.Error(t, err)
	assert.Equal(t, before, u.Len())
	assert.Equal(t, 0, b.Len())
}

func TestBatchReset(t *testing.T) {
	u, b := newTestBatch(t)
	_, err := b.Add(Mint{CoinType: testCoin, Amount: 1})
	require.NoError(t, err)
	_, err = b.Compile()
	require.NoError(t, err)

	b.Reset()
	assert.False(t, b.Compiled())
	assert.Equal(t, 0, b.Len())

	// Reset opens a fresh builder on the same unit; a second outcome's
	// actions can follow in the same submission.
	_, err = b.Add(Burn{CoinType: testCoin, Source: CoinFromTreasury(), Amount: 2})
	require.NoError(t, err)
	spec, err := b.Compile()
	require.NoError(t, err)
	assert.Equal(t, u.Len()-1, spec.Index())
	assert.NoError(t, u.Validate())
}
