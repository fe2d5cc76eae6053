// internal/proposal/create_test.go
package proposal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/ledger"
	"github.com/agoradao/agora-go/internal/ledger/ledgertest"
	"github.com/agoradao/agora-go/internal/staging"
)

var (
	testPkg    = ledger.ObjectID{0xaa}
	testSender = ledger.Address{0x01}
	assetType  = ledger.TypeTag("0xaa::asset::ASSET")
	stableType = ledger.TypeTag("0xaa::stable::STABLE")
)

func testParams(outcomes uint64) CreateParams {
	return CreateParams{
		Dao:          ledger.SharedRef{ID: ledger.ObjectID{2}},
		Registry:     ledger.SharedRef{ID: ledger.ObjectID{3}},
		Title:        "Fund grants program",
		OutcomeCount: outcomes,
		AssetType:    assetType,
		StableType:   stableType,
		FeeInAsset:   true,
		AssetFeeCoin: ledger.ObjectRef{ID: ledger.ObjectID{4}},
	}
}

func takePair(t *testing.T, u *ledger.Unit, pool *InstrumentPool, id byte) TakenPair {
	t.Helper()
	return pool.Take(u, InstrumentPair{ID: ledger.ObjectID{id}}, ledger.ObjectRef{ID: ledger.ObjectID{5}}, assetType, stableType)
}

func newPool() *InstrumentPool {
	return NewInstrumentPool(testPkg, ledger.SharedRef{ID: ledger.ObjectID{6}}, nil, nil, zap.NewNop())
}

func TestBeginValidatesParams(t *testing.T) {
	u := ledger.NewUnit(testSender)

	p := testParams(2)
	p.Title = ""
	_, err := Begin(u, testPkg, p, zap.NewNop())
	assert.Error(t, err)

	p = testParams(1)
	_, err = Begin(u, testPkg, p, zap.NewNop())
	assert.Error(t, err)

	p = testParams(2)
	p.StableType = ""
	_, err = Begin(u, testPkg, p, zap.NewNop())
	assert.Error(t, err)
}

func TestFinalizeRequiresEveryOutcomePair(t *testing.T) {
	u := ledger.NewUnit(testSender)
	pool := newPool()

	f, err := Begin(u, testPkg, testParams(3), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 10)))
	require.NoError(t, f.RegisterOutcomePair(2, takePair(t, u, pool, 11)))

	// Outcome 1 has no pair: the proposal must not finalize.
	_, err = f.Finalize(ledger.SharedRef{ID: ledger.ObjectID{7}}, testSender)
	require.ErrorIs(t, err, ErrOutcomeIncomplete)

	require.NoError(t, f.RegisterOutcomePair(1, takePair(t, u, pool, 12)))
	_, err = f.Finalize(ledger.SharedRef{ID: ledger.ObjectID{7}}, testSender)
	require.NoError(t, err)
	assert.NoError(t, u.Validate())
}

func TestRegisterOutcomePairGuards(t *testing.T) {
	u := ledger.NewUnit(testSender)
	pool := newPool()

	f, err := Begin(u, testPkg, testParams(2), zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, f.RegisterOutcomePair(2, takePair(t, u, pool, 10)), ErrOutcomeOutOfRange)

	require.NoError(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 11)))
	assert.ErrorIs(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 12)), ErrPairAlreadyRegistered)
}

func TestStageOutcomeGuards(t *testing.T) {
	u := ledger.NewUnit(testSender)

	f, err := Begin(u, testPkg, testParams(3), zap.NewNop())
	require.NoError(t, err)

	b := intent.NewBatch(u, testPkg, zap.NewNop())
	_, err = b.Add(intent.Mint{CoinType: assetType, Amount: 100})
	require.NoError(t, err)

	assert.ErrorIs(t, f.StageOutcome(0, b, 10, nil), staging.ErrReservedOutcome)
	assert.ErrorIs(t, f.StageOutcome(3, b, 10, nil), ErrOutcomeOutOfRange)
	assert.ErrorIs(t, f.StageOutcome(1, b, 0, nil), staging.ErrSpecTooLarge)

	wl := staging.Whitelist{"treasury_actions::spend_treasury": {}}
	assert.ErrorIs(t, f.StageOutcome(1, b, 10, wl), staging.ErrNotWhitelisted)

	require.NoError(t, f.StageOutcome(1, b, 10, nil))
	assert.True(t, b.Compiled())
}

func TestQuotaRequiresFinalizeReceipt(t *testing.T) {
	u := ledger.NewUnit(testSender)
	pool := newPool()

	f, err := Begin(u, testPkg, testParams(2), zap.NewNop())
	require.NoError(t, err)

	// Before finalize there is no receipt to consume quota with.
	assert.ErrorIs(t, f.ConsumeQuota(ledger.SharedRef{ID: ledger.ObjectID{8}}, Receipt{}), ErrNotFinalized)

	require.NoError(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 10)))
	require.NoError(t, f.RegisterOutcomePair(1, takePair(t, u, pool, 11)))
	receipt, err := f.Finalize(ledger.SharedRef{ID: ledger.ObjectID{7}}, testSender)
	require.NoError(t, err)

	require.NoError(t, f.ConsumeQuota(ledger.SharedRef{ID: ledger.ObjectID{8}}, receipt))

	// The quota call references the finalize result, so a failed
	// finalize can never leave a consumed quota behind.
	calls := u.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "consume_quota", last.Target.Function)
	assert.NoError(t, u.Validate())
}

func TestFinalizeIsTerminal(t *testing.T) {
	u := ledger.NewUnit(testSender)
	pool := newPool()

	f, err := Begin(u, testPkg, testParams(2), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 10)))
	require.NoError(t, f.RegisterOutcomePair(1, takePair(t, u, pool, 11)))

	_, err = f.Finalize(ledger.SharedRef{ID: ledger.ObjectID{7}}, testSender)
	require.NoError(t, err)

	_, err = f.Finalize(ledger.SharedRef{ID: ledger.ObjectID{7}}, testSender)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.ErrorIs(t, f.RegisterOutcomePair(0, takePair(t, u, pool, 12)), ErrAlreadyFinalized)

	b := intent.NewBatch(u, testPkg, zap.NewNop())
	_, err = b.Add(intent.Mint{CoinType: assetType, Amount: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, f.StageOutcome(1, b, 10, nil), ErrAlreadyFinalized)
}

func TestListAvailableSkipsTakenPairs(t *testing.T) {
	fake := ledgertest.New()
	live := ledger.ObjectID{30}
	gone := ledger.ObjectID{31}

	eventType := ledger.TypeTag(testPkg.String() + "::instrument_pool::PairDeposited")
	fake.Events = []ledger.Event{
		{Type: eventType, Fields: map[string]any{"pair_id": live}},
		{Type: eventType, Fields: map[string]any{"pair_id": gone}},
	}
	fake.Objects[live] = &ledger.ObjectData{
		ID: live, Version: 5,
		Fields: map[string]any{"take_fee": uint64(25)},
	}

	pool := NewInstrumentPool(testPkg, ledger.SharedRef{ID: ledger.ObjectID{6}}, fake, fake, zap.NewNop())
	pairs, err := pool.ListAvailable(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, live, pairs[0].ID)
	assert.Equal(t, uint64(25), pairs[0].TakeFee)
}

func TestIsUnavailable(t *testing.T) {
	err := error(&ledger.ExecError{Module: "instrument_pool", Code: ledger.CodeInstrumentUnavailable})
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsUnavailable(error(&ledger.ExecError{Code: ledger.CodeWrongState})))
}
