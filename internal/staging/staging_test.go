// internal/staging/staging_test.go
package staging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/ledger"
	"github.com/agoradao/agora-go/internal/ledger/ledgertest"
)

var (
	testPkg    = ledger.ObjectID{0xaa}
	testSender = ledger.Address{0x01}
	testCoin   = ledger.TypeTag("0xaa::asset::ASSET")
	stableCoin = ledger.TypeTag("0xaa::stable::STABLE")
)

func compiledBatch(t *testing.T, u *ledger.Unit, actions ...intent.Action) (*intent.Batch, ledger.Result) {
	t.Helper()
	b := intent.NewBatch(u, testPkg, zap.NewNop())
	for _, a := range actions {
		_, err := b.Add(a)
		require.NoError(t, err)
	}
	spec, err := b.Compile()
	require.NoError(t, err)
	return b, spec
}

func TestStageToProposalRejectsOutcomeZero(t *testing.T) {
	u := ledger.NewUnit(testSender)
	b, spec := compiledBatch(t, u, intent.Mint{CoinType: testCoin, Amount: 1})

	s := NewStager(testPkg, zap.NewNop())
	err := s.StageToProposal(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, 0, b, spec, 10,
		ledger.SharedRef{ID: ledger.ObjectID{3}}, ledger.SharedRef{ID: ledger.ObjectID{4}}, nil)
	assert.ErrorIs(t, err, ErrReservedOutcome)
}

func TestStageToProposalEnforcesCap(t *testing.T) {
	u := ledger.NewUnit(testSender)
	b, spec := compiledBatch(t, u,
		intent.Mint{CoinType: testCoin, Amount: 1},
		intent.Mint{CoinType: testCoin, Amount: 2},
		intent.Mint{CoinType: testCoin, Amount: 3},
	)

	s := NewStager(testPkg, zap.NewNop())
	err := s.StageToProposal(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, 1, b, spec, 2,
		ledger.SharedRef{ID: ledger.ObjectID{3}}, ledger.SharedRef{ID: ledger.ObjectID{4}}, nil)
	assert.ErrorIs(t, err, ErrSpecTooLarge)
}

func TestStageToProposalEnforcesWhitelist(t *testing.T) {
	u := ledger.NewUnit(testSender)
	b, spec := compiledBatch(t, u,
		intent.Mint{CoinType: testCoin, Amount: 1},
		intent.SpendTreasury{CoinType: testCoin, Amount: 5, Recipient: testSender},
	)

	wl := Whitelist{"currency_actions::mint": {}}
	s := NewStager(testPkg, zap.NewNop())
	err := s.StageToProposal(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, 1, b, spec, 10,
		ledger.SharedRef{ID: ledger.ObjectID{3}}, ledger.SharedRef{ID: ledger.ObjectID{4}}, wl)
	require.ErrorIs(t, err, ErrNotWhitelisted)
	assert.Contains(t, err.Error(), "treasury_actions::spend_treasury")
}

func TestStageToProposalNilWhitelistAllowsAll(t *testing.T) {
	u := ledger.NewUnit(testSender)
	b, spec := compiledBatch(t, u, intent.SpendTreasury{CoinType: testCoin, Amount: 5, Recipient: testSender})

	s := NewStager(testPkg, zap.NewNop())
	err := s.StageToProposal(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, 1, b, spec, 10,
		ledger.SharedRef{ID: ledger.ObjectID{3}}, ledger.SharedRef{ID: ledger.ObjectID{4}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stage_intent_spec", u.Calls()[u.Len()-1].Target.Function)
}

func TestStageToRaiseEnforcesCap(t *testing.T) {
	u := ledger.NewUnit(testSender)
	b, spec := compiledBatch(t, u,
		intent.Mint{CoinType: testCoin, Amount: 1},
		intent.Mint{CoinType: testCoin, Amount: 2},
	)

	s := NewStager(testPkg, zap.NewNop())
	err := s.StageToRaise(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, ledger.ObjectRef{ID: ledger.ObjectID{5}},
		testCoin, stableCoin, RaiseSuccess, b, spec, 1)
	assert.ErrorIs(t, err, ErrSpecTooLarge)
}

func TestReStagingSameOutcomeRejected(t *testing.T) {
	fake := ledgertest.New()
	stage := func() error {
		u := ledger.NewUnit(testSender)
		b, spec := compiledBatch(t, u, intent.Mint{CoinType: testCoin, Amount: 1})
		s := NewStager(testPkg, zap.NewNop())
		err := s.StageToProposal(u, ledger.SharedRef{ID: ledger.ObjectID{2}}, 1, b, spec, 10,
			ledger.SharedRef{ID: ledger.ObjectID{3}}, ledger.SharedRef{ID: ledger.ObjectID{4}}, nil)
		require.NoError(t, err)

		res, err := fake.SubmitUnit(context.Background(), u)
		require.NoError(t, err)
		if res.Status == ledger.UnitAborted {
			return res.Err
		}
		return nil
	}

	require.NoError(t, stage())

	err := stage()
	require.Error(t, err)
	assert.True(t, IsAlreadyStaged(err))
}

func TestLoadWhitelist(t *testing.T) {
	fake := ledgertest.New()
	dao := ledger.ObjectID{7}
	fake.Objects[dao] = &ledger.ObjectData{
		ID: dao,
		Fields: map[string]any{
			"action_whitelist": []string{"currency_actions::mint"},
		},
	}

	wl, err := LoadWhitelist(context.Background(), fake, dao)
	require.NoError(t, err)
	assert.True(t, wl.Allows("currency_actions::mint"))
	assert.False(t, wl.Allows("treasury_actions::spend_treasury"))
}

func TestLoadWhitelistAbsentMeansAllowAll(t *testing.T) {
	fake := ledgertest.New()
	dao := ledger.ObjectID{7}
	fake.Objects[dao] = &ledger.ObjectData{ID: dao, Fields: map[string]any{}}

	wl, err := LoadWhitelist(context.Background(), fake, dao)
	require.NoError(t, err)
	assert.Nil(t, wl)
}

func TestLoadWhitelistRejectsBadShape(t *testing.T) {
	fake := ledgertest.New()
	dao := ledger.ObjectID{7}
	fake.Objects[dao] = &ledger.ObjectData{ID: dao, Fields: map[string]any{"action_whitelist": 42}}

	_, err := LoadWhitelist(context.Background(), fake, dao)
	assert.Error(t, err)
}
