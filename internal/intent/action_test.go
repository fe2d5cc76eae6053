// internal/intent/action_test.go
package intent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoradao/agora-go/internal/ledger"
)

var (
	testPkg  = ledger.ObjectID{0xaa}
	testAddr = ledger.Address{0x01}
	testCoin = ledger.TypeTag("0xaa::asset::ASSET")
)

func TestCatalogCoversEveryKind(t *testing.T) {
	cat := Catalog()
	assert.Len(t, cat, 48)

	seen := make(map[Kind]bool, len(cat))
	for _, d := range cat {
		assert.False(t, seen[d.Kind], "duplicate kind %s", d.Kind)
		seen[d.Kind] = true
		assert.NotEmpty(t, d.Module)
		assert.NotEmpty(t, d.Name)
	}
}

func TestDescribeResourceBound(t *testing.T) {
	assert.True(t, Describe(KindTransferCoins).ResourceBound)
	assert.True(t, Describe(KindBurn).ResourceBound)
	assert.False(t, Describe(KindMint).ResourceBound)
	assert.False(t, Describe(KindEmitMemo).ResourceBound)
}

func TestDescribePanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() { Describe(Kind("no_such_kind")) })
}

func TestTargetKey(t *testing.T) {
	key, err := TargetKey(Mint{CoinType: testCoin, Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, "currency_actions::mint", key)

	key, err = TargetKey(TransferCoins{
		CoinType:  testCoin,
		Source:    CoinFromTreasury(),
		Recipient: testAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, "transfer_actions::transfer_coins", key)
}

func TestStageAndExecCallSharePrefixedTarget(t *testing.T) {
	u := ledger.NewUnit(testAddr)
	builder := u.Append(ledger.Call{})
	a := Mint{CoinType: testCoin, Amount: 500, SaveAs: "grant"}

	staged, err := StageCall(testPkg, builder, a)
	require.NoError(t, err)
	assert.Equal(t, "currency_actions", staged.Target.Module)
	assert.Equal(t, "add_mint", staged.Target.Function)

	exec, err := ExecCall(testPkg, builder, a)
	require.NoError(t, err)
	assert.Equal(t, "do_mint", exec.Target.Function)

	// Same encoding past the leading handle argument.
	require.Equal(t, len(staged.Args), len(exec.Args))
	assert.Equal(t, staged.Args[1:], exec.Args[1:])
	assert.Equal(t, staged.TypeArgs, exec.TypeArgs)
}

func TestStageCallRejectsInvalidAction(t *testing.T) {
	u := ledger.NewUnit(testAddr)
	builder := u.Append(ledger.Call{})

	_, err := StageCall(testPkg, builder, Mint{Amount: 1})
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "CoinType", mf.Field)

	_, err = StageCall(testPkg, builder, Mint{CoinType: testCoin})
	var inv *InvalidFieldError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Amount", inv.Field)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		field  string
	}{
		{"transfer without recipient", TransferCoins{CoinType: testCoin, Source: CoinFromTreasury()}, "Recipient"},
		{"transfer without source", TransferCoins{CoinType: testCoin, Recipient: testAddr}, "Source"},
		{"burn without source", Burn{CoinType: testCoin, Amount: 5}, "Source"},
		{"withdraw without save key", WithdrawTreasury{CoinType: testCoin, Amount: 5}, "SaveAs"},
		{"stream without recipient", CreateStream{CoinType: testCoin, TotalAmount: 1, AmountPerPeriod: 1, PeriodMs: 1, Source: CoinFromTreasury()}, "Recipient"},
		{"deposit treasury into itself", DepositTreasury{CoinType: testCoin, Source: CoinFromTreasury()}, "Source"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.action.validate()
			require.Error(t, err)

			var mf *MissingFieldError
			var inv *InvalidFieldError
			switch {
			case errors.As(err, &mf):
				assert.Equal(t, tc.field, mf.Field)
			case errors.As(err, &inv):
				assert.Equal(t, tc.field, inv.Field)
			default:
				t.Fatalf("unexpected error type: %v", err)
			}
		})
	}
}

func TestResourceKeys(t *testing.T) {
	produces, consumes, err := ResourceKeys(Mint{CoinType: testCoin, Amount: 1, SaveAs: "grant"})
	require.NoError(t, err)
	assert.Equal(t, []string{"grant"}, produces)
	assert.Empty(t, consumes)

	produces, consumes, err = ResourceKeys(TransferCoins{
		CoinType:  testCoin,
		Source:    CoinFromResult("grant"),
		Recipient: testAddr,
	})
	require.NoError(t, err)
	assert.Empty(t, produces)
	assert.Equal(t, []string{"grant"}, consumes)

	// Treasury draws bind no result keys.
	_, consumes, err = ResourceKeys(Burn{CoinType: testCoin, Source: CoinFromTreasury(), Amount: 1})
	require.NoError(t, err)
	assert.Empty(t, consumes)
}

func TestCoinSourceEncoding(t *testing.T) {
	treasury := CoinFromTreasury().arg().(ledger.PureArg)
	assert.Equal(t, []byte{0}, treasury.Bytes)

	result := CoinFromResult("k").arg().(ledger.PureArg)
	assert.Equal(t, []byte{1, 1, 'k'}, result.Bytes)

	assert.False(t, CoinSource{}.valid())
	assert.False(t, CoinFromResult("").valid())
}

func TestMintToTreasuryProducesNoKey(t *testing.T) {
	produces, _, err := ResourceKeys(Mint{CoinType: testCoin, Amount: 1})
	require.NoError(t, err)
	assert.Empty(t, produces)
}

func TestEveryPrototypeLowersOrHasFallback(t *testing.T) {
	// Descriptors must resolve for all kinds, including the ones whose
	// zero value cannot lower directly.
	for _, d := range Catalog() {
		assert.NotPanics(t, func() { Describe(d.Kind) })
	}
	d := Describe(KindUpdateTwapParams)
	assert.Equal(t, "config_actions::update_twap_params", d.TargetKey())
}
