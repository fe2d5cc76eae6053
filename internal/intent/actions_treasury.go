// internal/intent/actions_treasury.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const (
	moduleTreasury = "treasury_actions"
	moduleTransfer = "transfer_actions"
)

// DepositTreasury moves coins from Source into the treasury. Amount
// nil deposits the whole source output.
type DepositTreasury struct {
	CoinType ledger.TypeTag
	Source   CoinSource
	Amount   *uint64
}

func (DepositTreasury) Kind() Kind { return KindDepositTreasury }

func (a DepositTreasury) validate() error {
	if a.CoinType == "" {
		return missing(KindDepositTreasury, "CoinType")
	}
	if !a.Source.valid() {
		return missing(KindDepositTreasury, "Source")
	}
	if a.Source.kind == sourceTreasury {
		return invalid(KindDepositTreasury, "Source", "cannot deposit the treasury into itself")
	}
	return nil
}

func (a DepositTreasury) call() (callSpec, error) {
	return callSpec{
		module:   moduleTreasury,
		name:     "deposit_treasury",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			a.Source.arg(),
			ledger.PureOptionU64(a.Amount),
		},
		consumes: consumedKeys(a.Source),
	}, nil
}

// WithdrawTreasury draws Amount from the treasury and records it
// under SaveAs for later operations. SaveAs is required: a withdrawal
// nobody consumes would strand funds in the execution run.
type WithdrawTreasury struct {
	CoinType ledger.TypeTag
	Amount   uint64
	SaveAs   string
}

func (WithdrawTreasury) Kind() Kind { return KindWithdrawTreasury }

func (a WithdrawTreasury) validate() error {
	switch {
	case a.CoinType == "":
		return missing(KindWithdrawTreasury, "CoinType")
	case a.Amount == 0:
		return invalid(KindWithdrawTreasury, "Amount", "must be positive")
	case a.SaveAs == "":
		return missing(KindWithdrawTreasury, "SaveAs")
	}
	return nil
}

func (a WithdrawTreasury) call() (callSpec, error) {
	return callSpec{
		module:   moduleTreasury,
		name:     "withdraw_treasury",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureU64(a.Amount),
			ledger.PureString(a.SaveAs),
		},
		produces: producedKeys(a.SaveAs),
	}, nil
}

// SpendTreasury withdraws and transfers in one operation.
type SpendTreasury struct {
	CoinType  ledger.TypeTag
	Amount    uint64
	Recipient ledger.Address
}

func (SpendTreasury) Kind() Kind { return KindSpendTreasury }

func (a SpendTreasury) validate() error {
	switch {
	case a.CoinType == "":
		return missing(KindSpendTreasury, "CoinType")
	case a.Amount == 0:
		return invalid(KindSpendTreasury, "Amount", "must be positive")
	case a.Recipient == zeroAddress:
		return missing(KindSpendTreasury, "Recipient")
	}
	return nil
}

func (a SpendTreasury) call() (callSpec, error) {
	return callSpec{
		module:   moduleTreasury,
		name:     "spend_treasury",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureU64(a.Amount),
			ledger.PureAddress(a.Recipient),
		},
	}, nil
}

// ApproveSpendPolicy grants Spender a recurring allowance.
type ApproveSpendPolicy struct {
	CoinType    ledger.TypeTag
	Spender     ledger.Address
	MaxPerEpoch uint64
}

func (ApproveSpendPolicy) Kind() Kind { return KindApproveSpendPolicy }

func (a ApproveSpendPolicy) validate() error {
	switch {
	case a.CoinType == "":
		return missing(KindApproveSpendPolicy, "CoinType")
	case a.Spender == zeroAddress:
		return missing(KindApproveSpendPolicy, "Spender")
	case a.MaxPerEpoch == 0:
		return invalid(KindApproveSpendPolicy, "MaxPerEpoch", "must be positive")
	}
	return nil
}

func (a ApproveSpendPolicy) call() (callSpec, error) {
	return callSpec{
		module:   moduleTreasury,
		name:     "approve_spend_policy",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureAddress(a.Spender),
			ledger.PureU64(a.MaxPerEpoch),
		},
	}, nil
}

// TransferCoins sends coins drawn from Source to Recipient. Amount
// nil transfers the whole source output.
type TransferCoins struct {
	CoinType  ledger.TypeTag
	Source    CoinSource
	Amount    *uint64
	Recipient ledger.Address
}

func (TransferCoins) Kind() Kind { return KindTransferCoins }

func (a TransferCoins) validate() error {
	switch {
	case a.CoinType == "":
		return missing(KindTransferCoins, "CoinType")
	case !a.Source.valid():
		return missing(KindTransferCoins, "Source")
	case a.Recipient == zeroAddress:
		return missing(KindTransferCoins, "Recipient")
	}
	return nil
}

func (a TransferCoins) call() (callSpec, error) {
	return callSpec{
		module:   moduleTransfer,
		name:     "transfer_coins",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			a.Source.arg(),
			ledger.PureOptionU64(a.Amount),
			ledger.PureAddress(a.Recipient),
		},
		consumes: consumedKeys(a.Source),
	}, nil
}

// TransferObject sends a DAO-owned object to Recipient.
type TransferObject struct {
	ObjectID   ledger.ObjectID
	ObjectType ledger.TypeTag
	Recipient  ledger.Address
}

func (TransferObject) Kind() Kind { return KindTransferObject }

func (a TransferObject) validate() error {
	switch {
	case a.ObjectID == zeroObjectID:
		return missing(KindTransferObject, "ObjectID")
	case a.ObjectType == "":
		return missing(KindTransferObject, "ObjectType")
	case a.Recipient == zeroAddress:
		return missing(KindTransferObject, "Recipient")
	}
	return nil
}

func (a TransferObject) call() (callSpec, error) {
	return callSpec{
		module:   moduleTransfer,
		name:     "transfer_object",
		typeArgs: []ledger.TypeTag{a.ObjectType},
		args: []ledger.CallArg{
			ledger.PureObjectID(a.ObjectID),
			ledger.PureAddress(a.Recipient),
		},
	}, nil
}
