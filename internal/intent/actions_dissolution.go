// internal/intent/actions_dissolution.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const (
	moduleDissolution = "dissolution_actions"
	moduleMemo        = "memo_actions"
)

// InitiateDissolution starts winding the DAO down. Further proposals
// are blocked once it executes.
type InitiateDissolution struct{}

func (InitiateDissolution) Kind() Kind { return KindInitiateDissolution }

func (InitiateDissolution) validate() error { return nil }

func (InitiateDissolution) call() (callSpec, error) {
	return callSpec{module: moduleDissolution, name: "initiate_dissolution"}, nil
}

// DistributeDissolutionAssets pays out one coin type pro rata to
// holders, BatchSize holders per application.
type DistributeDissolutionAssets struct {
	CoinType  ledger.TypeTag
	BatchSize uint64
}

func (DistributeDissolutionAssets) Kind() Kind { return KindDistributeDissolutionAssets }

func (a DistributeDissolutionAssets) validate() error {
	if a.CoinType == "" {
		return missing(KindDistributeDissolutionAssets, "CoinType")
	}
	if a.BatchSize == 0 {
		return invalid(KindDistributeDissolutionAssets, "BatchSize", "must be positive")
	}
	return nil
}

func (a DistributeDissolutionAssets) call() (callSpec, error) {
	return callSpec{
		module:   moduleDissolution,
		name:     "distribute_dissolution_assets",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureU64(a.BatchSize)},
	}, nil
}

// FinalizeDissolution destroys the DAO after all assets are
// distributed.
type FinalizeDissolution struct{}

func (FinalizeDissolution) Kind() Kind { return KindFinalizeDissolution }

func (FinalizeDissolution) validate() error { return nil }

func (FinalizeDissolution) call() (callSpec, error) {
	return callSpec{module: moduleDissolution, name: "finalize_dissolution"}, nil
}

// CancelDissolution aborts an initiated but unfinalized dissolution.
type CancelDissolution struct{}

func (CancelDissolution) Kind() Kind { return KindCancelDissolution }

func (CancelDissolution) validate() error { return nil }

func (CancelDissolution) call() (callSpec, error) {
	return callSpec{module: moduleDissolution, name: "cancel_dissolution"}, nil
}

// EmitMemo emits an on-ledger event with no state effect. Used to
// put governance decisions on record.
type EmitMemo struct {
	Message string
}

func (EmitMemo) Kind() Kind { return KindEmitMemo }

func (a EmitMemo) validate() error {
	if a.Message == "" {
		return missing(KindEmitMemo, "Message")
	}
	return nil
}

func (a EmitMemo) call() (callSpec, error) {
	return callSpec{
		module: moduleMemo,
		name:   "emit_memo",
		args:   []ledger.CallArg{ledger.PureString(a.Message)},
	}, nil
}
