// internal/intent/action.go
package intent

import (
	"fmt"

	"github.com/agoradao/agora-go/internal/ledger"
)

// Kind discriminates the closed set of action variants. New kinds are
// added here and nowhere else; the compiler enforces that every kind
// has exactly one descriptor type because Action's unexported methods
// keep the set closed to this package.
type Kind string

const (
	// Streams
	KindCreateStream          Kind = "create_stream"
	KindCancelStream          Kind = "cancel_stream"
	KindWithdrawStream        Kind = "withdraw_stream"
	KindUpdateStreamRecipient Kind = "update_stream_recipient"
	KindPauseStream           Kind = "pause_stream"
	KindResumeStream          Kind = "resume_stream"

	// Currency
	KindMint                  Kind = "mint"
	KindBurn                  Kind = "burn"
	KindDisableMinting        Kind = "disable_minting"
	KindUpdateCoinName        Kind = "update_coin_name"
	KindUpdateCoinSymbol      Kind = "update_coin_symbol"
	KindUpdateCoinDescription Kind = "update_coin_description"
	KindUpdateCoinIconURL     Kind = "update_coin_icon_url"

	// Treasury
	KindDepositTreasury    Kind = "deposit_treasury"
	KindWithdrawTreasury   Kind = "withdraw_treasury"
	KindSpendTreasury      Kind = "spend_treasury"
	KindApproveSpendPolicy Kind = "approve_spend_policy"

	// Transfers
	KindTransferCoins  Kind = "transfer_coins"
	KindTransferObject Kind = "transfer_object"

	// Pools
	KindCreatePool      Kind = "create_pool"
	KindAddLiquidity    Kind = "add_liquidity"
	KindRemoveLiquidity Kind = "remove_liquidity"
	KindUpdatePoolFee   Kind = "update_pool_fee"
	KindCollectPoolFees Kind = "collect_pool_fees"

	// DAO config
	KindUpdateTradingParams       Kind = "update_trading_params"
	KindUpdateTwapParams          Kind = "update_twap_params"
	KindUpdateGovernanceParams    Kind = "update_governance_params"
	KindUpdateMetadataEntry       Kind = "update_metadata_entry"
	KindUpdateDaoName             Kind = "update_dao_name"
	KindSetProposalsEnabled       Kind = "set_proposals_enabled"
	KindUpdateQuotaParams         Kind = "update_quota_params"
	KindUpdateSlashDistribution   Kind = "update_slash_distribution"
	KindUpdateConditionalMetadata Kind = "update_conditional_metadata"

	// Oracle
	KindGrantOracleAccess  Kind = "grant_oracle_access"
	KindRevokeOracleAccess Kind = "revoke_oracle_access"

	// Package registry
	KindRegisterPackage  Kind = "register_package"
	KindUpgradePackage   Kind = "upgrade_package"
	KindRestrictPackage  Kind = "restrict_package"
	KindAcceptUpgradeCap Kind = "accept_upgrade_cap"
	KindCommitUpgrade    Kind = "commit_upgrade"

	// Security council
	KindAddCouncilMember       Kind = "add_council_member"
	KindRemoveCouncilMember    Kind = "remove_council_member"
	KindUpdateCouncilThreshold Kind = "update_council_threshold"

	// Dissolution
	KindInitiateDissolution          Kind = "initiate_dissolution"
	KindDistributeDissolutionAssets  Kind = "distribute_dissolution_assets"
	KindFinalizeDissolution          Kind = "finalize_dissolution"
	KindCancelDissolution            Kind = "cancel_dissolution"

	// Memo
	KindEmitMemo Kind = "emit_memo"
)

// Action is one immutable operation descriptor. The unexported
// methods close the variant set to this package: an unknown kind is
// unrepresentable, not a runtime default branch.
type Action interface {
	// Kind returns the action's discriminant.
	Kind() Kind

	// validate checks the variant's required fields. Construction
	// errors are client-local and never submitted.
	validate() error

	// call lowers the action to its ledger-call parameters.
	call() (callSpec, error)
}

// callSpec is the lowered form of an action: the module/function stem
// it targets, its type parameters and encoded value arguments, plus
// the symbolic resource keys it produces or consumes at execution
// time.
type callSpec struct {
	module   string
	name     string
	typeArgs []ledger.TypeTag
	args     []ledger.CallArg
	produces []string
	consumes []string
}

// StageCall builds the ledger call that appends the action onto an
// open spec builder. Staged form and executed form share one
// encoding; only the function prefix differs.
func StageCall(pkg ledger.ObjectID, builder ledger.Result, a Action) (ledger.Call, error) {
	if err := a.validate(); err != nil {
		return ledger.Call{}, err
	}
	spec, err := a.call()
	if err != nil {
		return ledger.Call{}, err
	}
	return ledger.Call{
		Target:   ledger.Target{Package: pkg, Module: spec.module, Function: "add_" + spec.name},
		TypeArgs: spec.typeArgs,
		Args:     append([]ledger.CallArg{builder.Arg()}, spec.args...),
	}, nil
}

// ExecCall builds the do_* dispatch call that applies the action
// against a live execution handle.
func ExecCall(pkg ledger.ObjectID, handle ledger.Result, a Action) (ledger.Call, error) {
	if err := a.validate(); err != nil {
		return ledger.Call{}, err
	}
	spec, err := a.call()
	if err != nil {
		return ledger.Call{}, err
	}
	return ledger.Call{
		Target:   ledger.Target{Package: pkg, Module: spec.module, Function: "do_" + spec.name},
		TypeArgs: spec.typeArgs,
		Args:     append([]ledger.CallArg{handle.Arg()}, spec.args...),
	}, nil
}

// TargetKey returns the "module::function" identity used by DAO
// whitelists.
func TargetKey(a Action) (string, error) {
	spec, err := a.call()
	if err != nil {
		return "", err
	}
	return spec.module + "::" + spec.name, nil
}

// ResourceKeys reports the symbolic keys an action produces and
// consumes. Consumed keys must have been produced by an earlier
// action of the same execution run.
func ResourceKeys(a Action) (produces, consumes []string, err error) {
	spec, err := a.call()
	if err != nil {
		return nil, nil, err
	}
	return spec.produces, spec.consumes, nil
}

// CoinSource names where an operation draws its coins at execution
// time. Staged batches compile before the transaction that executes
// them, so a source is never a positional transaction argument: it is
// either the DAO treasury or the symbolic key of an earlier
// operation's output.
type CoinSource struct {
	kind sourceKind
	key  string
}

type sourceKind uint8

const (
	sourceUnset sourceKind = iota
	sourceTreasury
	sourceResult
)

// CoinFromTreasury draws from the DAO treasury balance of the
// action's coin type.
func CoinFromTreasury() CoinSource { return CoinSource{kind: sourceTreasury} }

// CoinFromResult draws the output an earlier operation recorded under
// key.
func CoinFromResult(key string) CoinSource {
	return CoinSource{kind: sourceResult, key: key}
}

func (s CoinSource) valid() bool {
	return s.kind == sourceTreasury || (s.kind == sourceResult && s.key != "")
}

func (s CoinSource) resultKey() string {
	if s.kind == sourceResult {
		return s.key
	}
	return ""
}

// arg encodes the source: a kind byte, then the key for result
// sources. An unset source encodes as a marker the ledger rejects;
// validate() keeps it out of every submission path.
func (s CoinSource) arg() ledger.CallArg {
	switch s.kind {
	case sourceTreasury:
		return ledger.PureArg{Bytes: []byte{0}}
	case sourceResult:
		keyArg := ledger.PureString(s.key)
		return ledger.PureArg{Bytes: append([]byte{1}, keyArg.Bytes...)}
	}
	return ledger.PureArg{Bytes: []byte{0xff}}
}

// MissingFieldError reports a required field absent from an action.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("action %s: missing required field %s", e.Kind, e.Field)
}

func missing(k Kind, field string) error {
	return &MissingFieldError{Kind: k, Field: field}
}

// InvalidFieldError reports a field that is present but out of range.
type InvalidFieldError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("action %s: invalid field %s: %s", e.Kind, e.Field, e.Reason)
}

func invalid(k Kind, field, reason string) error {
	return &InvalidFieldError{Kind: k, Field: field, Reason: reason}
}

var zeroAddress ledger.Address

var zeroObjectID ledger.ObjectID
