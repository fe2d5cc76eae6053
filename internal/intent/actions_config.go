// internal/intent/actions_config.go
package intent

import (
	"github.com/holiman/uint256"

	"github.com/agoradao/agora-go/internal/ledger"
)

const moduleConfig = "config_actions"

// UpdateTradingParams tunes the per-proposal market parameters.
type UpdateTradingParams struct {
	MinAssetAmount  uint64
	MinStableAmount uint64
	ReviewPeriodMs  uint64
	TradingPeriodMs uint64
	AmmTotalFeeBps  uint16
}

func (UpdateTradingParams) Kind() Kind { return KindUpdateTradingParams }

func (a UpdateTradingParams) validate() error {
	if a.TradingPeriodMs == 0 {
		return invalid(KindUpdateTradingParams, "TradingPeriodMs", "must be positive")
	}
	if a.AmmTotalFeeBps > MaxFeeBps {
		return invalid(KindUpdateTradingParams, "AmmTotalFeeBps", "exceeds maximum")
	}
	return nil
}

func (a UpdateTradingParams) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_trading_params",
		args: []ledger.CallArg{
			ledger.PureU64(a.MinAssetAmount),
			ledger.PureU64(a.MinStableAmount),
			ledger.PureU64(a.ReviewPeriodMs),
			ledger.PureU64(a.TradingPeriodMs),
			ledger.PureU16(a.AmmTotalFeeBps),
		},
	}, nil
}

// UpdateTwapParams tunes the oracle observation schedule. The initial
// observation is a 128-bit fixed-point price.
type UpdateTwapParams struct {
	StartDelayMs       uint64
	StepMax            uint64
	InitialObservation *uint256.Int
}

func (UpdateTwapParams) Kind() Kind { return KindUpdateTwapParams }

func (a UpdateTwapParams) validate() error {
	if a.StepMax == 0 {
		return invalid(KindUpdateTwapParams, "StepMax", "must be positive")
	}
	if a.InitialObservation == nil {
		return missing(KindUpdateTwapParams, "InitialObservation")
	}
	return nil
}

func (a UpdateTwapParams) call() (callSpec, error) {
	obs, err := ledger.PureU128(a.InitialObservation)
	if err != nil {
		return callSpec{}, invalid(KindUpdateTwapParams, "InitialObservation", err.Error())
	}
	return callSpec{
		module: moduleConfig,
		name:   "update_twap_params",
		args: []ledger.CallArg{
			ledger.PureU64(a.StartDelayMs),
			ledger.PureU64(a.StepMax),
			obs,
		},
	}, nil
}

// UpdateGovernanceParams tunes proposal-level limits.
type UpdateGovernanceParams struct {
	MaxOutcomes            uint64
	MaxActionsPerOutcome   uint64
	RequiredBond           uint64
	MaxConcurrentProposals uint64
}

func (UpdateGovernanceParams) Kind() Kind { return KindUpdateGovernanceParams }

func (a UpdateGovernanceParams) validate() error {
	if a.MaxOutcomes < 2 {
		return invalid(KindUpdateGovernanceParams, "MaxOutcomes", "need at least reject and accept")
	}
	if a.MaxActionsPerOutcome == 0 {
		return invalid(KindUpdateGovernanceParams, "MaxActionsPerOutcome", "must be positive")
	}
	return nil
}

func (a UpdateGovernanceParams) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_governance_params",
		args: []ledger.CallArg{
			ledger.PureU64(a.MaxOutcomes),
			ledger.PureU64(a.MaxActionsPerOutcome),
			ledger.PureU64(a.RequiredBond),
			ledger.PureU64(a.MaxConcurrentProposals),
		},
	}, nil
}

// UpdateMetadataEntry sets or deletes one DAO metadata key. Value nil
// deletes the key; an empty string stores an empty value.
type UpdateMetadataEntry struct {
	Key   string
	Value *string
}

func (UpdateMetadataEntry) Kind() Kind { return KindUpdateMetadataEntry }

func (a UpdateMetadataEntry) validate() error {
	if a.Key == "" {
		return missing(KindUpdateMetadataEntry, "Key")
	}
	return nil
}

func (a UpdateMetadataEntry) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_metadata_entry",
		args: []ledger.CallArg{
			ledger.PureString(a.Key),
			ledger.PureOptionString(a.Value),
		},
	}, nil
}

// UpdateDaoName renames the DAO.
type UpdateDaoName struct {
	Name string
}

func (UpdateDaoName) Kind() Kind { return KindUpdateDaoName }

func (a UpdateDaoName) validate() error {
	if a.Name == "" {
		return missing(KindUpdateDaoName, "Name")
	}
	return nil
}

func (a UpdateDaoName) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_dao_name",
		args:   []ledger.CallArg{ledger.PureString(a.Name)},
	}, nil
}

// SetProposalsEnabled pauses or resumes new proposal creation.
type SetProposalsEnabled struct {
	Enabled bool
}

func (SetProposalsEnabled) Kind() Kind { return KindSetProposalsEnabled }

func (a SetProposalsEnabled) validate() error { return nil }

func (a SetProposalsEnabled) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "set_proposals_enabled",
		args:   []ledger.CallArg{ledger.PureBool(a.Enabled)},
	}, nil
}

// UpdateQuotaParams tunes the fee-exemption quota schedule.
type UpdateQuotaParams struct {
	QuotaAmount   uint64
	QuotaPeriodMs uint64
	ReductionBps  uint16
}

func (UpdateQuotaParams) Kind() Kind { return KindUpdateQuotaParams }

func (a UpdateQuotaParams) validate() error {
	if a.QuotaPeriodMs == 0 {
		return invalid(KindUpdateQuotaParams, "QuotaPeriodMs", "must be positive")
	}
	if a.ReductionBps > 10000 {
		return invalid(KindUpdateQuotaParams, "ReductionBps", "exceeds 100%")
	}
	return nil
}

func (a UpdateQuotaParams) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_quota_params",
		args: []ledger.CallArg{
			ledger.PureU64(a.QuotaAmount),
			ledger.PureU64(a.QuotaPeriodMs),
			ledger.PureU16(a.ReductionBps),
		},
	}, nil
}

// UpdateSlashDistribution splits slashed bonds between the slasher,
// the DAO and burning. Shares must sum to exactly 100%.
type UpdateSlashDistribution struct {
	SlasherBps uint16
	DaoBps     uint16
	BurnBps    uint16
}

func (UpdateSlashDistribution) Kind() Kind { return KindUpdateSlashDistribution }

func (a UpdateSlashDistribution) validate() error {
	if int(a.SlasherBps)+int(a.DaoBps)+int(a.BurnBps) != 10000 {
		return invalid(KindUpdateSlashDistribution, "SlasherBps", "shares must sum to 10000 bps")
	}
	return nil
}

func (a UpdateSlashDistribution) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_slash_distribution",
		args: []ledger.CallArg{
			ledger.PureU16(a.SlasherBps),
			ledger.PureU16(a.DaoBps),
			ledger.PureU16(a.BurnBps),
		},
	}, nil
}

// UpdateConditionalMetadata changes how per-outcome conditional coin
// symbols and icons are derived.
type UpdateConditionalMetadata struct {
	SymbolPrefix string
	IconURL      string
}

func (UpdateConditionalMetadata) Kind() Kind { return KindUpdateConditionalMetadata }

func (a UpdateConditionalMetadata) validate() error {
	if a.SymbolPrefix == "" {
		return missing(KindUpdateConditionalMetadata, "SymbolPrefix")
	}
	return nil
}

func (a UpdateConditionalMetadata) call() (callSpec, error) {
	return callSpec{
		module: moduleConfig,
		name:   "update_conditional_metadata",
		args: []ledger.CallArg{
			ledger.PureString(a.SymbolPrefix),
			ledger.PureString(a.IconURL),
		},
	}, nil
}
