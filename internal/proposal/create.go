// internal/proposal/create.go

// Package proposal composes the atomic proposal-creation flow: a
// proposal shell, a conditional instrument pair for every outcome,
// optional per-outcome staged batches, and the finalize that shares
// everything — all inside one atomic unit, so a proposal can never
// exist half-initialized.
package proposal

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/ledger"
	"github.com/agoradao/agora-go/internal/staging"
)

var (
	// ErrOutcomeIncomplete rejects Finalize while any outcome index
	// lacks its registered instrument pair.
	ErrOutcomeIncomplete = errors.New("proposal: outcome missing its conditional instrument pair")
	// ErrAlreadyFinalized rejects further mutation of a finalized
	// flow.
	ErrAlreadyFinalized = errors.New("proposal: flow already finalized")
	// ErrNotFinalized guards quota consumption before finalize.
	ErrNotFinalized = errors.New("proposal: flow not finalized")
	// ErrOutcomeOutOfRange rejects an outcome index outside
	// [0, outcomeCount).
	ErrOutcomeOutOfRange = errors.New("proposal: outcome index out of range")
	// ErrPairAlreadyRegistered rejects a second pair for the same
	// outcome.
	ErrPairAlreadyRegistered = errors.New("proposal: outcome already has a registered pair")
)

const moduleProposal = "proposal"

// CreateParams fixes the shape of one proposal.
type CreateParams struct {
	Dao      ledger.SharedRef
	Registry ledger.SharedRef

	Title       string
	Description string
	MetadataURL string

	// OutcomeCount includes outcome 0, the reject branch. Minimum 2.
	OutcomeCount uint64

	AssetType  ledger.TypeTag
	StableType ledger.TypeTag

	// The DAO charges its creation fee in exactly one of the two coin
	// types; the other side is supplied as an explicit zero-value
	// coin because the ledger call is arity-fixed.
	FeeInAsset    bool
	AssetFeeCoin  ledger.ObjectRef
	StableFeeCoin ledger.ObjectRef
}

func (p CreateParams) validate() error {
	switch {
	case p.Title == "":
		return fmt.Errorf("proposal: missing title")
	case p.OutcomeCount < 2:
		return fmt.Errorf("proposal: need at least reject and accept outcomes, got %d", p.OutcomeCount)
	case p.AssetType == "" || p.StableType == "":
		return fmt.Errorf("proposal: missing coin types")
	}
	return nil
}

// Flow drives one atomic proposal creation on a single unit. Steps
// are strictly ordered: Begin, RegisterOutcomePair for every outcome,
// optional StageOutcome calls, then Finalize. The flow tracks outcome
// completeness client-side; the ledger re-checks at finalize.
type Flow struct {
	unit   *ledger.Unit
	pkg    ledger.ObjectID
	params CreateParams

	proposal   ledger.Result // unshared proposal handle
	escrow     ledger.Result // unshared escrow handle
	registered map[uint64]bool
	finalized  bool
	logger     *zap.Logger
}

// Begin appends the begin_proposal call and returns the flow holding
// the unshared proposal and escrow handles. The fee is split by
// whichever side the DAO charges in; both coins are always passed.
func Begin(unit *ledger.Unit, pkg ledger.ObjectID, params CreateParams, logger *zap.Logger) (*Flow, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	res := unit.Append(ledger.Call{
		Target:   ledger.Target{Package: pkg, Module: moduleProposal, Function: "begin_proposal"},
		TypeArgs: []ledger.TypeTag{params.AssetType, params.StableType},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: params.Dao},
			ledger.PureString(params.Title),
			ledger.PureString(params.Description),
			ledger.PureString(params.MetadataURL),
			ledger.PureU64(params.OutcomeCount),
			ledger.PureBool(params.FeeInAsset),
			ledger.ObjectArg{Ref: params.AssetFeeCoin},
			ledger.ObjectArg{Ref: params.StableFeeCoin},
		},
	})
	f := &Flow{
		unit:       unit,
		pkg:        pkg,
		params:     params,
		proposal:   res, // nested 0 below
		escrow:     res,
		registered: make(map[uint64]bool),
		logger:     logger.Named("proposal_flow"),
	}
	f.logger.Info("Proposal begun",
		zap.String("dao", params.Dao.ID.String()),
		zap.String("title", params.Title),
		zap.Uint64("outcomes", params.OutcomeCount))
	return f, nil
}

func (f *Flow) proposalArg() ledger.CallArg { return f.proposal.NestedArg(0) }
func (f *Flow) escrowArg() ledger.CallArg   { return f.escrow.NestedArg(1) }

// RegisterOutcomePair registers the taken pair's asset-side and
// stable-side instruments with the escrow under the outcome index.
// Every outcome in [0, OutcomeCount) needs exactly one pair before
// Finalize.
func (f *Flow) RegisterOutcomePair(outcome uint64, pair TakenPair) error {
	if f.finalized {
		return ErrAlreadyFinalized
	}
	if outcome >= f.params.OutcomeCount {
		return fmt.Errorf("%w: %d of %d", ErrOutcomeOutOfRange, outcome, f.params.OutcomeCount)
	}
	if f.registered[outcome] {
		return fmt.Errorf("%w: outcome %d", ErrPairAlreadyRegistered, outcome)
	}
	f.unit.Append(ledger.Call{
		Target:   ledger.Target{Package: f.pkg, Module: moduleProposal, Function: "add_outcome_coins"},
		TypeArgs: []ledger.TypeTag{f.params.AssetType, f.params.StableType},
		Args: []ledger.CallArg{
			f.escrowArg(),
			ledger.PureU64(outcome),
			pair.AssetSide(),
			pair.StableSide(),
		},
	})
	f.registered[outcome] = true
	f.logger.Debug("Outcome pair registered", zap.Uint64("outcome", outcome))
	return nil
}

// StageOutcome compiles the batch and attaches it to the outcome on
// the still-unshared proposal handle. Outcome 0 is reserved and
// rejected; the DAO whitelist applies exactly as in post-creation
// staging.
func (f *Flow) StageOutcome(outcome uint64, batch *intent.Batch, maxOps uint64, whitelist staging.Whitelist) error {
	if f.finalized {
		return ErrAlreadyFinalized
	}
	if outcome == 0 {
		return staging.ErrReservedOutcome
	}
	if outcome >= f.params.OutcomeCount {
		return fmt.Errorf("%w: %d of %d", ErrOutcomeOutOfRange, outcome, f.params.OutcomeCount)
	}
	if uint64(batch.Len()) > maxOps {
		return fmt.Errorf("%w: %d actions, cap %d", staging.ErrSpecTooLarge, batch.Len(), maxOps)
	}
	if whitelist != nil {
		for _, a := range batch.Actions() {
			key, err := intent.TargetKey(a)
			if err != nil {
				return err
			}
			if !whitelist.Allows(key) {
				return fmt.Errorf("%w: %s", staging.ErrNotWhitelisted, key)
			}
		}
	}
	spec, err := batch.Compile()
	if err != nil {
		return err
	}
	f.unit.Append(ledger.Call{
		Target: ledger.Target{Package: f.pkg, Module: moduleProposal, Function: "set_intent_spec_for_outcome"},
		Args: []ledger.CallArg{
			f.proposalArg(),
			ledger.PureU64(outcome),
			spec.Arg(),
			ledger.PureU64(maxOps),
		},
	})
	f.logger.Debug("Outcome batch staged",
		zap.Uint64("outcome", outcome),
		zap.Int("actions", batch.Len()))
	return nil
}

// Receipt proves a finalize call is part of the unit. Quota
// consumption requires it, which makes fee-before-guard ordering
// unrepresentable rather than merely discouraged.
type Receipt struct {
	res ledger.Result
}

// Finalize validates client-side that every outcome has its pair,
// then appends the finalize call that creates the per-outcome trading
// venues and shares the proposal and escrow. Only after this call do
// other parties see the proposal at all.
func (f *Flow) Finalize(spotVenue ledger.SharedRef, sender ledger.Address) (Receipt, error) {
	if f.finalized {
		return Receipt{}, ErrAlreadyFinalized
	}
	for i := uint64(0); i < f.params.OutcomeCount; i++ {
		if !f.registered[i] {
			return Receipt{}, fmt.Errorf("%w: outcome %d of %d", ErrOutcomeIncomplete, i, f.params.OutcomeCount)
		}
	}
	res := f.unit.Append(ledger.Call{
		Target:   ledger.Target{Package: f.pkg, Module: moduleProposal, Function: "finalize_proposal"},
		TypeArgs: []ledger.TypeTag{f.params.AssetType, f.params.StableType},
		Args: []ledger.CallArg{
			f.proposalArg(),
			f.escrowArg(),
			ledger.SharedArg{Ref: spotVenue},
			ledger.PureAddress(sender),
		},
	})
	f.finalized = true
	f.logger.Info("Proposal finalized",
		zap.Uint64("outcomes", f.params.OutcomeCount))
	return Receipt{res: res}, nil
}

// ConsumeQuota decrements the caller's rate-limited fee exemption.
// It takes the finalize receipt so the quota call can only ever land
// after a successful finalize in the same unit: a failed finalize
// aborts the whole unit and never burns quota.
func (f *Flow) ConsumeQuota(quota ledger.SharedRef, receipt Receipt) error {
	if !f.finalized {
		return ErrNotFinalized
	}
	f.unit.Append(ledger.Call{
		Target: ledger.Target{Package: f.pkg, Module: moduleProposal, Function: "consume_quota"},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: quota},
			receipt.res.Arg(),
		},
	})
	return nil
}

// AdvanceToTrading appends the call that moves a finalized proposal
// into its trading phase, paying the gap fee from feeCoin. The call
// refunds any overpayment in the same unit. ExpectedFee is the
// client-side GapFee figure, logged for diagnosis when the ledger
// charges differently.
func AdvanceToTrading(unit *ledger.Unit, pkg ledger.ObjectID, prop ledger.SharedRef, feeCoin ledger.ObjectRef, expectedFee uint64, logger *zap.Logger) {
	unit.Append(ledger.Call{
		Target: ledger.Target{Package: pkg, Module: moduleProposal, Function: "advance_to_trading"},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: prop},
			ledger.ObjectArg{Ref: feeCoin},
		},
	})
	logger.Info("Advancing proposal to trading",
		zap.String("proposal", prop.ID.String()),
		zap.Uint64("expected_gap_fee", expectedFee))
}
