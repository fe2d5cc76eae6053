// internal/staging/staging.go

// Package staging attaches compiled specification lists to raise or
// proposal outcomes. Whether re-staging an already-staged outcome
// overwrites or rejects is ledger policy; this client treats it as
// rejected (see ledger.CodeAlreadyStaged) and never assumes
// overwrite.
package staging

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agoradao/agora-go/internal/intent"
	"github.com/agoradao/agora-go/internal/ledger"
)

var (
	// ErrReservedOutcome guards proposal outcome 0, the reject
	// outcome, which never carries an arbitrary action list.
	ErrReservedOutcome = errors.New("staging: outcome 0 is reserved for reject")
	// ErrSpecTooLarge reports a batch longer than its operations cap.
	ErrSpecTooLarge = errors.New("staging: specification list exceeds max-operations cap")
	// ErrNotWhitelisted reports a staged action whose target is not
	// whitelisted for the DAO.
	ErrNotWhitelisted = errors.New("staging: action target not whitelisted for DAO")
)

// RaiseOutcome names the two stageable branches of a raise.
type RaiseOutcome uint8

const (
	RaiseFailure RaiseOutcome = 0
	RaiseSuccess RaiseOutcome = 1
)

const (
	moduleRaise    = "raise"
	moduleProposal = "proposal"
)

// Whitelist is the DAO-level set of permitted action targets, keyed
// "module::function".
type Whitelist map[string]struct{}

// Allows reports whether the target key is permitted.
func (w Whitelist) Allows(key string) bool {
	_, ok := w[key]
	return ok
}

// LoadWhitelist reads the DAO object and extracts its action
// whitelist. A DAO with no whitelist field allows everything, which
// is represented as a nil Whitelist.
func LoadWhitelist(ctx context.Context, reader ledger.ObjectReader, dao ledger.ObjectID) (Whitelist, error) {
	obj, err := reader.GetObject(ctx, dao)
	if err != nil {
		return nil, fmt.Errorf("loading DAO %s: %w", dao, err)
	}
	raw, ok := obj.Fields["action_whitelist"]
	if !ok {
		return nil, nil
	}
	keys, ok := raw.([]string)
	if !ok {
		return nil, fmt.Errorf("DAO %s: action_whitelist has unexpected shape %T", dao, raw)
	}
	w := make(Whitelist, len(keys))
	for _, k := range keys {
		w[k] = struct{}{}
	}
	return w, nil
}

// Stager builds staging calls against one deployed protocol package.
type Stager struct {
	pkg    ledger.ObjectID
	logger *zap.Logger
}

// NewStager returns a stager for the protocol package.
func NewStager(pkg ledger.ObjectID, logger *zap.Logger) *Stager {
	return &Stager{pkg: pkg, logger: logger.Named("staging")}
}

// StageToRaise attaches a compiled spec list to one outcome of a
// raise. The auth capability proves the caller may stage for this
// raise. maxOps is the cap recorded alongside the list; the batch is
// checked against it client-side before the call is appended.
func (s *Stager) StageToRaise(
	unit *ledger.Unit,
	raise ledger.SharedRef,
	authCap ledger.ObjectRef,
	assetType, stableType ledger.TypeTag,
	outcome RaiseOutcome,
	batch *intent.Batch,
	spec ledger.Result,
	maxOps uint64,
) error {
	if uint64(batch.Len()) > maxOps {
		return fmt.Errorf("%w: %d actions, cap %d", ErrSpecTooLarge, batch.Len(), maxOps)
	}
	unit.Append(ledger.Call{
		Target:   ledger.Target{Package: s.pkg, Module: moduleRaise, Function: "stage_intent_spec"},
		TypeArgs: []ledger.TypeTag{assetType, stableType},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: raise},
			ledger.ObjectArg{Ref: authCap},
			ledger.PureU8(uint8(outcome)),
			spec.Arg(),
			ledger.PureU64(maxOps),
		},
	})
	s.logger.Info("Staged batch to raise",
		zap.String("raise", raise.ID.String()),
		zap.Uint8("outcome", uint8(outcome)),
		zap.Int("actions", batch.Len()),
		zap.Uint64("max_ops", maxOps))
	return nil
}

// StageToProposal attaches a compiled spec list to one outcome of a
// proposal, validating the batch against the DAO whitelist first.
// Outcome 0 is the reject branch and cannot carry an action list.
func (s *Stager) StageToProposal(
	unit *ledger.Unit,
	proposal ledger.SharedRef,
	outcome uint64,
	batch *intent.Batch,
	spec ledger.Result,
	maxOps uint64,
	dao ledger.SharedRef,
	registry ledger.SharedRef,
	whitelist Whitelist,
) error {
	if outcome == 0 {
		return ErrReservedOutcome
	}
	if uint64(batch.Len()) > maxOps {
		return fmt.Errorf("%w: %d actions, cap %d", ErrSpecTooLarge, batch.Len(), maxOps)
	}
	if whitelist != nil {
		for _, a := range batch.Actions() {
			key, err := intent.TargetKey(a)
			if err != nil {
				return err
			}
			if !whitelist.Allows(key) {
				return fmt.Errorf("%w: %s", ErrNotWhitelisted, key)
			}
		}
	}
	unit.Append(ledger.Call{
		Target: ledger.Target{Package: s.pkg, Module: moduleProposal, Function: "stage_intent_spec"},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: proposal},
			ledger.PureU64(outcome),
			spec.Arg(),
			ledger.PureU64(maxOps),
			ledger.SharedArg{Ref: dao},
			ledger.SharedArg{Ref: registry},
		},
	})
	s.logger.Info("Staged batch to proposal",
		zap.String("proposal", proposal.ID.String()),
		zap.Uint64("outcome", outcome),
		zap.Int("actions", batch.Len()),
		zap.Uint64("max_ops", maxOps))
	return nil
}

// IsAlreadyStaged reports whether a submission failed because the
// outcome was staged before. Two independent submissions racing for
// the same outcome is a normal, expected failure.
func IsAlreadyStaged(err error) bool {
	return ledger.IsAbortCode(err, ledger.CodeAlreadyStaged)
}
