// internal/proposal/instruments.go
package proposal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agoradao/agora-go/internal/ledger"
)

// ErrInstrumentUnavailable reports that a blank instrument pair was
// taken by someone else between listing and submission. Concurrent
// takers contend for distinct pair ids; losing the race is a normal
// failure and the caller re-selects.
var ErrInstrumentUnavailable = errors.New("proposal: instrument pair no longer available")

// InstrumentPair is one blank conditional pair held by the pool: the
// asset-side and stable-side treasury/metadata capabilities plus the
// fee its depositor charges per take.
type InstrumentPair struct {
	ID      ledger.ObjectID
	Version uint64
	Digest  ledger.Digest
	TakeFee uint64
}

const (
	moduleInstrumentPool = "instrument_pool"
	pairAvailableEvent   = "instrument_pool::PairDeposited"
)

// InstrumentPool is the client view of the shared pre-funded registry
// of blank conditional instrument pairs.
type InstrumentPool struct {
	pkg    ledger.ObjectID
	pool   ledger.SharedRef
	reader ledger.ObjectReader
	events ledger.EventQuery
	logger *zap.Logger
}

// NewInstrumentPool binds the client to a deployed pool object.
func NewInstrumentPool(pkg ledger.ObjectID, pool ledger.SharedRef, reader ledger.ObjectReader, events ledger.EventQuery, logger *zap.Logger) *InstrumentPool {
	return &InstrumentPool{
		pkg:    pkg,
		pool:   pool,
		reader: reader,
		events: events,
		logger: logger.Named("instrument_pool"),
	}
}

// ListAvailable discovers deposited pairs via events and filters to
// the ones still live, reading the backing objects in parallel. A
// pair that disappeared between the event and the read was taken by
// someone else and is silently skipped.
func (p *InstrumentPool) ListAvailable(ctx context.Context, limit int) ([]InstrumentPair, error) {
	evs, err := p.events.QueryEvents(ctx, ledger.TypeTag(fmt.Sprintf("%s::%s", p.pkg, pairAvailableEvent)), limit)
	if err != nil {
		return nil, fmt.Errorf("querying pair deposits: %w", err)
	}

	pairs := make([]*InstrumentPair, len(evs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range evs {
		g.Go(func() error {
			rawID, ok := ev.Fields["pair_id"].(ledger.ObjectID)
			if !ok {
				return fmt.Errorf("pair event missing pair_id")
			}
			obj, err := p.reader.GetObject(gctx, rawID)
			if err != nil {
				// Taken already; not an error for discovery.
				return nil
			}
			fee, _ := obj.Fields["take_fee"].(uint64)
			pairs[i] = &InstrumentPair{
				ID:      obj.ID,
				Version: obj.Version,
				Digest:  obj.Digest,
				TakeFee: fee,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]InstrumentPair, 0, len(pairs))
	for _, pr := range pairs {
		if pr != nil {
			out = append(out, *pr)
		}
	}
	p.logger.Debug("Instrument pairs discovered",
		zap.Int("events", len(evs)),
		zap.Int("available", len(out)))
	return out, nil
}

// TakenPair is the in-unit handle to a taken pair: the asset-side and
// stable-side instrument values as nested results of the take call.
type TakenPair struct {
	res ledger.Result
}

// AssetSide references the asset-side instrument value.
func (t TakenPair) AssetSide() ledger.CallArg { return t.res.NestedArg(0) }

// StableSide references the stable-side instrument value.
func (t TakenPair) StableSide() ledger.CallArg { return t.res.NestedArg(1) }

// Take appends the call that removes the pair from the pool, paying
// the depositor's take fee from feeCoin. The ledger guarantees no two
// takers acquire the same pair; a lost race surfaces at submission as
// ledger.CodeInstrumentUnavailable.
func (p *InstrumentPool) Take(unit *ledger.Unit, pair InstrumentPair, feeCoin ledger.ObjectRef, assetType, stableType ledger.TypeTag) TakenPair {
	res := unit.Append(ledger.Call{
		Target:   ledger.Target{Package: p.pkg, Module: moduleInstrumentPool, Function: "take_pair"},
		TypeArgs: []ledger.TypeTag{assetType, stableType},
		Args: []ledger.CallArg{
			ledger.SharedArg{Ref: p.pool},
			ledger.ObjectArg{Ref: ledger.ObjectRef{ID: pair.ID, Version: pair.Version, Digest: pair.Digest}},
			ledger.ObjectArg{Ref: feeCoin},
		},
	})
	p.logger.Debug("Instrument pair taken",
		zap.String("pair", pair.ID.String()),
		zap.Uint64("take_fee", pair.TakeFee))
	return TakenPair{res: res}
}

// IsUnavailable reports whether a submission failed because a taken
// pair was gone.
func IsUnavailable(err error) bool {
	return ledger.IsAbortCode(err, ledger.CodeInstrumentUnavailable)
}
