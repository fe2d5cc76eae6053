// internal/ledger/client.go
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectData is the typed view of an on-ledger object, as returned by
// the read oracle. Fields carry the decoded field values keyed by
// field name.
type ObjectData struct {
	ID      ObjectID
	Version uint64
	Digest  Digest
	Type    TypeTag
	Fields  map[string]any
}

// OwnedRef derives the owned reference for this object version.
func (o *ObjectData) OwnedRef() ObjectRef {
	return ObjectRef{ID: o.ID, Version: o.Version, Digest: o.Digest}
}

// Event is one historical protocol event.
type Event struct {
	Type      TypeTag
	Unit      Digest
	Timestamp time.Time
	Fields    map[string]any
}

// ObjectReader is the read-only state oracle. Implementations live at
// the transport layer, outside this module.
type ObjectReader interface {
	GetObject(ctx context.Context, id ObjectID) (*ObjectData, error)
}

// EventQuery is the read-only event oracle.
type EventQuery interface {
	QueryEvents(ctx context.Context, eventType TypeTag, limit int) ([]Event, error)
}

// UnitStatus is the terminal status of a submitted unit.
type UnitStatus string

const (
	UnitSucceeded UnitStatus = "succeeded"
	UnitAborted   UnitStatus = "aborted"
)

// UnitResult reports the outcome of one atomic submission. On abort
// the whole unit rolled back; Err carries the ledger error verbatim
// and FailedCall is the index of the call that aborted.
type UnitResult struct {
	Digest     Digest
	Status     UnitStatus
	FailedCall int
	Err        *ExecError
}

// Submitter submits one atomic unit and waits for its terminal
// status. Transport errors are returned as plain errors; ledger
// aborts are reported inside a UnitResult.
type Submitter interface {
	SubmitUnit(ctx context.Context, u *Unit) (*UnitResult, error)
}

// Client bundles the boundary collaborators with retry and logging.
type Client struct {
	Reader    ObjectReader
	Events    EventQuery
	Submitter Submitter

	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewClient wires the boundary interfaces. maxElapsed bounds the
// total retry time for transient submission failures.
func NewClient(reader ObjectReader, events EventQuery, sub Submitter, maxElapsed time.Duration, logger *zap.Logger) *Client {
	if maxElapsed <= 0 {
		maxElapsed = 15 * time.Second
	}
	return &Client{
		Reader:     reader,
		Events:     events,
		Submitter:  sub,
		maxElapsed: maxElapsed,
		logger:     logger.Named("ledger_client"),
	}
}

// Submit validates and submits a unit, retrying transient transport
// failures with exponential backoff. A ledger abort is never retried:
// the unit already rolled back and resubmitting the same calls would
// abort again.
func (c *Client) Submit(ctx context.Context, u *Unit) (*UnitResult, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("invalid unit: %w", err)
	}

	op := func() (*UnitResult, error) {
		res, err := c.Submitter.SubmitUnit(ctx, u)
		if err != nil {
			return nil, err
		}
		if res.Status == UnitAborted {
			return nil, backoff.Permanent(res.Err)
		}
		return res, nil
	}

	notify := func(err error, d time.Duration) {
		c.logger.Warn("Retrying unit submission",
			zap.Error(err),
			zap.Duration("backoff", d))
	}

	res, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(c.maxElapsed),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Unit applied",
		zap.String("digest", res.Digest.String()),
		zap.Int("calls", u.Len()))
	return res, nil
}

// GetObjects fetches several objects in parallel, preserving input
// order. One failed read fails the whole lookup.
func (c *Client) GetObjects(ctx context.Context, ids []ObjectID) ([]*ObjectData, error) {
	out := make([]*ObjectData, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			obj, err := c.Reader.GetObject(gctx, id)
			if err != nil {
				return fmt.Errorf("object %s: %w", id, err)
			}
			out[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
