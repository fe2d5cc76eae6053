// internal/ledger/ledgertest/fake.go

// Package ledgertest provides an in-memory ledger double that applies
// or rolls back whole units, for exercising the staging and execution
// protocols without a node. It interprets the handful of protocol
// calls the tests need; everything it does not recognize is a
// stateless no-op.
package ledgertest

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/agoradao/agora-go/internal/ledger"
)

// Fake implements ledger.Submitter, ledger.ObjectReader and
// ledger.EventQuery over in-memory state.
type Fake struct {
	mu sync.Mutex

	Objects  map[ledger.ObjectID]*ledger.ObjectData
	Balances map[ledger.Address]map[ledger.TypeTag]uint64
	Treasury map[ledger.TypeTag]uint64
	Events   []ledger.Event

	// Staged tracks (target, outcome) pairs that carry a spec; a
	// second stage for the same pair aborts with CodeAlreadyStaged.
	Staged map[string]bool

	// FailAt forces the call at that unit index to abort, simulating
	// a mid-batch operation failure. -1 disables it.
	FailAt  int
	FailErr *ledger.ExecError

	// AppliedOps records, per successful unit, the do_* operations in
	// application order.
	AppliedOps [][]string

	units int
}

// New returns an empty fake with failure injection disabled.
func New() *Fake {
	return &Fake{
		Objects:  make(map[ledger.ObjectID]*ledger.ObjectData),
		Balances: make(map[ledger.Address]map[ledger.TypeTag]uint64),
		Treasury: make(map[ledger.TypeTag]uint64),
		Staged:   make(map[string]bool),
		FailAt:   -1,
	}
}

func (f *Fake) GetObject(_ context.Context, id ledger.ObjectID) (*ledger.ObjectData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.Objects[id]
	if !ok {
		return nil, fmt.Errorf("ledgertest: object %s not found", id)
	}
	cp := *obj
	cp.Fields = make(map[string]any, len(obj.Fields))
	for k, v := range obj.Fields {
		cp.Fields[k] = v
	}
	return &cp, nil
}

func (f *Fake) QueryEvents(_ context.Context, eventType ledger.TypeTag, limit int) ([]ledger.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ledger.Event
	for _, ev := range f.Events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Balance reads a committed balance.
func (f *Fake) Balance(addr ledger.Address, coin ledger.TypeTag) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Balances[addr][coin]
}

// runState is the scratch state of one unit in flight. Commit copies
// it back; abort drops it, so no partial effects ever persist.
type runState struct {
	balances map[ledger.Address]map[ledger.TypeTag]uint64
	treasury map[ledger.TypeTag]uint64
	objects  map[ledger.ObjectID]*ledger.ObjectData
	staged   map[string]bool

	outputs   map[string]pendingCoin
	applied   []string
	finalized bool
}

type pendingCoin struct {
	coin   ledger.TypeTag
	amount uint64
}

func (f *Fake) SubmitUnit(_ context.Context, u *ledger.Unit) (*ledger.UnitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	run := f.snapshot()
	calls := u.Calls()
	for i, c := range calls {
		if i == f.FailAt {
			return f.abort(i, f.failErr()), nil
		}
		if err := f.applyCall(run, c); err != nil {
			ee, ok := err.(*ledger.ExecError)
			if !ok {
				ee = &ledger.ExecError{Module: c.Target.Module, Code: ledger.CodeWrongState, Message: err.Error()}
			}
			return f.abort(i, ee), nil
		}
	}

	f.commit(run)
	f.units++
	return &ledger.UnitResult{
		Digest: digestFor(f.units),
		Status: ledger.UnitSucceeded,
	}, nil
}

func (f *Fake) applyCall(run *runState, c ledger.Call) error {
	switch c.Target.Function {
	case "do_mint":
		amount := decodeU64(c.Args[1])
		saveAs := decodeString(c.Args[2])
		coin := c.TypeArgs[0]
		if saveAs == "" {
			run.treasury[coin] += amount
		} else {
			run.outputs[saveAs] = pendingCoin{coin: coin, amount: amount}
		}
		run.applied = append(run.applied, "mint")

	case "do_transfer_coins":
		coin := c.TypeArgs[0]
		amount, err := drawSource(run, c.Args[1], coin, decodeOptionU64(c.Args[2]))
		if err != nil {
			return err
		}
		recipient := decodeAddress(c.Args[3])
		if run.balances[recipient] == nil {
			run.balances[recipient] = make(map[ledger.TypeTag]uint64)
		}
		run.balances[recipient][coin] += amount
		run.applied = append(run.applied, "transfer_coins")

	case "do_burn":
		coin := c.TypeArgs[0]
		want := decodeU64(c.Args[2])
		if _, err := drawSource(run, c.Args[1], coin, &want); err != nil {
			return err
		}
		run.applied = append(run.applied, "burn")

	case "do_deposit_treasury":
		coin := c.TypeArgs[0]
		amount, err := drawSource(run, c.Args[1], coin, decodeOptionU64(c.Args[2]))
		if err != nil {
			return err
		}
		run.treasury[coin] += amount
		run.applied = append(run.applied, "deposit_treasury")

	case "do_spend_treasury":
		coin := c.TypeArgs[0]
		amount := decodeU64(c.Args[1])
		if run.treasury[coin] < amount {
			return &ledger.ExecError{Module: "treasury_actions", Code: ledger.CodeInsufficientBalance, Message: "treasury balance too low"}
		}
		run.treasury[coin] -= amount
		recipient := decodeAddress(c.Args[2])
		if run.balances[recipient] == nil {
			run.balances[recipient] = make(map[ledger.TypeTag]uint64)
		}
		run.balances[recipient][coin] += amount
		run.applied = append(run.applied, "spend_treasury")

	case "stage_intent_spec":
		var target ledger.ObjectID
		var outcome uint64
		if sh, ok := c.Args[0].(ledger.SharedArg); ok {
			target = sh.Ref.ID
		}
		switch c.Target.Module {
		case "raise":
			outcome = uint64(decodeU8(c.Args[2]))
		default:
			outcome = decodeU64(c.Args[1])
		}
		key := fmt.Sprintf("%s/%d", target, outcome)
		if run.staged[key] {
			return &ledger.ExecError{Module: c.Target.Module, Code: ledger.CodeAlreadyStaged, Message: "outcome already staged"}
		}
		run.staged[key] = true

	case "begin_execution":
		sh := c.Args[0].(ledger.SharedArg)
		obj := run.objects[sh.Ref.ID]
		if obj == nil {
			return fmt.Errorf("unknown target %s", sh.Ref.ID)
		}
		if executed, _ := obj.Fields["executed"].(bool); executed {
			return &ledger.ExecError{Module: "execution", Code: ledger.CodeWrongState, Message: "already executed"}
		}

	case "finalize_execution":
		if run.finalized {
			return &ledger.ExecError{Module: "execution", Code: ledger.CodeWrongState, Message: "handle already consumed"}
		}
		sh := c.Args[1].(ledger.SharedArg)
		obj := run.objects[sh.Ref.ID]
		if obj == nil {
			return fmt.Errorf("unknown target %s", sh.Ref.ID)
		}
		want := decodeU64(c.Args[2])
		if want != uint64(len(run.applied)) {
			return &ledger.ExecError{Module: "execution", Code: ledger.CodeWrongState, Message: "applied count mismatch"}
		}
		obj.Fields["executed"] = true
		run.finalized = true

	case "force_reject_on_timeout":
		sh := c.Args[0].(ledger.SharedArg)
		obj := run.objects[sh.Ref.ID]
		if obj == nil {
			return fmt.Errorf("unknown target %s", sh.Ref.ID)
		}
		obj.Fields["winning_outcome"] = uint64(0)
		obj.Fields["executed"] = true
	}
	return nil
}

func drawSource(run *runState, sourceArg ledger.CallArg, coin ledger.TypeTag, amount *uint64) (uint64, error) {
	raw := sourceArg.(ledger.PureArg).Bytes
	switch raw[0] {
	case 0: // treasury
		if amount == nil {
			out := run.treasury[coin]
			run.treasury[coin] = 0
			return out, nil
		}
		if run.treasury[coin] < *amount {
			return 0, &ledger.ExecError{Module: "treasury_actions", Code: ledger.CodeInsufficientBalance, Message: "treasury balance too low"}
		}
		run.treasury[coin] -= *amount
		return *amount, nil
	case 1: // named result
		key := decodeString(ledger.PureArg{Bytes: raw[1:]})
		out, ok := run.outputs[key]
		if !ok || out.coin != coin {
			return 0, &ledger.ExecError{Module: "execution", Code: ledger.CodeWrongState, Message: "unknown result key " + key}
		}
		take := out.amount
		if amount != nil {
			if *amount > out.amount {
				return 0, &ledger.ExecError{Module: "execution", Code: ledger.CodeInsufficientBalance, Message: "result output too small"}
			}
			take = *amount
		}
		delete(run.outputs, key)
		return take, nil
	}
	return 0, fmt.Errorf("unknown coin source tag %d", raw[0])
}

func (f *Fake) snapshot() *runState {
	run := &runState{
		balances: make(map[ledger.Address]map[ledger.TypeTag]uint64, len(f.Balances)),
		treasury: make(map[ledger.TypeTag]uint64, len(f.Treasury)),
		objects:  make(map[ledger.ObjectID]*ledger.ObjectData, len(f.Objects)),
		staged:   make(map[string]bool, len(f.Staged)),
		outputs:  make(map[string]pendingCoin),
	}
	for addr, coins := range f.Balances {
		cp := make(map[ledger.TypeTag]uint64, len(coins))
		for c, v := range coins {
			cp[c] = v
		}
		run.balances[addr] = cp
	}
	for c, v := range f.Treasury {
		run.treasury[c] = v
	}
	for id, obj := range f.Objects {
		cp := *obj
		cp.Fields = make(map[string]any, len(obj.Fields))
		for k, v := range obj.Fields {
			cp.Fields[k] = v
		}
		run.objects[id] = &cp
	}
	for k, v := range f.Staged {
		run.staged[k] = v
	}
	return run
}

func (f *Fake) commit(run *runState) {
	f.Balances = run.balances
	f.Treasury = run.treasury
	f.Objects = run.objects
	f.Staged = run.staged
	f.AppliedOps = append(f.AppliedOps, run.applied)
}

func (f *Fake) abort(failed int, ee *ledger.ExecError) *ledger.UnitResult {
	f.units++
	return &ledger.UnitResult{
		Digest:     digestFor(f.units),
		Status:     ledger.UnitAborted,
		FailedCall: failed,
		Err:        ee,
	}
}

func (f *Fake) failErr() *ledger.ExecError {
	if f.FailErr != nil {
		return f.FailErr
	}
	return &ledger.ExecError{Module: "execution", Code: ledger.CodeInsufficientBalance, Message: "injected failure"}
}

func digestFor(n int) ledger.Digest {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	return ledger.Digest(sha256.Sum256(buf[:]))
}

func decodeU8(a ledger.CallArg) uint8 {
	return a.(ledger.PureArg).Bytes[0]
}

func decodeU64(a ledger.CallArg) uint64 {
	return binary.LittleEndian.Uint64(a.(ledger.PureArg).Bytes)
}

func decodeOptionU64(a ledger.CallArg) *uint64 {
	raw := a.(ledger.PureArg).Bytes
	if raw[0] == 0 {
		return nil
	}
	v := binary.LittleEndian.Uint64(raw[1:])
	return &v
}

func decodeAddress(a ledger.CallArg) ledger.Address {
	var out ledger.Address
	copy(out[:], a.(ledger.PureArg).Bytes)
	return out
}

func decodeString(a ledger.CallArg) string {
	raw := a.(ledger.PureArg).Bytes
	n, shift, i := uint64(0), 0, 0
	for {
		b := raw[i]
		n |= uint64(b&0x7f) << shift
		i++
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return string(raw[i : i+int(n)])
}
