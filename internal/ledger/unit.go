// internal/ledger/unit.go
package ledger

import "fmt"

// Call is one operation inside an atomic unit: a fully qualified
// target, its ordered type parameters, and its ordered value
// arguments.
type Call struct {
	Target   Target
	TypeArgs []TypeTag
	Args     []CallArg
}

// Result is a handle to the value(s) produced by a call appended to a
// Unit. It is only meaningful as an argument to a later call of the
// same unit.
type Result struct {
	index int
}

// Arg references the whole result.
func (r Result) Arg() CallArg { return ResultArg{Index: r.index, Nested: -1} }

// NestedArg references element i of a multi-value result.
func (r Result) NestedArg(i int) CallArg { return ResultArg{Index: r.index, Nested: i} }

// Index reports the call position the result came from.
func (r Result) Index() int { return r.index }

// Unit accumulates the ordered calls of one atomic submission. The
// ledger applies all calls of a unit or none of them; there is no
// observable intermediate state.
type Unit struct {
	sender Address
	calls  []Call
}

// NewUnit starts an empty unit paid for and signed by sender.
// Signing itself happens outside this package.
func NewUnit(sender Address) *Unit {
	return &Unit{sender: sender}
}

// Sender returns the unit's sender address.
func (u *Unit) Sender() Address { return u.sender }

// Append adds a call and returns a handle to its result. Calls apply
// in append order.
func (u *Unit) Append(c Call) Result {
	u.calls = append(u.calls, c)
	return Result{index: len(u.calls) - 1}
}

// Calls returns the ordered calls. The slice is a copy; the unit
// itself stays append-only.
func (u *Unit) Calls() []Call {
	out := make([]Call, len(u.calls))
	copy(out, u.calls)
	return out
}

// Len reports the number of appended calls.
func (u *Unit) Len() int { return len(u.calls) }

// Validate checks that every result reference points at an earlier
// call. A forward or self reference is a composition bug.
func (u *Unit) Validate() error {
	for i, c := range u.calls {
		for _, a := range c.Args {
			r, ok := a.(ResultArg)
			if !ok {
				continue
			}
			if r.Index < 0 || r.Index >= i {
				return fmt.Errorf("call %d (%s): result reference %d is not an earlier call", i, c.Target, r.Index)
			}
		}
	}
	return nil
}
