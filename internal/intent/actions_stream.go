// internal/intent/actions_stream.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const moduleStream = "stream_actions"

// CreateStream opens a vesting/payment stream funded from the given
// source. CliffMs is optional; a present zero cliff is distinct from
// no cliff.
type CreateStream struct {
	CoinType        ledger.TypeTag
	Recipient       ledger.Address
	TotalAmount     uint64
	AmountPerPeriod uint64
	PeriodMs        uint64
	StartMs         uint64
	CliffMs         *uint64
	Source          CoinSource
}

func (CreateStream) Kind() Kind { return KindCreateStream }

func (a CreateStream) validate() error {
	switch {
	case a.CoinType == "":
		return missing(KindCreateStream, "CoinType")
	case a.Recipient == zeroAddress:
		return missing(KindCreateStream, "Recipient")
	case a.TotalAmount == 0:
		return invalid(KindCreateStream, "TotalAmount", "must be positive")
	case a.AmountPerPeriod == 0:
		return invalid(KindCreateStream, "AmountPerPeriod", "must be positive")
	case a.PeriodMs == 0:
		return invalid(KindCreateStream, "PeriodMs", "must be positive")
	case !a.Source.valid():
		return missing(KindCreateStream, "Source")
	}
	return nil
}

func (a CreateStream) call() (callSpec, error) {
	return callSpec{
		module:   moduleStream,
		name:     "create_stream",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureAddress(a.Recipient),
			ledger.PureU64(a.TotalAmount),
			ledger.PureU64(a.AmountPerPeriod),
			ledger.PureU64(a.PeriodMs),
			ledger.PureU64(a.StartMs),
			ledger.PureOptionU64(a.CliffMs),
			a.Source.arg(),
		},
		consumes: consumedKeys(a.Source),
	}, nil
}

// CancelStream cancels a stream; the unvested remainder returns to
// the treasury.
type CancelStream struct {
	StreamID ledger.ObjectID
	CoinType ledger.TypeTag
}

func (CancelStream) Kind() Kind { return KindCancelStream }

func (a CancelStream) validate() error {
	if a.StreamID == zeroObjectID {
		return missing(KindCancelStream, "StreamID")
	}
	if a.CoinType == "" {
		return missing(KindCancelStream, "CoinType")
	}
	return nil
}

func (a CancelStream) call() (callSpec, error) {
	return callSpec{
		module:   moduleStream,
		name:     "cancel_stream",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureObjectID(a.StreamID)},
	}, nil
}

// WithdrawStream withdraws vested funds. Amount nil withdraws
// everything vested. SaveAs records the withdrawn coin for later
// operations in the same run.
type WithdrawStream struct {
	StreamID ledger.ObjectID
	CoinType ledger.TypeTag
	Amount   *uint64
	SaveAs   string
}

func (WithdrawStream) Kind() Kind { return KindWithdrawStream }

func (a WithdrawStream) validate() error {
	if a.StreamID == zeroObjectID {
		return missing(KindWithdrawStream, "StreamID")
	}
	if a.CoinType == "" {
		return missing(KindWithdrawStream, "CoinType")
	}
	return nil
}

func (a WithdrawStream) call() (callSpec, error) {
	return callSpec{
		module:   moduleStream,
		name:     "withdraw_stream",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureObjectID(a.StreamID),
			ledger.PureOptionU64(a.Amount),
			ledger.PureString(a.SaveAs),
		},
		produces: producedKeys(a.SaveAs),
	}, nil
}

// UpdateStreamRecipient redirects future withdrawals.
type UpdateStreamRecipient struct {
	StreamID     ledger.ObjectID
	NewRecipient ledger.Address
}

func (UpdateStreamRecipient) Kind() Kind { return KindUpdateStreamRecipient }

func (a UpdateStreamRecipient) validate() error {
	if a.StreamID == zeroObjectID {
		return missing(KindUpdateStreamRecipient, "StreamID")
	}
	if a.NewRecipient == zeroAddress {
		return missing(KindUpdateStreamRecipient, "NewRecipient")
	}
	return nil
}

func (a UpdateStreamRecipient) call() (callSpec, error) {
	return callSpec{
		module: moduleStream,
		name:   "update_stream_recipient",
		args: []ledger.CallArg{
			ledger.PureObjectID(a.StreamID),
			ledger.PureAddress(a.NewRecipient),
		},
	}, nil
}

// PauseStream suspends vesting accrual.
type PauseStream struct {
	StreamID ledger.ObjectID
}

func (PauseStream) Kind() Kind { return KindPauseStream }

func (a PauseStream) validate() error {
	if a.StreamID == zeroObjectID {
		return missing(KindPauseStream, "StreamID")
	}
	return nil
}

func (a PauseStream) call() (callSpec, error) {
	return callSpec{
		module: moduleStream,
		name:   "pause_stream",
		args:   []ledger.CallArg{ledger.PureObjectID(a.StreamID)},
	}, nil
}

// ResumeStream resumes a paused stream.
type ResumeStream struct {
	StreamID ledger.ObjectID
}

func (ResumeStream) Kind() Kind { return KindResumeStream }

func (a ResumeStream) validate() error {
	if a.StreamID == zeroObjectID {
		return missing(KindResumeStream, "StreamID")
	}
	return nil
}

func (a ResumeStream) call() (callSpec, error) {
	return callSpec{
		module: moduleStream,
		name:   "resume_stream",
		args:   []ledger.CallArg{ledger.PureObjectID(a.StreamID)},
	}, nil
}

func producedKeys(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func consumedKeys(sources ...CoinSource) []string {
	var out []string
	for _, s := range sources {
		if k := s.resultKey(); k != "" {
			out = append(out, k)
		}
	}
	return out
}
