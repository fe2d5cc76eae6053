// internal/intent/actions_currency.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const moduleCurrency = "currency_actions"

// Mint creates Amount units of the DAO-governed coin. With SaveAs set
// the minted coin is recorded under that key for later operations in
// the same run; with SaveAs empty it is deposited straight into the
// treasury.
type Mint struct {
	CoinType ledger.TypeTag
	Amount   uint64
	SaveAs   string
}

func (Mint) Kind() Kind { return KindMint }

func (a Mint) validate() error {
	if a.CoinType == "" {
		return missing(KindMint, "CoinType")
	}
	if a.Amount == 0 {
		return invalid(KindMint, "Amount", "must be positive")
	}
	return nil
}

func (a Mint) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "mint",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			ledger.PureU64(a.Amount),
			ledger.PureString(a.SaveAs),
		},
		produces: producedKeys(a.SaveAs),
	}, nil
}

// Burn destroys Amount units drawn from Source.
type Burn struct {
	CoinType ledger.TypeTag
	Source   CoinSource
	Amount   uint64
}

func (Burn) Kind() Kind { return KindBurn }

func (a Burn) validate() error {
	if a.CoinType == "" {
		return missing(KindBurn, "CoinType")
	}
	if !a.Source.valid() {
		return missing(KindBurn, "Source")
	}
	if a.Amount == 0 {
		return invalid(KindBurn, "Amount", "must be positive")
	}
	return nil
}

func (a Burn) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "burn",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args: []ledger.CallArg{
			a.Source.arg(),
			ledger.PureU64(a.Amount),
		},
		consumes: consumedKeys(a.Source),
	}, nil
}

// DisableMinting permanently locks the coin's supply.
type DisableMinting struct {
	CoinType ledger.TypeTag
}

func (DisableMinting) Kind() Kind { return KindDisableMinting }

func (a DisableMinting) validate() error {
	if a.CoinType == "" {
		return missing(KindDisableMinting, "CoinType")
	}
	return nil
}

func (a DisableMinting) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "disable_minting",
		typeArgs: []ledger.TypeTag{a.CoinType},
	}, nil
}

// UpdateCoinName renames the coin in its on-ledger metadata.
type UpdateCoinName struct {
	CoinType ledger.TypeTag
	Name     string
}

func (UpdateCoinName) Kind() Kind { return KindUpdateCoinName }

func (a UpdateCoinName) validate() error {
	if a.CoinType == "" {
		return missing(KindUpdateCoinName, "CoinType")
	}
	if a.Name == "" {
		return missing(KindUpdateCoinName, "Name")
	}
	return nil
}

func (a UpdateCoinName) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "update_coin_name",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureString(a.Name)},
	}, nil
}

// UpdateCoinSymbol changes the coin's ticker symbol.
type UpdateCoinSymbol struct {
	CoinType ledger.TypeTag
	Symbol   string
}

func (UpdateCoinSymbol) Kind() Kind { return KindUpdateCoinSymbol }

func (a UpdateCoinSymbol) validate() error {
	if a.CoinType == "" {
		return missing(KindUpdateCoinSymbol, "CoinType")
	}
	if a.Symbol == "" {
		return missing(KindUpdateCoinSymbol, "Symbol")
	}
	return nil
}

func (a UpdateCoinSymbol) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "update_coin_symbol",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureString(a.Symbol)},
	}, nil
}

// UpdateCoinDescription replaces the coin's metadata description.
type UpdateCoinDescription struct {
	CoinType    ledger.TypeTag
	Description string
}

func (UpdateCoinDescription) Kind() Kind { return KindUpdateCoinDescription }

func (a UpdateCoinDescription) validate() error {
	if a.CoinType == "" {
		return missing(KindUpdateCoinDescription, "CoinType")
	}
	return nil
}

func (a UpdateCoinDescription) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "update_coin_description",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureString(a.Description)},
	}, nil
}

// UpdateCoinIconURL replaces the coin's icon URL.
type UpdateCoinIconURL struct {
	CoinType ledger.TypeTag
	IconURL  string
}

func (UpdateCoinIconURL) Kind() Kind { return KindUpdateCoinIconURL }

func (a UpdateCoinIconURL) validate() error {
	if a.CoinType == "" {
		return missing(KindUpdateCoinIconURL, "CoinType")
	}
	if a.IconURL == "" {
		return missing(KindUpdateCoinIconURL, "IconURL")
	}
	return nil
}

func (a UpdateCoinIconURL) call() (callSpec, error) {
	return callSpec{
		module:   moduleCurrency,
		name:     "update_coin_icon_url",
		typeArgs: []ledger.TypeTag{a.CoinType},
		args:     []ledger.CallArg{ledger.PureString(a.IconURL)},
	}, nil
}
