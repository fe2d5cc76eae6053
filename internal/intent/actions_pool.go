// internal/intent/actions_pool.go
package intent

import "github.com/agoradao/agora-go/internal/ledger"

const modulePool = "pool_actions"

// MaxFeeBps caps pool fees at 10%.
const MaxFeeBps = 1000

// CreatePool seeds a new asset/stable constant-product pool.
type CreatePool struct {
	AssetType    ledger.TypeTag
	StableType   ledger.TypeTag
	AssetSource  CoinSource
	StableSource CoinSource
	AssetAmount  uint64
	StableAmount uint64
	FeeBps       uint16
}

func (CreatePool) Kind() Kind { return KindCreatePool }

func (a CreatePool) validate() error {
	switch {
	case a.AssetType == "":
		return missing(KindCreatePool, "AssetType")
	case a.StableType == "":
		return missing(KindCreatePool, "StableType")
	case !a.AssetSource.valid():
		return missing(KindCreatePool, "AssetSource")
	case !a.StableSource.valid():
		return missing(KindCreatePool, "StableSource")
	case a.AssetAmount == 0:
		return invalid(KindCreatePool, "AssetAmount", "must be positive")
	case a.StableAmount == 0:
		return invalid(KindCreatePool, "StableAmount", "must be positive")
	case a.FeeBps > MaxFeeBps:
		return invalid(KindCreatePool, "FeeBps", "exceeds maximum")
	}
	return nil
}

func (a CreatePool) call() (callSpec, error) {
	return callSpec{
		module:   modulePool,
		name:     "create_pool",
		typeArgs: []ledger.TypeTag{a.AssetType, a.StableType},
		args: []ledger.CallArg{
			a.AssetSource.arg(),
			ledger.PureU64(a.AssetAmount),
			a.StableSource.arg(),
			ledger.PureU64(a.StableAmount),
			ledger.PureU16(a.FeeBps),
		},
		consumes: consumedKeys(a.AssetSource, a.StableSource),
	}, nil
}

// AddLiquidity deposits both sides into an existing pool. MinLPOut
// bounds slippage; the apply step aborts below it.
type AddLiquidity struct {
	PoolID       ledger.ObjectID
	AssetType    ledger.TypeTag
	StableType   ledger.TypeTag
	AssetSource  CoinSource
	StableSource CoinSource
	AssetAmount  uint64
	StableAmount uint64
	MinLPOut     uint64
	SaveAs       string
}

func (AddLiquidity) Kind() Kind { return KindAddLiquidity }

func (a AddLiquidity) validate() error {
	switch {
	case a.PoolID == zeroObjectID:
		return missing(KindAddLiquidity, "PoolID")
	case a.AssetType == "":
		return missing(KindAddLiquidity, "AssetType")
	case a.StableType == "":
		return missing(KindAddLiquidity, "StableType")
	case !a.AssetSource.valid():
		return missing(KindAddLiquidity, "AssetSource")
	case !a.StableSource.valid():
		return missing(KindAddLiquidity, "StableSource")
	case a.AssetAmount == 0:
		return invalid(KindAddLiquidity, "AssetAmount", "must be positive")
	case a.StableAmount == 0:
		return invalid(KindAddLiquidity, "StableAmount", "must be positive")
	}
	return nil
}

func (a AddLiquidity) call() (callSpec, error) {
	return callSpec{
		module:   modulePool,
		name:     "add_liquidity",
		typeArgs: []ledger.TypeTag{a.AssetType, a.StableType},
		args: []ledger.CallArg{
			ledger.PureObjectID(a.PoolID),
			a.AssetSource.arg(),
			ledger.PureU64(a.AssetAmount),
			a.StableSource.arg(),
			ledger.PureU64(a.StableAmount),
			ledger.PureU64(a.MinLPOut),
			ledger.PureString(a.SaveAs),
		},
		produces: producedKeys(a.SaveAs),
		consumes: consumedKeys(a.AssetSource, a.StableSource),
	}, nil
}

// RemoveLiquidity burns LP tokens drawn from LPSource and records the
// two outputs under the save keys.
type RemoveLiquidity struct {
	PoolID       ledger.ObjectID
	AssetType    ledger.TypeTag
	StableType   ledger.TypeTag
	LPSource     CoinSource
	MinAssetOut  uint64
	MinStableOut uint64
	SaveAsAsset  string
	SaveAsStable string
}

func (RemoveLiquidity) Kind() Kind { return KindRemoveLiquidity }

func (a RemoveLiquidity) validate() error {
	switch {
	case a.PoolID == zeroObjectID:
		return missing(KindRemoveLiquidity, "PoolID")
	case a.AssetType == "":
		return missing(KindRemoveLiquidity, "AssetType")
	case a.StableType == "":
		return missing(KindRemoveLiquidity, "StableType")
	case !a.LPSource.valid():
		return missing(KindRemoveLiquidity, "LPSource")
	}
	return nil
}

func (a RemoveLiquidity) call() (callSpec, error) {
	return callSpec{
		module:   modulePool,
		name:     "remove_liquidity",
		typeArgs: []ledger.TypeTag{a.AssetType, a.StableType},
		args: []ledger.CallArg{
			ledger.PureObjectID(a.PoolID),
			a.LPSource.arg(),
			ledger.PureU64(a.MinAssetOut),
			ledger.PureU64(a.MinStableOut),
			ledger.PureString(a.SaveAsAsset),
			ledger.PureString(a.SaveAsStable),
		},
		produces: producedKeys(a.SaveAsAsset, a.SaveAsStable),
		consumes: consumedKeys(a.LPSource),
	}, nil
}

// UpdatePoolFee changes the pool's swap fee.
type UpdatePoolFee struct {
	PoolID ledger.ObjectID
	FeeBps uint16
}

func (UpdatePoolFee) Kind() Kind { return KindUpdatePoolFee }

func (a UpdatePoolFee) validate() error {
	if a.PoolID == zeroObjectID {
		return missing(KindUpdatePoolFee, "PoolID")
	}
	if a.FeeBps > MaxFeeBps {
		return invalid(KindUpdatePoolFee, "FeeBps", "exceeds maximum")
	}
	return nil
}

func (a UpdatePoolFee) call() (callSpec, error) {
	return callSpec{
		module: modulePool,
		name:   "update_pool_fee",
		args: []ledger.CallArg{
			ledger.PureObjectID(a.PoolID),
			ledger.PureU16(a.FeeBps),
		},
	}, nil
}

// CollectPoolFees sweeps accrued protocol fees into the run under the
// save keys.
type CollectPoolFees struct {
	PoolID       ledger.ObjectID
	AssetType    ledger.TypeTag
	StableType   ledger.TypeTag
	SaveAsAsset  string
	SaveAsStable string
}

func (CollectPoolFees) Kind() Kind { return KindCollectPoolFees }

func (a CollectPoolFees) validate() error {
	switch {
	case a.PoolID == zeroObjectID:
		return missing(KindCollectPoolFees, "PoolID")
	case a.AssetType == "":
		return missing(KindCollectPoolFees, "AssetType")
	case a.StableType == "":
		return missing(KindCollectPoolFees, "StableType")
	}
	return nil
}

func (a CollectPoolFees) call() (callSpec, error) {
	return callSpec{
		module:   modulePool,
		name:     "collect_pool_fees",
		typeArgs: []ledger.TypeTag{a.AssetType, a.StableType},
		args: []ledger.CallArg{
			ledger.PureObjectID(a.PoolID),
			ledger.PureString(a.SaveAsAsset),
			ledger.PureString(a.SaveAsStable),
		},
		produces: producedKeys(a.SaveAsAsset, a.SaveAsStable),
	}, nil
}
