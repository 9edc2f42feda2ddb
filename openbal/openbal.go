// Package openbal implements opening-balance derivation (§4.3.6): from
// an OpeningBalanceSpec, allocate per-account balances such that the
// balance-sheet equation holds and activity-ratio targets are met.
package openbal

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/types"
)

// TargetRatios are the activity-ratio targets the allocation must meet.
type TargetRatios struct {
	DSO           float64 // Days Sales Outstanding
	DPO           float64 // Days Payable Outstanding
	DIO           float64 // Days Inventory Outstanding
	CurrentRatio  float64 // current assets / current liabilities, minimum
}

// CapitalStructure splits total capital between liabilities and equity.
type CapitalStructure struct {
	LiabilityRatio float64 // 0-1; equity ratio is the complement
}

// AssetComposition splits total assets among major asset classes.
type AssetComposition struct {
	CashRatio       float64
	ReceivableRatio float64
	InventoryRatio  float64
	FixedRatio      float64 // remainder if the others don't sum to 1
}

// Spec is the OpeningBalanceSpec of §4.3.6.
type Spec struct {
	Industry         string
	TotalAssets      types.Money
	CapitalStructure CapitalStructure
	TargetRatios     TargetRatios
	AssetComposition AssetComposition
	AnnualRevenue    types.Money // implied revenue plan, used to derive AR from DSO
	AnnualCOGS       types.Money // implied COGS plan, used to derive AP/Inventory
}

// Balances is the allocation result: a balance per account code.
type Balances struct {
	ByAccountCode map[string]types.Money
}

// Allocate derives per-account opening balances from spec. Returns
// ErrInfeasible if no allocation satisfying the balance-sheet equation
// and current-ratio target exists, per §4.3.6's "surfaces a
// configuration error (not silently adjusting)."
func Allocate(spec Spec) (Balances, error) {
	if spec.TotalAssets.IsZero() || spec.TotalAssets.IsNegative() {
		return Balances{}, fmt.Errorf("openbal: %w: total assets must be positive", ErrInfeasible)
	}

	composition := spec.AssetComposition
	fixedRatio := 1.0 - composition.CashRatio - composition.ReceivableRatio - composition.InventoryRatio
	if fixedRatio < 0 {
		return Balances{}, fmt.Errorf("openbal: %w: asset composition exceeds 100%%", ErrInfeasible)
	}

	cash := spec.TotalAssets.Multiply(decimal.NewFromFloat(composition.CashRatio))
	receivable := deriveFromDays(spec.AnnualRevenue, spec.TargetRatios.DSO, spec.TotalAssets, composition.ReceivableRatio)
	inventory := deriveFromDays(spec.AnnualCOGS, spec.TargetRatios.DIO, spec.TotalAssets, composition.InventoryRatio)
	fixed := spec.TotalAssets.Multiply(decimal.NewFromFloat(fixedRatio))

	// Fold rounding remainder into fixed assets so assets sum exactly.
	allocated := cash.Add(receivable).Add(inventory)
	fixed = spec.TotalAssets.Subtract(allocated)
	if fixed.IsNegative() {
		return Balances{}, fmt.Errorf("openbal: %w: DSO/DIO-derived balances exceed total assets", ErrInfeasible)
	}

	liabilities := spec.TotalAssets.Multiply(decimal.NewFromFloat(spec.CapitalStructure.LiabilityRatio))
	equity := spec.TotalAssets.Subtract(liabilities)

	payable := deriveFromDays(spec.AnnualCOGS, spec.TargetRatios.DPO, liabilities, 1.0)
	if payable.GreaterThan(liabilities) {
		payable = liabilities
	}
	otherLiabilities := liabilities.Subtract(payable)

	currentAssets := cash.Add(receivable).Add(inventory)
	currentLiabilities := payable
	if !currentLiabilities.IsZero() {
		ratio := currentAssets.Amount.Div(currentLiabilities.Amount)
		minRatio := decimal.NewFromFloat(spec.TargetRatios.CurrentRatio)
		if ratio.LessThan(minRatio) {
			return Balances{}, fmt.Errorf("openbal: %w: current ratio %s below target %s", ErrInfeasible, ratio, minRatio)
		}
	}

	result := Balances{ByAccountCode: map[string]types.Money{
		"1000": cash,
		"1100": receivable,
		"1200": inventory,
		"1500": fixed,
		"2000": payable,
		"2300": otherLiabilities,
		"3000": equity,
	}}

	if err := verifyBalanceSheetEquation(result, spec.TotalAssets); err != nil {
		return Balances{}, err
	}

	return result, nil
}

func deriveFromDays(flowAmount types.Money, days float64, fallbackBase types.Money, fallbackRatio float64) types.Money {
	if flowAmount.IsZero() || days <= 0 {
		return fallbackBase.Multiply(decimal.NewFromFloat(fallbackRatio))
	}
	// balance = flow_amount / 365 * days
	return flowAmount.Multiply(decimal.NewFromFloat(days / 365.0))
}

func verifyBalanceSheetEquation(b Balances, totalAssets types.Money) error {
	assets := b.ByAccountCode["1000"].Add(b.ByAccountCode["1100"]).Add(b.ByAccountCode["1200"]).Add(b.ByAccountCode["1500"])
	liabPlusEquity := b.ByAccountCode["2000"].Add(b.ByAccountCode["2300"]).Add(b.ByAccountCode["3000"])

	tolerance := types.FromMinor(1, totalAssets.Currency)
	if !assets.WithinTolerance(liabPlusEquity, tolerance) {
		return fmt.Errorf("openbal: %w: assets %s != liabilities+equity %s", ErrInfeasible, assets, liabPlusEquity)
	}
	return nil
}
