// Package anomaly implements the anomaly injector (C5, §4.5): taxonomy,
// selection loop, strategies, cluster manager, provenance, and
// counterfactual pairs.
package anomaly

// Category is one of the five top-level anomaly categories (§4.5.1).
type Category string

// Categories.
const (
	CategoryFraud       Category = "Fraud"
	CategoryError       Category = "Error"
	CategoryProcess     Category = "Process"
	CategoryStatistical Category = "Statistical"
	CategoryRelational  Category = "Relational"
)

// Subtype is the closed set of named anomaly subtypes within a category.
type Subtype string

// Fraud subtypes.
const (
	SubtypeJustBelowThreshold        Subtype = "JustBelowThreshold"
	SubtypeExceededApprovalLimit     Subtype = "ExceededApprovalLimit"
	SubtypeSelfApproval              Subtype = "SelfApproval"
	SubtypeSegregationOfDutiesViolation Subtype = "SegregationOfDutiesViolation"
	SubtypeGhostVendor               Subtype = "GhostVendor"
	SubtypeKickback                  Subtype = "Kickback"
)

// Error subtypes.
const (
	SubtypeDuplicatePosting Subtype = "DuplicatePosting"
	SubtypeWrongAccount     Subtype = "WrongAccount"
	SubtypeTransposedDigits Subtype = "TransposedDigits"
	SubtypeOffByPeriod      Subtype = "OffByPeriod"
)

// Process subtypes.
const (
	SubtypeLatePosting       Subtype = "LatePosting"
	SubtypeMissingApproval   Subtype = "MissingApproval"
	SubtypeVagueDescription  Subtype = "VagueDescription"
)

// Statistical subtypes.
const (
	SubtypeBenfordViolation Subtype = "BenfordViolation"
	SubtypeOutlierAmount    Subtype = "OutlierAmount"
	SubtypeRoundNumberBias  Subtype = "RoundNumberBias"
)

// Relational subtypes.
const (
	SubtypeOrphanedReference  Subtype = "OrphanedReference"
	SubtypeBrokenICMatch      Subtype = "BrokenICMatch"
)

// SubtypeInfo declares a subtype's default severity and whether it is
// intentional (Fraud ⇒ intentional), per §4.5.1.
type SubtypeInfo struct {
	Category      Category
	DefaultSeverity int // 1-5
	Intentional   bool
	Strategy      StrategyKind
}

// Taxonomy is the closed subtype registry.
var Taxonomy = map[Subtype]SubtypeInfo{
	SubtypeJustBelowThreshold:           {CategoryFraud, 4, true, StrategyApprovalAnomaly},
	SubtypeExceededApprovalLimit:        {CategoryFraud, 5, true, StrategyApprovalAnomaly},
	SubtypeSelfApproval:                 {CategoryFraud, 5, true, StrategyApprovalAnomaly},
	SubtypeSegregationOfDutiesViolation: {CategoryFraud, 4, true, StrategyApprovalAnomaly},
	SubtypeGhostVendor:                  {CategoryFraud, 5, true, StrategyDescriptionAnomaly},
	SubtypeKickback:                     {CategoryFraud, 4, true, StrategyAmountModification},

	SubtypeDuplicatePosting: {CategoryError, 2, false, StrategyDuplication},
	SubtypeWrongAccount:     {CategoryError, 2, false, StrategyDescriptionAnomaly},
	SubtypeTransposedDigits: {CategoryError, 2, false, StrategyAmountModification},
	SubtypeOffByPeriod:      {CategoryError, 2, false, StrategyDateModification},

	SubtypeLatePosting:      {CategoryProcess, 1, false, StrategyDateModification},
	SubtypeMissingApproval:  {CategoryProcess, 2, false, StrategyApprovalAnomaly},
	SubtypeVagueDescription: {CategoryProcess, 1, false, StrategyDescriptionAnomaly},

	SubtypeBenfordViolation: {CategoryStatistical, 2, false, StrategyBenfordViolation},
	SubtypeOutlierAmount:    {CategoryStatistical, 3, false, StrategyAmountModification},
	SubtypeRoundNumberBias:  {CategoryStatistical, 1, false, StrategyAmountModification},

	SubtypeOrphanedReference: {CategoryRelational, 3, false, StrategyDescriptionAnomaly},
	SubtypeBrokenICMatch:     {CategoryRelational, 3, false, StrategyAmountModification},
}

// SubtypesInCategory returns every subtype belonging to category, in a
// stable declaration order.
func SubtypesInCategory(cat Category) []Subtype {
	// Iterate a fixed list rather than the map to keep selection order
	// stable across Go versions (map iteration order is randomized).
	all := []Subtype{
		SubtypeJustBelowThreshold, SubtypeExceededApprovalLimit, SubtypeSelfApproval,
		SubtypeSegregationOfDutiesViolation, SubtypeGhostVendor, SubtypeKickback,
		SubtypeDuplicatePosting, SubtypeWrongAccount, SubtypeTransposedDigits, SubtypeOffByPeriod,
		SubtypeLatePosting, SubtypeMissingApproval, SubtypeVagueDescription,
		SubtypeBenfordViolation, SubtypeOutlierAmount, SubtypeRoundNumberBias,
		SubtypeOrphanedReference, SubtypeBrokenICMatch,
	}
	var out []Subtype
	for _, s := range all {
		if Taxonomy[s].Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// FraudCategory is the closed set of cluster-manager categories (§4.5.4),
// distinct from the top-level Category: clusters group by business-area
// of fraud, not by the anomaly taxonomy's Category.
type FraudCategory string

// Fraud categories, with their cluster time windows (days).
const (
	FraudCategoryAR      FraudCategory = "AR"
	FraudCategoryAP      FraudCategory = "AP"
	FraudCategoryPayroll FraudCategory = "Payroll"
	FraudCategoryExpense FraudCategory = "Expense"
	FraudCategoryRevenue FraudCategory = "Revenue"
	FraudCategoryAsset   FraudCategory = "Asset"
	FraudCategoryGeneral FraudCategory = "General"
)

// WindowRange is an inclusive [min, max] days range for a cluster category.
type WindowRange struct{ Min, Max int }

// fraudCategoryWindows are the per-category cluster windows of §4.5.4.
var fraudCategoryWindows = map[FraudCategory]WindowRange{
	FraudCategoryAR:      {30, 45},
	FraudCategoryAP:      {14, 30},
	FraudCategoryPayroll: {28, 35},
	FraudCategoryExpense: {7, 14},
	FraudCategoryRevenue: {85, 95},
	FraudCategoryAsset:   {30, 60},
	FraudCategoryGeneral: {5, 10},
}

// InferFraudCategory maps a business process to the cluster manager's
// fraud-category bucket. Unknown processes fall back to General.
func InferFraudCategory(businessProcess string) FraudCategory {
	switch businessProcess {
	case "AR":
		return FraudCategoryAR
	case "AP":
		return FraudCategoryAP
	case "Payroll":
		return FraudCategoryPayroll
	default:
		return FraudCategoryGeneral
	}
}
