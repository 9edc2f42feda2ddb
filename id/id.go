// Package id defines TypeID-based identity types for every entity the
// engine produces.
//
// Every entity uses the same ID struct with a prefix that identifies the
// entity type. IDs are K-sortable (UUIDv7-based), globally unique, and
// URL-safe in the format "prefix_suffix". Reproducibility does not come
// from the ID value itself (TypeIDs embed wall-clock-ordered randomness)
// but from the deterministic generation order and the rng package's
// seeded streams; see rng.Source for the reproducible half of identity.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all engine entity types.
const (
	PrefixCompany       Prefix = "co"     // Company
	PrefixAccount       Prefix = "acct"   // Chart-of-accounts account
	PrefixCustomer      Prefix = "cust"   // Customer
	PrefixVendor        Prefix = "vend"   // Vendor
	PrefixEmployee      Prefix = "emp"    // Employee
	PrefixMaterial      Prefix = "mat"    // Material
	PrefixJournalEntry  Prefix = "je"     // Journal entry header
	PrefixJournalLine   Prefix = "jel"    // Journal entry line
	PrefixPR            Prefix = "pr"     // Purchase requisition
	PrefixPO            Prefix = "po"     // Purchase order
	PrefixGR            Prefix = "gr"     // Goods receipt
	PrefixIR            Prefix = "ir"     // Invoice receipt
	PrefixPayment       Prefix = "pay"    // Payment
	PrefixSO            Prefix = "so"     // Sales order
	PrefixDelivery      Prefix = "dlv"    // Delivery
	PrefixInvoice       Prefix = "inv"    // Customer invoice
	PrefixReceipt       Prefix = "rcpt"   // Cash receipt
	PrefixICPair        Prefix = "icp"    // Intercompany matched pair
	PrefixFXRate        Prefix = "fx"     // FX rate
	PrefixAnomaly       Prefix = "anom"   // Labeled anomaly
	PrefixCluster       Prefix = "clus"   // Anomaly cluster
	PrefixScenario      Prefix = "scn"    // Scenario
	PrefixRun           Prefix = "run"    // Pipeline run
	PrefixConfigPatch   Prefix = "patch"  // Auto-tune config patch
	PrefixCounterfactal Prefix = "cfpair" // Counterfactual pair
	PrefixTrialBalance  Prefix = "tb"     // Trial balance report
	PrefixElimination   Prefix = "elim"   // Consolidation elimination entry
)

// ID is the primary identifier type for all engine entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "acct_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Convenience constructors, one per entity type
// ──────────────────────────────────────────────────

func NewCompanyID() ID       { return New(PrefixCompany) }
func NewAccountID() ID       { return New(PrefixAccount) }
func NewCustomerID() ID      { return New(PrefixCustomer) }
func NewVendorID() ID        { return New(PrefixVendor) }
func NewEmployeeID() ID      { return New(PrefixEmployee) }
func NewMaterialID() ID      { return New(PrefixMaterial) }
func NewJournalEntryID() ID  { return New(PrefixJournalEntry) }
func NewJournalLineID() ID   { return New(PrefixJournalLine) }
func NewPRID() ID            { return New(PrefixPR) }
func NewPOID() ID            { return New(PrefixPO) }
func NewGRID() ID            { return New(PrefixGR) }
func NewIRID() ID            { return New(PrefixIR) }
func NewPaymentID() ID       { return New(PrefixPayment) }
func NewSOID() ID            { return New(PrefixSO) }
func NewDeliveryID() ID      { return New(PrefixDelivery) }
func NewInvoiceID() ID       { return New(PrefixInvoice) }
func NewReceiptID() ID       { return New(PrefixReceipt) }
func NewICPairID() ID        { return New(PrefixICPair) }
func NewFXRateID() ID        { return New(PrefixFXRate) }
func NewAnomalyID() ID       { return New(PrefixAnomaly) }
func NewClusterID() ID       { return New(PrefixCluster) }
func NewScenarioID() ID      { return New(PrefixScenario) }
func NewRunID() ID           { return New(PrefixRun) }
func NewConfigPatchID() ID   { return New(PrefixConfigPatch) }
func NewCounterfactualID() ID { return New(PrefixCounterfactal) }
func NewTrialBalanceID() ID  { return New(PrefixTrialBalance) }
func NewEliminationID() ID   { return New(PrefixElimination) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil
			return nil
		}
		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil
			return nil
		}
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
