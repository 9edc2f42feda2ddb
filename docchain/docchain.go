// Package docchain implements the document-chain state machine (§4.3.2):
// PR→PO→GR→IR→Payment for procure-to-pay, SO→Delivery→Invoice→Receipt
// for order-to-cash, both driven by the same status machine.
package docchain

import (
	"fmt"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/types"
)

// Status is the closed document-chain lifecycle state.
type Status string

// Statuses, per §4.3.2.
const (
	StatusDraft              Status = "Draft"
	StatusSubmitted          Status = "Submitted"
	StatusApproved           Status = "Approved"
	StatusReleased           Status = "Released"
	StatusPartiallyProcessed Status = "PartiallyProcessed"
	StatusCompleted          Status = "Completed"
	StatusRejected           Status = "Rejected"
	StatusCancelled          Status = "Cancelled"
)

// validTransitions enumerates the state machine's edges.
var validTransitions = map[Status][]Status{
	StatusDraft:              {StatusSubmitted, StatusRejected, StatusCancelled},
	StatusSubmitted:          {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:           {StatusReleased, StatusRejected, StatusCancelled},
	StatusReleased:           {StatusPartiallyProcessed, StatusCompleted},
	StatusPartiallyProcessed: {StatusCompleted},
	StatusCompleted:          {},
	StatusRejected:           {},
	StatusCancelled:          {},
}

// CanTransition reports whether from→to is a legal state-machine edge.
func CanTransition(from, to Status) bool {
	for _, candidate := range validTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// DocType is the closed set of document-chain entity kinds.
type DocType string

// Document types.
const (
	DocPR       DocType = "PR"
	DocPO       DocType = "PO"
	DocGR       DocType = "GR"
	DocIR       DocType = "IR"
	DocPayment  DocType = "Payment"
	DocSO       DocType = "SO"
	DocDelivery DocType = "Delivery"
	DocInvoice  DocType = "Invoice"
	DocReceipt  DocType = "Receipt"
)

// LineItem is one line of a document-chain entity.
type LineItem struct {
	LineNo          int
	MaterialID      id.ID
	Quantity        float64
	UnitPrice       types.Money
	PurchaseOrderID id.ID // set once a PR item converts to a PO
}

// Document is one node in a document chain: PR, PO, GR, IR, Payment, SO,
// Delivery, Invoice, or Receipt.
type Document struct {
	ID            id.ID
	Type          DocType
	Company       string
	Status        Status
	PredecessorID id.ID // lookup relation, never ownership
	Lines         []LineItem
	NetTotal      types.Money
	TaxTotal      types.Money
	GrossTotal    types.Money
}

// Transition moves the document to a new status, enforcing the state
// machine and recalculating totals from lines per §4.3.2's "Totals
// invariant."
func (d *Document) Transition(to Status) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("docchain: illegal transition %s -> %s for %s", d.Status, to, d.ID)
	}
	d.Status = to
	d.recalculateTotals()
	return nil
}

func (d *Document) recalculateTotals() {
	net := types.Zero(d.NetTotal.Currency)
	for _, l := range d.Lines {
		net = net.Add(l.UnitPrice.MultiplyInt(int64(l.Quantity)))
	}
	d.NetTotal = net
	d.GrossTotal = net.Add(d.TaxTotal)
}

// IsFullyDisposed reports whether every line of a PR is converted, rejected,
// or closed — the completion predicate from §4.3.2's "Completion rule."
func (d *Document) IsFullyDisposed(convertedLineNos map[int]bool) bool {
	for _, l := range d.Lines {
		if !convertedLineNos[l.LineNo] {
			return false
		}
	}
	return true
}

// Chain is the full lifecycle instance for one P2P or O2C flow rooted
// at a requisition/order document.
type Chain struct {
	Documents []*Document
}

// AdvanceWithCompletionRate drives a single-document state machine
// forward to Completed with probability completionRate, otherwise
// stopping at a realistic intermediate state — modeling "open items"
// per §4.3.2.
func AdvanceWithCompletionRate(source *rng.Source, d *Document, completionRate float64) error {
	path := []Status{StatusSubmitted, StatusApproved, StatusReleased, StatusCompleted}
	if !source.GenBool(completionRate) {
		// Stop at a random intermediate point short of Completed.
		stopAt := 1 + source.Choose(len(path)-1)
		path = path[:stopAt]
	}
	for _, next := range path {
		if err := d.Transition(next); err != nil {
			return err
		}
	}
	return nil
}
