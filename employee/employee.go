// Package employee generates the employee population (C3): an org
// hierarchy rooted at an Executive with monotone approval limits, used
// by the ledger generator's segregation-of-duties checks (§4.3.4).
package employee

import (
	"fmt"
	"sort"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
)

// JobLevel is an ordinal rank; approval limits are strictly monotone in
// level, per spec §3.
type JobLevel int

// Job levels, lowest to highest.
const (
	LevelStaff JobLevel = iota
	LevelSupervisor
	LevelManager
	LevelDirector
	LevelExecutive
)

// defaultApprovalLimits gives each level a strictly increasing ceiling;
// callers may override via GenerateOptions.
var defaultApprovalLimits = map[JobLevel]int64{
	LevelStaff:      1_000,
	LevelSupervisor: 10_000,
	LevelManager:    50_000,
	LevelDirector:   250_000,
	LevelExecutive:  10_000_000,
}

// Employee is one member of the org hierarchy.
type Employee struct {
	ID                  id.ID
	Name                string
	Level               JobLevel
	ManagerID           id.ID // Nil for the root executive
	DirectReports       []id.ID
	ApprovalLimit       int64 // minor units of the company's base currency
	AuthorizedTxnCodes  map[string]bool
}

// CanAuthorize reports whether the employee holds the given transaction code.
func (e Employee) CanAuthorize(txnCode string) bool {
	return e.AuthorizedTxnCodes[txnCode]
}

// Pool is the closed, finalized employee population with a computed
// direct-reports index.
type Pool struct {
	byID    map[id.ID]Employee
	ordered []Employee
}

// ByID looks up an employee by ID.
func (p *Pool) ByID(i id.ID) (Employee, bool) { e, ok := p.byID[i]; return e, ok }

// All returns every employee in deterministic generation order.
func (p *Pool) All() []Employee { return p.ordered }

// ApproversAtOrAbove returns, in ascending approval-limit order, every
// employee whose limit covers amount and who is not excludeID — used by
// the ledger generator to route an entry to a qualifying approver.
func (p *Pool) ApproversAtOrAbove(amount int64, excludeID id.ID, txnCode string) []Employee {
	var out []Employee
	for _, e := range p.ordered {
		if e.ID == excludeID {
			continue
		}
		if e.ApprovalLimit < amount {
			continue
		}
		if txnCode != "" && !e.CanAuthorize(txnCode) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovalLimit < out[j].ApprovalLimit })
	return out
}

// GenerateOptions configures the hierarchy generator.
type GenerateOptions struct {
	DepartmentCount      int
	MembersPerDepartment int
	ApprovalLimits       map[JobLevel]int64
	TxnCodes             []string // pool of transaction codes distributed across employees
}

// DefaultGenerateOptions returns a small representative organization.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		DepartmentCount:      3,
		MembersPerDepartment: 5,
		ApprovalLimits:       defaultApprovalLimits,
		TxnCodes:             []string{"AP_POST", "AR_POST", "GL_ADJUST", "PAYROLL_POST", "IC_POST"},
	}
}

// Generate builds the org hierarchy: CEO at the root, CFO/COO as direct
// reports, one department head per department reporting to an
// executive, and remaining members reporting to their department head.
// direct_reports is computed as the inverse index over manager_id after
// the pool is finalized, per §4.4.
func Generate(source *rng.Source, opts GenerateOptions) *Pool {
	var all []Employee

	ceo := newEmployee(source, "Chief Executive Officer", LevelExecutive, id.Nil, opts)
	all = append(all, ceo)

	cfo := newEmployee(source, "Chief Financial Officer", LevelExecutive, ceo.ID, opts)
	coo := newEmployee(source, "Chief Operating Officer", LevelExecutive, ceo.ID, opts)
	all = append(all, cfo, coo)

	execs := []Employee{cfo, coo}
	for d := 0; d < opts.DepartmentCount; d++ {
		sponsor := execs[d%len(execs)]
		head := newEmployee(source, fmt.Sprintf("Department %d Head", d+1), LevelDirector, sponsor.ID, opts)
		all = append(all, head)
		for m := 0; m < opts.MembersPerDepartment; m++ {
			level := LevelStaff
			if m == 0 {
				level = LevelManager
			} else if source.GenBool(0.2) {
				level = LevelSupervisor
			}
			member := newEmployee(source, fmt.Sprintf("Dept %d Member %d", d+1, m+1), level, head.ID, opts)
			all = append(all, member)
		}
	}

	return finalize(all)
}

func newEmployee(source *rng.Source, name string, level JobLevel, managerID id.ID, opts GenerateOptions) Employee {
	limits := opts.ApprovalLimits
	if limits == nil {
		limits = defaultApprovalLimits
	}
	codes := make(map[string]bool)
	if len(opts.TxnCodes) > 0 {
		n := 1 + source.Choose(len(opts.TxnCodes))
		perm := make([]int, len(opts.TxnCodes))
		for i := range perm {
			perm[i] = i
		}
		source.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		for i := 0; i < n; i++ {
			codes[opts.TxnCodes[perm[i]]] = true
		}
	}
	return Employee{
		ID:                 id.NewEmployeeID(),
		Name:               name,
		Level:              level,
		ManagerID:          managerID,
		ApprovalLimit:      limits[level],
		AuthorizedTxnCodes: codes,
	}
}

// finalize computes the direct-reports inverse index over manager_id.
func finalize(all []Employee) *Pool {
	byID := make(map[id.ID]Employee, len(all))
	for _, e := range all {
		byID[e.ID] = e
	}
	for _, e := range all {
		if e.ManagerID.IsNil() {
			continue
		}
		if mgr, ok := byID[e.ManagerID]; ok {
			mgr.DirectReports = append(mgr.DirectReports, e.ID)
			byID[e.ManagerID] = mgr
		}
	}
	ordered := make([]Employee, len(all))
	for i, e := range all {
		ordered[i] = byID[e.ID]
	}
	return &Pool{byID: byID, ordered: ordered}
}
