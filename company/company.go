// Package company models the Company entity (§3): legal entities with a
// base currency, fiscal calendar, and parent/subsidiary ownership links.
package company

import (
	"fmt"

	"github.com/synthledger/engine/id"
)

// FiscalCalendar defines the company's fiscal year structure.
type FiscalCalendar struct {
	StartMonth   int // 1-12; fiscal year start month, 1 = calendar year
	PeriodLength int // months per fiscal period, typically 1
}

// DefaultFiscalCalendar returns a calendar-year, monthly-period default.
func DefaultFiscalCalendar() FiscalCalendar {
	return FiscalCalendar{StartMonth: 1, PeriodLength: 1}
}

// FiscalYearAndPeriod derives the fiscal year and period number for a
// posting month, honoring a non-January fiscal start.
func (c FiscalCalendar) FiscalYearAndPeriod(calendarYear, calendarMonth int) (fiscalYear, fiscalPeriod int) {
	offset := calendarMonth - c.StartMonth
	if offset < 0 {
		offset += 12
		fiscalYear = calendarYear
	} else {
		fiscalYear = calendarYear
		if c.StartMonth != 1 {
			fiscalYear++
		}
	}
	fiscalPeriod = offset/c.PeriodLength + 1
	return fiscalYear, fiscalPeriod
}

// Ownership links a subsidiary to its parent with an ownership percentage.
type Ownership struct {
	ParentID   id.ID
	Percentage float64 // 0-100
}

// Company is a legal entity in the master data pool.
type Company struct {
	ID             id.ID
	Code           string
	Name           string
	BaseCurrency   string
	FiscalCalendar FiscalCalendar
	Ownership      *Ownership // nil for a standalone/root company
}

// New constructs a standalone Company with the given code/name/currency.
func New(code, name, baseCurrency string) Company {
	return Company{
		ID:             id.NewCompanyID(),
		Code:           code,
		Name:           name,
		BaseCurrency:   baseCurrency,
		FiscalCalendar: DefaultFiscalCalendar(),
	}
}

// WithSubsidiary returns a copy of c owned by parent at the given
// percentage, used to build ownership trees for intercompany scenarios.
func (c Company) WithSubsidiary(parentID id.ID, percentage float64) Company {
	c.Ownership = &Ownership{ParentID: parentID, Percentage: percentage}
	return c
}

// Pool is the closed population of companies for a run.
type Pool struct {
	byID   map[id.ID]Company
	byCode map[string]Company
	ordered []Company
}

// NewPool builds a lookup pool from a slice of companies.
func NewPool(companies []Company) *Pool {
	p := &Pool{
		byID:   make(map[id.ID]Company, len(companies)),
		byCode: make(map[string]Company, len(companies)),
		ordered: companies,
	}
	for _, c := range companies {
		p.byID[c.ID] = c
		p.byCode[c.Code] = c
	}
	return p
}

// ByID looks up a company by ID.
func (p *Pool) ByID(i id.ID) (Company, bool) { c, ok := p.byID[i]; return c, ok }

// ByCode looks up a company by code.
func (p *Pool) ByCode(code string) (Company, bool) { c, ok := p.byCode[code]; return c, ok }

// All returns every company in deterministic (insertion) order.
func (p *Pool) All() []Company { return p.ordered }

// Validate checks that every ownership link references a company that
// exists in the pool, failing fast rather than letting a dangling
// reference surface later as a generation-time panic.
func (p *Pool) Validate() error {
	for _, c := range p.ordered {
		if c.Ownership == nil {
			continue
		}
		if _, ok := p.byID[c.Ownership.ParentID]; !ok {
			return fmt.Errorf("company: %s references unknown parent %s", c.Code, c.Ownership.ParentID)
		}
	}
	return nil
}
