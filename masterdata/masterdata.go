// Package masterdata is the C3 orchestrator: it runs the independent
// generators (accounts, companies, customers, vendors, employees,
// materials) under their own derived streams and assembles the closed,
// immutable pools consumed by the ledger generator (C4).
package masterdata

import (
	"fmt"

	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/customer"
	"github.com/synthledger/engine/employee"
	"github.com/synthledger/engine/material"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/vendor"
)

// Options configures master data generation. Each sub-generator's
// options are independent, per §4.4 ("Generators are independent and
// produce pools consumed by C4").
type Options struct {
	Companies       []company.Company
	Employee        employee.GenerateOptions
	Customer        customer.GenerateOptions
	Vendor          vendor.GenerateOptions
	Material        material.GenerateOptions
	ChartOfAccounts []account.Account // nil uses account.StandardChartOfAccounts()
}

// DefaultOptions returns a two-company representative master data
// configuration.
func DefaultOptions() Options {
	parent := company.New("US01", "Synth Parent Holdings", "usd")
	sub := company.New("DE01", "Synth Deutschland GmbH", "eur").WithSubsidiary(parent.ID, 100)
	return Options{
		Companies: []company.Company{parent, sub},
		Employee:  employee.DefaultGenerateOptions(),
		Customer:  customer.DefaultGenerateOptions(),
		Vendor:    vendor.DefaultGenerateOptions(),
		Material:  material.DefaultGenerateOptions(),
	}
}

// Pools is the complete, immutable master data set produced by C3.
// Once built, every field is shared by reference across subsequent
// stages; no stage mutates a Pools value, per §5's "Shared resources."
type Pools struct {
	Companies *company.Pool
	Accounts  *account.Pool
	Employees *employee.Pool
	Customers []customer.Customer
	Vendors   []vendor.Vendor
	Materials []material.Material
}

// Generate runs every C3 sub-generator under its own TagMasterData stream
// (sub_counters 1-4 for employees, customers, vendors and materials; each
// is independent and order among them is irrelevant to reproducibility
// since none reads another's stream).
func Generate(masterSeed uint64, opts Options) (*Pools, error) {
	companies := company.NewPool(opts.Companies)
	if err := companies.Validate(); err != nil {
		return nil, fmt.Errorf("masterdata: %w", err)
	}

	accounts := opts.ChartOfAccounts
	if accounts == nil {
		accounts = account.StandardChartOfAccounts()
	}

	employees := employee.Generate(rng.NewSource(masterSeed, rng.TagMasterData, 1), opts.Employee)
	customers := customer.Generate(rng.NewSource(masterSeed, rng.TagMasterData, 2), opts.Customer)
	vendors := vendor.Generate(rng.NewSource(masterSeed, rng.TagMasterData, 3), opts.Vendor)
	materials := material.Generate(rng.NewSource(masterSeed, rng.TagMasterData, 4), opts.Material)

	if err := material.ValidateAcyclic(materials); err != nil {
		return nil, fmt.Errorf("masterdata: %w", err)
	}

	return &Pools{
		Companies: companies,
		Accounts:  account.NewPool(accounts),
		Employees: employees,
		Customers: customers,
		Vendors:   vendors,
		Materials: materials,
	}, nil
}
