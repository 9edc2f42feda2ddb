// Package customer generates the customer population (C3): weighted
// persona selection, risk-tier derivation, and optional PEP marking.
package customer

import (
	"strconv"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
)

// Persona is the closed set of customer personas used for weighted
// selection, covering both banking-style and B2B-style populations.
type Persona string

// Personas.
const (
	PersonaRetail     Persona = "Retail"
	PersonaBusiness   Persona = "Business"
	PersonaTrust      Persona = "Trust"
	PersonaSmallBiz   Persona = "SmallBusiness"
	PersonaMidMarket  Persona = "MidMarket"
	PersonaEnterprise Persona = "Enterprise"
)

// RiskTier is the closed set of KYC risk tiers.
type RiskTier string

// Risk tiers.
const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// personaBaseRisk gives each persona a baseline risk tier before
// country-based elevation is applied.
var personaBaseRisk = map[Persona]RiskTier{
	PersonaRetail: RiskLow, PersonaBusiness: RiskMedium, PersonaTrust: RiskHigh,
	PersonaSmallBiz: RiskLow, PersonaMidMarket: RiskMedium, PersonaEnterprise: RiskMedium,
}

// highRiskCountries elevates risk tier by one step when the customer's
// country is in this configured set.
var highRiskCountries = map[string]bool{}

// Customer is one member of the closed customer population.
type Customer struct {
	ID       id.ID
	Name     string
	Persona  Persona
	Country  string
	RiskTier RiskTier
	IsPEP    bool
}

// DeriveRiskTier computes a customer's risk tier from persona and
// country, elevating by one step for configured high-risk countries.
func DeriveRiskTier(persona Persona, country string) RiskTier {
	base := personaBaseRisk[persona]
	if !highRiskCountries[country] {
		return base
	}
	switch base {
	case RiskLow:
		return RiskMedium
	case RiskMedium:
		return RiskHigh
	default:
		return RiskHigh
	}
}

// WeightedPersona pairs a persona with its selection weight.
type WeightedPersona struct {
	Persona Persona
	Weight  float64
}

// GenerateOptions configures customer population generation.
type GenerateOptions struct {
	Count          int
	PersonaWeights []WeightedPersona
	Countries      []string
	PEPRate        float64
}

// DefaultGenerateOptions returns a representative B2B-weighted default.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Count: 50,
		PersonaWeights: []WeightedPersona{
			{PersonaSmallBiz, 0.5}, {PersonaMidMarket, 0.35}, {PersonaEnterprise, 0.15},
		},
		Countries: []string{"US", "CA", "GB", "DE", "FR"},
		PEPRate:   0.01,
	}
}

// Generate builds a closed, deterministic customer population.
func Generate(source *rng.Source, opts GenerateOptions) []Customer {
	pairs := make([]rng.WeightedPair, len(opts.PersonaWeights))
	for i, wp := range opts.PersonaWeights {
		pairs[i] = rng.WeightedPair{Index: i, Weight: wp.Weight}
	}

	customers := make([]Customer, opts.Count)
	for i := 0; i < opts.Count; i++ {
		persona := opts.PersonaWeights[source.ChooseWeighted(pairs)].Persona
		country := opts.Countries[source.Choose(len(opts.Countries))]
		customers[i] = Customer{
			ID:       id.NewCustomerID(),
			Name:     "Customer " + strconv.Itoa(i+1),
			Persona:  persona,
			Country:  country,
			RiskTier: DeriveRiskTier(persona, country),
			IsPEP:    source.GenBool(opts.PEPRate),
		}
	}
	return customers
}
