// Package material generates the material population (C3): finished
// goods, semi-finished, and raw materials with acyclic bills of
// materials (BOMs).
package material

import (
	"fmt"
	"strconv"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
)

// Kind is the closed set of material kinds.
type Kind string

// Kinds, in BOM dependency order (raw materials have no components).
const (
	KindRaw          Kind = "Raw"
	KindSemiFinished Kind = "SemiFinished"
	KindFinished     Kind = "Finished"
)

// Component is one BOM line: a reference to a previously created
// material with a quantity and a position, per §4.4.
type Component struct {
	MaterialID id.ID
	Quantity   float64
	Position   int
}

// Material is one member of the closed material population.
type Material struct {
	ID         id.ID
	Code       string
	Kind       Kind
	Components []Component // only populated for Finished/SemiFinished
}

// GenerateOptions configures material population generation.
type GenerateOptions struct {
	RawCount          int
	SemiFinishedCount int
	FinishedCount     int
	BOMRate           float64 // probability a finished/semi material gets a BOM
	MaxComponents     int
}

// DefaultGenerateOptions returns a small representative population.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		RawCount: 20, SemiFinishedCount: 10, FinishedCount: 15,
		BOMRate: 0.8, MaxComponents: 4,
	}
}

// Generate builds materials in dependency order (raw, then
// semi-finished referencing only raw, then finished referencing raw and
// semi-finished), guaranteeing BOM acyclicity by construction: every
// component reference points at a material already created, per §4.4.
func Generate(source *rng.Source, opts GenerateOptions) []Material {
	var all []Material
	var available []Material // components may reference any prior material

	for i := 0; i < opts.RawCount; i++ {
		m := Material{ID: id.NewMaterialID(), Code: "RAW-" + strconv.Itoa(i+1), Kind: KindRaw}
		all = append(all, m)
		available = append(available, m)
	}
	for i := 0; i < opts.SemiFinishedCount; i++ {
		m := Material{ID: id.NewMaterialID(), Code: "SEMI-" + strconv.Itoa(i+1), Kind: KindSemiFinished}
		if source.GenBool(opts.BOMRate) && len(available) > 0 {
			m.Components = buildBOM(source, available, opts.MaxComponents)
		}
		all = append(all, m)
		available = append(available, m)
	}
	for i := 0; i < opts.FinishedCount; i++ {
		m := Material{ID: id.NewMaterialID(), Code: "FIN-" + strconv.Itoa(i+1), Kind: KindFinished}
		if source.GenBool(opts.BOMRate) && len(available) > 0 {
			m.Components = buildBOM(source, available, opts.MaxComponents)
		}
		all = append(all, m)
		available = append(available, m)
	}
	return all
}

func buildBOM(source *rng.Source, available []Material, maxComponents int) []Component {
	n := 1 + source.Choose(maxComponents)
	if n > len(available) {
		n = len(available)
	}
	perm := make([]int, len(available))
	for i := range perm {
		perm[i] = i
	}
	source.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	components := make([]Component, n)
	for i := 0; i < n; i++ {
		components[i] = Component{
			MaterialID: available[perm[i]].ID,
			Quantity:   1 + source.NextFloat64()*9,
			Position:   i + 1,
		}
	}
	return components
}

// ValidateAcyclic confirms the material population's BOMs form a DAG —
// a defensive check on the generator's by-construction guarantee, since
// a future generator change could silently reintroduce a cycle.
func ValidateAcyclic(materials []Material) error {
	byID := make(map[id.ID]Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}
	visiting := make(map[id.ID]bool)
	visited := make(map[id.ID]bool)

	var visit func(id.ID) error
	visit = func(matID id.ID) error {
		if visited[matID] {
			return nil
		}
		if visiting[matID] {
			return fmt.Errorf("material: BOM cycle detected at %s", matID)
		}
		visiting[matID] = true
		for _, c := range byID[matID].Components {
			if err := visit(c.MaterialID); err != nil {
				return err
			}
		}
		visiting[matID] = false
		visited[matID] = true
		return nil
	}

	for _, m := range materials {
		if err := visit(m.ID); err != nil {
			return err
		}
	}
	return nil
}
