package material

import (
	"testing"

	"github.com/synthledger/engine/rng"
)

func TestGenerateProducesAcyclicBOMs(t *testing.T) {
	source := rng.NewSource(1, rng.TagMasterData, 0)
	materials := Generate(source, DefaultGenerateOptions())

	if err := ValidateAcyclic(materials); err != nil {
		t.Fatalf("expected acyclic BOMs: %v", err)
	}
}

func TestRawMaterialsHaveNoComponents(t *testing.T) {
	source := rng.NewSource(2, rng.TagMasterData, 0)
	opts := DefaultGenerateOptions()
	materials := Generate(source, opts)

	for _, m := range materials[:opts.RawCount] {
		if m.Kind != KindRaw {
			t.Fatalf("expected first %d materials to be Raw", opts.RawCount)
		}
		if len(m.Components) != 0 {
			t.Errorf("raw material %s must not have components", m.Code)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(rng.NewSource(5, rng.TagMasterData, 0), DefaultGenerateOptions())
	b := Generate(rng.NewSource(5, rng.TagMasterData, 0), DefaultGenerateOptions())

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || len(a[i].Components) != len(b[i].Components) {
			t.Fatalf("non-deterministic generation at index %d", i)
		}
	}
}
