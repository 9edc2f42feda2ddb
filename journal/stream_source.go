package journal

import "github.com/synthledger/engine/rng"

// streamSource adapts an *rng.Source to golang.org/x/exp/rand's Source
// interface so gonum's distuv distributions draw from the engine's
// deterministic per-component stream instead of an unseeded global RNG.
type streamSource struct {
	source *rng.Source
}

func newStreamSource(source *rng.Source) *streamSource {
	return &streamSource{source: source}
}

// Uint64 satisfies golang.org/x/exp/rand.Source.
func (s *streamSource) Uint64() uint64 { return s.source.NextU64() }

// Seed is a required method of the Source interface; reseeding a
// component stream mid-run would break the core's reproducibility
// contract, so this is intentionally a no-op.
func (s *streamSource) Seed(uint64) {}
