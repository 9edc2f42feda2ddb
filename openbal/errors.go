package openbal

import "errors"

// ErrInfeasible is returned when no opening-balance allocation satisfies
// the spec's constraints, per §4.3.6's "surfaces a configuration error
// (not silently adjusting)."
var ErrInfeasible = errors.New("openbal: infeasible allocation")
