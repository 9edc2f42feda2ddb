package engine

import "github.com/synthledger/engine/types"

// Re-export common types for convenience so callers don't have to
// import the types package directly for everyday use.

// Money is re-exported from the types package.
type Money = types.Money

// Entity is re-exported from the types package.
type Entity = types.Entity

// Re-exported Money constructors.
var (
	USD  = types.USD
	EUR  = types.EUR
	Zero = types.Zero
	Sum  = types.Sum
)

// NewEntity is re-exported from the types package.
var NewEntity = types.NewEntity
