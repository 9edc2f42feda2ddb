package engine

import "github.com/synthledger/engine/id"

// ID is the primary identifier type for every entity in the pipeline.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
