package sbm

import "errors"

// Sentinel errors for structural misuse (§7).
var (
	// ErrDuplicateID is returned by Network.AddNode when (id, level) already exists.
	ErrDuplicateID = errors.New("sbm: duplicate node id at level")

	// ErrUnknownID is returned when a referenced node id cannot be found.
	ErrUnknownID = errors.New("sbm: unknown node id")

	// ErrInvalidLevel is returned when a level argument is out of range for
	// the operation (e.g. neighbors_at_level called with level <= own level,
	// or a level beyond the network's depth).
	ErrInvalidLevel = errors.New("sbm: invalid level")

	// ErrLevelMismatch is returned by AddEdge when its two endpoints live
	// on different levels.
	ErrLevelMismatch = errors.New("sbm: edge endpoints on different levels")

	// ErrUnknownType is returned when a type name is not in the network's
	// type table.
	ErrUnknownType = errors.New("sbm: unknown node type")
)

// Sentinel errors for inference preconditions (§7).
var (
	// ErrNoBlocks is returned by DeleteBlockLevel when only level 0 exists.
	ErrNoBlocks = errors.New("sbm: no block level to delete")

	// ErrOverprovisioned is returned by InitializeBlocks when num_blocks
	// exceeds the number of nodes of some type.
	ErrOverprovisioned = errors.New("sbm: num_blocks exceeds node count for some type")

	// ErrInsufficientBlocks is returned by AgglomerativeMerge when some
	// type has fewer than 2 blocks at the requested block level.
	ErrInsufficientBlocks = errors.New("sbm: fewer than two blocks of some type")

	// ErrZeroMerges is returned by AgglomerativeMerge when num_merges == 0.
	ErrZeroMerges = errors.New("sbm: zero merges requested")
)
