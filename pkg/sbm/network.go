package sbm

import (
	"fmt"

	"github.com/gilchrisn/sbm-block-inference/pkg/sampler"
)

// Network is the multi-level container: level 0 holds the observed nodes
// the caller adds; levels 1..L hold block nodes created by InitializeBlocks
// and managed by the inference engine. Each level partitions its nodes by
// type, and the Network owns every Node exclusively - neighbor and parent
// links returned to callers are non-owning references valid only as long
// as the Network outlives the call.
type Network struct {
	levels []*networkLevel

	types     []string
	typeIndex map[string]int

	blockCounter int
}

type networkLevel struct {
	nodesByType [][]*Node // indexed by type index
}

// NewNetwork constructs a Network with a fixed type table and a level 0
// ready to receive nodes. A Network holds no Sampler of its own - every
// random decision a caller needs to make against it (InitializeBlocks'
// round-robin shuffle included) takes an explicit *sampler.Sampler, so one
// seed governs an entire run the way pkg/sampler's contract requires.
func NewNetwork(types []string) *Network {
	idx := make(map[string]int, len(types))
	for i, t := range types {
		idx[t] = i
	}

	net := &Network{
		types:     types,
		typeIndex: idx,
	}
	net.buildLevel()
	return net
}

func (net *Network) buildLevel() {
	net.levels = append(net.levels, &networkLevel{
		nodesByType: make([][]*Node, len(net.types)),
	})
}

// BuildLevel appends a fresh, empty level to the stack.
func (net *Network) BuildLevel() { net.buildLevel() }

// NumLevels returns the current number of levels, including level 0.
func (net *Network) NumLevels() int { return len(net.levels) }

// NumTypes returns the size of the type table.
func (net *Network) NumTypes() int { return len(net.types) }

// HasBlocks reports whether any block level has been built.
func (net *Network) HasBlocks() bool { return net.NumLevels() > 1 }

func (net *Network) checkLevel(level int) error {
	if level < 0 || level >= net.NumLevels() {
		return ErrInvalidLevel
	}
	return nil
}

func (net *Network) typeOf(name string) (int, error) {
	ti, ok := net.typeIndex[name]
	if !ok {
		return 0, fmt.Errorf("type %q: %w", name, ErrUnknownType)
	}
	return ti, nil
}

// NumNodesOfType returns the number of nodes of the given type at level.
func (net *Network) NumNodesOfType(typeName string, level int) (int, error) {
	ti, err := net.typeOf(typeName)
	if err != nil {
		return 0, err
	}
	if err := net.checkLevel(level); err != nil {
		return 0, err
	}
	return len(net.levels[level].nodesByType[ti]), nil
}

// NumNodesAtLevel returns the total number of nodes (all types) at level.
func (net *Network) NumNodesAtLevel(level int) (int, error) {
	if err := net.checkLevel(level); err != nil {
		return 0, err
	}
	total := 0
	for _, bucket := range net.levels[level].nodesByType {
		total += len(bucket)
	}
	return total, nil
}

// NumNodes returns the total number of nodes across every level.
func (net *Network) NumNodes() int {
	total := 0
	for lvl := range net.levels {
		n, _ := net.NumNodesAtLevel(lvl)
		total += n
	}
	return total
}

func (net *Network) findNode(id string, level int) *Node {
	for _, bucket := range net.levels[level].nodesByType {
		for _, n := range bucket {
			if n.ID == id {
				return n
			}
		}
	}
	return nil
}

// GetNodeByID looks up a node by (id, level).
func (net *Network) GetNodeByID(id string, level int) (*Node, error) {
	if err := net.checkLevel(level); err != nil {
		return nil, err
	}
	if n := net.findNode(id, level); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("node %q at level %d: %w", id, level, ErrUnknownID)
}

// AddNode inserts a new node of typeName into level, minting a non-owning
// reference the caller retains for AddEdge and inference calls.
func (net *Network) AddNode(id, typeName string, level int) (*Node, error) {
	ti, err := net.typeOf(typeName)
	if err != nil {
		return nil, err
	}
	for len(net.levels) <= level {
		net.buildLevel()
	}
	if net.findNode(id, level) != nil {
		return nil, fmt.Errorf("node %q at level %d: %w", id, level, ErrDuplicateID)
	}

	n := newNode(id, ti, level)
	net.levels[level].nodesByType[ti] = append(net.levels[level].nodesByType[ti], n)
	return n, nil
}

// newBlock mints a block node at level with a synthetic id of the form
// "<type>-<level>_<index>", matching the original implementation's
// build_block_id scheme. The global counter guarantees block ids are never
// reused even after deletion.
func (net *Network) newBlock(typeIndex, level int) *Node {
	id := fmt.Sprintf("%s-%d_%d", net.types[typeIndex], level, net.blockCounter)
	net.blockCounter++

	n := newNode(id, typeIndex, level)
	net.levels[level].nodesByType[typeIndex] = append(net.levels[level].nodesByType[typeIndex], n)
	return n
}

// AddEdge connects two nodes living on the same level. Self-loops (u == v)
// are permitted.
func (net *Network) AddEdge(u, v *Node) error {
	if u.Level != v.Level {
		return fmt.Errorf("edge %s-%s: %w", u.ID, v.ID, ErrLevelMismatch)
	}
	Connect(u, v)
	return nil
}

// GetNodesAtLevel returns every node at level, all types combined, in an
// unspecified but stable order (type-major).
func (net *Network) GetNodesAtLevel(level int) ([]*Node, error) {
	if err := net.checkLevel(level); err != nil {
		return nil, err
	}
	var out []*Node
	for _, bucket := range net.levels[level].nodesByType {
		out = append(out, bucket...)
	}
	return out, nil
}

// GetNodesOfTypeAtLevel returns the nodes of typeName at level.
func (net *Network) GetNodesOfTypeAtLevel(typeName string, level int) ([]*Node, error) {
	ti, err := net.typeOf(typeName)
	if err != nil {
		return nil, err
	}
	if err := net.checkLevel(level); err != nil {
		return nil, err
	}
	out := make([]*Node, len(net.levels[level].nodesByType[ti]))
	copy(out, net.levels[level].nodesByType[ti])
	return out, nil
}

// GetNodesNotOfTypeAtLevel returns the nodes at level whose type is not
// typeName - a supplement carried over from the original's
// get_nodes_not_of_type_at_level, useful for diagnostics and for
// validating type partitioning in tests.
func (net *Network) GetNodesNotOfTypeAtLevel(typeName string, level int) ([]*Node, error) {
	ti, err := net.typeOf(typeName)
	if err != nil {
		return nil, err
	}
	if err := net.checkLevel(level); err != nil {
		return nil, err
	}
	var out []*Node
	for i, bucket := range net.levels[level].nodesByType {
		if i == ti {
			continue
		}
		out = append(out, bucket...)
	}
	return out, nil
}

// InitializeBlocks appends a fresh top level above the current top and
// populates it with block nodes for that level's children: one block per
// child when numBlocks == -1, or numBlocks round-robin-shuffled blocks per
// type otherwise (so the blocks of one type differ in size by at most one
// child). The shuffle draws from rng, the caller's shared Sampler.
func (net *Network) InitializeBlocks(rng *sampler.Sampler, numBlocks int) error {
	blockLevel := net.NumLevels()
	childLevel := blockLevel - 1
	net.buildLevel()

	onePerNode := numBlocks == -1

	for ti := range net.types {
		childNodes := net.levels[childLevel].nodesByType[ti]

		n := numBlocks
		if onePerNode {
			n = len(childNodes)
		}
		if n > len(childNodes) {
			return fmt.Errorf("initialize blocks for type %q: %w", net.types[ti], ErrOverprovisioned)
		}
		if n == 0 {
			continue
		}

		blocks := make([]*Node, n)
		for i := 0; i < n; i++ {
			blocks[i] = net.newBlock(ti, blockLevel)
		}

		order := append([]*Node(nil), childNodes...)
		if !onePerNode {
			sampler.ShuffleSlice(rng, order)
		}
		for i, child := range order {
			child.SetParent(blocks[i%n])
		}
	}

	return nil
}

// DeleteBlockLevel removes the topmost level, failing if only level 0 remains.
func (net *Network) DeleteBlockLevel() error {
	if !net.HasBlocks() {
		return ErrNoBlocks
	}
	net.levels = net.levels[:len(net.levels)-1]
	return nil
}

// DeleteAllBlocks removes every block level, leaving only level 0.
func (net *Network) DeleteAllBlocks() {
	for net.HasBlocks() {
		net.levels = net.levels[:len(net.levels)-1]
	}
}

// CleanEmptyBlocks scans every level above 0 and removes any block with no
// children, detaching it from its own parent first. It returns the removed
// blocks (owning values are released to the caller for inspection/logging)
// and runs bottom-up so a block emptied by this pass at level L correctly
// empties its own now-childless parent at level L+1 within the same call.
func (net *Network) CleanEmptyBlocks() []*Node {
	var removed []*Node

	for lvl := 1; lvl < net.NumLevels(); lvl++ {
		for ti := range net.types {
			bucket := net.levels[lvl].nodesByType[ti]
			kept := bucket[:0]
			for _, blk := range bucket {
				if blk.NumChildren() > 0 {
					kept = append(kept, blk)
					continue
				}
				if blk.parent != nil {
					blk.SetParent(nil)
				}
				removed = append(removed, blk)
			}
			net.levels[lvl].nodesByType[ti] = kept
		}
	}

	return removed
}

// typeName returns the name for a type index, used by GetState.
func (net *Network) typeName(ti int) string { return net.types[ti] }
