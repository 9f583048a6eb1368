package sbm

import "container/heap"

// MergeStep is the record returned by AgglomerativeMerge: the (from, to)
// pairs of block ids culled into a surviving target, and the entropy of
// the resulting partition.
type MergeStep struct {
	FromIDs      []string
	ToIDs        []string
	EntropyDelta float64
	Entropy      float64
}

// mergeCandidate is one (from, to, ΔS) triple gathered before the merge
// selection pass.
type mergeCandidate struct {
	from  *Node
	to    *Node
	delta float64
}

// mergeHeap is a max-heap over mergeCandidate.delta, used so
// AgglomerativeMerge can walk candidates best-first with lazy deletion
// instead of re-sorting after every consumed merge.
type mergeHeap []*mergeCandidate

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].delta > h[j].delta }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(*mergeCandidate)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// buildMetaLevel clears (and creates, if absent) the level above level and
// gives every node at level its own fresh meta-parent there. It is the
// ephemeral single-block-per-group scaffold agglomerative_merge builds at
// the start of every call.
func (net *Network) buildMetaLevel(level int) error {
	if err := net.checkLevel(level); err != nil {
		return err
	}
	metaLevel := level + 1
	for len(net.levels) <= metaLevel {
		net.buildLevel()
	}
	net.levels[metaLevel] = &networkLevel{nodesByType: make([][]*Node, len(net.types))}

	nodes, err := net.GetNodesAtLevel(level)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		meta := net.newBlock(n.Type, metaLevel)
		n.SetParent(meta)
	}
	return nil
}

// mergeBlocks re-parents every child of source under target, emptying
// source so a later CleanEmptyBlocks prunes it.
func mergeBlocks(target, source *Node) {
	for _, child := range source.Children() {
		child.SetParent(target)
	}
}

// AgglomerativeMerge implements §4.4.6: it builds a meta-block level above
// blockLevel, gathers merge candidates for every block (exhaustively under
// Greedy, or by sampling NChecksPerBlock candidates via ProposeMove
// otherwise), then walks the candidates in ΔS-descending order, accepting
// up to numMerges merges whose endpoints have not already been consumed.
func (e *Engine) AgglomerativeMerge(blockLevel, numMerges int) (MergeStep, error) {
	if numMerges == 0 {
		return MergeStep{}, ErrZeroMerges
	}

	for _, typeName := range e.net.types {
		n, err := e.net.NumNodesOfType(typeName, blockLevel)
		if err != nil {
			return MergeStep{}, err
		}
		if n < 2 {
			return MergeStep{}, ErrInsufficientBlocks
		}
	}

	metaLevel := blockLevel + 1
	if err := e.net.buildMetaLevel(blockLevel); err != nil {
		return MergeStep{}, err
	}

	allGroups, err := e.net.GetNodesAtLevel(blockLevel)
	if err != nil {
		return MergeStep{}, err
	}

	var candidates []*mergeCandidate

	for _, g := range allGroups {
		var metagroups []*Node
		if e.cfg.Greedy() {
			metagroups, err = e.net.GetNodesOfTypeAtLevel(e.net.typeName(g.Type), metaLevel)
			if err != nil {
				return MergeStep{}, err
			}
		} else {
			metagroups = make([]*Node, 0, e.cfg.NChecksPerBlock())
			for i := 0; i < e.cfg.NChecksPerBlock(); i++ {
				m, err := e.ProposeMove(g)
				if err != nil {
					return MergeStep{}, err
				}
				metagroups = append(metagroups, m)
			}
		}

		for _, meta := range metagroups {
			children := meta.Children()
			if len(children) == 0 {
				continue
			}
			// Every meta-block was built with exactly one child by
			// buildMetaLevel, so its first (and only) child is the
			// block it stands in for.
			mergeGroup := children[0]
			if mergeGroup.ID == g.ID {
				continue
			}

			move, err := e.EvaluateMove(g, meta)
			if err != nil {
				return MergeStep{}, err
			}
			candidates = append(candidates, &mergeCandidate{from: g, to: mergeGroup, delta: move.EntropyDelta})
		}
	}

	pq := mergeHeap(candidates)
	heap.Init(&pq)

	consumed := make(map[string]bool, numMerges*2)
	var result MergeStep

	for pq.Len() > 0 && len(result.FromIDs) < numMerges {
		c := heap.Pop(&pq).(*mergeCandidate)
		if consumed[c.from.ID] || consumed[c.to.ID] {
			continue
		}
		consumed[c.from.ID] = true
		mergeBlocks(c.to, c.from)
		result.FromIDs = append(result.FromIDs, c.from.ID)
		result.ToIDs = append(result.ToIDs, c.to.ID)
		result.EntropyDelta += c.delta
	}

	e.net.CleanEmptyBlocks()

	entropy, err := e.Entropy(blockLevel - 1)
	if err != nil {
		return MergeStep{}, err
	}
	result.Entropy = entropy

	e.log.Info().Int("merges", len(result.FromIDs)).Float64("entropy", entropy).Msg("agglomerative merge complete")
	return result, nil
}
