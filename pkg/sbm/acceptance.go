package sbm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// MoveResult is the outcome of evaluating a single candidate move: the
// local entropy delta restricted to the affected block pairs (§4.4.2) and
// the Hastings-corrected acceptance probability (§4.4.4).
type MoveResult struct {
	EntropyDelta float64
	AcceptProb   float64
}

// EvaluateMove computes the local entropy delta and acceptance probability
// for moving v from its current parent to newGroup, without mutating
// anything. newGroup must be a block of v's type at v.Level+1.
func (e *Engine) EvaluateMove(v, newGroup *Node) (MoveResult, error) {
	groupLevel := v.Level + 1
	oldGroup := v.Parent()
	nodeDegree := float64(v.Degree())

	oldDegreePre := float64(oldGroup.Degree())
	newDegreePre := float64(newGroup.Degree())
	oldDegreePost := oldDegreePre - nodeDegree
	newDegreePost := newDegreePre + nodeDegree

	// oldGroup and newGroup live AT groupLevel, not below it, so their
	// own-level edge histogram has to be built by summing each child's
	// EdgeCountsToLevel(groupLevel) rather than calling the method on the
	// block itself (EdgeCountsToLevel requires level > n.Level).
	nodeEdges, err := v.EdgeCountsToLevel(groupLevel)
	if err != nil {
		return MoveResult{}, err
	}
	oldGroupEdges, err := oldGroup.ChildEdgeCountsToLevel(groupLevel)
	if err != nil {
		return MoveResult{}, err
	}
	newGroupEdges, err := newGroup.ChildEdgeCountsToLevel(groupLevel)
	if err != nil {
		return MoveResult{}, err
	}

	var preTerms, postTerms []float64

	// Old group loses the edges v contributed to each of its neighbor blocks.
	for neighbor, eRTPre := range oldGroupEdges {
		nT := float64(nodeEdges[neighbor])
		addEntropyTerms(&preTerms, &postTerms, float64(eRTPre), float64(eRTPre)-nT, oldDegreePre, oldDegreePost, float64(neighbor.Degree()))
	}

	// New group gains those same edges.
	for neighbor, eSTPre := range newGroupEdges {
		nT := float64(nodeEdges[neighbor])
		addEntropyTerms(&preTerms, &postTerms, float64(eSTPre), float64(eSTPre)+nT, newDegreePre, newDegreePost, float64(neighbor.Degree()))
	}

	// The terms were gathered in map iteration order; sorting fixes the
	// summation order so the delta is bit-identical across runs.
	sort.Float64s(preTerms)
	sort.Float64s(postTerms)
	entropyDelta := floats.Sum(postTerms) - floats.Sum(preTerms)

	// Hastings ratio: sum (edge-count-to-t + eps) over the distinct blocks
	// v connects to, once for oldGroup and once for newGroup - matching the
	// original's unweighted per-neighbor-block sum rather than weighting by
	// v's edge count to t. Both sums read the pre-move histograms; neither
	// is adjusted for the edges v carries out of oldGroup. The integer
	// counts are summed first so the result does not depend on map order.
	eps := e.cfg.Eps()
	var oldEdgesToT, newEdgesToT int
	for neighbor := range nodeEdges {
		oldEdgesToT += oldGroupEdges[neighbor]
		newEdgesToT += newGroupEdges[neighbor]
	}
	numT := float64(len(nodeEdges))
	preMoveProb := float64(oldEdgesToT) + eps*numT
	postMoveProb := float64(newEdgesToT) + eps*numT

	acceptProb := math.Exp(e.cfg.Beta()*entropyDelta) * (preMoveProb / postMoveProb)
	if acceptProb > 1 {
		acceptProb = 1
	}

	return MoveResult{EntropyDelta: entropyDelta, AcceptProb: acceptProb}, nil
}

// addEntropyTerms appends the pre- and post-move edge-entropy contribution
// of a single neighbor block to the running term slices. A zero edge count
// contributes nothing, guarding the log(0) hazard named in §7.
func addEntropyTerms(preTerms, postTerms *[]float64, eCountPre, eCountPost, degreePre, degreePost, neighborDegree float64) {
	if eCountPre > 0 {
		*preTerms = append(*preTerms, eCountPre*math.Log(eCountPre/(degreePre*neighborDegree)))
	}
	if eCountPost > 0 {
		*postTerms = append(*postTerms, eCountPost*math.Log(eCountPost/(degreePost*neighborDegree)))
	}
}
