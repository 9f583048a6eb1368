package sbm

import "github.com/gilchrisn/sbm-block-inference/pkg/sampler"

// ProposeMove implements §4.4.3's asymmetric proposal distribution for v:
// with probability (eps*|T|)/(e_w+eps*|T|) it returns a block chosen
// uniformly from every block of v's type at v's block level (T);
// otherwise it samples a uniform neighbor w of v, then picks a uniform edge
// end among the connections of w's block (w.parent) and walks it up to the
// block level - an edge-weighted draw over w.parent's neighbor blocks that
// never materializes a histogram. v itself may be a block (AgglomerativeMerge
// calls this with a block as v) rather than a leaf node, so the candidate
// neighbor is drawn from v's leaf descendants rather than v.Neighbors()
// directly - a block's own .neighbors is never populated.
func (e *Engine) ProposeMove(v *Node) (*Node, error) {
	groupLevel := v.Level + 1

	potential, err := e.net.GetNodesOfTypeAtLevel(e.net.typeName(v.Type), groupLevel)
	if err != nil {
		return nil, err
	}

	randNeighbor, err := sampler.Sample(e.rng, v.DescendantNeighbors())
	if err != nil {
		return nil, err
	}

	neighborGroup, err := ancestorAtLevel(randNeighbor, groupLevel)
	if err != nil {
		return nil, err
	}
	ergoAmt := e.cfg.Eps() * float64(len(potential))
	probRandomGroup := ergoAmt / (float64(neighborGroup.Degree()) + ergoAmt)

	if e.rng.DrawUnif() < probRandomGroup {
		return sampler.Sample(e.rng, potential)
	}

	groupEdgeEnd, err := sampler.Sample(e.rng, neighborGroup.DescendantNeighbors())
	if err != nil {
		return nil, err
	}
	return ancestorAtLevel(groupEdgeEnd, groupLevel)
}
