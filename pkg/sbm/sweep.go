package sbm

import "github.com/gilchrisn/sbm-block-inference/pkg/sampler"

// SweepResult reports the outcome of one mcmc_sweep call: the ids of
// nodes whose parent changed, in move order, and the sum of the accepted
// moves' entropy deltas.
type SweepResult struct {
	MovedIDs     []string
	EntropyDelta float64
}

// MCMCSweep runs one Metropolis-Hastings pass over every node at
// nodeLevel, in shuffled order (§4.4.5). When variableNumBlocks is true,
// after each node's decision the engine prunes empty blocks and opens a
// fresh one-member-capable block for that node's type, so the chain can
// always grow the block count. The sweep is suspension-free: it always
// runs to completion on the calling goroutine.
func (e *Engine) MCMCSweep(nodeLevel int, variableNumBlocks bool) (SweepResult, error) {
	groupLevel := nodeLevel + 1

	nodes, err := e.net.GetNodesAtLevel(nodeLevel)
	if err != nil {
		return SweepResult{}, err
	}
	sampler.ShuffleSlice(e.rng, nodes)

	var result SweepResult

	for _, v := range nodes {
		proposed, err := e.ProposeMove(v)
		if err != nil {
			return result, err
		}

		if proposed == v.Parent() {
			continue
		}

		move, err := e.EvaluateMove(v, proposed)
		if err != nil {
			return result, err
		}

		if e.rng.DrawUnif() < move.AcceptProb {
			v.SetParent(proposed)
			result.MovedIDs = append(result.MovedIDs, v.ID)
			result.EntropyDelta += move.EntropyDelta
			e.log.Debug().Str("node", v.ID).Str("block", proposed.ID).Float64("delta", move.EntropyDelta).Msg("move accepted")
		}

		if variableNumBlocks {
			e.net.CleanEmptyBlocks()
			e.net.newBlock(v.Type, groupLevel)
		}
	}

	e.log.Info().Int("moved", len(result.MovedIDs)).Float64("delta", result.EntropyDelta).Msg("sweep complete")
	return result, nil
}
