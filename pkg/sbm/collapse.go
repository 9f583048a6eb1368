package sbm

import "errors"

// CollapseStep is one record of the collapse schedule: the block count
// before this iteration's merge, the entropy change the merge (and any
// equilibration sweeps) produced, the resulting entropy, and a full state
// snapshot for checkpointing.
type CollapseStep struct {
	NumBlocks    int
	EntropyDelta float64
	Entropy      float64
	State        StateDump
}

// CollapseBlocks implements §4.4.7: starting from one block per node, it
// repeatedly merges blocks (decaying the count by Sigma each round, never
// undershooting desiredNumBlocks) until desiredNumBlocks remain, each
// round followed by numMCMCSteps equilibration sweeps when non-zero. The
// loop is the only place InsufficientBlocks is swallowed - it ends the
// schedule early and returns whatever steps were accumulated so far; every
// other error propagates.
func (e *Engine) CollapseBlocks(nodeLevel, numMCMCSteps, desiredNumBlocks int) ([]CollapseStep, error) {
	if err := e.net.InitializeBlocks(e.rng, -1); err != nil {
		return nil, err
	}

	blockLevel := nodeLevel + 1
	sigma := e.cfg.Sigma()

	var results []CollapseStep

	currNumBlocks, err := e.net.NumNodesAtLevel(blockLevel)
	if err != nil {
		return results, err
	}

	for currNumBlocks > desiredNumBlocks {
		numMerges := currNumBlocks - int(float64(currNumBlocks)/sigma)
		if numMerges < 1 {
			numMerges = 1
		}
		if currNumBlocks-numMerges < desiredNumBlocks {
			numMerges = currNumBlocks - desiredNumBlocks
		}

		merge, err := e.AgglomerativeMerge(blockLevel, numMerges)
		if err != nil {
			if errors.Is(err, ErrInsufficientBlocks) {
				e.log.Info().Int("blocks", currNumBlocks).Msg("collapsibility limit reached, stopping early")
				break
			}
			return results, err
		}

		if numMCMCSteps > 0 {
			for i := 0; i < numMCMCSteps; i++ {
				sweep, err := e.MCMCSweep(nodeLevel, false)
				if err != nil {
					return results, err
				}
				merge.EntropyDelta += sweep.EntropyDelta
			}
			e.net.CleanEmptyBlocks()

			entropy, err := e.Entropy(nodeLevel)
			if err != nil {
				return results, err
			}
			merge.Entropy = entropy
		}

		results = append(results, CollapseStep{
			NumBlocks:    currNumBlocks,
			EntropyDelta: merge.EntropyDelta,
			Entropy:      merge.Entropy,
			State:        e.net.GetState(),
		})

		currNumBlocks, err = e.net.NumNodesAtLevel(blockLevel)
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
