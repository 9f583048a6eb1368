package sbm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Entropy computes the degree-corrected microcanonical description length
// at block level level+1 for the nodes living at level:
//
//	S = -( E + Σ_k N_k·ln(k!) + ½·Σ_{r,s} e_rs·ln(e_rs/(e_r·e_s)) )
//
// E is the number of edges at level, N_k counts nodes of degree k at
// level, and e_rs is the edge count between blocks r and s at level+1
// (self-pairs counted twice, matching the convention that e_rr is twice
// the intra-block edge count). It is used only for reporting - no move
// proposal or acceptance path calls it.
func (net *Network) Entropy(level int) (float64, error) {
	nodes, err := net.GetNodesAtLevel(level)
	if err != nil {
		return 0, err
	}

	degreeCounts := make(map[int]int)
	var totalDegree float64
	for _, n := range nodes {
		d := n.Degree()
		totalDegree += float64(d)
		degreeCounts[d]++
	}
	numEdges := totalDegree / 2

	degreeTerms := make([]float64, 0, len(degreeCounts))
	for degree, count := range degreeCounts {
		lgamma, _ := math.Lgamma(float64(degree) + 1)
		degreeTerms = append(degreeTerms, float64(count)*lgamma)
	}
	// Terms come from map iteration; sorting fixes the summation order.
	sort.Float64s(degreeTerms)
	degreeSum := floats.Sum(degreeTerms)

	blockLevel := level + 1
	var edgeTerms []float64
	if blockLevel < net.NumLevels() {
		edgeCounts := make(map[*Node]map[*Node]int)
		for _, n := range nodes {
			r := n.Parent()
			if r == nil {
				continue
			}
			counts, err := n.EdgeCountsToLevel(blockLevel)
			if err != nil {
				return 0, err
			}
			dst := edgeCounts[r]
			if dst == nil {
				dst = make(map[*Node]int)
				edgeCounts[r] = dst
			}
			for s, c := range counts {
				dst[s] += c
			}
		}

		for r, sCounts := range edgeCounts {
			for s, eRS := range sCounts {
				if eRS == 0 {
					continue
				}
				edgeTerms = append(edgeTerms, float64(eRS)*math.Log(float64(eRS)/(float64(r.Degree())*float64(s.Degree()))))
			}
		}
	}

	sort.Float64s(edgeTerms)
	edgeEntropy := floats.Sum(edgeTerms) / 2

	return -(numEdges + degreeSum + edgeEntropy), nil
}

// DegreeStats reports the mean and variance of node degree at level, a
// diagnostic layered over the partition without perturbing it - nothing
// in the inference path depends on this method.
func (net *Network) DegreeStats(level int) (mean, variance float64, err error) {
	nodes, err := net.GetNodesAtLevel(level)
	if err != nil {
		return 0, 0, err
	}

	degrees := make([]float64, len(nodes))
	for i, n := range nodes {
		degrees[i] = float64(n.Degree())
	}

	mean, variance = stat.MeanVariance(degrees, nil)
	return mean, variance, nil
}
