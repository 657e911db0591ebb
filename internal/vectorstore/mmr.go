package vectorstore

import "math"

// DefaultLambda balances relevance against redundancy in MMR selection.
const DefaultLambda = 0.5

// Cosine returns the cosine similarity of two vectors.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MMR greedily selects up to k candidate indices, maximizing similarity to
// the query while penalizing similarity to already selected candidates.
// The returned indices are in selection order.
func MMR(query []float64, candidates [][]float64, k int, lambda float64) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}
	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = Cosine(query, c)
	}

	selected := make([]int, 0, k)
	chosen := make([]bool, len(candidates))
	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)
		for i := range candidates {
			if chosen[i] {
				continue
			}
			redundancy := 0.0
			for _, j := range selected {
				if sim := Cosine(candidates[i], candidates[j]); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance[i] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		chosen[best] = true
		selected = append(selected, best)
	}
	return selected
}
