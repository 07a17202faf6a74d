package score

import "math"

// Accumulator keeps running Σ(score·weight) and Σ(weight) for every category.
// It is owned by a single evaluation run and is not safe for concurrent use.
type Accumulator struct {
	weighted map[Category]float64
	weights  map[Category]float64
	counted  map[Category]int
}

func NewAccumulator(categories []Category) *Accumulator {
	acc := &Accumulator{
		weighted: make(map[Category]float64, len(categories)),
		weights:  make(map[Category]float64, len(categories)),
		counted:  make(map[Category]int, len(categories)),
	}
	for _, c := range categories {
		acc.weighted[c] = 0
		acc.weights[c] = 0
		acc.counted[c] = 0
	}
	return acc
}

// Add records one token comparison for category c.
func (acc *Accumulator) Add(c Category, r Result) {
	acc.weighted[c] += r.Score * r.Weight
	acc.weights[c] += r.Weight
	acc.counted[c]++
}

// Counted returns how many token comparisons each category received.
func (acc *Accumulator) Counted() map[Category]int {
	counted := make(map[Category]int, len(acc.counted))
	for c, n := range acc.counted {
		counted[c] = n
	}
	return counted
}

// Scores divides the sums. A category with zero total weight (for example an
// empty corpus) reports NaN.
func (acc *Accumulator) Scores() Scores {
	scores := make(Scores, len(acc.weights))
	for c, w := range acc.weights {
		if w == 0 {
			scores[c] = math.NaN()
			continue
		}
		scores[c] = acc.weighted[c] / w
	}
	return scores
}
