package score

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultWeight is used for keys missing from a weight table unless configured otherwise.
const DefaultWeight = 1.0

// WeightTable maps a context key (a POS tag or a grammatical category) to a weight.
// Missing keys fall back to the table default. A nil table returns DefaultWeight.
type WeightTable struct {
	weights map[string]float64
	def     float64
}

// NewWeightTable validates weights and default; all must be finite and non-negative.
func NewWeightTable(weights map[string]float64, def float64) (*WeightTable, error) {
	if !validWeight(def) {
		return nil, fmt.Errorf("default weight must be a non-negative number, got %v", def)
	}
	table := &WeightTable{weights: make(map[string]float64, len(weights)), def: def}
	for key, w := range weights {
		if !validWeight(w) {
			return nil, fmt.Errorf("weight of '%s' must be a non-negative number, got %v", key, w)
		}
		table.weights[key] = w
	}
	return table, nil
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Get returns the weight of key or the table default.
func (wt *WeightTable) Get(key string) float64 {
	if wt == nil {
		return DefaultWeight
	}
	if w, found := wt.weights[key]; found {
		return w
	}
	return wt.def
}

// Len returns the number of explicit entries.
func (wt *WeightTable) Len() int {
	if wt == nil {
		return 0
	}
	return len(wt.weights)
}

// LoadWeightTable reads a flat {key: weight} object from a JSON or YAML file.
// An empty path yields a table holding only the default.
func LoadWeightTable(path string, def float64) (*WeightTable, error) {
	if path == "" {
		return NewWeightTable(nil, def)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64)
	if err := yaml.Unmarshal(content, &weights); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	table, err := NewWeightTable(weights, def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
