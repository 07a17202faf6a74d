package score

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"cobald/internal/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesForTags(t *testing.T) {
	assert.Equal(t, AllCategories, CategoriesForTags(corpus.OptionalTags))

	assert.Equal(t,
		[]Category{CategoryLemma, CategoryEUD},
		CategoriesForTags([]string{corpus.TagDeps, corpus.TagLemma, corpus.TagHead}),
		"ud needs both head and deprel")

	assert.Empty(t, CategoriesForTags(nil))
}

func TestWeightTable_Get(t *testing.T) {
	table, err := NewWeightTable(map[string]float64{"VERB": 2.0, "PUNCT": 0}, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 2.0, table.Get("VERB"))
	assert.Equal(t, 0.0, table.Get("PUNCT"), "explicit zero is kept")
	assert.Equal(t, 1.0, table.Get("NOUN"), "missing key falls back to default")
	assert.Equal(t, 2, table.Len())

	var nilTable *WeightTable
	assert.Equal(t, DefaultWeight, nilTable.Get("VERB"))
	assert.Equal(t, 0, nilTable.Len())
}

func TestNewWeightTable_Invalid(t *testing.T) {
	_, err := NewWeightTable(map[string]float64{"VERB": -1}, 1.0)
	assert.Error(t, err)

	_, err = NewWeightTable(nil, math.NaN())
	assert.Error(t, err)

	_, err = NewWeightTable(map[string]float64{"X": math.Inf(1)}, 1.0)
	assert.Error(t, err)
}

func TestLoadWeightTable(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "lemma_weights.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"VERB": 2.0, "NOUN": 1.5}`), 0o644))
	table, err := LoadWeightTable(jsonPath, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, table.Get("NOUN"))
	assert.Equal(t, 1.0, table.Get("ADP"))

	yamlPath := filepath.Join(dir, "feats_weights.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("Case: 3\nNumber: 0.5\n"), 0o644))
	table, err = LoadWeightTable(yamlPath, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 3.0, table.Get("Case"))
	assert.Equal(t, 0.25, table.Get("Gender"))

	table, err = LoadWeightTable("", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"VERB": "heavy"}`), 0o644))
	_, err = LoadWeightTable(badPath, 1.0)
	assert.Error(t, err)

	negPath := filepath.Join(dir, "neg.json")
	require.NoError(t, os.WriteFile(negPath, []byte(`{"VERB": -2}`), 0o644))
	_, err = LoadWeightTable(negPath, 1.0)
	assert.Error(t, err)

	_, err = LoadWeightTable(filepath.Join(dir, "missing.json"), 1.0)
	assert.Error(t, err)
}

func TestAccumulator_Scores(t *testing.T) {
	acc := NewAccumulator([]Category{CategoryLemma, CategoryUD})

	acc.Add(CategoryLemma, Result{Score: 1, Weight: 2})
	acc.Add(CategoryLemma, Result{Score: 0, Weight: 2})
	acc.Add(CategoryLemma, Result{Score: 1, Weight: 1})

	scores := acc.Scores()
	assert.InDelta(t, 3.0/5.0, scores[CategoryLemma], 1e-12)
	assert.True(t, math.IsNaN(scores[CategoryUD]), "no comparisons yields NaN")
	assert.Equal(t, map[Category]int{CategoryLemma: 3, CategoryUD: 0}, acc.Counted())
}

func TestAccumulator_ZeroWeights(t *testing.T) {
	acc := NewAccumulator([]Category{CategoryLemma})
	acc.Add(CategoryLemma, Result{Score: 1, Weight: 0})

	assert.True(t, math.IsNaN(acc.Scores()[CategoryLemma]))
	assert.Equal(t, 1, acc.Counted()[CategoryLemma])
}

func TestAlignmentError_Error(t *testing.T) {
	err := NewTokenCountError(3, 5, 6)
	assert.Equal(t, "alignment error at sentence 3: token counts differ (test=5, gold=6)", err.Error())

	err = NewSentenceCountError(5, 5, 6)
	assert.Contains(t, err.Error(), "sentence counts differ")
	assert.Equal(t, 5, err.Sentence)
}
