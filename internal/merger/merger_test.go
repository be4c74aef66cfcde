package merger

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/statements-cli/internal/model"
)

func row(label string, values map[int]float64) model.NormalizedRow {
	r := model.NormalizedRow{
		CanonicalLabel: label,
		RawLabel:       label,
		Values:         make(map[model.Period]model.Amount, len(values)),
	}
	for year, v := range values {
		r.Values[model.Period{Year: year}] = model.Num(v)
	}
	return r
}

func TestMerge_Empty(t *testing.T) {
	assert.Nil(t, Merge(nil))
}

func TestMerge_SameLabelAcrossFilings(t *testing.T) {
	// The same line item from overlapping filing years collapses into one
	// row covering the union of periods, with no conflict on the shared
	// year when the values agree.
	groups := Merge([]model.NormalizedRow{
		row("net income", map[int]float64{2021: 90, 2022: 100}),
		row("net income", map[int]float64{2022: 100, 2023: 120}),
	})

	require.Len(t, groups, 1)
	m := groups[0].Merged
	assert.True(t, m.WasMerged)
	assert.Len(t, m.Members, 2)
	assert.Equal(t, model.Num(90), m.Values[model.Period{Year: 2021}])
	assert.Equal(t, model.Num(100), m.Values[model.Period{Year: 2022}])
	assert.Equal(t, model.Num(120), m.Values[model.Period{Year: 2023}])
	assert.Empty(t, m.Conflicts)
}

func TestMerge_ValueBasedAcrossLabels(t *testing.T) {
	// Distinct labels with identical values on every overlapping period
	// merge in the second pass.
	groups := Merge([]model.NormalizedRow{
		row("cost of sales", map[int]float64{2022: 40, 2023: 45}),
		row("cost of goods sold", map[int]float64{2022: 40, 2023: 45}),
	})

	require.Len(t, groups, 1)
	m := groups[0].Merged
	assert.True(t, m.WasMerged)
	assert.Equal(t, "cost of sales", m.CanonicalLabel)
	assert.Empty(t, m.Conflicts)
}

func TestMerge_ValuePassRequiresOverlap(t *testing.T) {
	// Disjoint periods give the value pass nothing to compare, so distinct
	// labels stay apart even though nothing contradicts a merge.
	groups := Merge([]model.NormalizedRow{
		row("cost of sales", map[int]float64{2021: 40}),
		row("cost of goods sold", map[int]float64{2023: 45}),
	})
	assert.Len(t, groups, 2)
}

func TestMerge_ValuePassRejectsAnyDisagreement(t *testing.T) {
	groups := Merge([]model.NormalizedRow{
		row("cost of sales", map[int]float64{2022: 40, 2023: 45}),
		row("cost of goods sold", map[int]float64{2022: 40, 2023: 46}),
	})
	assert.Len(t, groups, 2)
}

func TestMerge_ConflictLastWriterWins(t *testing.T) {
	groups := Merge([]model.NormalizedRow{
		row("net income", map[int]float64{2022: 100}),
		row("net income", map[int]float64{2022: 105}),
	})

	require.Len(t, groups, 1)
	m := groups[0].Merged
	assert.Equal(t, model.Num(105), m.Values[model.Period{Year: 2022}])
	assert.True(t, m.Conflicts[model.Period{Year: 2022}])
}

func TestMerge_MissingDoesNotConflict(t *testing.T) {
	r1 := row("goodwill", map[int]float64{2023: 12})
	r1.Values[model.Period{Year: 2022}] = model.Amount{}
	r2 := row("goodwill", map[int]float64{2022: 11})

	groups := Merge([]model.NormalizedRow{r1, r2})

	require.Len(t, groups, 1)
	m := groups[0].Merged
	assert.Equal(t, model.Num(11), m.Values[model.Period{Year: 2022}])
	assert.Equal(t, model.Num(12), m.Values[model.Period{Year: 2023}])
	assert.Empty(t, m.Conflicts)
}

func TestMerge_SingletonNotMarkedMerged(t *testing.T) {
	groups := Merge([]model.NormalizedRow{
		row("total assets", map[int]float64{2023: 500}),
	})
	require.Len(t, groups, 1)
	assert.False(t, groups[0].Merged.WasMerged)
}

func TestMerge_GroupOrderFollowsInput(t *testing.T) {
	groups := Merge([]model.NormalizedRow{
		row("revenue", map[int]float64{2023: 300}),
		row("cost of sales", map[int]float64{2023: 120}),
		row("revenue", map[int]float64{2022: 280}),
		row("net income", map[int]float64{2023: 50}),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "revenue", groups[0].Merged.CanonicalLabel)
	assert.Equal(t, "cost of sales", groups[1].Merged.CanonicalLabel)
	assert.Equal(t, "net income", groups[2].Merged.CanonicalLabel)
}

func TestMerge_TransitiveClosureThroughValues(t *testing.T) {
	// A label-pass group and a value-pass edge chain into one group: the
	// two "net income" rows join by label, then "net earnings" joins them
	// through matching values.
	groups := Merge([]model.NormalizedRow{
		row("net income", map[int]float64{2021: 90, 2022: 100}),
		row("net income", map[int]float64{2022: 100, 2023: 120}),
		row("net earnings", map[int]float64{2021: 90, 2023: 120}),
	})

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Merged.Members, 3)
}

func TestMerge_CompositionIsOrderIndependent(t *testing.T) {
	rows := []model.NormalizedRow{
		row("revenue", map[int]float64{2021: 250, 2022: 280}),
		row("total revenue", map[int]float64{2022: 280, 2023: 300}),
		row("cost of sales", map[int]float64{2022: 120}),
		row("cost of goods sold", map[int]float64{2022: 120}),
		row("net income", map[int]float64{2022: 50}),
		row("net income", map[int]float64{2023: 55}),
	}

	signature := func(groups []MergeGroup) []string {
		var out []string
		for _, g := range groups {
			var labels []string
			for _, m := range g.Rows {
				labels = append(labels, m.CanonicalLabel)
			}
			sort.Strings(labels)
			out = append(out, labels[0]+"|"+labels[len(labels)-1])
		}
		sort.Strings(out)
		return out
	}

	want := signature(Merge(rows))
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.NormalizedRow, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, signature(Merge(shuffled)), "shuffle %d", i)
	}
}

func TestMerge_NoDataLoss(t *testing.T) {
	rows := []model.NormalizedRow{
		row("revenue", map[int]float64{2021: 250, 2022: 280}),
		row("total revenue", map[int]float64{2022: 280, 2023: 300}),
		row("net income", map[int]float64{2022: 50}),
	}

	groups := Merge(rows)

	members := 0
	for _, g := range groups {
		members += len(g.Rows)
		assert.Len(t, g.Merged.Members, len(g.Rows))
	}
	assert.Equal(t, len(rows), members)
}
