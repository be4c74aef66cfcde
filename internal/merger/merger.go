// Package merger collapses normalized rows that represent the same line
// item. Label text and values are each individually unreliable signals, so
// the merge runs two passes: context-aware grouping by canonical label,
// then a value-based pass that catches rows whose labels drifted across
// filing years.
package merger

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/statements-cli/internal/model"
)

// MergeGroup is a cluster of rows judged to represent one line item plus
// the single row they collapse to.
type MergeGroup struct {
	Rows   []model.NormalizedRow
	Merged model.MergedRow
}

// Merge groups normalized rows across all tables of one company. Group
// composition is order-independent: both passes union rows under symmetric
// equality relations, so shuffling the input yields the same partition.
// Conflict resolution inside a group is last-writer-wins over the input
// order and is therefore order-dependent; conflicted periods are flagged,
// never silently dropped. Groups are returned in first-member input order.
func Merge(rows []model.NormalizedRow) []MergeGroup {
	if len(rows) == 0 {
		return nil
	}

	uf := newUnionFind(len(rows))

	// Pass 1: context-aware grouping by canonical label equality.
	byLabel := make(map[string][]int)
	for i, r := range rows {
		byLabel[r.CanonicalLabel] = append(byLabel[r.CanonicalLabel], i)
	}
	for _, members := range byLabel {
		for _, m := range members[1:] {
			uf.union(members[0], m)
		}
	}

	// Pass 2: value-based merge across groups with distinct labels. Two
	// groups join when their values agree exactly on every period both
	// cover, with at least one overlapping period. The relation is
	// symmetric, so the union-find closure does not depend on pair order.
	reps := componentReps(uf, len(rows))
	values := make(map[int]map[model.Period]model.Amount, len(reps))
	for _, rep := range reps {
		values[rep] = componentValues(uf, rep, rows)
	}
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			a, b := reps[i], reps[j]
			if rows[a].CanonicalLabel == rows[b].CanonicalLabel {
				continue
			}
			if valuesCompatible(values[a], values[b]) {
				uf.union(a, b)
			}
		}
	}

	groups := buildGroups(uf, rows)

	merged := 0
	for _, g := range groups {
		if g.Merged.WasMerged {
			merged++
		}
	}
	zap.L().Debug("merger: merge complete",
		zap.Int("rows_in", len(rows)),
		zap.Int("groups_out", len(groups)),
		zap.Int("merged_groups", merged),
	)

	return groups
}

// componentReps returns one representative index per pass-1 component, in
// first-member input order.
func componentReps(uf *unionFind, n int) []int {
	seen := make(map[int]bool)
	var reps []int
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if !seen[root] {
			seen[root] = true
			reps = append(reps, i)
		}
	}
	return reps
}

// componentValues merges a component's per-period values in input order,
// last writer wins; used only for the pass-2 comparison.
func componentValues(uf *unionFind, rep int, rows []model.NormalizedRow) map[model.Period]model.Amount {
	root := uf.find(rep)
	out := make(map[model.Period]model.Amount)
	for i, r := range rows {
		if uf.find(i) != root {
			continue
		}
		for p, amt := range r.Values {
			if amt.Valid {
				out[p] = amt
			}
		}
	}
	return out
}

// valuesCompatible reports whether two value maps agree exactly on every
// period where both carry data, requiring at least one such overlap.
// Equality is exact, not approximate.
func valuesCompatible(a, b map[model.Period]model.Amount) bool {
	overlap := 0
	for p, av := range a {
		bv, ok := b[p]
		if !ok {
			continue
		}
		if av.Value != bv.Value {
			return false
		}
		overlap++
	}
	return overlap > 0
}

// buildGroups materializes the final partition. Within a group, members
// keep input order; the merged row takes the first member's canonical
// label, and any period supplied with unequal non-missing values resolves
// last-writer-wins with the period flagged as conflicted.
func buildGroups(uf *unionFind, rows []model.NormalizedRow) []MergeGroup {
	membersByRoot := make(map[int][]int)
	for i := range rows {
		root := uf.find(i)
		membersByRoot[root] = append(membersByRoot[root], i)
	}

	roots := make([]int, 0, len(membersByRoot))
	for root, members := range membersByRoot {
		sort.Ints(members)
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return membersByRoot[roots[i]][0] < membersByRoot[roots[j]][0]
	})

	groups := make([]MergeGroup, 0, len(roots))
	for _, root := range roots {
		members := membersByRoot[root]

		g := MergeGroup{Rows: make([]model.NormalizedRow, 0, len(members))}
		values := make(map[model.Period]model.Amount)
		conflicts := make(map[model.Period]bool)

		for _, idx := range members {
			row := rows[idx]
			g.Rows = append(g.Rows, row)
			for p, amt := range row.Values {
				if !amt.Valid {
					if _, ok := values[p]; !ok {
						values[p] = amt
					}
					continue
				}
				prev, ok := values[p]
				if ok && prev.Valid && prev.Value != amt.Value {
					conflicts[p] = true
				}
				values[p] = amt
			}
		}

		g.Merged = model.MergedRow{
			CanonicalLabel: rows[members[0]].CanonicalLabel,
			Members:        g.Rows,
			Values:         values,
			WasMerged:      len(members) > 1,
		}
		if len(conflicts) > 0 {
			g.Merged.Conflicts = conflicts
		}
		groups = append(groups, g)
	}

	return groups
}
