package analyzer

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// Permutations returns every ordered selection of r distinct positions of
// items, in lexicographic order of positions. r > len(items) yields none and
// r == 0 yields a single empty selection.
func Permutations[T any](items []T, r int) [][]T {
	if r < 0 || r > len(items) {
		return nil
	}
	idx := combin.Permutations(len(items), r)
	// combin groups permutations by their underlying combination.
	sort.Slice(idx, func(i, j int) bool { return lexLess(idx[i], idx[j]) })
	return pick(items, idx)
}

// Combinations returns every unordered selection of r positions of items,
// in lexicographic order of positions.
func Combinations[T any](items []T, r int) [][]T {
	if r < 0 || r > len(items) {
		return nil
	}
	return pick(items, combin.Combinations(len(items), r))
}

func pick[T any](items []T, idx [][]int) [][]T {
	out := make([][]T, len(idx))
	for i, positions := range idx {
		sel := make([]T, len(positions))
		for j, p := range positions {
			sel[j] = items[p]
		}
		out[i] = sel
	}
	return out
}

func lexLess(a, b []int) bool {
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}
