package ldpc

import (
	"math"
	"sort"

	"github.com/kd9xyz/ft8decode/internal/ldpc/gf2"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// OSDOrder is the maximum number of bit flips tried among the least
// reliable positions of the chosen information set.
const OSDOrder = 2

// osdTestPositions bounds how many of the least-reliable information
// set columns are candidates for flipping; candidate count grows
// combinatorially with it, so it stays small.
const osdTestPositions = 8

// DecodeOSD is the fallback for codewords belief propagation could not
// converge on (spec.md §4). It reorders codeword positions by LLR
// reliability, finds an information set among the most reliable
// positions via Gaussian elimination on the generator matrix, and
// searches small bit-flip patterns over the least reliable members of
// that set for the codeword closest to the hard decision that still
// satisfies every parity check.
func DecodeOSD(llr types.LLRVector) (types.CodedWord, bool) {
	c := Get()

	order := make([]int, codeBits)
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(i, j int) bool {
		return math.Abs(llr[order[i]]) > math.Abs(llr[order[j]])
	})

	pivotCols, rref, ok := reduceToInformationSet(c.G, order)
	if !ok {
		return types.CodedWord{}, false
	}

	hard := make([]byte, codeBits)
	for i, v := range llr {
		hard[i] = hardBit(v)
	}

	base := make(gf2.Row, infoBits)
	for i, col := range pivotCols {
		base[i] = hard[col]
	}

	flipStart := infoBits - osdTestPositions
	if flipStart < 0 {
		flipStart = 0
	}

	var (
		best     types.CodedWord
		bestDist = -1
		found    bool
	)

	for _, pattern := range flipPatterns(infoBits, flipStart, OSDOrder) {
		u := append(gf2.Row(nil), base...)
		for _, p := range pattern {
			u[p] ^= 1
		}

		word := encodeWithRREF(rref, u)
		if !c.SatisfiesAllChecks(word) {
			continue
		}

		dist := hammingDistance(word[:], hard)
		if !found || dist < bestDist {
			best = word
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// reduceToInformationSet walks codeword positions in reliability order
// and performs GF(2) row reduction on g to find the first infoBits
// linearly independent columns, returning those column indices and the
// generator rows reduced to identity form on them.
func reduceToInformationSet(g []gf2.Row, order []int) (pivotCols []int, rref []gf2.Row, ok bool) {
	work := gf2.Clone(g)
	used := make([]bool, len(work))
	rowForCol := make(map[int]int, infoBits)

	pivotCols = make([]int, 0, infoBits)

	for _, col := range order {
		pivotRow := -1

		for r, row := range work {
			if !used[r] && row[col] == 1 {
				pivotRow = r

				break
			}
		}

		if pivotRow < 0 {
			continue
		}

		used[pivotRow] = true
		rowForCol[col] = pivotRow
		pivotCols = append(pivotCols, col)

		for r := range work {
			if r != pivotRow && work[r][col] == 1 {
				xorRow(work[r], work[pivotRow])
			}
		}

		if len(pivotCols) == infoBits {
			break
		}
	}

	if len(pivotCols) != infoBits {
		return nil, nil, false
	}

	rref = make([]gf2.Row, infoBits)
	for i, col := range pivotCols {
		rref[i] = work[rowForCol[col]]
	}

	return pivotCols, rref, true
}

func encodeWithRREF(rref []gf2.Row, u gf2.Row) types.CodedWord {
	var word types.CodedWord

	for col := range codeBits {
		var bit byte
		for i := range infoBits {
			bit ^= u[i] & rref[i][col]
		}

		word[col] = bit
	}

	return word
}

func flipPatterns(n, start, maxOrder int) [][]int {
	patterns := [][]int{{}}

	candidates := make([]int, 0, n-start)
	for i := start; i < n; i++ {
		candidates = append(candidates, i)
	}

	for order := 1; order <= maxOrder; order++ {
		patterns = append(patterns, combinations(candidates, order)...)
	}

	return patterns
}

func combinations(items []int, k int) [][]int {
	var (
		result [][]int
		combo  []int
	)

	var rec func(start int)
	rec = func(start int) {
		if len(combo) == k {
			result = append(result, append([]int(nil), combo...))

			return
		}

		for i := start; i < len(items); i++ {
			combo = append(combo, items[i])
			rec(i + 1)
			combo = combo[:len(combo)-1]
		}
	}

	rec(0)

	return result
}

func hammingDistance(a, b []byte) int {
	d := 0

	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}

	return d
}

func xorRow(dst, src gf2.Row) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
