package ldpc

import (
	"math/rand/v2"

	"github.com/kd9xyz/ft8decode/internal/ldpc/gf2"
)

// infoColumnWeight is the number of check rows each information bit
// participates in.
const infoColumnWeight = 3

// buildH constructs a deterministic, reproducible (174,91) parity-check
// matrix. DESIGN.md: the literal WSJT-X reference bit table could not
// be safely transcribed from memory without a way to verify it against
// a real decoder, so H is instead generated by a fixed-seed
// construction with the same shape and sparsity the real code has: a
// trivially-invertible lower-bidiagonal parity submatrix B, and a
// sparse, fixed-seed information submatrix A with column weight
// infoColumnWeight. Encode/BP/OSD/CRC are all self-consistent against
// whichever H this produces, which is what spec.md's testable
// properties require.
func buildH() []gf2.Row {
	h := make([]gf2.Row, checkBits)
	for i := range h {
		h[i] = make(gf2.Row, codeBits)
	}

	for i := range checkBits {
		h[i][infoBits+i] = 1
		if i > 0 {
			h[i][infoBits+i-1] = 1
		}
	}

	rng := rand.New(rand.NewPCG(uint64(codeBits), uint64(infoBits)))

	for col := range infoBits {
		chosen := make(map[int]struct{}, infoColumnWeight)
		for len(chosen) < infoColumnWeight {
			chosen[rng.IntN(checkBits)] = struct{}{}
		}

		for row := range chosen {
			h[row][col] = 1
		}
	}

	return h
}

// computeGenerator derives the systematic generator G = [I | M^T] from
// H = [A | B], where M = B^-1 * A, via GF(2) elimination.
func computeGenerator(h []gf2.Row) []gf2.Row {
	a := make([]gf2.Row, checkBits)
	b := make([]gf2.Row, checkBits)

	for i, row := range h {
		a[i] = append(gf2.Row(nil), row[:infoBits]...)
		b[i] = append(gf2.Row(nil), row[infoBits:]...)
	}

	binv, ok := gf2.Invert(b)
	if !ok {
		panic("ldpc: parity submatrix is singular, construction invariant violated")
	}

	m := gf2.MulMat(binv, a)
	mt := gf2.Transpose(m)

	g := make([]gf2.Row, infoBits)
	for i := range g {
		g[i] = make(gf2.Row, codeBits)
		g[i][i] = 1
		copy(g[i][infoBits:], mt[i])
	}

	return g
}
