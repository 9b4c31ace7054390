package ldpc

import (
	"math"

	"github.com/kd9xyz/ft8decode/internal/types"
)

// MaxIterations bounds a single belief-propagation attempt (spec.md
// §4: "a hard cap, typically on the order of tens of iterations").
const MaxIterations = 50

// sign convention: llr > 0 favors bit 0, llr < 0 favors bit 1.
func hardBit(llr float64) byte {
	if llr < 0 {
		return 1
	}

	return 0
}

// DecodeBP runs log-domain min-sum belief propagation over llr (scaled
// by scale) for up to MaxIterations rounds, stopping as soon as every
// parity check is satisfied. It returns the decoded codeword, whether
// it converged, and the iteration count used.
func DecodeBP(llr types.LLRVector, scale float64) (types.CodedWord, bool, int) {
	c := Get()

	scaled := make([]float64, codeBits)
	for i, v := range llr {
		scaled[i] = v * scale
	}

	v2c := make([][]float64, checkBits)
	c2v := make([][]float64, checkBits)

	for ci, vars := range c.CheckVars {
		v2c[ci] = make([]float64, len(vars))
		c2v[ci] = make([]float64, len(vars))
	}

	var word types.CodedWord

	for iter := 1; iter <= MaxIterations; iter++ {
		for v := range codeBits {
			checks := c.VarChecks[v]
			pos := c.VarPos[v]

			for j, cj := range checks {
				sum := scaled[v]

				for j2, cj2 := range checks {
					if j2 == j {
						continue
					}

					sum += c2v[cj2][pos[j2]]
				}

				v2c[cj][pos[j]] = sum
			}
		}

		for ci := range c.CheckVars {
			n := len(v2c[ci])

			for k := range n {
				sign := 1.0
				min1 := math.Inf(1)

				for j := range n {
					if j == k {
						continue
					}

					m := v2c[ci][j]
					if m < 0 {
						sign = -sign
					}

					if a := math.Abs(m); a < min1 {
						min1 = a
					}
				}

				c2v[ci][k] = sign * min1
			}
		}

		total := make([]float64, codeBits)
		copy(total, scaled)

		for v := range codeBits {
			for j, cj := range c.VarChecks[v] {
				total[v] += c2v[cj][c.VarPos[v][j]]
			}
		}

		for v, t := range total {
			word[v] = hardBit(t)
		}

		if c.SatisfiesAllChecks(word) {
			return word, true, iter
		}
	}

	for v, t := range llr {
		word[v] = hardBit(t)
	}

	return word, false, MaxIterations
}
