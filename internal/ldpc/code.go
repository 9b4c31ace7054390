// Package ldpc implements the fixed LDPC(174,91) code used to protect
// the FT8 payload: encoding (for the subtractor's re-synthesis path),
// log-domain min-sum belief propagation, and an ordered-statistics
// fallback for codewords BP fails to converge on.
package ldpc

import (
	"sync"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/ldpc/gf2"
)

const (
	infoBits  = shared.NInfo  // 91
	checkBits = shared.NCheck // 83
	codeBits  = shared.NCode  // 174
)

// Code is the compile-time-constant LDPC(174,91) parity-check and
// generator matrices plus their adjacency structure, built once and
// shared process-wide (spec.md §5: "LDPC matrices ... are process-wide
// immutable constants initialized once at startup").
type Code struct {
	H []gf2.Row // checkBits x codeBits
	G []gf2.Row // infoBits x codeBits, systematic [I | P]

	CheckVars [][]int // per check c: variable indices touching c
	VarChecks [][]int // per variable v: check indices touching v
	VarPos    [][]int // per variable v, parallel to VarChecks: v's local
	// position within CheckVars[VarChecks[v][j]]
}

var (
	once     sync.Once
	instance *Code
)

// Get returns the process-wide LDPC(174,91) code, building it on first
// use.
func Get() *Code {
	once.Do(func() {
		h := buildH()
		g := computeGenerator(h)
		checkVars, varChecks, varPos := buildAdjacency(h)

		instance = &Code{
			H:         h,
			G:         g,
			CheckVars: checkVars,
			VarChecks: varChecks,
			VarPos:    varPos,
		}
	})

	return instance
}

func buildAdjacency(h []gf2.Row) (checkVars, varChecks, varPos [][]int) {
	checkVars = make([][]int, checkBits)
	for c, row := range h {
		for v, b := range row {
			if b == 1 {
				checkVars[c] = append(checkVars[c], v)
			}
		}
	}

	varChecks = make([][]int, codeBits)
	varPos = make([][]int, codeBits)

	for c, vars := range checkVars {
		for pos, v := range vars {
			varChecks[v] = append(varChecks[v], c)
			varPos[v] = append(varPos[v], pos)
		}
	}

	return checkVars, varChecks, varPos
}

// SatisfiesAllChecks reports whether every parity row of H sums (GF2)
// to zero against word.
func (c *Code) SatisfiesAllChecks(word [codeBitsConst]byte) bool {
	for _, vars := range c.CheckVars {
		var sum byte
		for _, v := range vars {
			sum ^= word[v]
		}

		if sum != 0 {
			return false
		}
	}

	return true
}

// codeBitsConst lets the method signature above reference the
// CodedWord array length without importing internal/types (which would
// create a cycle, since types stays a dependency-free leaf package).
const codeBitsConst = codeBits
