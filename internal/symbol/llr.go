package symbol

import (
	"math"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// DiffLLR and RatioLLR each turn a SymbolBlock's tone magnitudes into a
// shared.NCode-long LLR vector, using the two confidence metrics the
// LDPC stage sweeps across when one doesn't yield a valid decode: a
// plain magnitude difference, and a magnitude ratio bounded to
// [-1, 1]. Both use the Gray code mapping (shared.GrayMap) to split
// each symbol's 8 tones into the two halves voting on each of its 3
// coded bits, and both take the STRONGEST magnitude on each side of
// the split rather than summing across it: one mistuned tone
// elsewhere in the same half shouldn't drag down a confident vote.
func DiffLLR(block types.SymbolBlock) types.LLRVector {
	return normalize(llrFromPowers(block, diffMetric))
}

func RatioLLR(block types.SymbolBlock) types.LLRVector {
	return normalize(llrFromPowers(block, ratioMetric))
}

func llrFromPowers(block types.SymbolBlock, metric func(maxZeros, maxOnes float64) float64) types.LLRVector {
	llr := make(types.LLRVector, shared.NCode)

	for pos, symIdx := range shared.DataSymbols {
		powers := block.Tones[symIdx]

		var mags [shared.NTone]float64
		for tone, p := range powers {
			mags[tone] = math.Sqrt(p)
		}

		for bit := range 3 {
			var maxZeros, maxOnes float64

			for tone := range shared.NTone {
				g := shared.GrayMap[tone]
				if (g>>(2-bit))&1 == 0 {
					maxZeros = math.Max(maxZeros, mags[tone])
				} else {
					maxOnes = math.Max(maxOnes, mags[tone])
				}
			}

			llr[pos*3+bit] = metric(maxZeros, maxOnes)
		}
	}

	return llr
}

// diffMetric and ratioMetric are the difference and ratio LLR formulas
// over tone magnitudes, signed so that positive favors bit=0 and
// negative favors bit=1 — this package's LLR sign convention, matched
// by internal/ldpc's hard-decision rule.
func diffMetric(maxZeros, maxOnes float64) float64 {
	return maxZeros - maxOnes
}

func ratioMetric(maxZeros, maxOnes float64) float64 {
	denom := math.Max(maxZeros, maxOnes)
	if denom == 0 {
		return 0
	}

	return (maxZeros - maxOnes) / denom
}

// normalize rescales an LLR vector by its standard deviation and a
// fixed confidence factor, keeping the belief-propagation scale sweep
// centered on a useful range regardless of absolute signal power.
func normalize(llr types.LLRVector) types.LLRVector {
	const confidenceFactor = 2.83

	var mean float64
	for _, v := range llr {
		mean += v
	}

	mean /= float64(len(llr))

	var variance float64

	for _, v := range llr {
		d := v - mean
		variance += d * d
	}

	variance /= float64(len(llr))

	std := math.Sqrt(variance)
	if std == 0 {
		return llr
	}

	out := make(types.LLRVector, len(llr))
	for i, v := range llr {
		out[i] = (v / std) * confidenceFactor
	}

	return out
}
