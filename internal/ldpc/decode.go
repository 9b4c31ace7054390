package ldpc

import (
	"github.com/kd9xyz/ft8decode/internal/codec"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// scaleSweep are LLR scale factors tried, in order, before falling
// back to ordered-statistics decoding. Symbol extraction's LLR
// magnitudes are only approximately calibrated, so belief propagation
// is swept across a range instead of trusting one scale (spec.md §4).
var scaleSweep = []float64{
	0.10, 0.15, 0.20, 0.25, 0.30, 0.40, 0.50, 0.60,
	0.70, 0.80, 0.90, 1.00, 1.20, 1.50, 2.00, 2.50,
}

// Decode tries belief propagation across scaleSweep against both LLR
// representations symbol extraction produces (diffLLR and ratioLLR;
// they differ only in how per-bit confidence was derived from tone
// power), then falls back to ordered-statistics decoding on whichever
// representation BP failed on. A result is only returned once the CRC
// embedded in the information bits checks out against the decoded
// payload.
func Decode(diffLLR, ratioLLR types.LLRVector) (types.Message77, bool) {
	reps := []types.LLRVector{diffLLR, ratioLLR}

	for _, llr := range reps {
		for _, scale := range scaleSweep {
			word, converged, _ := DecodeBP(llr, scale)
			if !converged {
				continue
			}

			if payload, ok := acceptIfValid(word); ok {
				return payload, true
			}
		}
	}

	for _, llr := range reps {
		word, ok := DecodeOSD(llr)
		if !ok {
			continue
		}

		if payload, ok := acceptIfValid(word); ok {
			return payload, true
		}
	}

	return types.Message77{}, false
}

func acceptIfValid(word types.CodedWord) (types.Message77, bool) {
	var info [91]byte

	copy(info[:], word[:91])

	if !codec.VerifyCRC(info) {
		return types.Message77{}, false
	}

	var payload types.Message77

	copy(payload[:], info[:77])

	return payload, true
}
