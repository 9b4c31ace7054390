package symbol

import (
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// ToneSequence is the inverse of the LLR extraction: it renders a
// decoded codeword back into the 79-symbol tone sequence a transmitter
// would have sent, Costas arrays included, so the subtractor can
// resynthesize and remove it from the residual audio.
func ToneSequence(word types.CodedWord) [shared.NSym]int {
	var tones [shared.NSym]int

	for _, start := range shared.CostasStarts {
		for k, tone := range shared.Costas {
			tones[start+k] = tone
		}
	}

	for pos, symIdx := range shared.DataSymbols {
		g := 0
		for bit := range 3 {
			g = g<<1 | int(word[pos*3+bit])
		}

		tones[symIdx] = shared.GrayMapInverse[g]
	}

	return tones
}
