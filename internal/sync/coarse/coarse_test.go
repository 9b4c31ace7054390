package coarse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// flatSpectrogram builds a spectrogram with uniform power everywhere
// except a spike that traces out a perfect Costas pattern starting at
// (bin, step).
func flatSpectrogram(nh1, nhsym, bin, step int) types.Spectrogram {
	bins := make([][]float64, nh1)
	for i := range bins {
		bins[i] = make([]float64, nhsym)
		for j := range bins[i] {
			bins[i][j] = 1.0
		}
	}

	for _, start := range shared.CostasStarts {
		for k, tone := range shared.Costas {
			symIdx := start + k
			freqBin := bin + tone*binsPerTone
			timeIdx := step + symIdx*stepsPerSymbol

			if freqBin >= 0 && freqBin < nh1 && timeIdx >= 0 && timeIdx < nhsym {
				bins[freqBin][timeIdx] = 100.0
			}
		}
	}

	avg := make([]float64, nh1)
	for i := range bins {
		var sum float64
		for _, v := range bins[i] {
			sum += v
		}

		avg[i] = sum
	}

	return types.Spectrogram{Bins: bins, Avg: avg, NH1: nh1, NHSym: nhsym}
}

func TestSearch_FindsCandidateAtInjectedCostasPattern(t *testing.T) {
	nh1 := shared.NH1
	nominalStep := int(shared.SlotStartSec * shared.SampleRate / shared.NSTEP)
	nhsym := nominalStep + 79*stepsPerSymbol + 10

	bin := 200

	spec := flatSpectrogram(nh1, nhsym, bin, nominalStep)

	opts := DefaultOptions()
	candidates := Search(spec, opts)

	require.NotEmpty(t, candidates)

	freqRes := float64(shared.SampleRate) / float64(shared.NFFT1)
	assert.InDelta(t, float64(bin)*freqRes, candidates[0].FrequencyHz, freqRes)
}

func TestSearch_EmptySpectrogramYieldsNoCandidates(t *testing.T) {
	spec := types.Spectrogram{NH1: shared.NH1, NHSym: 0}

	candidates := Search(spec, DefaultOptions())

	assert.Empty(t, candidates)
}

func TestSearch_ResultsAreSortedByScoreDescending(t *testing.T) {
	nh1 := shared.NH1
	nominalStep := int(shared.SlotStartSec * shared.SampleRate / shared.NSTEP)
	nhsym := nominalStep + 79*stepsPerSymbol + 10

	spec := flatSpectrogram(nh1, nhsym, 200, nominalStep)

	opts := DefaultOptions()
	opts.DedupBins = 0

	candidates := Search(spec, opts)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].SyncScore, candidates[i].SyncScore)
	}
}
