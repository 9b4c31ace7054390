// Package fine sharpens coarse-sync candidates to sub-bin frequency
// and time resolution.
package fine

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kd9xyz/ft8decode/internal/dsp/downsample"
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

const (
	freqSweepHz  = 2.5  // +/- sweep range
	freqStepHz   = 0.25 // finer than the coarse 3.125 Hz bin
	symbolSymbols = 2.5 // +/- sweep range, in symbol periods
	timeStepSamples = 4 // ~4-sample steps at the 200 Hz baseband rate
	symbolSamples   = 32
)

// Refine sharpens a coarse candidate's frequency and time by building
// its narrowband baseband (internal/dsp/downsample) and correlating it
// against the three embedded Costas arrays while sweeping frequency in
// 0.25 Hz steps and time in ~4-sample (200 Hz) steps — the coarse grid
// (3.125 Hz x 0.16 s) is far too coarse for the symbol extractor: a
// 0.2 Hz offset causes ~1-bin tone errors, which translate into a bit
// error rate above LDPC's correction capacity. The discrete optimum is
// then parabolically interpolated on both axes. SyncScore is left
// untouched: it is a coarse-stage ranking signal, not a property of
// the refined position.
func Refine(audio types.AudioBuffer, c types.Candidate) types.Candidate {
	nb := downsample.Extract(audio, c.FrequencyHz)

	freqSteps := int(freqSweepHz / freqStepHz)
	timeSteps := int(symbolSymbols * symbolSamples / timeStepSamples)

	nominalSample := (c.TimeOffsetS + shared.SlotStartSec) * nb.SampleRate

	scores := make([][]float64, 2*freqSteps+1)
	for i := range scores {
		scores[i] = make([]float64, 2*timeSteps+1)
	}

	bestFI, bestTI := freqSteps, timeSteps
	bestScore := -1.0

	for fi := -freqSteps; fi <= freqSteps; fi++ {
		shifted := mixDown(nb.Samples, float64(fi)*freqStepHz, nb.SampleRate)

		for ti := -timeSteps; ti <= timeSteps; ti++ {
			startSample := int(math.Round(nominalSample + float64(ti*timeStepSamples)))

			score := costasScore(shifted, startSample)
			scores[fi+freqSteps][ti+timeSteps] = score

			if score > bestScore {
				bestScore = score
				bestFI, bestTI = fi+freqSteps, ti+timeSteps
			}
		}
	}

	freqOffsetSteps := 0.0
	if bestFI > 0 && bestFI < len(scores)-1 {
		freqOffsetSteps = parabolicPeak(scores[bestFI-1][bestTI], scores[bestFI][bestTI], scores[bestFI+1][bestTI])
	}

	timeOffsetSteps := 0.0
	if bestTI > 0 && bestTI < len(scores[bestFI])-1 {
		timeOffsetSteps = parabolicPeak(scores[bestFI][bestTI-1], scores[bestFI][bestTI], scores[bestFI][bestTI+1])
	}

	bestDf := float64(bestFI-freqSteps) * freqStepHz
	bestDt := float64(bestTI-timeSteps) * timeStepSamples

	refined := c
	refined.FrequencyHz = c.FrequencyHz + bestDf + freqOffsetSteps*freqStepHz
	refined.TimeOffsetS = (nominalSample+bestDt+timeOffsetSteps*timeStepSamples)/nb.SampleRate - shared.SlotStartSec

	return refined
}

// mixDown returns a frequency-shifted copy of samples, rotating by
// -2*pi*dfHz per sample at the given sample rate so a tone at +dfHz
// lands on DC.
func mixDown(samples []complex128, dfHz, sampleRate float64) []complex128 {
	out := make([]complex128, len(samples))

	for i, s := range samples {
		angle := -2 * math.Pi * dfHz * float64(i) / sampleRate
		out[i] = s * cmplx.Exp(complex(0, angle))
	}

	return out
}

// costasScore mirrors internal/sync/coarse's composite Costas score,
// but computed directly from 32-point per-symbol FFTs of the baseband
// signal rather than a precomputed spectrogram grid.
func costasScore(nb []complex128, startSample int) float64 {
	fft := fourier.NewCmplxFFT(symbolSamples)

	ta, ba := blockScore(fft, nb, startSample, shared.CostasStarts[0], true)
	tb, bb := blockScore(fft, nb, startSample, shared.CostasStarts[1], false)
	tc, bc := blockScore(fft, nb, startSample, shared.CostasStarts[2], true)

	var scoreABC, scoreBC float64

	if babc := ba + bb + bc; babc > 0 {
		scoreABC = (ta + tb + tc) / babc
	}

	if bbc := bb + bc; bbc > 0 {
		scoreBC = (tb + tc) / bbc
	}

	return math.Max(scoreABC, scoreBC)
}

func blockScore(fft *fourier.CmplxFFT, nb []complex128, startSample, blockStart int, boundsChecked bool) (t, baseline float64) {
	var t0 float64

	seg := make([]complex128, symbolSamples)

	for n, tone := range shared.Costas {
		symStart := startSample + (blockStart+n)*symbolSamples

		if boundsChecked && (symStart < 0 || symStart+symbolSamples > len(nb)) {
			continue
		}

		for i := range seg {
			idx := symStart + i
			if idx >= 0 && idx < len(nb) {
				seg[i] = nb[idx]
			} else {
				seg[i] = 0
			}
		}

		spectrum := fft.Coefficients(nil, seg)

		for m := range 7 {
			power := cmplx.Abs(spectrum[m])
			power *= power
			t0 += power

			if m == tone {
				t += power
			}
		}
	}

	return t, (t0 - t) / 6
}

// parabolicPeak fits a parabola through three equally spaced samples
// and returns the fractional offset (in units of sample spacing) of
// its vertex from the center sample. Ill-conditioned fits, whose
// offset lies beyond +/-1, are rejected and 0 is returned.
func parabolicPeak(left, center, right float64) float64 {
	denom := left - 2*center + right
	if denom == 0 {
		return 0
	}

	offset := 0.5 * (left - right) / denom
	if offset < -1 || offset > 1 {
		return 0
	}

	return offset
}
