// Package symbol extracts per-symbol tone power and log-likelihood
// ratios from a narrowband baseband signal.
package symbol

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

const (
	fftSize = 32 // one FFT bin per tone at the 200 Hz baseband rate
	// samplesPerSymbol is BasebandRate (200 Hz) / ToneSpacingHz (6.25 Hz).
	samplesPerSymbol = 32
)

// Extract computes one 8-tone power vector per symbol from a
// narrowband signal, starting at startSample (the candidate's refined
// time offset converted to baseband samples). Symbols whose window
// falls partly or fully outside the signal are left at zero power and
// excluded from nsync's numerator and denominator alike.
func Extract(nb types.NarrowbandSignal, startSample int) types.SymbolBlock {
	fft := fourier.NewCmplxFFT(fftSize)

	tones := make([][shared.NTone]float64, shared.NSym)
	valid := make([]bool, shared.NSym)

	for sym := range shared.NSym {
		base := startSample + sym*samplesPerSymbol
		if base < 0 || base+fftSize > len(nb.Samples) {
			continue
		}

		valid[sym] = true

		coeffs := fft.Coefficients(nil, nb.Samples[base:base+fftSize])

		for tone := range shared.NTone {
			c := coeffs[tone]
			tones[sym][tone] = real(c)*real(c) + imag(c)*imag(c)
		}
	}

	return types.SymbolBlock{
		Tones: tones,
		NSync: countSync(tones, valid),
	}
}

func countSync(tones [][shared.NTone]float64, valid []bool) int {
	n := 0

	for _, start := range shared.CostasStarts {
		for k, expected := range shared.Costas {
			sym := start + k
			if !valid[sym] {
				continue
			}

			if strongestTone(tones[sym]) == expected {
				n++
			}
		}
	}

	return n
}

func strongestTone(powers [shared.NTone]float64) int {
	best := 0

	for i := 1; i < len(powers); i++ {
		if powers[i] > powers[best] {
			best = i
		}
	}

	return best
}
