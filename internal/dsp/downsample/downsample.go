// Package downsample extracts a narrowband complex baseband signal
// around a candidate's carrier frequency, ready for per-symbol FFT
// analysis at a far lower sample rate than the raw audio.
package downsample

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// Extract selects a shared.NFFTOut-bin slice of the full-buffer
// spectrum centered on freqHz and inverse-transforms it, yielding a
// complex baseband signal at shared.BasebandRate.
//
// The normalization factor is 1/sqrt(NFFTIn*NFFTOut), not
// sqrt(NFFTOut/NFFTIn): gonum's fourier.CmplxFFT is unnormalized in
// both directions (Coefficients applies no 1/N, and per its own doc
// comment a Coefficients->Sequence round trip on the same length
// scales the input by N, meaning Sequence doesn't divide by N either).
// An inverse that divided by NFFTOut would need the factor
// sqrt(NFFTOut/NFFTIn); Sequence omits that 1/NFFTOut, so the factor
// here is sqrt(NFFTOut/NFFTIn)/NFFTOut = 1/sqrt(NFFTIn*NFFTOut). Either
// way a bin-aligned unit complex tone, which the forward transform puts
// into one bin with magnitude NFFTIn, comes out with a per-sample
// magnitude of sqrt(NFFTIn/NFFTOut). Getting this wrong silently breaks every
// SNR estimate downstream without breaking decoding.
func Extract(audio types.AudioBuffer, freqHz float64) types.NarrowbandSignal {
	in := make([]complex128, shared.NFFTIn)

	n := len(audio)
	if n > shared.NFFTIn {
		n = shared.NFFTIn
	}

	for i := range n {
		in[i] = complex(audio[i], 0)
	}

	fft := fourier.NewCmplxFFT(shared.NFFTIn)
	spectrum := fft.Coefficients(nil, in)

	binRes := float64(shared.SampleRate) / float64(shared.NFFTIn)
	centerBin := int(math.Round(freqHz / binRes))

	half := shared.NFFTOut / 2
	band := make([]complex128, shared.NFFTOut)

	for i := range band {
		srcBin := centerBin - half + i
		srcBin = ((srcBin % shared.NFFTIn) + shared.NFFTIn) % shared.NFFTIn
		band[i] = spectrum[srcBin]
	}

	shifted := shiftToBaseband(band)

	ifft := fourier.NewCmplxFFT(shared.NFFTOut)
	timeDomain := ifft.Sequence(nil, shifted)

	scale := complex(1/math.Sqrt(float64(shared.NFFTIn)*float64(shared.NFFTOut)), 0)

	out := make([]complex128, shared.NFFTOut)
	for i, v := range timeDomain {
		out[i] = v * scale
	}

	return types.NarrowbandSignal{
		Samples:    out,
		SampleRate: float64(shared.BasebandRate),
	}
}

// shiftToBaseband rotates a band that's centered on its midpoint index
// so that the candidate frequency lands on DC (index 0) before the
// inverse transform.
func shiftToBaseband(band []complex128) []complex128 {
	n := len(band)
	half := n / 2

	out := make([]complex128, n)
	copy(out, band[half:])
	copy(out[n-half:], band[:half])

	return out
}
