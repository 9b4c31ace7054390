// Package spectrogram computes the short-time power spectrum the
// coarse and fine synchronizers search.
package spectrogram

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// prescale matches the reference receiver's input scaling so that
// typical 16-bit PCM levels land in a numerically comfortable range
// for the downstream sync-score thresholds.
const prescale = 1.0 / 300.0

// Compute runs a Blackman-Harris-windowed STFT over audio with a
// shared.NSPS window and shared.NSTEP hop, zero-padded to
// shared.NFFT1, and returns the power spectrogram plus its per-bin
// time-summed baseline. Blackman-Harris trades main-lobe width for
// much lower sidelobes than a Hann window, which matters here because
// adjacent-bin leakage directly pollutes the coarse-sync score.
func Compute(audio types.AudioBuffer) types.Spectrogram {
	window := blackmanHarrisWindow(shared.NSPS)
	fft := fourier.NewFFT(shared.NFFT1)

	nhsym := 0
	if len(audio) >= shared.NSPS {
		nhsym = (len(audio)-shared.NSPS)/shared.NSTEP + 1
	}

	bins := make([][]float64, shared.NH1)
	for i := range bins {
		bins[i] = make([]float64, nhsym)
	}

	fftIn := make([]float64, shared.NFFT1)

	for step := range nhsym {
		start := step * shared.NSTEP

		for i := range fftIn {
			fftIn[i] = 0
		}

		for i := range shared.NSPS {
			fftIn[i] = audio[start+i] * window[i] * prescale
		}

		coeffs := fft.Coefficients(nil, fftIn)

		for bin, c := range coeffs {
			power := real(c)*real(c) + imag(c)*imag(c)
			bins[bin][step] = power
		}
	}

	avg := make([]float64, shared.NH1)

	for bin := range bins {
		var sum float64

		for _, v := range bins[bin] {
			sum += v
		}

		avg[bin] = sum
	}

	return types.Spectrogram{
		Bins:  bins,
		Avg:   avg,
		NH1:   shared.NH1,
		NHSym: nhsym,
	}
}

// Blackman-Harris coefficients, 4-term minimum-sidelobe variant.
const (
	bhA0 = 0.35875
	bhA1 = 0.48829
	bhA2 = 0.14128
	bhA3 = 0.01168
)

// blackmanHarrisWindow returns a 4-term Blackman-Harris window of the
// given length.
func blackmanHarrisWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n-1)
		w[i] = bhA0 - bhA1*math.Cos(x) + bhA2*math.Cos(2*x) - bhA3*math.Cos(3*x)
	}

	return w
}
