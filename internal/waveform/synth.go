// Package waveform synthesizes the continuous-phase GFSK audio a
// transmitter would have sent for a given tone sequence. The
// subtractor uses it to re-create a decoded transmission and remove it
// from the residual audio before later passes run.
package waveform

import "math"

const (
	// bt is the Gaussian filter's bandwidth-time product; FT8 uses
	// BT=2, a lighter shaping than the BT=0.3 of GSM-style GFSK.
	bt = 2.0
	// pulseSymbols is how many symbol periods the Gaussian frequency
	// pulse spans, centered on the symbol it belongs to.
	pulseSymbols = 3
)

// Synthesize renders a real-valued GFSK waveform for a sequence of tone
// indices (each in [0, NTone)), one carrier tone per symbol: tone k
// sits at freqHz + k*toneSpacingHz, so freqHz is the frequency of tone 0. The frequency transition
// between symbols is Gaussian-shaped rather than hard-keyed, matching
// how an FT8 transmitter actually shapes its tones.
func Synthesize(tones []int, freqHz, toneSpacingHz float64, samplesPerSymbol, sampleRate int) []float64 {
	total := len(tones) * samplesPerSymbol
	samples := make([]float64, total)

	pulse := gaussianPulse(samplesPerSymbol)
	freqDev := make([]float64, total)

	for i, tone := range tones {
		center := i*samplesPerSymbol + samplesPerSymbol/2

		for j, w := range pulse {
			idx := center - len(pulse)/2 + j
			if idx < 0 || idx >= len(freqDev) {
				continue
			}

			freqDev[idx] += w * float64(tone) * toneSpacingHz
		}
	}

	phase := 0.0
	dt := 1.0 / float64(sampleRate)

	for i := range samples {
		phase += 2 * math.Pi * (freqHz + freqDev[i]) * dt
		samples[i] = math.Cos(phase)
	}

	return samples
}

// gaussianPulse returns a normalized (sums to 1) Gaussian frequency
// pulse spanning pulseSymbols symbol periods.
func gaussianPulse(samplesPerSymbol int) []float64 {
	width := pulseSymbols * samplesPerSymbol
	pulse := make([]float64, width)

	sigma := float64(samplesPerSymbol) / (2 * math.Pi * bt)
	center := float64(width-1) / 2

	sum := 0.0

	for i := range pulse {
		x := float64(i) - center
		v := math.Exp(-0.5 * (x / sigma) * (x / sigma))
		pulse[i] = v
		sum += v
	}

	for i := range pulse {
		pulse[i] /= sum
	}

	return pulse
}
