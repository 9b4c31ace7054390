// Package subtract resynthesizes a decoded transmission and removes it
// from the residual audio so later passes can find transmissions it
// was masking.
package subtract

import (
	"math"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/symbol"
	"github.com/kd9xyz/ft8decode/internal/types"
	"github.com/kd9xyz/ft8decode/internal/waveform"
)

// MinEffectiveness is the minimum fractional reduction in windowed
// power subtraction must achieve before it is kept. A synthesized
// waveform that doesn't fit well is more likely to corrupt the
// residual for later passes than to help them, so it is rolled back.
const MinEffectiveness = 0.3

// Apply synthesizes the waveform for a decoded codeword at rec's
// frequency and time offset, least-squares fits its amplitude against
// the residual audio, and subtracts it in place. It reports whether
// the subtraction cleared MinEffectiveness; if not, audio is left
// unmodified.
func Apply(audio types.AudioBuffer, rec types.DecodeRecord, word types.CodedWord) bool {
	tones := symbol.ToneSequence(word)

	toneSlice := make([]int, len(tones))
	copy(toneSlice, tones[:])

	synth := waveform.Synthesize(toneSlice, rec.FrequencyHz, shared.ToneSpacingHz, shared.NSPS, shared.SampleRate)

	startSample := int(math.Round((rec.TimeOffsetS + shared.SlotStartSec) * shared.SampleRate))

	before := windowPower(audio, startSample, len(synth))
	if before == 0 {
		return false
	}

	gain := fitGain(audio, synth, startSample)

	addScaled(audio, synth, startSample, -gain)

	after := windowPower(audio, startSample, len(synth))

	reduction := (before - after) / before
	if reduction < MinEffectiveness {
		addScaled(audio, synth, startSample, gain)

		return false
	}

	return true
}

func addScaled(audio types.AudioBuffer, synth []float64, start int, gain float64) {
	for i, s := range synth {
		idx := start + i
		if idx < 0 || idx >= len(audio) {
			continue
		}

		audio[idx] += gain * s
	}
}

func windowPower(audio types.AudioBuffer, start, length int) float64 {
	var sum float64

	for i := range length {
		idx := start + i
		if idx < 0 || idx >= len(audio) {
			continue
		}

		sum += audio[idx] * audio[idx]
	}

	return sum
}

// fitGain finds the least-squares scalar amplitude that best matches
// synth against the residual audio at the given offset.
func fitGain(audio types.AudioBuffer, synth []float64, start int) float64 {
	var num, den float64

	for i, s := range synth {
		idx := start + i
		if idx < 0 || idx >= len(audio) {
			continue
		}

		num += audio[idx] * s
		den += s * s
	}

	if den == 0 {
		return 0
	}

	return num / den
}
