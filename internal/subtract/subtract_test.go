package subtract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/symbol"
	"github.com/kd9xyz/ft8decode/internal/types"
	"github.com/kd9xyz/ft8decode/internal/waveform"
)

func TestApply_RemovesASyntheticTransmissionItFindsEffective(t *testing.T) {
	var word types.CodedWord
	for i := range word {
		word[i] = byte(i % 2)
	}

	tones := symbol.ToneSequence(word)

	toneSlice := make([]int, len(tones))
	copy(toneSlice, tones[:])

	freq := 1200.0
	synth := waveform.Synthesize(toneSlice, freq, shared.ToneSpacingHz, shared.NSPS, shared.SampleRate)

	audio := make(types.AudioBuffer, shared.BufferSamples)
	start := int(shared.SlotStartSec * shared.SampleRate)

	for i, s := range synth {
		idx := start + i
		if idx < len(audio) {
			audio[idx] = s
		}
	}

	rec := types.DecodeRecord{FrequencyHz: freq, TimeOffsetS: 0}

	before := energy(audio)

	ok := Apply(audio, rec, word)
	require.True(t, ok)

	after := energy(audio)

	assert.Less(t, after, before)
}

func TestApply_RollsBackWhenIneffective(t *testing.T) {
	audio := make(types.AudioBuffer, shared.BufferSamples)

	var word types.CodedWord

	rec := types.DecodeRecord{FrequencyHz: 1200, TimeOffsetS: 0}

	ok := Apply(audio, rec, word)
	assert.False(t, ok)

	for _, v := range audio {
		assert.Equal(t, 0.0, v)
	}
}

func energy(audio types.AudioBuffer) float64 {
	var sum float64
	for _, v := range audio {
		sum += v * v
	}

	return sum
}
