package fine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode/internal/codec"
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/ldpc"
	"github.com/kd9xyz/ft8decode/internal/symbol"
	"github.com/kd9xyz/ft8decode/internal/types"
	"github.com/kd9xyz/ft8decode/internal/waveform"
)

// buildAudio synthesizes a full slot buffer carrying one clean
// transmission at freqHz, starting timeOffsetS away from the nominal
// slot start, for exercising Refine against real baseband content
// instead of a mocked spectrogram.
func buildAudio(t *testing.T, freqHz, timeOffsetS float64) types.AudioBuffer {
	t.Helper()

	payload, err := codec.EncodeText("CQ N0YPR DM42")
	require.NoError(t, err)

	word := ldpc.Encode(codec.PackInfo(payload))
	tones := symbol.ToneSequence(word)

	toneSlice := make([]int, len(tones))
	copy(toneSlice, tones[:])

	synth := waveform.Synthesize(toneSlice, freqHz, shared.ToneSpacingHz, shared.NSPS, shared.SampleRate)

	audio := make(types.AudioBuffer, shared.BufferSamples)
	start := int((shared.SlotStartSec + timeOffsetS) * shared.SampleRate)

	for i, s := range synth {
		idx := start + i
		if idx >= 0 && idx < len(audio) {
			audio[idx] += s
		}
	}

	return audio
}

func TestRefine_PreservesSyncScore(t *testing.T) {
	audio := buildAudio(t, 1000.0, 0)

	cand := types.Candidate{
		FrequencyHz: 1000.0,
		TimeOffsetS: 0,
		SyncScore:   1.23,
		Baseline:    4.56,
	}

	refined := Refine(audio, cand)

	assert.Equal(t, cand.SyncScore, refined.SyncScore)
	assert.Equal(t, cand.Baseline, refined.Baseline)
}

func TestRefine_StaysNearCoarsePosition(t *testing.T) {
	audio := buildAudio(t, 1000.0, 0)

	cand := types.Candidate{FrequencyHz: 1000.0, TimeOffsetS: 0}

	refined := Refine(audio, cand)

	assert.InDelta(t, cand.FrequencyHz, refined.FrequencyHz, freqSweepHz)
	assert.InDelta(t, cand.TimeOffsetS, refined.TimeOffsetS, 0.5)
}

func TestRefine_RecoversInjectedFrequencyAndTimeOffset(t *testing.T) {
	const trueFreq = 1000.75
	const trueOffset = 0.12

	audio := buildAudio(t, trueFreq, trueOffset)

	cand := types.Candidate{FrequencyHz: 1000.0, TimeOffsetS: 0}

	refined := Refine(audio, cand)

	assert.InDelta(t, trueFreq, refined.FrequencyHz, freqStepHz*2)
	assert.InDelta(t, trueOffset, refined.TimeOffsetS, float64(timeStepSamples)*2/shared.BasebandRate)
}

func TestParabolicPeak_SymmetricInputGivesZeroOffset(t *testing.T) {
	assert.Equal(t, 0.0, parabolicPeak(1.0, 2.0, 1.0))
}

func TestParabolicPeak_ClampsExtremeFits(t *testing.T) {
	offset := parabolicPeak(0.0, 1.0, 3.0)
	assert.LessOrEqual(t, offset, 1.0)
	assert.GreaterOrEqual(t, offset, -1.0)
}
