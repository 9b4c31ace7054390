package spectrogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

func TestCompute_SilenceProducesZeroPower(t *testing.T) {
	audio := make(types.AudioBuffer, shared.BufferSamples)

	spec := Compute(audio)

	require.Equal(t, shared.NH1, spec.NH1)

	for _, bin := range spec.Bins {
		for _, v := range bin {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestCompute_ShortBufferYieldsNoFrames(t *testing.T) {
	audio := make(types.AudioBuffer, shared.NSPS-1)

	spec := Compute(audio)

	assert.Equal(t, 0, spec.NHSym)
}

func TestBlackmanHarrisWindow_PeaksAtCenterAndIsNonNegative(t *testing.T) {
	w := blackmanHarrisWindow(shared.NSPS)

	require.Len(t, w, shared.NSPS)

	center := w[len(w)/2]

	for _, v := range w {
		assert.GreaterOrEqual(t, center+1e-9, v)
	}
}
