package ft8_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode"
)

// A clean, noise-free single CQ transmission at a bin-aligned frequency
// should survive the full coarse sync -> fine sync -> downsample ->
// symbol extraction -> LDPC pipeline and come back out the text it went
// in as.
func TestDecode_SingleCleanTransmissionDecodes(t *testing.T) {
	const wantText = "CQ N0YPR DM42"
	const freqHz = 1000.0 // exact multiple of the coarse-sync bin resolution (3.125 Hz)

	wav := buildSlot(t, wantText, freqHz)

	result, err := ft8.Decode(context.Background(), bytes.NewReader(wav), ft8.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Decodes, "expected at least one decode from a clean single transmission")

	got := result.Decodes[0]
	assert.Equal(t, wantText, got.Text)
	assert.InDelta(t, freqHz, got.FrequencyHz, 10.0)
	assert.InDelta(t, 0.0, got.TimeOffsetS, 0.2)
}
