package audioio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal canonical 16-bit PCM mono WAV file
// around the given samples.
func buildWAV(t *testing.T, sampleRate uint32, channels uint16, samples []int16) []byte {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		require.NoError(t, binary.Write(&data, binary.LittleEndian, s))
	}

	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&fmtChunk, binary.LittleEndian, channels)
	binary.Write(&fmtChunk, binary.LittleEndian, sampleRate)
	byteRate := sampleRate * uint32(channels) * 2
	binary.Write(&fmtChunk, binary.LittleEndian, byteRate)
	blockAlign := channels * 2
	binary.Write(&fmtChunk, binary.LittleEndian, blockAlign)
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(16)) // bit depth

	var buf bytes.Buffer

	buf.WriteString("RIFF")

	totalSize := 4 + (8 + fmtChunk.Len()) + (8 + data.Len())
	binary.Write(&buf, binary.LittleEndian, uint32(totalSize)) //nolint:gosec // test fixture size bound
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(fmtChunk.Len())) //nolint:gosec // test fixture size bound
	buf.Write(fmtChunk.Bytes())

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len())) //nolint:gosec // test fixture size bound
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestLoadWAV_MonoRoundTripsSampleValues(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768}

	raw := buildWAV(t, 12000, 1, samples)

	audio, err := LoadWAV(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, audio, len(samples))

	assert.InDelta(t, 0.0, audio[0], 1e-9)
	assert.InDelta(t, 16384.0, audio[1], 1e-3)
	assert.InDelta(t, -16384.0, audio[2], 1e-3)
}

func TestLoadWAV_StereoMixesToMono(t *testing.T) {
	// Interleaved L/R: L=32767, R=-32767, should average near zero.
	samples := []int16{32767, -32767}

	raw := buildWAV(t, 12000, 2, samples)

	audio, err := LoadWAV(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, audio, 1)

	assert.InDelta(t, 0.0, audio[0], 1e-3)
}

func TestLoadWAV_RejectsNonRIFF(t *testing.T) {
	_, err := LoadWAV(bytes.NewReader([]byte("not a riff file at all............")))
	assert.Error(t, err)
}

func TestLoadWAV_RejectsWrongSampleRate(t *testing.T) {
	raw := buildWAV(t, 44100, 1, []int16{0, 1, 2})

	_, err := LoadWAV(bytes.NewReader(raw))
	assert.Error(t, err)
}
