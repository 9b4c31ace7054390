// Package ft8_test holds literal end-to-end decode scenarios, calling
// the public ft8.Decode API against synthesized WAV buffers built with
// internal/waveform, the same way a caller embedding this module would.
package ft8_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode/internal/codec"
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/ldpc"
	"github.com/kd9xyz/ft8decode/internal/symbol"
	"github.com/kd9xyz/ft8decode/internal/waveform"
)

// buildSlot synthesizes a full 15 s, 12 kHz mono WAV buffer containing
// one FT8 transmission of text at freqHz, starting at the nominal slot
// offset, and returns it as an in-memory WAV file.
func buildSlot(t *testing.T, text string, freqHz float64) []byte {
	t.Helper()

	payload, err := codec.EncodeText(text)
	require.NoError(t, err)

	word := ldpc.Encode(codec.PackInfo(payload))

	tones := symbol.ToneSequence(word)
	toneSlice := make([]int, len(tones))
	copy(toneSlice, tones[:])

	synth := waveform.Synthesize(toneSlice, freqHz, shared.ToneSpacingHz, shared.NSPS, shared.SampleRate)

	audio := make([]float64, shared.BufferSamples)
	start := int(shared.SlotStartSec * shared.SampleRate)

	for i, s := range synth {
		idx := start + i
		if idx < len(audio) {
			audio[idx] += s
		}
	}

	return encodeWAV(audio)
}

func encodeWAV(samples []float64) []byte {
	var pcm bytes.Buffer

	for _, s := range samples {
		if s > 1 {
			s = 1
		}

		if s < -1 {
			s = -1
		}

		binary.Write(&pcm, binary.LittleEndian, int16(s*32000)) //nolint:gosec // test fixture, magnitude bounded above
	}

	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+pcm.Len())) //nolint:gosec // test fixture size bound
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(shared.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(shared.SampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(pcm.Len())) //nolint:gosec // test fixture size bound
	buf.Write(pcm.Bytes())

	return buf.Bytes()
}

func silentSlot() []byte {
	return encodeWAV(make([]float64, shared.BufferSamples))
}
