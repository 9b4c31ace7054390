// Package audioio loads the 15 s, 12 kHz mono audio slots the receive
// pipeline operates on.
package audioio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"

	"github.com/kd9xyz/ft8decode/internal/decodeerr"
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

const (
	riffHeaderSize = 12
	chunkHeaderSize = 8
	pcmBitDepth    = 16
)

// LoadWAV reads a canonical 16-bit PCM mono WAV file and returns its
// samples as a float64 buffer in native int16 units (no rescaling to
// [-1, 1]). It does not resample: the
// input is expected to already be at shared.SampleRate, matching the
// rest of the pipeline's fixed-rate assumptions.
func LoadWAV(r io.Reader) (types.AudioBuffer, error) {
	header := make([]byte, riffHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: %w", decodeerr.ErrBadInput, err)
	}

	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", decodeerr.ErrBadInput)
	}

	var (
		sampleRate uint32
		channels   uint16
		bitDepth   uint16
		samples    types.AudioBuffer
	)

	for {
		chunkHeader := make([]byte, chunkHeaderSize)

		_, err := io.ReadFull(r, chunkHeader)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		body := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		if chunkSize%2 == 1 {
			// chunks are word-aligned; a one-byte pad follows odd sizes.
			if _, err := io.CopyN(io.Discard, r, 1); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
			}
		}

		switch chunkID {
		case "fmt ":
			if len(body) < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too short", decodeerr.ErrBadInput)
			}

			channels = binary.LittleEndian.Uint16(body[2:4])
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			bitDepth = binary.LittleEndian.Uint16(body[14:16])
		case "data":
			decoded, err := decodePCM16(body, channels)
			if err != nil {
				return nil, err
			}

			samples = decoded
		default:
			// ignore metadata chunks (LIST, fact, ...)
		}
	}

	if bitDepth != pcmBitDepth {
		return nil, fmt.Errorf("%w: unsupported bit depth %d, want %d", decodeerr.ErrBadInput, bitDepth, pcmBitDepth)
	}

	if samples == nil {
		return nil, fmt.Errorf("%w: no data chunk", decodeerr.ErrBadInput)
	}

	if sampleRate != 0 && sampleRate != shared.SampleRate {
		return nil, fmt.Errorf("%w: sample rate %d, want %d", decodeerr.ErrBadInput, sampleRate, shared.SampleRate)
	}

	return samples, nil
}

// decodePCM16 converts little-endian signed 16-bit PCM into float64
// samples in int16 units, mixing to mono by averaging channels.
func decodePCM16(data []byte, channels uint16) (types.AudioBuffer, error) {
	if channels == 0 {
		channels = 1
	}

	frameSize := 2 * int(channels)
	if frameSize == 0 || len(data)%frameSize != 0 {
		data = data[:len(data)-len(data)%frameSize]
	}

	frames := len(data) / frameSize
	out := make(types.AudioBuffer, frames)

	for i := range frames {
		var sum float64

		for c := range int(channels) {
			offset := i*frameSize + c*2
			sample := int16(binary.LittleEndian.Uint16(data[offset:])) //nolint:gosec // two's complement conversion for signed PCM samples
			sum += float64(sample)
		}

		out[i] = sum / float64(channels)
	}

	return out, nil
}
