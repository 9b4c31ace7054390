// Package output provides shared result serialization for ft8decode.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/kd9xyz/ft8decode"
	"github.com/kd9xyz/ft8decode/internal/types"
)

const maxTextChars = 37

// ResultToMap converts a decode result into the canonical map
// structure used for JSON and JSONL serialization.
func ResultToMap(result *ft8.Result) map[string]any {
	decodes := make([]any, 0, len(result.Decodes))
	for _, d := range result.Decodes {
		decodes = append(decodes, recordToMap(result, d))
	}

	return map[string]any{
		"slot_start":   result.SlotStart.Format("2006-01-02T15:04:05Z"),
		"decode_count": len(result.Decodes),
		"decodes":      decodes,
	}
}

func recordToMap(result *ft8.Result, d types.DecodeRecord) map[string]any {
	text := d.Text
	if len(text) > maxTextChars {
		text = text[:maxTextChars]
	}

	return map[string]any{
		"utc":           result.SlotStart.Format("04:05"),
		"snr_db":        int(math.Round(d.SNRDb)),
		"time_offset_s": math.Round(d.TimeOffsetS*10) / 10,
		"freq_hz":       int(math.Round(d.FrequencyHz)),
		"text":          text,
		"pass":          d.PassNumber,
	}
}

// WriteJSON writes the full result as a single pretty-printed JSON
// document.
func WriteJSON(w io.Writer, result *ft8.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(ResultToMap(result)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// WriteJSONL writes one compact JSON object per decode, newline
// delimited.
func WriteJSONL(w io.Writer, result *ft8.Result) error {
	enc := json.NewEncoder(w)

	for _, d := range result.Decodes {
		if err := enc.Encode(recordToMap(result, d)); err != nil {
			return fmt.Errorf("encoding jsonl: %w", err)
		}
	}

	return nil
}

// WriteConsole writes one WSJT-X-style summary line per decode:
// UTC mm:ss, SNR, time offset, frequency, and text.
func WriteConsole(w io.Writer, result *ft8.Result) error {
	if len(result.Decodes) == 0 {
		_, err := fmt.Fprintln(w, "no decodes")

		return err //nolint:wrapcheck // direct passthrough of an io.Writer error
	}

	for _, d := range result.Decodes {
		text := d.Text
		if len(text) > maxTextChars {
			text = text[:maxTextChars]
		}

		_, err := fmt.Fprintf(
			w,
			"%s %3d %4.1f %4d %s\n",
			result.SlotStart.Format("04:05"),
			int(math.Round(d.SNRDb)),
			math.Round(d.TimeOffsetS*10)/10,
			int(math.Round(d.FrequencyHz)),
			text,
		)
		if err != nil {
			return fmt.Errorf("writing console output: %w", err)
		}
	}

	return nil
}
