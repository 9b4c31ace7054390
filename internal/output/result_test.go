package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode"
	"github.com/kd9xyz/ft8decode/internal/types"
)

func sampleResult() *ft8.Result {
	return &ft8.Result{
		SlotStart: time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC),
		Decodes: []types.DecodeRecord{
			{
				Payload:     types.Message77{},
				FrequencyHz: 1234.4,
				TimeOffsetS: 0.27,
				SNRDb:       -7.8,
				PassNumber:  0,
				Text:        "CQ N0YPR DM42",
			},
		},
	}
}

func TestResultToMap_FieldsRoundedAsSpecified(t *testing.T) {
	m := ResultToMap(sampleResult())

	assert.Equal(t, 1, m["decode_count"])

	decodes := m["decodes"].([]any)
	require.Len(t, decodes, 1)

	rec := decodes[0].(map[string]any)
	assert.Equal(t, -8, rec["snr_db"])
	assert.InDelta(t, 0.3, rec["time_offset_s"].(float64), 1e-9)
	assert.Equal(t, 1234, rec["freq_hz"])
	assert.Equal(t, "CQ N0YPR DM42", rec["text"])
}

func TestRecordToMap_TruncatesLongText(t *testing.T) {
	result := sampleResult()
	result.Decodes[0].Text = strings.Repeat("X", 100)

	m := recordToMap(result, result.Decodes[0])

	assert.Len(t, m["text"].(string), maxTextChars)
}

func TestWriteConsole_NoDecodesSaysSo(t *testing.T) {
	var buf bytes.Buffer

	err := WriteConsole(&buf, &ft8.Result{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no decodes")
}

func TestWriteJSONL_OneLinePerDecode(t *testing.T) {
	var buf bytes.Buffer

	result := sampleResult()
	result.Decodes = append(result.Decodes, result.Decodes[0])

	require.NoError(t, WriteJSONL(&buf, result))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestWriteJSON_IsValidPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "\"decode_count\": 1")
}
