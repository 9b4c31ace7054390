package driver

import (
	"context"
	"testing"

	"github.com/kd9xyz/ft8decode/internal/decodeerr"
	"github.com/kd9xyz/ft8decode/internal/types"
)

func TestState_String(t *testing.T) {
	cases := map[State]string{
		InitialPass: "initial-pass",
		NextPass:    "next-pass",
		Done:        "done",
		State(99):   "unknown",
	}

	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func TestRun_SilenceReturnsNoCandidatesError(t *testing.T) {
	audio := make(types.AudioBuffer, 180000)

	_, err := Run(context.Background(), nil, audio, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for silent audio with no sync candidates")
	}

	if err != decodeerr.ErrNoCandidates {
		t.Errorf("got error %v, want %v", err, decodeerr.ErrNoCandidates)
	}
}

func TestDedupKey_BucketsNearbyFrequencyAndTime(t *testing.T) {
	a := types.DecodeRecord{Payload: types.Message77{1}, FrequencyHz: 1000.0, TimeOffsetS: 0.1}
	b := types.DecodeRecord{Payload: types.Message77{1}, FrequencyHz: 1001.0, TimeOffsetS: 0.15}

	if dedupKey(a) != dedupKey(b) {
		t.Errorf("expected nearby decodes to share a dedup key: %q vs %q", dedupKey(a), dedupKey(b))
	}
}

func TestDedupKey_DiffersOnDifferentPayload(t *testing.T) {
	a := types.DecodeRecord{Payload: types.Message77{1}, FrequencyHz: 1000.0}
	b := types.DecodeRecord{Payload: types.Message77{2}, FrequencyHz: 1000.0}

	if dedupKey(a) == dedupKey(b) {
		t.Error("expected different payloads to produce different dedup keys")
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(30, -24, 24); got != 24 {
		t.Errorf("clamp(30, -24, 24) = %v, want 24", got)
	}

	if got := clamp(-30, -24, 24); got != -24 {
		t.Errorf("clamp(-30, -24, 24) = %v, want -24", got)
	}

	if got := clamp(5, -24, 24); got != 5 {
		t.Errorf("clamp(5, -24, 24) = %v, want 5", got)
	}
}
