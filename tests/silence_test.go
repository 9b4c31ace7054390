package ft8_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9xyz/ft8decode"
)

// Silence has no sync candidates at all on its first pass. The driver
// reports that as decodeerr.ErrNoCandidates, which ft8.Decode turns
// into an empty, error-free result.
func TestDecode_SilenceYieldsNoDecodes(t *testing.T) {
	result, err := ft8.Decode(context.Background(), bytes.NewReader(silentSlot()), ft8.DefaultOptions())

	require.NoError(t, err)
	assert.Empty(t, result.Decodes)
}
