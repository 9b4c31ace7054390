// Package ft8 decodes FT8 digital-mode transmissions from a 15 s,
// 12 kHz mono audio slot.
package ft8

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kd9xyz/ft8decode/internal/audioio"
	"github.com/kd9xyz/ft8decode/internal/decodeerr"
	"github.com/kd9xyz/ft8decode/internal/driver"
	"github.com/kd9xyz/ft8decode/internal/sync/coarse"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// Options configures a decode run.
type Options struct {
	// MaxPasses is the number of subtract-and-retry passes attempted
	// over one audio slot.
	MaxPasses int

	// SyncMin is the minimum normalized coarse-sync score a candidate
	// needs to be decoded at all.
	SyncMin float64

	// MaxCandidates caps how many sync candidates a single pass will
	// attempt to decode.
	MaxCandidates int

	// SlotStart is the UTC wall-clock time the audio slot began at,
	// used only to format decode timestamps. Defaults to time.Now().
	SlotStart time.Time

	// Logger receives pass-by-pass progress at Debug level. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the receive pipeline's default tuning.
func DefaultOptions() Options {
	d := driver.DefaultOptions()

	return Options{
		MaxPasses:     d.MaxPasses,
		SyncMin:       d.Coarse.SyncMin,
		MaxCandidates: d.Coarse.MaxCandidates,
	}
}

// Result is the outcome of decoding one audio slot.
type Result struct {
	Decodes   []types.DecodeRecord
	SlotStart time.Time
}

// Decode reads one 15 s, 12 kHz mono WAV slot from reader and returns
// every message the receive pipeline could decode across
// opts.MaxPasses subtract-and-retry passes. A slot in which coarse sync
// finds no candidate yields an empty Result and no error.
func Decode(ctx context.Context, reader io.Reader, opts Options) (*Result, error) {
	if opts.MaxPasses == 0 {
		defaults := DefaultOptions()
		opts.MaxPasses = defaults.MaxPasses
		opts.SyncMin = defaults.SyncMin
		opts.MaxCandidates = defaults.MaxCandidates
	}

	if opts.SlotStart.IsZero() {
		opts.SlotStart = time.Now().UTC()
	}

	audio, err := audioio.LoadWAV(reader)
	if err != nil {
		return nil, fmt.Errorf("loading audio: %w", err)
	}

	coarseOpts := coarse.DefaultOptions()
	coarseOpts.SyncMin = opts.SyncMin
	coarseOpts.MaxCandidates = opts.MaxCandidates

	driverOpts := driver.Options{
		MaxPasses: opts.MaxPasses,
		Coarse:    coarseOpts,
	}

	records, err := driver.Run(ctx, opts.Logger, audio, driverOpts)
	if errors.Is(err, decodeerr.ErrNoCandidates) {
		return &Result{SlotStart: opts.SlotStart}, nil
	}

	if err != nil {
		return nil, err
	}

	return &Result{Decodes: records, SlotStart: opts.SlotStart}, nil
}
