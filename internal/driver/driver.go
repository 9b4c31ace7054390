// Package driver runs the multi-pass decode loop: each pass computes a
// spectrogram over the current residual audio, searches for
// candidates, decodes as many as it can in parallel, and subtracts
// successful decodes before the next pass looks for transmissions they
// were masking.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kd9xyz/ft8decode/internal/codec"
	"github.com/kd9xyz/ft8decode/internal/decodeerr"
	"github.com/kd9xyz/ft8decode/internal/dsp/downsample"
	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/dsp/spectrogram"
	"github.com/kd9xyz/ft8decode/internal/ldpc"
	"github.com/kd9xyz/ft8decode/internal/subtract"
	"github.com/kd9xyz/ft8decode/internal/symbol"
	"github.com/kd9xyz/ft8decode/internal/sync/coarse"
	"github.com/kd9xyz/ft8decode/internal/sync/fine"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// State names the driver's position in the multi-pass state machine,
// used only for logging and progress reporting; the loop in Run
// advances through it implicitly.
type State int

const (
	InitialPass State = iota
	NextPass
	Done
)

func (s State) String() string {
	switch s {
	case InitialPass:
		return "initial-pass"
	case NextPass:
		return "next-pass"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// minSyncCount is the nsync threshold at or below which a candidate is not
// worth attempting to decode (spec.md: "candidates at nsync <= 6 are
// not worth decoding").
const minSyncCount = 6

type Options struct {
	MaxPasses int
	Coarse    coarse.Options

	// AprioriHints is a reserved extension point for a future
	// decode pass seeded with known callsigns/locators to bias LLRs
	// before belief propagation. Not read anywhere yet; a-priori-aided
	// decoding is out of scope for this driver.
	AprioriHints []string
}

func DefaultOptions() Options {
	return Options{
		MaxPasses: 3,
		Coarse:    coarse.DefaultOptions(),
	}
}

// Run drives the full multi-pass decode over one audio slot. Candidate
// decoding within a pass is read-parallel over the (unmodified) residual
// snapshot for that pass; dedup bookkeeping and the subtractor's write
// to the residual are serialized behind a mutex.
func Run(ctx context.Context, log *slog.Logger, audio types.AudioBuffer, opts Options) ([]types.DecodeRecord, error) {
	if log == nil {
		log = slog.Default()
	}

	residual := make(types.AudioBuffer, len(audio))
	copy(residual, audio)

	var (
		mu      sync.Mutex
		records []types.DecodeRecord
		seen    = map[string]bool{}
	)

	state := InitialPass

	for pass := range opts.MaxPasses {
		log.Debug("pass starting", "state", state.String(), "pass", pass)

		spec := spectrogram.Compute(residual)

		candidates := coarse.Search(spec, opts.Coarse)
		if len(candidates) == 0 {
			if pass == 0 {
				return nil, decodeerr.ErrNoCandidates
			}

			break
		}

		snapshot := make(types.AudioBuffer, len(residual))
		copy(snapshot, residual)

		g, gctx := errgroup.WithContext(ctx)

		newDecodes := 0

		for _, cand := range candidates {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				refined := fine.Refine(snapshot, cand)

				rec, word, ok := decodeCandidate(snapshot, refined, pass)
				if !ok {
					return nil
				}

				key := dedupKey(rec)

				mu.Lock()
				defer mu.Unlock()

				if seen[key] {
					return nil
				}

				seen[key] = true
				records = append(records, rec)
				newDecodes++

				subtract.Apply(residual, rec, word)

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}

		log.Debug("pass complete", "pass", pass, "new_decodes", newDecodes, "total_decodes", len(records))

		if newDecodes == 0 {
			break
		}

		state = NextPass
	}

	log.Debug("decode complete", "state", Done.String(), "decodes", len(records))

	return records, nil
}

// decodeCandidate attempts to fully decode one refined sync candidate:
// downsample, extract symbols, reject on low nsync, run the LDPC
// sweep, and assemble the decode record plus its re-encoded codeword
// (for the subtractor).
func decodeCandidate(audio types.AudioBuffer, cand types.Candidate, pass int) (types.DecodeRecord, types.CodedWord, bool) {
	nb := downsample.Extract(audio, cand.FrequencyHz)

	startSample := int(math.Round((cand.TimeOffsetS + shared.SlotStartSec) * nb.SampleRate))

	block := symbol.Extract(nb, startSample)
	if block.NSync <= minSyncCount {
		return types.DecodeRecord{}, types.CodedWord{}, false
	}

	diff := symbol.DiffLLR(block)
	ratio := symbol.RatioLLR(block)

	payload, ok := ldpc.Decode(diff, ratio)
	if !ok {
		return types.DecodeRecord{}, types.CodedWord{}, false
	}

	word := ldpc.Encode(codec.PackInfo(payload))

	rec := types.DecodeRecord{
		Payload:     payload,
		FrequencyHz: cand.FrequencyHz,
		TimeOffsetS: cand.TimeOffsetS,
		SNRDb:       estimateSNR(block, cand.Baseline),
		PassNumber:  pass,
		Text:        codec.DecodeText(payload),
	}

	return rec, word, true
}

// estimateSNR converts a candidate's strongest-tone power, relative to
// its coarse-sync noise baseline, into an SNR figure on FT8's
// conventional 2500 Hz reference bandwidth, clamped to [-24, 24] dB.
func estimateSNR(block types.SymbolBlock, baseline float64) float64 {
	if baseline <= 0 {
		return -24
	}

	var (
		sum   float64
		count int
	)

	for _, symIdx := range shared.DataSymbols {
		sum += strongestPower(block.Tones[symIdx])
		count++
	}

	if count == 0 {
		return -24
	}

	signal := sum / float64(count)

	const refBandwidthHz = 2500.0

	bandwidthCorrection := 10 * math.Log10(shared.ToneSpacingHz/refBandwidthHz)
	snr := 10*math.Log10(signal/baseline) + bandwidthCorrection

	return clamp(snr, -24, 24)
}

func strongestPower(powers [shared.NTone]float64) float64 {
	best := powers[0]

	for _, p := range powers[1:] {
		if p > best {
			best = p
		}
	}

	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// dedupKey groups decodes by payload plus frequency/time bucketed to
// the tolerances spec.md defines as "the same decode": one tone bin
// (3.125 Hz) and one symbol-ish time tolerance (0.5 s).
func dedupKey(rec types.DecodeRecord) string {
	freqBucket := int(math.Round(rec.FrequencyHz / 3.125))
	timeBucket := int(math.Round(rec.TimeOffsetS / 0.5))

	return fmt.Sprintf("%s|%d|%d", string(rec.Payload[:]), freqBucket, timeBucket)
}
