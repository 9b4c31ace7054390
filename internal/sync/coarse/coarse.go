// Package coarse implements bin-resolution Costas-array correlation
// over the full spectrogram, producing the first-pass candidate list
// fine sync later refines.
package coarse

import (
	"math"
	"sort"

	"github.com/kd9xyz/ft8decode/internal/dsp/shared"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// stepsPerSymbol is how many NSTEP-sized time bins make up one symbol.
const stepsPerSymbol = shared.NSPS / shared.NSTEP

// binsPerTone is the frequency spacing between adjacent FT8 tones, in
// spectrogram bins (ToneSpacingHz / (SampleRate/NFFT1) = 6.25/3.125).
const binsPerTone = 2

type Options struct {
	SyncMin        float64 // minimum normalized sync score kept
	MaxCandidates  int
	NarrowLagSteps int // +/- time-bin search window around the nominal slot start
	WideLagSteps   int
	DedupBins      int     // frequency-bin radius (3.125 Hz/bin) used to suppress weaker neighbors
	DedupTimeSec   float64 // time radius, in seconds, paired with DedupBins: both must hold to merge
}

func DefaultOptions() Options {
	return Options{
		SyncMin:        0.3,
		MaxCandidates:  200,
		NarrowLagSteps: 10,
		WideLagSteps:   62,
		DedupBins:      1,
		DedupTimeSec:   0.5,
	}
}

// Search runs two independent lag sweeps against the spectrogram — a
// narrow window around the nominal slot start and a wide one spanning
// the full plausible timing-error range — and scores every (frequency
// bin, time lag) position in each against the three embedded Costas
// arrays. Each bin contributes its strongest peak from each search.
// Origins whose middle Costas block would fall outside the grid are
// not scored. The combined raw list is normalized, thresholded by opts.SyncMin,
// deduplicated (within DedupBins frequency bins AND DedupTimeSec
// seconds — both conditions must hold to merge) and capped at
// opts.MaxCandidates.
func Search(spec types.Spectrogram, opts Options) []types.Candidate {
	baseline := percentileBaseline(spec, 0.40)
	if baseline <= 0 {
		return nil
	}

	nominalStep := int(shared.SlotStartSec * shared.SampleRate / shared.NSTEP)

	type scored struct {
		bin, step int
		score     float64
	}

	// The middle Costas block is indexed without bounds checks, so only
	// origins whose middle block lies inside the grid are scored.
	binLimit := spec.NH1 - (len(shared.Costas)-1)*binsPerTone
	stepLimit := spec.NHSym - (shared.CostasStarts[1]+len(shared.Costas)-1)*stepsPerSymbol

	var raw []scored

	for _, lagSteps := range []int{opts.NarrowLagSteps, opts.WideLagSteps} {
		for bin := range binLimit {
			var best scored

			for lag := -lagSteps; lag <= lagSteps; lag++ {
				step := nominalStep + lag
				if step < 0 || step >= stepLimit {
					continue
				}

				if score := costasScore(spec, bin, step); score > best.score {
					best = scored{bin: bin, step: step, score: score}
				}
			}

			if best.score > 0 {
				raw = append(raw, scored{bin: bin, step: best.step, score: best.score / baseline})
			}
		}
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].score > raw[j].score })

	var candidates []types.Candidate

	var kept []lagPoint

	freqRes := float64(shared.SampleRate) / float64(shared.NFFT1)
	timeRes := float64(shared.NSTEP) / float64(shared.SampleRate)
	timeRadiusSteps := int(math.Round(opts.DedupTimeSec / timeRes))

	for _, r := range raw {
		if r.score < opts.SyncMin {
			break
		}

		if isDeduped(kept, r.bin, r.step, opts.DedupBins, timeRadiusSteps) {
			continue
		}

		kept = append(kept, lagPoint{bin: r.bin, step: r.step})

		candidates = append(candidates, types.Candidate{
			FrequencyHz: float64(r.bin) * freqRes,
			TimeOffsetS: float64(r.step)*timeRes - shared.SlotStartSec,
			SyncScore:   r.score,
			Baseline:    baseline,
		})

		if len(candidates) >= opts.MaxCandidates {
			break
		}
	}

	return candidates
}

// costasScore computes the composite Costas correlation score at a
// (bin, step) origin: max((ta+tb+tc)/b_abc, (tb+tc)/b_bc), where each
// block contributes a tone-expected power t_k and a (t0_k-t_k)/6
// baseline (t0_k being the tone-total power across all 7 Costas-
// pattern tone positions). Taking the max over the full three-block
// score and the trailing-two-block score lets a leading Costas block
// that the wide lag sweep has pushed out of the buffer still
// contribute a usable score instead of zeroing the whole candidate.
func costasScore(spec types.Spectrogram, bin, step int) float64 {
	ta, ba := blockScore(spec, bin, step, shared.CostasStarts[0], true)
	tb, bb := blockScore(spec, bin, step, shared.CostasStarts[1], false)
	tc, bc := blockScore(spec, bin, step, shared.CostasStarts[2], true)

	var scoreABC, scoreBC float64

	if babc := ba + bb + bc; babc > 0 {
		scoreABC = (ta + tb + tc) / babc
	}

	if bbc := bb + bc; bbc > 0 {
		scoreBC = (tb + tc) / bbc
	}

	return math.Max(scoreABC, scoreBC)
}

// blockScore sums one Costas block's tone-expected power t and its
// (t0-t)/6 baseline, t0 being the tone-total power across all 7
// Costas-pattern tone positions at the same time index. The first and
// third blocks are bounds-checked because the wide time-lag search can
// push their symbols outside the spectrogram; the middle block is
// indexed directly, and Search only scores origins whose middle block
// lies inside the grid.
func blockScore(spec types.Spectrogram, bin, step, blockStart int, boundsChecked bool) (t, baseline float64) {
	var t0 float64

	for n, tone := range shared.Costas {
		timeIdx := step + (blockStart+n)*stepsPerSymbol

		if boundsChecked && (timeIdx < 0 || timeIdx >= spec.NHSym) {
			continue
		}

		for m := range 7 {
			freqBin := bin + m*binsPerTone
			if boundsChecked && (freqBin < 0 || freqBin >= spec.NH1) {
				continue
			}

			power := spec.Bins[freqBin][timeIdx]
			t0 += power

			if m == tone {
				t += power
			}
		}
	}

	return t, (t0 - t) / 6
}

// percentileBaseline estimates the noise floor as a percentile of
// per-bin average power.
func percentileBaseline(spec types.Spectrogram, p float64) float64 {
	if spec.NHSym == 0 || len(spec.Avg) == 0 {
		return 0
	}

	vals := make([]float64, len(spec.Avg))
	for i, v := range spec.Avg {
		vals[i] = v / float64(spec.NHSym)
	}

	sort.Float64s(vals)

	idx := int(p * float64(len(vals)-1))

	return vals[idx]
}

// lagPoint is a kept candidate's (bin, step) origin, checked against
// new raw entries for the spec's dedup rule: merge only when both
// within the frequency radius AND within the time radius.
type lagPoint struct {
	bin, step int
}

func isDeduped(kept []lagPoint, bin, step, binRadius, stepRadius int) bool {
	for _, k := range kept {
		if abs(bin-k.bin) <= binRadius && abs(step-k.step) <= stepRadius {
			return true
		}
	}

	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
