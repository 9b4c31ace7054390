// Package types holds the shared data model for the FT8 receive pipeline:
// the spectrogram grid, sync candidates, narrowband signals, symbol blocks,
// LLR vectors, coded words and decode records that flow between stages.
package types

// AudioBuffer is 15 s of 12 kHz real samples. It is immutable within a
// pass; the multi-pass driver owns the one mutable residual copy.
type AudioBuffer []float64

// Spectrogram is the (frequency bin x time step) power grid produced by
// the STFT stage. S[i][j] >= 0 always; it is recomputed from scratch
// whenever the residual audio changes.
type Spectrogram struct {
	Bins  [][]float64 // [NH1][NHSYM], power (not dB)
	Avg   []float64   // per-bin time-summed power, used by the baseline estimator
	NH1   int
	NHSym int
}

/*
Candidate lifecycle

A Candidate is created by coarse sync with a raw (bin-resolution)
frequency/time and a normalized sync score. Fine sync refines
Frequency/TimeOffset to sub-bin precision but never touches SyncScore —
that field is a ranking signal from the coarse stage, not a
measurement of the refined position. Ownership is exclusive to the
pass that produced it; candidates are never shared across passes.

| SyncScore (normalized) | Meaning                          |
|-------------------------|----------------------------------|
| < syncmin (0.3 default) | discarded before candidate list  |
| 0.3 - 1.0                | weak, may still decode           |
| > 2.0                    | strong, near-certain decode       |
*/
type Candidate struct {
	FrequencyHz float64
	TimeOffsetS float64 // relative to nominal slot start (+0.5s into buffer)
	SyncScore   float64 // normalized coarse-sync score; preserved through fine sync
	Baseline    float64 // slot-wide noise baseline (percentile of per-bin average power) used for SNR estimation
}

// NarrowbandSignal is a complex baseband sequence at ~200 Hz sample rate
// spanning at least one FT8 transmission (12.64 s, ~3200 samples),
// centered on a candidate's frequency.
type NarrowbandSignal struct {
	Samples    []complex128
	SampleRate float64
}

/*
SymbolBlock holds one 8-tone power vector per symbol.

nsync counts, over the 21 Costas symbols (7 each at offsets 0, 36, 72),
how many have their strongest tone bin matching the expected Costas
tone. Candidates at nsync <= 6 are not worth decoding (LowQualityCandidate):
out-of-range symbols (negative refined start, or past the end of the
buffer) are treated as zero power and excluded from both the numerator
and denominator of nsync, never counted as mismatches.
*/
type SymbolBlock struct {
	Tones [][NTone]float64 // len 79, power per tone
	NSync int
}

// NTone is the FT8 tone alphabet size (8-FSK). Duplicated from
// internal/dsp/shared to keep types a leaf package with no internal
// dependencies.
const NTone = 8

// LLRVector is 174 signed log-likelihood ratios, one per coded bit.
// Sign is the hard bit decision (LLR<0 means bit=1); magnitude is
// confidence.
type LLRVector []float64

// CodedWord is 174 bits: 91 information bits (77 payload + 14 CRC)
// followed by 83 parity bits, satisfying the fixed LDPC(174,91) code.
type CodedWord [174]byte

// Message77 is the 77-bit application payload before CRC/LDPC framing.
type Message77 [77]byte

/*
DecodeRecord is one confirmed decode.

| SNRDb      | Interpretation                  |
|------------|----------------------------------|
| < -20      | marginal, near decode floor      |
| -15 to -5  | typical weak-signal FT8 decode   |
| > 0        | strong signal                    |

SNRDb is clamped to [-24, 24] per the wire-level output contract.
*/
type DecodeRecord struct {
	Payload     Message77
	FrequencyHz float64
	TimeOffsetS float64
	SNRDb       float64
	PassNumber  int
	Text        string
}
