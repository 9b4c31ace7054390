// Package shared holds the wire-level constants every stage of the FT8
// receive pipeline must agree on.
package shared

const (
	SampleRate = 12000 // Hz, audio input rate
	NSPS       = 1920  // samples per symbol at SampleRate (0.16 s)
	NSTEP      = NSPS / 4
	NFFT1      = 3840 // NSPS zero-padded 2x for the coarse STFT
	NH1        = NFFT1/2 + 1
	NSym       = 79 // symbols per transmission
	NTone      = 8  // 8-FSK
	ToneSpacingHz = 6.25

	NFFTIn  = 192000 // one FFT of the full 15s buffer at 12kHz, zero padded
	NFFTOut = 3200   // narrowband IFFT length -> 200 Hz output rate
	BasebandRate = SampleRate * NFFTOut / NFFTIn // 200 Hz

	SlotStartSec  = 0.5   // nominal slot start offset into the 15s buffer
	SlotDurationSec = 12.64
	BufferSamples = 180000 // 15s @ 12kHz

	NSync  = 21 // Costas symbols total (3 blocks of 7)
	NCheck = 83 // LDPC parity checks
	NCode  = 174
	NInfo  = 91
	NPayload = 77
	NCRC     = 14
)

// Costas is the FT8 synchronization tone permutation, repeated at
// symbols 0-6, 36-42 and 72-78.
var Costas = [7]int{3, 1, 4, 0, 6, 5, 2}

// GrayMap maps a tone index (0-7) to its 3-bit Gray-coded value.
var GrayMap = [8]int{0, 1, 3, 2, 5, 6, 4, 7}

// GrayMapInverse maps a 3-bit Gray-coded value back to its tone index.
var GrayMapInverse = buildGrayInverse()

func buildGrayInverse() [8]int {
	var inv [8]int
	for tone, g := range GrayMap {
		inv[g] = tone
	}

	return inv
}

// CostasStarts are the symbol indices at which a 7-symbol Costas block begins.
var CostasStarts = [3]int{0, 36, 72}

// DataSymbols lists, in transmission order, the NSym-NSync symbol
// indices that carry coded bits rather than Costas sync tones.
var DataSymbols = buildDataSymbols()

func buildDataSymbols() [NSym - NSync]int {
	isSync := map[int]bool{}

	for _, start := range CostasStarts {
		for k := range Costas {
			isSync[start+k] = true
		}
	}

	var out [NSym - NSync]int

	n := 0

	for i := range NSym {
		if !isSync[i] {
			out[n] = i
			n++
		}
	}

	return out
}
