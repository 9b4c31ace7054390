package codec

import "github.com/kd9xyz/ft8decode/internal/types"

// PackInfo builds the 91-bit LDPC information vector: the 77 payload
// bits followed by their 14-bit CRC.
func PackInfo(payload types.Message77) [91]byte {
	var info [91]byte

	copy(info[:77], payload[:])

	crc := CRC14Bits(payload[:])
	copy(info[77:91], crc[:])

	return info
}

// VerifyCRC reports whether bits 77..90 of a 91-bit information vector
// match the CRC of its first 77 payload bits.
func VerifyCRC(info [91]byte) bool {
	want := CRC14Bits(info[:77])

	for i := range want {
		if info[77+i] != want[i] {
			return false
		}
	}

	return true
}
