package ldpc

import (
	"github.com/kd9xyz/ft8decode/internal/ldpc/gf2"
	"github.com/kd9xyz/ft8decode/internal/types"
)

// Encode maps a 91-bit information vector (77 payload bits + 14 CRC
// bits, see internal/codec.PackInfo) to its 174-bit LDPC codeword.
func Encode(info [91]byte) types.CodedWord {
	g := Get().G

	row := make(gf2.Row, infoBits)
	copy(row, info[:])

	var word types.CodedWord

	for col := range codeBits {
		var bit byte
		for i := range infoBits {
			bit ^= row[i] & g[i][col]
		}

		word[col] = bit
	}

	return word
}
