// Package codec implements the FT8 message packer/unpacker: the
// deliberately-out-of-scope "pure bit-layout module" of spec.md §1,
// kept here as an internal collaborator the receive pipeline depends
// on only through EncodeText/DecodeText.
//
// Two message types are supported: free text (13 characters from a
// 42-symbol alphabet packed as a single base-42 integer, the same
// scheme FT8 itself uses) and a standard "CALL1 CALL2 GRID" type,
// which uses this package's own compact callsign/grid packing rather
// than reverse-engineering WSJT-X's full hashed-callsign table
// (original_source/ for this spec yielded no retrievable reference —
// see DESIGN.md).
package codec

import (
	"math/big"
	"strings"

	"github.com/kd9xyz/ft8decode/internal/types"
)

const freeTextAlphabet = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ+-./?"

const (
	typeFreeText = 0
	typeStandard = 1
)

// callAlphabet is used for direct (non-hashed) callsign packing: space
// plus digits plus uppercase letters, 37 symbols.
const callAlphabet = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	callDirectBase  = 37
	callDirectChars = 5
	// callDirectRange is 37^5, the number of directly-representable
	// 5-character (or shorter, space-padded) callsigns.
	callDirectRange = 69343957
	callCQCode      = 0
	callHashBase    = callDirectRange + 1
	callFieldBits   = 28
	callFieldMax    = 1 << callFieldBits
)

// EncodeText packs free-form text into a Message77. Input of the form
// "CALL1 CALL2 GRID" (exactly three space-separated tokens, with GRID a
// 4-character Maidenhead locator) is packed as the standard type;
// anything else is packed as 13 characters of free text, truncated or
// space-padded to fit.
func EncodeText(text string) (types.Message77, error) {
	fields := strings.Fields(text)
	if len(fields) == 3 && isGrid(fields[2]) {
		return encodeStandard(fields[0], fields[1], fields[2])
	}

	return encodeFreeText(text), nil
}

func encodeFreeText(text string) types.Message77 {
	text = strings.ToUpper(text)
	if len(text) > 13 {
		text = text[:13]
	}

	for len(text) < 13 {
		text += " "
	}

	value := new(big.Int)
	base := big.NewInt(int64(len(freeTextAlphabet)))

	for _, r := range text {
		idx := strings.IndexRune(freeTextAlphabet, r)
		if idx < 0 {
			idx = 0 // unsupported character maps to space, matching "total" decode contract
		}

		value.Mul(value, base)
		value.Add(value, big.NewInt(int64(idx)))
	}

	var msg types.Message77

	writeBigEndianBits(msg[:71], value)

	putBits(msg[71:74], 0, 3) // n3
	putBits(msg[74:77], typeFreeText, 3)

	return msg
}

func decodeFreeText(msg types.Message77) string {
	value := readBigEndianBits(msg[:71])
	base := big.NewInt(int64(len(freeTextAlphabet)))

	runes := make([]byte, 13)

	rem := new(big.Int).Set(value)
	mod := new(big.Int)

	for i := 12; i >= 0; i-- {
		rem.DivMod(rem, base, mod)
		runes[i] = freeTextAlphabet[mod.Int64()]
	}

	return strings.TrimRight(string(runes), " ")
}

func encodeStandard(call1, call2, grid string) (types.Message77, error) {
	c1, err := packCallsign(call1)
	if err != nil {
		return types.Message77{}, err
	}

	c2, err := packCallsign(call2)
	if err != nil {
		return types.Message77{}, err
	}

	g, err := packGrid(grid)
	if err != nil {
		return types.Message77{}, err
	}

	var msg types.Message77

	putBits(msg[0:28], c1, 28)
	putBits(msg[28:56], c2, 28)
	putBits(msg[56:57], 0, 1) // report-present flag, unused
	putBits(msg[57:72], g, 15)
	putBits(msg[72:74], 0, 2) // reserved
	putBits(msg[74:77], typeStandard, 3)

	return msg, nil
}

func decodeStandard(msg types.Message77) string {
	c1 := getBits(msg[0:28])
	c2 := getBits(msg[28:56])
	g := getBits(msg[57:72])

	return unpackCallsign(c1) + " " + unpackCallsign(c2) + " " + unpackGrid(g)
}

// DecodeText unpacks a Message77 back into its textual form. It is
// total: messages that were hash-packed (non-standard callsigns) decode
// to a bracketed placeholder rather than failing.
func DecodeText(msg types.Message77) string {
	i3 := getBits(msg[74:77])
	if i3 == typeStandard {
		return decodeStandard(msg)
	}

	return decodeFreeText(msg)
}

func packCallsign(call string) (int, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if call == "CQ" {
		return callCQCode, nil
	}

	if len(call) <= callDirectChars && isDirectCall(call) {
		padded := call
		for len(padded) < callDirectChars {
			padded += " "
		}

		value := 0
		for _, r := range padded {
			value = value*callDirectBase + strings.IndexRune(callAlphabet, r)
		}

		return value + 1, nil
	}

	return callHashBase + int(fnv32(call)%uint32(callFieldMax-callHashBase)), nil
}

func isDirectCall(call string) bool {
	for _, r := range call {
		if strings.IndexRune(callAlphabet, r) < 0 {
			return false
		}
	}

	return true
}

func unpackCallsign(v int) string {
	if v == callCQCode {
		return "CQ"
	}

	if v < callCQCode+1+callDirectRange {
		n := v - 1

		buf := make([]byte, callDirectChars)
		for i := callDirectChars - 1; i >= 0; i-- {
			buf[i] = callAlphabet[n%callDirectBase]
			n /= callDirectBase
		}

		return strings.TrimRight(string(buf), " ")
	}

	return "<...>"
}

func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	h := uint32(offset32)
	for i := range len(s) {
		h ^= uint32(s[i])
		h *= prime32
	}

	return h
}

func isGrid(s string) bool {
	if len(s) != 4 {
		return false
	}

	s = strings.ToUpper(s)

	return s[0] >= 'A' && s[0] <= 'R' && s[1] >= 'A' && s[1] <= 'R' && s[2] >= '0' && s[2] <= '9' && s[3] >= '0' && s[3] <= '9'
}

func packGrid(grid string) (int, error) {
	grid = strings.ToUpper(grid)

	c1 := int(grid[0] - 'A')
	c2 := int(grid[1] - 'A')
	d1 := int(grid[2] - '0')
	d2 := int(grid[3] - '0')

	return (c1*18+c2)*100 + d1*10 + d2, nil
}

func unpackGrid(v int) string {
	rem := v % 100
	quo := v / 100

	c2 := quo % 18
	c1 := quo / 18

	return string([]byte{byte('A' + c1), byte('A' + c2), byte('0' + rem/10), byte('0' + rem%10)})
}

// putBits writes the low `width` bits of value, MSB-first, into dst (0/1 bytes).
func putBits(dst []byte, value, width int) {
	for i := range width {
		dst[i] = byte((value >> (width - 1 - i)) & 1)
	}
}

func getBits(src []byte) int {
	v := 0
	for _, b := range src {
		v = v<<1 | int(b&1)
	}

	return v
}

func writeBigEndianBits(dst []byte, value *big.Int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(value.Bit(len(dst) - 1 - i))
	}
}

func readBigEndianBits(src []byte) *big.Int {
	value := new(big.Int)
	for _, b := range src {
		value.Lsh(value, 1)

		if b != 0 {
			value.Or(value, big.NewInt(1))
		}
	}

	return value
}
