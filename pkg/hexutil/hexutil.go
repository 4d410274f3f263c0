// Package hexutil converts between hexadecimal text and raw byte sequences.
//
// The decoder is strict: two characters per byte, most significant nibble
// first, upper and lower case accepted, nothing else. Unlike encoding/hex it
// exposes the per-character digit parser and an all-or-nothing string parser
// whose result is either fully present or absent.
package hexutil

import "fmt"

// InvalidHexDigit is the value ParseHexDigit returns for a byte that is not a
// hexadecimal digit. It is >= 256, so any nibble pair containing it combines
// to a value outside the byte range.
const InvalidHexDigit = 256

const digits = "0123456789abcdef"

// ParseHexDigit maps one character to its nibble value: '0'..'9' to 0-9,
// 'a'..'f' and 'A'..'F' to 10-15. Every other byte maps to InvalidHexDigit.
func ParseHexDigit(digit byte) int {
	switch {
	case digit >= '0' && digit <= '9':
		return int(digit - '0')
	case digit >= 'a' && digit <= 'f':
		return int(digit-'a') + 10
	case digit >= 'A' && digit <= 'F':
		return int(digit-'A') + 10
	}
	return InvalidHexDigit
}

// ParseHexString decodes a hexadecimal string into the byte sequence it
// represents. The boolean reports whether the input was well formed. Parsing
// is all or nothing: an odd-length input or any non-hex character yields
// (nil, false) with no partial output and no indication of position. On
// success the result holds exactly len(s)/2 bytes in input order; the empty
// string decodes to an empty, non-nil slice.
func ParseHexString(s string) ([]byte, bool) {
	if len(s)%2 != 0 {
		return nil, false
	}
	res := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		value := ParseHexDigit(s[i])<<4 | ParseHexDigit(s[i+1])
		if value >= 256 {
			return nil, false
		}
		res = append(res, byte(value))
	}
	return res, true
}

// DecodeString accepts exactly the inputs ParseHexString accepts but reports
// why parsing failed, including the offset of the first offending character.
func DecodeString(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hex string has odd length %d", len(s))
	}
	res := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi := ParseHexDigit(s[i])
		if hi == InvalidHexDigit {
			return nil, fmt.Errorf("invalid hex character %q at index %d", s[i], i)
		}
		lo := ParseHexDigit(s[i+1])
		if lo == InvalidHexDigit {
			return nil, fmt.Errorf("invalid hex character %q at index %d", s[i+1], i+1)
		}
		res[i/2] = byte(hi<<4 | lo)
	}
	return res, nil
}

// FormatHexString encodes data as lowercase hexadecimal text, two characters
// per byte. It is the inverse of ParseHexString.
func FormatHexString(data []byte) string {
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = digits[b>>4]
		out[i*2+1] = digits[b&0x0f]
	}
	return string(out)
}
