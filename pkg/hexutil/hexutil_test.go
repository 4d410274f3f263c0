package hexutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexDigit(t *testing.T) {
	// Independent oracle: position in the digit alphabets.
	for c := 0; c <= 255; c++ {
		want := InvalidHexDigit
		if i := strings.IndexByte("0123456789abcdef", byte(c)); i >= 0 {
			want = i
		} else if i := strings.IndexByte("ABCDEF", byte(c)); i >= 0 {
			want = 10 + i
		}
		assert.Equal(t, want, ParseHexDigit(byte(c)), "character %q", byte(c))
	}
}

func TestParseHexString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
		ok   bool
	}{
		{"empty", "", []byte{}, true},
		{"zero byte", "00", []byte{0x00}, true},
		{"ff lowercase", "ff", []byte{0xff}, true},
		{"FF uppercase", "FF", []byte{0xff}, true},
		{"mixed case", "DeAdBeEf", []byte{0xde, 0xad, 0xbe, 0xef}, true},
		{"deadbeef", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, true},
		{"leading zeros", "000102", []byte{0x00, 0x01, 0x02}, true},
		{"single digit", "a", nil, false},
		{"odd length", "abc", nil, false},
		{"invalid digits", "zz", nil, false},
		{"invalid high nibble", "g0", nil, false},
		{"invalid low nibble", "0g", nil, false},
		{"invalid in later pair", "00ffg0", nil, false},
		{"inner space", "ab cd", nil, false},
		{"0x prefix not accepted", "0xff", nil, false},
		{"trailing newline", "abcd\n", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHexString(tt.in)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in)/2)
		})
	}
}

func TestParseHexStringOddLengthNeverSucceeds(t *testing.T) {
	in := ""
	for i := 0; i < 16; i++ {
		in += "f"
		if len(in)%2 != 0 {
			_, ok := ParseHexString(in)
			assert.False(t, ok, "odd length %d", len(in))
		}
	}
}

func TestParseHexStringRoundTrip(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	lower := FormatHexString(data)
	got, ok := ParseHexString(lower)
	require.True(t, ok)
	assert.Equal(t, data, got)

	got, ok = ParseHexString(strings.ToUpper(lower))
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr string
	}{
		{"empty", "", []byte{}, ""},
		{"deadbeef", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, ""},
		{"odd length", "abc", nil, "odd length 3"},
		{"bad high nibble", "00x1", nil, `invalid hex character 'x' at index 2`},
		{"bad low nibble", "0x", nil, `invalid hex character 'x' at index 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeString(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStringMatchesParseHexString(t *testing.T) {
	for _, in := range []string{"", "00", "ff", "FF", "deadbeef", "a", "zz", "0g", "cafe01"} {
		want, ok := ParseHexString(in)
		got, err := DecodeString(in)
		if ok {
			require.NoError(t, err, "input %q", in)
			assert.Equal(t, want, got, "input %q", in)
		} else {
			assert.Error(t, err, "input %q", in)
		}
	}
}

func TestFormatHexString(t *testing.T) {
	assert.Equal(t, "", FormatHexString(nil))
	assert.Equal(t, "", FormatHexString([]byte{}))
	assert.Equal(t, "00", FormatHexString([]byte{0x00}))
	assert.Equal(t, "ff", FormatHexString([]byte{0xff}))
	assert.Equal(t, "deadbeef", FormatHexString([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, "000102030a10", FormatHexString([]byte{0, 1, 2, 3, 10, 16}))
}
