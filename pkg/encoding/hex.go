package encoding

import (
	"github.com/supercon99/gematria/pkg/hexutil"
)

func init() {
	RegisterDecoder(Hex, hexCodec{})
	RegisterEncoder(Hex, hexCodec{})
}

// hexCodec is strict: two characters per byte, upper or lower case, no
// whitespace and no 0x prefix.
type hexCodec struct{}

func (c hexCodec) Decode(data []byte) ([]byte, error) {
	return hexutil.DecodeString(string(data))
}

func (c hexCodec) Encode(data []byte) ([]byte, error) {
	return []byte(hexutil.FormatHexString(data)), nil
}
