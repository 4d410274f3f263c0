package encoding

import (
	"encoding/base64"
)

func init() {
	RegisterDecoder(Base64, base64Codec{})
	RegisterEncoder(Base64, base64Codec{})
}

type base64Codec struct{}

func (c base64Codec) Decode(data []byte) ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(data))
}

func (c base64Codec) Encode(data []byte) ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(data)), nil
}
