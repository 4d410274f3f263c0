package encoding

import (
	"fmt"
	"sort"
	"strings"
)

type Decoder interface {
	Decode(data []byte) ([]byte, error)
}

type Encoder interface {
	Encode(data []byte) ([]byte, error)
}

var decoders = map[string]Decoder{}
var encoders = map[string]Encoder{}

func RegisterDecoder(name string, d Decoder) {
	decoders[name] = d
}

func RegisterEncoder(name string, e Encoder) {
	encoders[name] = e
}

func SupportedDecoders() []string {
	s := []string{}
	for k := range decoders {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

func SupportedEncoders() []string {
	s := []string{}
	for k := range encoders {
		s = append(s, k)
	}
	sort.Strings(s)
	return s
}

func GetDecoder(name string) (Decoder, error) {
	decoder := decoders[name]
	if decoder == nil {
		return nil, fmt.Errorf("unknown encoding %q (supported %s)", name, strings.Join(SupportedDecoders(), ","))
	}
	return decoder, nil
}

func GetEncoder(name string) (Encoder, error) {
	encoder := encoders[name]
	if encoder == nil {
		return nil, fmt.Errorf("unknown encoding %q (supported %s)", name, strings.Join(SupportedEncoders(), ","))
	}
	return encoder, nil
}

// MediaType returns the content type describing data in the named codec's
// wire form.
func MediaType(name string) string {
	switch name {
	case Hex:
		return MediaTypeOctetStreamHex
	case Base64:
		return MediaTypeOctetStreamBase64
	case Gzip:
		return MediaTypeGzip
	}
	return MediaTypeOctetStream
}
