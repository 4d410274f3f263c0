package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/supercon99/gematria/pkg/hexutil"
)

type ResponseBuilder interface {
	BuildResponse(payload []byte, annotations map[string]string) ([]byte, error)
}

func CreateResponseBuilders() map[string]ResponseBuilder {
	responseBuilders := map[string]ResponseBuilder{}

	responseBuilders[MediaTypeOctetStream] = &RawResponseBuilder{}
	responseBuilders[MediaTypeOctetStreamBase64] = &Base64ResponseBuilder{}
	responseBuilders[MediaTypeOctetStreamHex] = &HEXResponseBuilder{}
	responseBuilders[MediaTypeGzip] = &GzipResponseBuilder{}
	responseBuilders[MediaTypePEM] = &PEMResponseBuilder{}

	return responseBuilders
}

////////////////////////////////////////////////////////////////////////////////

type RawResponseBuilder struct {
}

func (b *RawResponseBuilder) BuildResponse(payload []byte, annotations map[string]string) ([]byte, error) {
	return payload, nil
}

////////////////////////////////////////////////////////////////////////////////

type HEXResponseBuilder struct {
}

func (b *HEXResponseBuilder) BuildResponse(payload []byte, annotations map[string]string) ([]byte, error) {
	return []byte(hexutil.FormatHexString(payload)), nil
}

////////////////////////////////////////////////////////////////////////////////

type Base64ResponseBuilder struct {
}

func (b *Base64ResponseBuilder) BuildResponse(payload []byte, annotations map[string]string) ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(payload)), nil
}

////////////////////////////////////////////////////////////////////////////////

type GzipResponseBuilder struct {
}

func (b *GzipResponseBuilder) BuildResponse(payload []byte, annotations map[string]string) ([]byte, error) {
	return gzipCodec{}.Encode(payload)
}

////////////////////////////////////////////////////////////////////////////////

type PEMResponseBuilder struct {
}

func (b *PEMResponseBuilder) BuildResponse(payload []byte, annotations map[string]string) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})

	payloadBlock := &pem.Block{
		Type:    PayloadPEMBlockType,
		Headers: annotations,
		Bytes:   payload,
	}

	if err := pem.Encode(buf, payloadBlock); err != nil {
		return nil, fmt.Errorf("unable to pem encode payload: %w", err)
	}

	return buf.Bytes(), nil
}
