package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedCodecs(t *testing.T) {
	assert.Equal(t, []string{Base64, Gzip, Hex, Raw}, SupportedDecoders())
	assert.Equal(t, []string{Base64, Gzip, Hex, Raw}, SupportedEncoders())
}

func TestGetDecoderUnknown(t *testing.T) {
	_, err := GetDecoder("rot13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown encoding "rot13"`)
	assert.Contains(t, err.Error(), "base64,gzip,hex,raw")
}

func TestGetEncoderUnknown(t *testing.T) {
	_, err := GetEncoder("rot13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown encoding "rot13"`)
}

func TestHexCodec(t *testing.T) {
	d, err := GetDecoder(Hex)
	require.NoError(t, err)
	e, err := GetEncoder(Hex)
	require.NoError(t, err)

	decoded, err := d.Decode([]byte("deadbeef"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded)

	decoded, err = d.Decode([]byte("DEADBEEF"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, decoded)

	_, err = d.Decode([]byte("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd length")

	_, err = d.Decode([]byte("00zz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 2")

	encoded, err := e.Encode([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	assert.Equal(t, []byte("deadbeef"), encoded)
}

func TestBase64Codec(t *testing.T) {
	d, err := GetDecoder(Base64)
	require.NoError(t, err)
	e, err := GetEncoder(Base64)
	require.NoError(t, err)

	encoded, err := e.Encode([]byte("some payload"))
	require.NoError(t, err)
	decoded, err := d.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("some payload"), decoded)

	_, err = d.Decode([]byte("not-base64!"))
	assert.Error(t, err)
}

func TestGzipCodec(t *testing.T) {
	d, err := GetDecoder(Gzip)
	require.NoError(t, err)
	e, err := GetEncoder(Gzip)
	require.NoError(t, err)

	payload := []byte("payload that should survive a gzip round trip")
	encoded, err := e.Encode(payload)
	require.NoError(t, err)
	assert.NotEqual(t, payload, encoded)

	decoded, err := d.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	_, err = d.Decode([]byte("definitely not gzip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestRawCodec(t *testing.T) {
	d, err := GetDecoder(Raw)
	require.NoError(t, err)
	e, err := GetEncoder(Raw)
	require.NoError(t, err)

	payload := []byte{0x00, 0x01, 0xff}
	decoded, err := d.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	encoded, err := e.Encode(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, encoded)
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, MediaTypeOctetStreamHex, MediaType(Hex))
	assert.Equal(t, MediaTypeOctetStreamBase64, MediaType(Base64))
	assert.Equal(t, MediaTypeGzip, MediaType(Gzip))
	assert.Equal(t, MediaTypeOctetStream, MediaType(Raw))
	assert.Equal(t, MediaTypeOctetStream, MediaType("something else"))
}
