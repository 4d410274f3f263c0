package encoding

const (
	// Supported Encodings
	Gzip   = "gzip"
	Base64 = "base64"
	Hex    = "hex"
	Raw    = "raw"

	// PayloadPEMBlockType defines the type of a payload pem block.
	PayloadPEMBlockType = "DATA"

	// MediaType
	//PEM defines the media type for pem formatted data.
	MediaTypePEM = "application/x-pem-file"
	// MediaTypeOctetStream provides the plain payload in various encodings.
	MediaTypeOctetStream       = "application/octet-stream"
	MediaTypeOctetStreamHex    = "application/octet-stream+hex"
	MediaTypeOctetStreamBase64 = "application/octet-stream+base64"
	MediaTypeGzip              = "application/gzip"

	// SourceEncodingHeader defines a pem header where the encoding of the
	// original request payload is recorded.
	SourceEncodingHeader = "Source Encoding"
	// DigestAlgorithmHeader defines a pem header where the digest algorithm is defined.
	DigestAlgorithmHeader = "Digest Algorithm"
)
