package http

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/supercon99/gematria/pkg/encoding"
)

// DecoderFromRequest selects the decoder for the request payload: the
// Content-Encoding header wins, then a "+suffix" on the Content-Type, then
// raw.
func DecoderFromRequest(r *http.Request) (encoding.Decoder, error) {
	enc := r.Header.Get(ContentEncoding)
	if enc == "" {
		t := r.Header.Get(ContentType)
		if i := strings.LastIndex(t, "+"); i > 0 {
			enc = t[i+1:]
		}
	}
	if enc == "" {
		enc = encoding.Raw
	}
	return encoding.GetDecoder(enc)
}

// ResponseBuilderFromRequest selects the response builder matching the Accept
// header. A missing Accept header or "*/*" falls back to the plain
// octet-stream builder.
func ResponseBuilderFromRequest(r *http.Request, responseBuilders map[string]encoding.ResponseBuilder) (encoding.ResponseBuilder, string, error) {
	accept := r.Header.Get(AcceptHeader)
	if accept == "" || accept == AcceptAny {
		accept = encoding.MediaTypeOctetStream
	}
	builder, ok := responseBuilders[accept]
	if !ok {
		keys := []string{}
		for k := range responseBuilders {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, "", fmt.Errorf("unknown %s header %q. possible values: %q", AcceptHeader, accept, keys)
	}
	return builder, accept, nil
}

// ReadBody reads exactly Content-Length bytes of the request body. The header
// is required and bounded by maxContentLength; a short body is an error.
func ReadBody(r *http.Request, maxContentLength int) ([]byte, error) {
	contentLength, err := CheckContentLengthHeader(r, maxContentLength)
	if err != nil {
		return nil, fmt.Errorf("invalid %q header: %w", ContentLengthHeader, err)
	}

	requestBody := make([]byte, contentLength)
	if _, err := io.ReadFull(r.Body, requestBody); err != nil {
		return nil, fmt.Errorf("corrupted request body: %w", err)
	}
	return requestBody, nil
}

// ContentFromRequest reads the request body and decodes it with the decoder
// derived from the request headers.
func ContentFromRequest(r *http.Request, maxContentLength int) ([]byte, error) {
	decoder, err := DecoderFromRequest(r)
	if err != nil {
		return nil, err
	}

	requestBody, err := ReadBody(r, maxContentLength)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(requestBody)
}
