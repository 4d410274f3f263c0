package encoding

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

func init() {
	RegisterDecoder(Gzip, gzipCodec{})
	RegisterEncoder(Gzip, gzipCodec{})
}

type gzipCodec struct{}

func (c gzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	data, err = io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := r.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return data, nil
}

func (c gzipCodec) Encode(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := gzip.NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}
