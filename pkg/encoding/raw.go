package encoding

func init() {
	RegisterDecoder(Raw, rawCodec{})
	RegisterEncoder(Raw, rawCodec{})
}

type rawCodec struct{}

func (c rawCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}

func (c rawCodec) Encode(data []byte) ([]byte, error) {
	return data, nil
}
