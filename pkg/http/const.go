package http

const (
	// Http Header Keys
	AcceptHeader        = "Accept"
	ContentType         = "Content-Type"
	ContentLengthHeader = "Content-Length"
	ContentEncoding     = "Content-Encoding"

	// AcceptAny is served with the default octet-stream response builder.
	AcceptAny = "*/*"
)
