package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/supercon99/gematria/pkg/encoding"
	"github.com/supercon99/gematria/pkg/hexutil"
	"github.com/supercon99/gematria/pkg/log"
)

// CreateTranscodeHandler serves POST requests whose body is in the named
// encoding: the body is decoded with the given decoder and answered in the
// format requested by the Accept header.
func CreateTranscodeHandler(name string, decoder encoding.Decoder, responseBuilders map[string]encoding.ResponseBuilder, maxContentLength int) http.Handler {
	return &TranscodeHandler{
		responseBuilders: responseBuilders,
		maxContentLength: maxContentLength,
		name:             name,
		decoder:          decoder,
	}
}

type TranscodeHandler struct {
	responseBuilders map[string]encoding.ResponseBuilder
	maxContentLength int
	name             string
	decoder          encoding.Decoder
}

func (h *TranscodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLoggerFromContext(r.Context())

	logRequest(logger, r, "decode/"+h.name)

	responseBodyBuilder, mediaType, err := ResponseBuilderFromRequest(r, h.responseBuilders)
	if err != nil {
		HandleHTTPError(err.Error(), nil, http.StatusBadRequest, logger, w)
		return
	}

	requestBody, err := ReadBody(r, h.maxContentLength)
	if err != nil {
		HandleHTTPError("invalid request content", err, http.StatusBadRequest, logger, w)
		return
	}
	payload, err := h.decoder.Decode(requestBody)
	if err != nil {
		HandleHTTPError("unable to decode request body", err, http.StatusBadRequest, logger, w)
		return
	}
	logger.Info("payload", zap.String("hex", hexutil.FormatHexString(payload)), zap.String("encoding", h.name))

	annotations := map[string]string{
		encoding.SourceEncodingHeader: h.name,
	}
	respBody, err := responseBodyBuilder.BuildResponse(payload, annotations)
	if err != nil {
		HandleHTTPError("unable to build response body", err, http.StatusInternalServerError, logger, w)
		return
	}

	w.Header().Set(ContentType, mediaType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBody); err != nil {
		logger.Error("unable to write response body", zap.Error(err))
		return
	}
}

// CreateEncodeHandler serves POST requests carrying a raw payload and answers
// with the payload in the named encoding's wire form.
func CreateEncodeHandler(name string, encoder encoding.Encoder, maxContentLength int) http.Handler {
	return &EncodeHandler{
		maxContentLength: maxContentLength,
		name:             name,
		encoder:          encoder,
	}
}

type EncodeHandler struct {
	maxContentLength int
	name             string
	encoder          encoding.Encoder
}

func (h *EncodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLoggerFromContext(r.Context())

	logRequest(logger, r, "encode/"+h.name)

	requestBody, err := ReadBody(r, h.maxContentLength)
	if err != nil {
		HandleHTTPError("invalid request content", err, http.StatusBadRequest, logger, w)
		return
	}
	respBody, err := h.encoder.Encode(requestBody)
	if err != nil {
		HandleHTTPError("unable to encode request body", err, http.StatusInternalServerError, logger, w)
		return
	}

	w.Header().Set(ContentType, encoding.MediaType(h.name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBody); err != nil {
		logger.Error("unable to write response body", zap.Error(err))
		return
	}
}

func logRequest(logger *zap.Logger, r *http.Request, handler string) {
	fields := []zap.Field{
		zap.String("handler", handler),
		zap.String("client", ReadUserIP(r)),
		zap.String("query", r.URL.RawQuery),
	}
	if r.TLS != nil && len(r.TLS.VerifiedChains) > 0 && len(r.TLS.VerifiedChains[0]) > 0 {
		fields = append(fields, zap.String("commonName", r.TLS.VerifiedChains[0][0].Subject.CommonName))
	}
	logger.Info("request", fields...)
}
