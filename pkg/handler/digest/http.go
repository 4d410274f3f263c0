package digest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/supercon99/gematria/pkg/encoding"
	"github.com/supercon99/gematria/pkg/hexutil"
	codechttp "github.com/supercon99/gematria/pkg/http"
	"github.com/supercon99/gematria/pkg/log"
)

type httpHandler struct {
	responseBuilders map[string]encoding.ResponseBuilder
	maxContentLength int
	digester         DigestHandler
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLoggerFromContext(r.Context())

	fields := []zap.Field{
		zap.String("handler", "digest/"+h.digester.Name()),
		zap.String("client", codechttp.ReadUserIP(r)),
		zap.String("query", r.URL.RawQuery),
	}
	if r.TLS != nil && len(r.TLS.VerifiedChains) > 0 && len(r.TLS.VerifiedChains[0]) > 0 {
		fields = append(fields, zap.String("commonName", r.TLS.VerifiedChains[0][0].Subject.CommonName))
	}
	logger.Info("request", fields...)

	responseBodyBuilder, mediaType, err := codechttp.ResponseBuilderFromRequest(r, h.responseBuilders)
	if err != nil {
		codechttp.HandleHTTPError(err.Error(), nil, http.StatusBadRequest, logger, w)
		return
	}

	data, err := codechttp.ContentFromRequest(r, h.maxContentLength)
	if err != nil {
		codechttp.HandleHTTPError("invalid request content", err, http.StatusBadRequest, logger, w)
		return
	}

	sum, err := h.digester.Sum(data)
	if err != nil {
		codechttp.HandleHTTPError("unable to compute digest", err, http.StatusInternalServerError, logger, w)
		return
	}
	logger.Info("digest", zap.String("hex", hexutil.FormatHexString(sum)), zap.String("algorithm", h.digester.Name()))

	annotations := map[string]string{
		encoding.DigestAlgorithmHeader: h.digester.Name(),
	}
	respBody, err := responseBodyBuilder.BuildResponse(sum, annotations)
	if err != nil {
		codechttp.HandleHTTPError("unable to build response body", err, http.StatusInternalServerError, logger, w)
		return
	}

	w.Header().Set(codechttp.ContentType, mediaType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBody); err != nil {
		logger.Error("unable to write response body", zap.Error(err))
		return
	}
}
