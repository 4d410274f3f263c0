package log

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
)

type LoggerContextKey struct{}

const (
	LogKeyUri              = "uri"
	LogKeyRemoteAddr       = "remote-addr"
	LogKeyMethod           = "method"
	LogKeyRequestId        = "request-id"
	LogKeyResponseCode     = "response-code"
	LogKeyDuration         = "duration"
	LogKeyResponseBodySize = "response-body-size"
)

type LoggingMiddleware struct {
	Logger *zap.Logger
}

// PrepareLogger attaches a request-scoped logger carrying a fresh request id
// to the request context.
func (l *LoggingMiddleware) PrepareLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestId := uuid.New()
		logger := l.Logger.With(zap.String(LogKeyRequestId, requestId.String()))
		ctx = context.WithValue(ctx, LoggerContextKey{}, logger)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

func (l *LoggingMiddleware) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLoggerFromContext(r.Context())

		logger.With(zap.String(LogKeyMethod, r.Method), zap.String(LogKeyUri, r.RequestURI), zap.String(LogKeyRemoteAddr, r.RemoteAddr)).Info("incoming request")

		rw := LogResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(&rw, r)
		end := time.Now()

		logger.With(zap.Int(LogKeyResponseCode, rw.statusCode), zap.Duration(LogKeyDuration, end.Sub(start)), zap.Int(LogKeyResponseBodySize, rw.size)).Info("finished request")
	})
}

// GetLoggerFromContext returns the request-scoped logger, or a nop logger if
// the context carries none.
func GetLoggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerContextKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

type LogResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (w *LogResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *LogResponseWriter) Write(body []byte) (int, error) {
	n, err := w.ResponseWriter.Write(body)
	w.size += n
	return n, err
}
