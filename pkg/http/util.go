package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// HandleHTTPError is a utility function which logs an error and then returns it back to the client
func HandleHTTPError(msg string, wrappedErr error, httpStatus int, logger *zap.Logger, w http.ResponseWriter) {
	logger.Error(msg, zap.Error(wrappedErr))
	if wrappedErr != nil {
		msg = fmt.Sprintf("%s: %s", msg, wrappedErr.Error())
	}
	http.Error(w, msg, httpStatus)
}

// CheckContentLengthHeader requires a Content-Length header within the
// configured maximum and returns its value.
func CheckContentLengthHeader(r *http.Request, maxContentLength int) (int, error) {
	if r.ContentLength < 0 {
		return 0, errors.New("header is not set")
	}
	if r.ContentLength > int64(maxContentLength) {
		return 0, fmt.Errorf("content length of %d exceeds maximum content length of %d", r.ContentLength, maxContentLength)
	}
	return int(r.ContentLength), nil
}

// ReadUserIP identifies the calling client, preferring proxy headers over the
// connection address.
func ReadUserIP(r *http.Request) string {
	IPAddress := r.Header.Get("X-Real-Ip")
	if IPAddress == "" {
		IPAddress = r.Header.Get("X-Forwarded-For")
	}
	if IPAddress == "" {
		IPAddress = r.RemoteAddr
		if host, _, err := net.SplitHostPort(IPAddress); err == nil {
			IPAddress = host
		}
	}
	return IPAddress
}
