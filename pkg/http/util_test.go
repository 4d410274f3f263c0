package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleHTTPError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHTTPError("invalid request content", errors.New("boom"), http.StatusBadRequest, zap.NewNop(), w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request content: boom\n", w.Body.String())

	w = httptest.NewRecorder()
	HandleHTTPError("no details", nil, http.StatusInternalServerError, zap.NewNop(), w)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "no details\n", w.Body.String())
}

func TestReadUserIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.1.2.3:51234"
	assert.Equal(t, "10.1.2.3", ReadUserIP(r))

	r.Header.Set("X-Forwarded-For", "192.0.2.7")
	assert.Equal(t, "192.0.2.7", ReadUserIP(r))

	r.Header.Set("X-Real-Ip", "192.0.2.9")
	assert.Equal(t, "192.0.2.9", ReadUserIP(r))
}
