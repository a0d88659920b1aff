package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{name: "not found", err: NotFound("mod"), code: "NOT_FOUND", status: http.StatusNotFound, sentinel: ErrNotFound},
		{name: "invalid input", err: InvalidInput("bad filter"), code: "INVALID_INPUT", status: http.StatusBadRequest, sentinel: ErrInvalidInput},
		{name: "upstream", err: Upstream("store down"), code: "UPSTREAM_ERROR", status: http.StatusBadGateway, sentinel: ErrUpstream},
		{name: "database", err: Database(errors.New("boom")), code: "DATABASE_ERROR", status: http.StatusInternalServerError, sentinel: ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestDatabaseErrorHidesCause(t *testing.T) {
	err := Database(errors.New("password authentication failed for user"))

	// The caller-facing message stays generic; the cause survives for logs.
	assert.Equal(t, "database operation failed", err.Message)
	assert.Contains(t, err.Error(), "password authentication failed")
}

func TestUpstreamfFormatsMessage(t *testing.T) {
	err := Upstreamf("%s (HTTP status %d)", "justjap", 500)
	assert.Equal(t, "justjap (HTTP status 500)", err.Message)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("mod")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Wrap(Upstream("down"), "scrape")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything")))
}
