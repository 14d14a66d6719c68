package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrecedence(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.1")
	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	req.Header.Set("X-Real-IP", "192.0.2.3")
	assert.Equal(t, "203.0.113.1", ClientIP(req))

	req.Header.Del("CF-Connecting-IP")
	assert.Equal(t, "198.51.100.2", ClientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.0.2.3", ClientIP(req))

	req.Header.Del("X-Real-IP")
	assert.Equal(t, "127.0.0.1", ClientIP(req))
}

func TestClientIPWhitespace(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "  198.51.100.2 , 10.0.0.1")
	assert.Equal(t, "198.51.100.2", ClientIP(req))
}
