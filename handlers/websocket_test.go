package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lifeops-server/ws"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/web/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := NewWSHandler(ws.NewManager())
	assert.True(t, open.checkOrigin(req("https://anything.example")))

	h := NewWSHandler(ws.NewManager()).WithAllowedOrigins([]string{"https://app.example.com"})
	assert.True(t, h.checkOrigin(req("https://app.example.com")))
	assert.True(t, h.checkOrigin(req("https://APP.example.com")))
	assert.True(t, h.checkOrigin(req("")))
	assert.False(t, h.checkOrigin(req("https://evil.example.com")))
	assert.False(t, h.checkOrigin(req("https://sub.app.example.com")))
}
