package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/middlewares"
	"github.com/tableserve/tableserve/router"
)

func securityRequest(method, contentType, body string) *router.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, "/api/order", reader)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return router.NewRequest(r)
}

func TestSecurityHeadersAlwaysSet(t *testing.T) {
	mw := middlewares.Security(&config.Config{AppEnv: "development"})

	req := securityRequest(http.MethodGet, "", "")
	assert.Nil(t, mw(req))

	h := req.RespHeader
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, h.Get("Permissions-Policy"), "geolocation=()")
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestHSTSOnlyInProduction(t *testing.T) {
	mw := middlewares.Security(&config.Config{AppEnv: "production"})

	req := securityRequest(http.MethodGet, "", "")
	assert.Nil(t, mw(req))
	assert.Contains(t, req.RespHeader.Get("Strict-Transport-Security"), "max-age=")
}

func TestRejectsDisallowedContentType(t *testing.T) {
	mw := middlewares.Security(&config.Config{})

	req := securityRequest(http.MethodPost, "text/plain", "hello")
	resp := mw(req)

	assert.NotNil(t, resp)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Status)
}

func TestAllowsJSONFormAndMultipart(t *testing.T) {
	mw := middlewares.Security(&config.Config{})

	for _, ct := range []string{
		"application/json",
		"application/json; charset=utf-8",
		"application/x-www-form-urlencoded",
		"multipart/form-data; boundary=xyz",
	} {
		req := securityRequest(http.MethodPost, ct, `{"name":"ok"}`)
		assert.Nil(t, mw(req), ct)
	}
}

func TestRejectsInjectionOperators(t *testing.T) {
	mw := middlewares.Security(&config.Config{})

	for _, body := range []string{
		`{"email":{"$ne":""}}`,
		`{"filter":{"$where":"this.x"}}`,
		`{"q":{ "$gt": 0}}`,
	} {
		req := securityRequest(http.MethodPost, "application/json", body)
		resp := mw(req)
		assert.NotNil(t, resp, body)
		assert.Equal(t, http.StatusBadRequest, resp.Status, body)
	}
}

func TestRejectsScriptInjectionMarkers(t *testing.T) {
	mw := middlewares.Security(&config.Config{})

	for _, body := range []string{
		`{"notes":"<script>alert(1)</script>"}`,
		`{"notes":"javascript:alert(1)"}`,
		`{"notes":"<img onerror=hack()>"}`,
		`{"notes":"data: text/html,oops"}`,
	} {
		req := securityRequest(http.MethodPost, "application/json", body)
		resp := mw(req)
		assert.NotNil(t, resp, body)
		assert.Equal(t, http.StatusBadRequest, resp.Status, body)
	}
}

func TestSanitizedCopyAttachedOriginalUntouched(t *testing.T) {
	mw := middlewares.Security(&config.Config{})

	req := securityRequest(http.MethodPost, "application/json",
		`{"name":"Fish & Chips","weird key!":"a\u0000b"}`)
	assert.Nil(t, mw(req))

	sanitizedRaw, ok := req.Attr(middlewares.SanitizedBodyAttr)
	assert.True(t, ok)
	sanitized := sanitizedRaw.(map[string]interface{})

	assert.Equal(t, "Fish &amp; Chips", sanitized["name"])
	// Non-word characters stripped from the key, null byte from the value.
	assert.Equal(t, "weirdkey", mapKeyOtherThan(sanitized, "name"))
	assert.Equal(t, "ab", sanitized["weirdkey"])

	// The parsed body is not replaced.
	assert.Equal(t, "Fish & Chips", req.Body["name"])
}

func mapKeyOtherThan(m map[string]interface{}, exclude string) string {
	for k := range m {
		if k != exclude {
			return k
		}
	}
	return ""
}
