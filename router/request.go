package router

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Request is the normalized inbound request handed through the middleware
// chain and into handlers. The attribute bag is the only part middleware
// mutate; RespHeader collects headers that continuing middleware want on
// the eventual response (CORS, rate-limit counters).
type Request struct {
	Method     string
	Path       string
	Header     http.Header
	Query      url.Values
	Body       map[string]interface{}
	RawBody    []byte
	RemoteAddr string

	// RespHeader is merged into the final response by the dispatcher.
	RespHeader http.Header

	attrs map[string]interface{}
}

// NewRequest builds a Request from the transport request. The body is
// parsed for mutating methods only; JSON and url-encoded forms become the
// Body map, anything else is kept raw.
func NewRequest(r *http.Request) *Request {
	req := &Request{
		Method:     strings.ToUpper(r.Method),
		Path:       r.URL.Path,
		Header:     r.Header,
		Query:      r.URL.Query(),
		RemoteAddr: r.RemoteAddr,
		RespHeader: make(http.Header),
		attrs:      make(map[string]interface{}),
	}

	if r.Body == nil {
		return req
	}

	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return req
		}
		req.RawBody = raw

		ct := r.Header.Get("Content-Type")
		switch {
		case strings.Contains(ct, "application/json"):
			var body map[string]interface{}
			if err := json.Unmarshal(raw, &body); err == nil {
				req.Body = body
			}
		case strings.Contains(ct, "application/x-www-form-urlencoded"):
			if values, err := url.ParseQuery(string(raw)); err == nil {
				body := make(map[string]interface{}, len(values))
				for k := range values {
					body[k] = values.Get(k)
				}
				req.Body = body
			}
		}
	}

	return req
}

// Attr reads a value from the attribute bag.
func (r *Request) Attr(key string) (interface{}, bool) {
	v, ok := r.attrs[key]
	return v, ok
}

// AttrString reads a string attribute, returning "" when absent.
func (r *Request) AttrString(key string) string {
	if v, ok := r.attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetAttr stores a value in the attribute bag for later middleware and
// the handler.
func (r *Request) SetAttr(key string, value interface{}) {
	r.attrs[key] = value
}

// Bind unmarshals the raw JSON body into v.
func (r *Request) Bind(v interface{}) error {
	return json.Unmarshal(r.RawBody, v)
}

// QueryParam returns a query parameter or the fallback when empty.
func (r *Request) QueryParam(key, fallback string) string {
	if v := r.Query.Get(key); v != "" {
		return v
	}
	return fallback
}

// BodyString reads a string field from the parsed body.
func (r *Request) BodyString(key string) string {
	if r.Body == nil {
		return ""
	}
	if s, ok := r.Body[key].(string); ok {
		return s
	}
	return ""
}

// ClientIP resolves the client key used for rate limiting: first hop of
// X-Forwarded-For, else X-Real-IP, else the transport peer address.
func (r *Request) ClientIP() string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// BearerToken extracts the token from the Authorization header, or ""
// when the header is missing or not a bearer scheme.
func (r *Request) BearerToken() string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
