package router

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/tableserve/tableserve/utils"
)

// Params holds the path parameters extracted from a matched pattern.
type Params map[string]string

// Handler is a typed route endpoint, resolved at registration time.
type Handler func(*Request, Params) *Response

// Middleware inspects a request and either returns nil to continue the
// chain (after mutating the attribute bag or RespHeader) or a non-nil
// Response to short-circuit; a short-circuit response is final.
type Middleware func(*Request) *Response

type route struct {
	method     string
	pattern    string
	re         *regexp.Regexp
	handler    Handler
	middleware []Middleware
}

// Router matches requests against routes in registration order and runs
// the middleware chain around the matched handler. Routes are immutable
// once registered.
type Router struct {
	routes     []*route
	global     []Middleware
	groupStack [][]Middleware
}

func New() *Router {
	return &Router{}
}

// Use appends middleware run on every request before route matching.
func (rt *Router) Use(mw ...Middleware) {
	rt.global = append(rt.global, mw...)
}

// Handle registers a route. {name} placeholders match a single path
// segment and are compiled to an anchored pattern here; a malformed
// pattern is a programming error and panics at startup.
func (rt *Router) Handle(method, pattern string, handler Handler, mw ...Middleware) {
	if handler == nil {
		panic(fmt.Sprintf("router: nil handler for %s %s", method, pattern))
	}

	re, err := regexp.Compile(compilePattern(pattern))
	if err != nil {
		panic(fmt.Sprintf("router: invalid pattern %q: %v", pattern, err))
	}

	var chained []Middleware
	for _, group := range rt.groupStack {
		chained = append(chained, group...)
	}
	chained = append(chained, mw...)

	rt.routes = append(rt.routes, &route{
		method:     method,
		pattern:    pattern,
		re:         re,
		handler:    handler,
		middleware: chained,
	})
}

var escapedParam = regexp.MustCompile(`\\\{([a-zA-Z_][a-zA-Z0-9_]*)\\\}`)

// compilePattern turns /api/order/{id} into an anchored expression with a
// named group per placeholder, each matching a single path segment.
func compilePattern(pattern string) string {
	quoted := regexp.QuoteMeta(pattern)
	return "^" + escapedParam.ReplaceAllString(quoted, `(?P<$1>[^/]+)`) + "$"
}

func (rt *Router) GET(pattern string, h Handler, mw ...Middleware) {
	rt.Handle(http.MethodGet, pattern, h, mw...)
}

func (rt *Router) POST(pattern string, h Handler, mw ...Middleware) {
	rt.Handle(http.MethodPost, pattern, h, mw...)
}

func (rt *Router) PUT(pattern string, h Handler, mw ...Middleware) {
	rt.Handle(http.MethodPut, pattern, h, mw...)
}

func (rt *Router) PATCH(pattern string, h Handler, mw ...Middleware) {
	rt.Handle(http.MethodPatch, pattern, h, mw...)
}

func (rt *Router) DELETE(pattern string, h Handler, mw ...Middleware) {
	rt.Handle(http.MethodDelete, pattern, h, mw...)
}

// Group pushes shared middleware for the duration of the callback, so
// nested protected route sets compose.
func (rt *Router) Group(mw []Middleware, register func(*Router)) {
	rt.groupStack = append(rt.groupStack, mw)
	register(rt)
	rt.groupStack = rt.groupStack[:len(rt.groupStack)-1]
}

// ServeHTTP is the dispatcher: global chain, preflight fallback, ordered
// matching with a 405-vs-404 second pass, route chain, handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := NewRequest(r)

	for _, mw := range rt.global {
		if resp := mw(req); resp != nil {
			rt.write(w, req, resp)
			return
		}
	}

	// CORS answers preflight upstream; this is the fallback for OPTIONS
	// requests that reach the router.
	if req.Method == http.MethodOptions {
		rt.write(w, req, NoContent())
		return
	}

	matched, params := rt.match(req)
	if matched == nil {
		if rt.pathExists(req.Path) {
			rt.write(w, req, MethodNotAllowed())
		} else {
			rt.write(w, req, NotFound("Endpoint not found"))
		}
		return
	}

	for _, mw := range matched.middleware {
		if resp := mw(req); resp != nil {
			rt.write(w, req, resp)
			return
		}
	}

	for name, value := range params {
		req.SetAttr(name, value)
	}

	rt.write(w, req, rt.invoke(matched, req, params))
}

// match returns the first route whose pattern and method both match, in
// registration order.
func (rt *Router) match(req *Request) (*route, Params) {
	for _, candidate := range rt.routes {
		m := candidate.re.FindStringSubmatch(req.Path)
		if m == nil || candidate.method != req.Method {
			continue
		}

		params := make(Params)
		for i, name := range candidate.re.SubexpNames() {
			if i > 0 && name != "" {
				params[name] = m[i]
			}
		}
		return candidate, params
	}
	return nil, nil
}

// pathExists reports whether any route pattern matches the path at all,
// regardless of method. Distinguishes 405 from 404.
func (rt *Router) pathExists(path string) bool {
	for _, candidate := range rt.routes {
		if candidate.re.MatchString(path) {
			return true
		}
	}
	return false
}

// invoke runs the handler, converting a panic into a generic 500: full
// detail is logged server-side, nothing internal reaches the client.
func (rt *Router) invoke(matched *route, req *Request, params Params) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Errorf("panic handling %s %s: %v\n%s",
					req.Method, req.Path, rec, debug.Stack())
			}
			resp = ServerError("Internal server error")
		}
	}()

	resp = matched.handler(req, params)
	if resp == nil {
		resp = ServerError("Internal server error")
	}
	return resp
}

func (rt *Router) write(w http.ResponseWriter, req *Request, resp *Response) {
	header := w.Header()
	for name, values := range req.RespHeader {
		for _, v := range values {
			header.Set(name, v)
		}
	}
	for name, values := range resp.Header {
		for _, v := range values {
			header.Set(name, v)
		}
	}

	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
}
