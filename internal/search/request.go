package search

import (
	"net/http"
	"net/url"
)

// RequestContext supplies the pieces of the calling request needed to build
// absolute prev/next links. Each calling context gets an explicit adapter
// instead of runtime type sniffing: HTTPRequest for web handlers,
// ParamsRequest for plain parameter mappings (CLI, scripts).
type RequestContext interface {
	// Scheme and Host may be empty, in which case links degrade to bare
	// query strings.
	Scheme() string
	Host() string
	Path() string
	Query() url.Values
}

// HTTPRequest adapts a *http.Request (gin handlers pass c.Request).
type HTTPRequest struct {
	Request *http.Request
}

func (r HTTPRequest) Scheme() string {
	if r.Request.TLS != nil {
		return "https"
	}
	if proto := r.Request.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}

func (r HTTPRequest) Host() string {
	return r.Request.Host
}

func (r HTTPRequest) Path() string {
	return r.Request.URL.Path
}

func (r HTTPRequest) Query() url.Values {
	return r.Request.URL.Query()
}

// ParamsRequest adapts a plain parameter mapping; links come back as bare
// query strings because no scheme or host is known.
type ParamsRequest struct {
	Params Params
}

func (r ParamsRequest) Scheme() string { return "" }
func (r ParamsRequest) Host() string   { return "" }
func (r ParamsRequest) Path() string   { return "" }

func (r ParamsRequest) Query() url.Values {
	return url.Values(r.Params.Copy())
}
