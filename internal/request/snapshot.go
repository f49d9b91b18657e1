// Package request provides the flat request-data snapshot consumed at
// store construction: query parameters, form fields, server variables
// and process environment, plus a case-insensitive header reader.
//
// These are thin collaborators around net/http; they carry no
// persistence semantics of their own.
package request

import (
	"net/http"
	"os"
	"strings"
)

// Snapshot is a one-time flat capture of request data. Multi-valued
// parameters keep their first value, matching url.Values.Get.
type Snapshot struct {
	Query  map[string]string
	Form   map[string]string
	Server map[string]string
	Env    map[string]string
}

// FromHTTP captures a snapshot from an incoming request. Form data is
// read only when the request already parsed it or carries a form
// content type; body parse failures leave Form empty rather than
// failing the snapshot.
func FromHTTP(r *http.Request) *Snapshot {
	s := &Snapshot{
		Query:  make(map[string]string),
		Form:   make(map[string]string),
		Server: make(map[string]string),
		Env:    make(map[string]string),
	}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			s.Query[key] = values[0]
		}
	}

	if err := r.ParseForm(); err == nil {
		for key, values := range r.PostForm {
			if len(values) > 0 {
				s.Form[key] = values[0]
			}
		}
	}

	s.Server["REQUEST_METHOD"] = r.Method
	s.Server["REQUEST_URI"] = r.RequestURI
	s.Server["REMOTE_ADDR"] = r.RemoteAddr
	s.Server["HOST"] = r.Host
	s.Server["PROTOCOL"] = r.Proto

	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			s.Env[kv[:i]] = kv[i+1:]
		}
	}

	return s
}

// Headers reads request headers by name, case-insensitively.
type Headers struct {
	h http.Header
}

// NewHeaders wraps an http.Header.
func NewHeaders(h http.Header) Headers {
	return Headers{h: h}
}

// Get returns the first value for name, or "" when absent.
func (hd Headers) Get(name string) string {
	return hd.h.Get(name)
}

// Has reports whether name is present.
func (hd Headers) Has(name string) bool {
	return hd.h.Get(name) != ""
}

// ContentType returns the media type of the request body, without
// parameters.
func (hd Headers) ContentType() string {
	ct := hd.h.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}
