// Package cookie implements the client-side cookie medium: reading the
// incoming cookie set and emitting Set-Cookie directives, with optional
// authenticated encryption of values.
//
// Directives can only be emitted while the response header is
// unwritten; afterwards every write fails with ErrMediumUnavailable.
package cookie

import (
	"net/http"
	"net/url"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/pkg/crypto/seal"
)

// Options configures cookie attributes applied to every directive.
type Options struct {
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite

	// Sealer encrypts values on emit and decrypts them on read. Nil
	// leaves values URL-escaped plaintext.
	Sealer *seal.Sealer
}

// DefaultOptions returns the default cookie attributes.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Transport is the cookie medium for one request/response exchange.
type Transport struct {
	tracker *Tracker
	opts    Options
	log     logger.Logger

	// current is the medium's view: incoming cookies overlaid with the
	// directives emitted so far.
	current map[string]string
}

// New builds a transport over the request's incoming cookies and the
// tracked response writer.
func New(tracker *Tracker, r *http.Request, opts Options, log logger.Logger) *Transport {
	if log == nil {
		log = logger.Default()
	}
	t := &Transport{
		tracker: tracker,
		opts:    opts,
		log:     log,
		current: make(map[string]string),
	}

	for _, c := range r.Cookies() {
		raw, ok := t.decodeValue(c.Name, c.Value)
		if !ok {
			// Tampered or stale-key cookie: treat as absent.
			t.log.Warn("dropping undecodable cookie", "name", c.Name)
			continue
		}
		// First occurrence wins, matching net/http's cookie ordering.
		if _, exists := t.current[c.Name]; !exists {
			t.current[c.Name] = raw
		}
	}
	return t
}

// Incoming returns the medium's current view of the cookie set.
func (t *Transport) Incoming() map[string]string {
	out := make(map[string]string, len(t.current))
	for k, v := range t.current {
		out[k] = v
	}
	return out
}

// Contains reports whether the medium currently holds name.
func (t *Transport) Contains(name string) bool {
	_, ok := t.current[name]
	return ok
}

// Emit writes a Set-Cookie directive for name with the given TTL. A
// zero TTL emits a session cookie, the medium's "no expiry" form.
// Fails with ErrMediumUnavailable once the response header is written.
func (t *Transport) Emit(name, raw string, ttl time.Duration) error {
	if t.tracker.HeaderWritten() {
		return domain.ErrMediumUnavailable.WithDetails("response header already written")
	}

	value, err := t.encodeValue(name, raw)
	if err != nil {
		return domain.ErrEncoding.WithCause(err)
	}

	c := t.cookie(name, value)
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	}
	http.SetCookie(t.tracker, c)
	t.current[name] = raw
	return nil
}

// Expire emits a deletion directive for name: an expiry in the past.
// Expiring an absent cookie still emits the directive; the client may
// hold a copy this request never saw.
func (t *Transport) Expire(name string) error {
	if t.tracker.HeaderWritten() {
		return domain.ErrMediumUnavailable.WithDetails("response header already written")
	}

	c := t.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(1, 0)
	http.SetCookie(t.tracker, c)
	delete(t.current, name)
	return nil
}

func (t *Transport) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     t.opts.Path,
		Domain:   t.opts.Domain,
		Secure:   t.opts.Secure,
		HttpOnly: t.opts.HTTPOnly,
		SameSite: t.opts.SameSite,
	}
}

func (t *Transport) encodeValue(name, raw string) (string, error) {
	if t.opts.Sealer != nil {
		return t.opts.Sealer.Seal(name, raw)
	}
	return url.QueryEscape(raw), nil
}

func (t *Transport) decodeValue(name, value string) (string, bool) {
	if t.opts.Sealer != nil {
		raw, err := t.opts.Sealer.Open(name, value)
		if err != nil {
			return "", false
		}
		return raw, true
	}
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return "", false
	}
	return raw, true
}
