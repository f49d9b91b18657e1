// Package handler provides HTTP request handlers for statebag.
//
// Each request gets its own store registry: the handler wraps the
// response writer in a cookie tracker, builds the cookie transport from
// the incoming request, and wires the session and cookie adapters into
// a fresh registry. Stores are instantiated lazily on the first
// operation that touches their kind, so a request that never reads
// session state never starts a session.
package handler
