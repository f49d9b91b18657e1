package domain

import "time"

// StoreKind is the nominal identifier of a store adapter type.
// A registry holds at most one live store instance per kind.
type StoreKind string

// Built-in store kinds.
const (
	KindSession StoreKind = "session"
	KindCookie  StoreKind = "cookie"
	KindMemory  StoreKind = "memory"
)

// Default time-to-live per kind family. A TTL of zero means "no expiry";
// adapters translate zero into their medium's own convention.
const (
	DefaultSessionTTL = time.Hour
	DefaultCookieTTL  = 12 * time.Hour
)
