// Package bag implements the generic property store: an ordered
// key/value property bag, a case-insensitive lookup cache over it, and
// the Store operation set every concrete adapter (session-backed,
// cookie-backed, in-memory) is built on.
//
// The bag holds raw wire strings; decoding to logical values happens on
// read through the codec. Keys are canonicalized at write time, so a
// case-insensitive match on Set overwrites the existing slot instead of
// creating a second, unreachable entry.
package bag
