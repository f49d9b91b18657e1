// Package codec converts logical values to their durable wire form and
// back. The wire form is a plain JSON string, safe to persist to any
// adapter medium (session engine, cookie header).
//
// The codec is deliberately total on the read side: Decode reports a
// failure but never panics, and the store layer decides whether a decode
// failure surfaces as an error (strict) or as the raw value (lenient).
package codec

import (
	"github.com/statebag/statebag/internal/core/domain"
)

// Codec converts between the logical and raw representations of a
// stored value.
type Codec interface {
	// Encode renders a logical value into its wire form.
	Encode(v domain.Value) (string, error)

	// Decode parses a wire form back into a logical value.
	Decode(raw string) (domain.Value, error)
}

// JSON is the default codec. The zero value is ready to use.
type JSON struct{}

// NewJSON returns the JSON codec.
func NewJSON() JSON { return JSON{} }

// Encode implements Codec.
func (JSON) Encode(v domain.Value) (string, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return "", domain.ErrEncoding.WithCause(err)
	}
	return string(data), nil
}

// Decode implements Codec.
func (JSON) Decode(raw string) (domain.Value, error) {
	var v domain.Value
	if err := v.UnmarshalJSON([]byte(raw)); err != nil {
		return domain.Value{}, domain.ErrEncoding.WithCause(err)
	}
	return v, nil
}
