// Package handler provides HTTP request handlers for statebag.
package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// SetEntryRequest is the request body for PUT /v1/state/{kind}/{key}.
// Value accepts any JSON value: null, booleans, numbers, strings,
// arrays and objects.
type SetEntryRequest struct {
	Value any `json:"value"`
}

// EntryResponse describes a single store entry in API responses.
type EntryResponse struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
	Found *bool  `json:"found,omitempty"`
}

// ListEntriesResponse is the response body for GET /v1/state/{kind}.
type ListEntriesResponse struct {
	Kind    string         `json:"kind"`
	Entries map[string]any `json:"entries,omitempty"`
	Count   int            `json:"count"`
}

// SessionResponse is the response body for the session lifecycle
// endpoints.
type SessionResponse struct {
	SessionID string   `json:"session_id,omitempty"`
	Keys      []string `json:"keys,omitempty"`
	Count     int      `json:"count"`
}
