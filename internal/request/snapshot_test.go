package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFromHTTP_Query(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/search?q=hello&page=2&q=dup", nil)
	s := FromHTTP(r)

	if got := s.Query["q"]; got != "hello" {
		t.Errorf("Query[q] = %q, want %q", got, "hello")
	}
	if got := s.Query["page"]; got != "2" {
		t.Errorf("Query[page] = %q, want %q", got, "2")
	}
}

func TestFromHTTP_Form(t *testing.T) {
	body := strings.NewReader("name=alice&role=admin")
	r := httptest.NewRequest(http.MethodPost, "/submit", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s := FromHTTP(r)

	if got := s.Form["name"]; got != "alice" {
		t.Errorf("Form[name] = %q, want %q", got, "alice")
	}
	if got := s.Form["role"]; got != "admin" {
		t.Errorf("Form[role] = %q, want %q", got, "admin")
	}
}

func TestFromHTTP_FormAbsentWithoutBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s := FromHTTP(r)

	if len(s.Form) != 0 {
		t.Errorf("Form has %d entries, want 0", len(s.Form))
	}
}

func TestFromHTTP_Server(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/v1/state/session/k", nil)
	r.Host = "example.test"

	s := FromHTTP(r)

	checks := map[string]string{
		"REQUEST_METHOD": http.MethodPut,
		"REQUEST_URI":    "/v1/state/session/k",
		"HOST":           "example.test",
		"PROTOCOL":       "HTTP/1.1",
	}
	for name, want := range checks {
		if got := s.Server[name]; got != want {
			t.Errorf("Server[%s] = %q, want %q", name, got, want)
		}
	}
	if s.Server["REMOTE_ADDR"] == "" {
		t.Error("Server[REMOTE_ADDR] is empty")
	}
}

func TestFromHTTP_Env(t *testing.T) {
	t.Setenv("STATEBAG_TEST_VAR", "captured")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s := FromHTTP(r)

	if got := s.Env["STATEBAG_TEST_VAR"]; got != "captured" {
		t.Errorf("Env[STATEBAG_TEST_VAR] = %q, want %q", got, "captured")
	}
}

func TestHeaders_Get(t *testing.T) {
	h := http.Header{}
	h.Set("X-Request-Id", "req-abc")

	hd := NewHeaders(h)

	if got := hd.Get("x-request-id"); got != "req-abc" {
		t.Errorf("Get(x-request-id) = %q, want %q", got, "req-abc")
	}
	if got := hd.Get("Missing"); got != "" {
		t.Errorf("Get(Missing) = %q, want empty", got)
	}
}

func TestHeaders_Has(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer tok")

	hd := NewHeaders(h)

	if !hd.Has("authorization") {
		t.Error("Has(authorization) = false, want true")
	}
	if hd.Has("Accept") {
		t.Error("Has(Accept) = true, want false")
	}
}

func TestHeaders_ContentType(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "application/json", "application/json"},
		{"with charset", "application/json; charset=utf-8", "application/json"},
		{"mixed case", "Application/JSON", "application/json"},
		{"absent", "", ""},
		{"padded", "  text/html ; q=1", "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Content-Type", tt.value)
			}
			if got := NewHeaders(h).ContentType(); got != tt.want {
				t.Errorf("ContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}
