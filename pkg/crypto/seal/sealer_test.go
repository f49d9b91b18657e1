package seal

import (
	"errors"
	"testing"
)

var testMaster = []byte("test-master-key-0123456789abcdef")

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := NewSealer(testMaster)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	tests := []struct {
		name  string
		label string
		value string
	}{
		{"plain", "session_id", "sbss-01hqv2x5k8p3m9n4r6t7w8y9za"},
		{"empty value", "flag", ""},
		{"unicode", "pref", "héllo wörld ☺"},
		{"json", "cart", `{"items":[1,2,3],"total":9.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := s.Seal(tt.label, tt.value)
			if err != nil {
				t.Fatalf("Seal: %v", err)
			}
			if sealed == tt.value && tt.value != "" {
				t.Error("sealed form equals plaintext")
			}
			opened, err := s.Open(tt.label, sealed)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if opened != tt.value {
				t.Errorf("Open = %q, want %q", opened, tt.value)
			}
		})
	}
}

func TestSealNondeterministic(t *testing.T) {
	s, err := NewSealer(testMaster)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	a, _ := s.Seal("k", "same value")
	b, _ := s.Seal("k", "same value")
	if a == b {
		t.Error("two seals of the same value are identical")
	}
}

func TestOpenWrongLabel(t *testing.T) {
	s, err := NewSealer(testMaster)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := s.Seal("cookie_a", "secret")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := s.Open("cookie_b", sealed); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Open with relabel = %v, want ErrDecrypt", err)
	}
}

func TestOpenWrongKey(t *testing.T) {
	a, err := NewSealer(testMaster)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	b, err := NewSealer([]byte("another-master-key-xyzxyzxyzxyz"))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, _ := a.Seal("k", "secret")
	if _, err := b.Open("k", sealed); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Open with other key = %v, want ErrDecrypt", err)
	}
}

func TestOpenCorruptInput(t *testing.T) {
	s, err := NewSealer(testMaster)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	for _, sealed := range []string{"", "not base64!!", "AAAA", "%%%"} {
		if _, err := s.Open("k", sealed); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Open(%q) = %v, want ErrDecrypt", sealed, err)
		}
	}

	// Flip a byte in a valid sealed value.
	sealed, _ := s.Seal("k", "intact")
	tampered := []byte(sealed)
	tampered[len(tampered)-1] ^= 1
	if _, err := s.Open("k", string(tampered)); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Open(tampered) = %v, want ErrDecrypt", err)
	}
}

func TestNewSealerKeyTooShort(t *testing.T) {
	if _, err := NewSealer([]byte("short")); !errors.Is(err, ErrKeyTooShort) {
		t.Errorf("NewSealer(short) = %v, want ErrKeyTooShort", err)
	}
}

func TestCipherTypes(t *testing.T) {
	for _, ct := range []CipherType{CipherAESGCM, CipherChaCha20} {
		t.Run(string(ct), func(t *testing.T) {
			s, err := NewSealerWithType(testMaster, ct)
			if err != nil {
				t.Fatalf("NewSealerWithType: %v", err)
			}
			sealed, err := s.Seal("k", "v")
			if err != nil {
				t.Fatalf("Seal: %v", err)
			}
			opened, err := s.Open("k", sealed)
			if err != nil || opened != "v" {
				t.Errorf("Open = %q, %v", opened, err)
			}
		})
	}

	if _, err := NewSealerWithType(testMaster, "rot13"); err == nil {
		t.Error("NewSealerWithType(rot13) err = nil")
	}
}

func TestNewCipherKeyLength(t *testing.T) {
	if _, err := NewAESGCM(make([]byte, 16)); err == nil {
		t.Error("NewAESGCM(16 bytes) err = nil")
	}
	if _, err := NewChaCha20(make([]byte, 16)); err == nil {
		t.Error("NewChaCha20(16 bytes) err = nil")
	}
}
