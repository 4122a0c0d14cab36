package crypto

import (
	"errors"
	"testing"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

func TestAESCipher_RoundTrip(t *testing.T) {
	c, err := NewAESCipher("server-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	for _, text := range []string{"Hello World", "", "café mañana é́", "multi\nline\ntext"} {
		ct, err := c.Encrypt(text)
		if err != nil {
			t.Fatalf("encrypt %q: %v", text, err)
		}
		got, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("decrypt %q: %v", text, err)
		}
		if got != text {
			t.Errorf("round trip mismatch: want %q, got %q", text, got)
		}
	}
}

func TestAESCipher_EncryptIsNotDeterministic(t *testing.T) {
	c, _ := NewAESCipher("server-secret")
	a, _ := c.Encrypt("same text")
	b, _ := c.Encrypt("same text")
	if string(a) == string(b) {
		t.Fatal("two encryptions of the same text must differ (random nonce)")
	}
}

func TestAESCipher_WrongKeyFailsClosed(t *testing.T) {
	c1, _ := NewAESCipher("key-one")
	c2, _ := NewAESCipher("key-two")

	ct, _ := c1.Encrypt("secret agreement")
	if _, err := c2.Decrypt(ct); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed with rotated key, got %v", err)
	}
}

func TestAESCipher_TamperedCiphertext(t *testing.T) {
	c, _ := NewAESCipher("server-secret")
	ct, _ := c.Encrypt("secret agreement")
	ct[len(ct)-1] ^= 0x01

	if _, err := c.Decrypt(ct); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed for tampered ciphertext, got %v", err)
	}
}

func TestAESCipher_TruncatedCiphertext(t *testing.T) {
	c, _ := NewAESCipher("server-secret")
	if _, err := c.Decrypt([]byte{0x01, 0x02}); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed for truncated input, got %v", err)
	}
}

func TestNewAESCipher_EmptySecret(t *testing.T) {
	if _, err := NewAESCipher(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
