package services

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewEncryptor(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantNil bool
		wantErr bool
	}{
		{"empty key disables", "", true, false},
		{"valid key", testEncryptionKey, false, false},
		{"not hex", "not-hex", true, true},
		{"aes-128 length", "0123456789abcdef0123456789abcdef", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncryptor(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (enc == nil) != tt.wantNil {
				t.Fatalf("enc nil = %v, want %v", enc == nil, tt.wantNil)
			}
		})
	}
}

func TestEncryptString_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testEncryptionKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, plain := range []string{"Merhaba, yazınızı çok beğendim!", "", "ayse@example.com"} {
		sealed, err := enc.EncryptString(plain)
		if err != nil {
			t.Fatalf("encrypt error: %v", err)
		}
		if !strings.HasPrefix(sealed, encryptedPrefix) {
			t.Fatalf("sealed value lacks prefix: %q", sealed)
		}
		if plain != "" && strings.Contains(sealed, plain) {
			t.Fatal("sealed value leaks plaintext")
		}

		opened, err := enc.DecryptString(sealed)
		if err != nil {
			t.Fatalf("decrypt error: %v", err)
		}
		if opened != plain {
			t.Errorf("round trip = %q, want %q", opened, plain)
		}
	}
}

func TestDecryptString_PlaintextPassthrough(t *testing.T) {
	enc, _ := NewEncryptor(testEncryptionKey)
	got, err := enc.DecryptString("eski düz metin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "eski düz metin" {
		t.Errorf("plaintext changed: %q", got)
	}
}

func TestDecryptString_WrongKey(t *testing.T) {
	enc1, _ := NewEncryptor(testEncryptionKey)
	key2 := make([]byte, 32)
	key2[0] = 0xff
	enc2, _ := NewEncryptor(hex.EncodeToString(key2))

	sealed, _ := enc1.EncryptString("gizli")
	if _, err := enc2.DecryptString(sealed); err == nil {
		t.Fatal("expected error decrypting with the wrong key")
	}
}

func TestNilEncryptor_Passthrough(t *testing.T) {
	var enc *Encryptor

	sealed, err := enc.EncryptString("hello")
	if err != nil || sealed != "hello" {
		t.Fatalf("nil encryptor should pass through, got %q, %v", sealed, err)
	}

	raw, err := enc.Encrypt([]byte("hello"))
	if err != nil || !bytes.Equal(raw, []byte("hello")) {
		t.Fatal("nil encryptor should pass through bytes")
	}
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	enc, _ := NewEncryptor(testEncryptionKey)

	ct1, _ := enc.Encrypt([]byte("same data"))
	ct2, _ := enc.Encrypt([]byte("same data"))
	if bytes.Equal(ct1, ct2) {
		t.Fatal("two encryptions of the same data should differ")
	}

	pt, err := enc.Decrypt(ct1)
	if err != nil || string(pt) != "same data" {
		t.Fatalf("byte round trip failed: %q, %v", pt, err)
	}
}
