package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

const testKey = "01234567890123456789012345678901"

func TestInitCrypto(t *testing.T) {
	t.Run("ShortKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", "short_key")
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("InitCrypto should panic with a short key")
			}
		}()
		config.InitCrypto()
	})

	t.Run("ValidKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", testKey)
		config.InitCrypto()
		if config.DefaultCipher() == nil {
			t.Fatal("default cipher should be set")
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	os.Setenv("CRYPTO_KEY", testKey)
	config.InitCrypto()
	c := config.DefaultCipher()

	t.Run("SimpleText", func(t *testing.T) {
		plaintext := "482913"

		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		decrypted, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != plaintext {
			t.Errorf("decrypted text %q does not match %q", decrypted, plaintext)
		}

		ciphertext2, _ := c.Encrypt(plaintext)
		if ciphertext == ciphertext2 {
			t.Errorf("encryption should use a random nonce")
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		ciphertext, err := c.Encrypt("")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		decrypted, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != "" {
			t.Errorf("expected empty text, got %q", decrypted)
		}
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := c.Decrypt("AAAA")
		if !errors.Is(err, config.ErrCiphertextTooShort) {
			t.Errorf("expected ErrCiphertextTooShort, got %v", err)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		ciphertext, _ := c.Encrypt("123456")
		other, err := config.NewCipher([]byte("abcdefghijabcdefghijabcdefghij12"))
		if err != nil {
			t.Fatalf("NewCipher failed: %v", err)
		}
		if _, err := other.Decrypt(ciphertext); err == nil {
			t.Error("decrypting with a different key should fail")
		}
	})
}
