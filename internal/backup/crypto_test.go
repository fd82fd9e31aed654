package backup

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("conteudo do snapshot")

	sealed, err := encrypt(plaintext, "senha-forte")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, plaintext) {
		t.Fatal("ciphertext should not contain the plaintext")
	}

	opened, err := Decrypt(sealed, "senha-forte")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("round trip mismatch: got %q", opened)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	sealed, err := encrypt([]byte("dados"), "certa")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(sealed, "errada"); err == nil {
		t.Fatal("wrong passphrase should fail authentication")
	}
}

func TestDecryptTruncated(t *testing.T) {
	if _, err := Decrypt([]byte("curto"), "senha"); err == nil {
		t.Fatal("truncated input should fail")
	}
}

func TestRunNowEncryptsWithPassphrase(t *testing.T) {
	m, mock := setupBackupTest(t)
	m.cfg.Passphrase = "senha-forte"

	if err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(mock.objects))
	}
	for key, data := range mock.objects {
		if !strings.HasSuffix(key, ".enc") {
			t.Errorf("encrypted backup key should end in .enc, got %s", key)
		}
		// SQLite files start with a fixed magic header; ciphertext must not.
		if bytes.HasPrefix(data, []byte("SQLite format 3")) {
			t.Error("uploaded backup is not encrypted")
		}
		if _, err := Decrypt(data, "senha-forte"); err != nil {
			t.Errorf("uploaded backup should decrypt: %v", err)
		}
	}
}
