// pkg/crypto/secret.go

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"golang.org/x/crypto/scrypt"
)

const (
	keyLen   = 32
	tagLen   = 16
	nonceLen = 16

	// scrypt cost parameters; changing them invalidates stored secrets.
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1

	passphraseVersion = "commitor-v1"
)

var kdfSalt = []byte("salt")

// MachinePassphrase ties sealed secrets to this user on this host.
// It obscures the key at rest; it does not protect against a local attacker
// running as the same user.
func MachinePassphrase() string {
	home, _ := os.UserHomeDir()
	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte(home + "-" + host + "-" + passphraseVersion))
	return hex.EncodeToString(sum[:])
}

// DeriveKey stretches passphrase into an AES-256 key.
func DeriveKey(passphrase string) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), kdfSalt, scryptN, scryptR, scryptP, keyLen)
}

// SealSecret encrypts plaintext with AES-256-GCM and returns "iv:tag:ciphertext" in hex.
func SealSecret(plaintext, passphrase string) (string, error) {
	key, err := DeriveKey(passphrase)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]

	return strings.Join([]string{
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ct),
	}, ":"), nil
}

// OpenSecret reverses SealSecret. Any malformed or tampered value yields DecryptionFailure.
func OpenSecret(sealed, passphrase string) (string, error) {
	fail := func(cause error) error {
		return commitor_err.Wrap(commitor_err.DecryptionFailure, cause,
			"stored API key could not be decrypted",
			"run `commitor config init` to store the key again")
	}

	parts := strings.Split(sealed, ":")
	if len(parts) != 3 {
		return "", fail(fmt.Errorf("expected 3 segments, got %d", len(parts)))
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceLen {
		return "", fail(fmt.Errorf("bad nonce"))
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagLen {
		return "", fail(fmt.Errorf("bad tag"))
	}
	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fail(fmt.Errorf("bad ciphertext"))
	}

	key, err := DeriveKey(passphrase)
	if err != nil {
		return "", fail(err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", fail(err)
	}

	plain, err := gcm.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return "", fail(err)
	}
	return string(plain), nil
}

// IsSealed reports whether s has the iv:tag:ciphertext shape.
func IsSealed(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts[:2] {
		if _, err := hex.DecodeString(p); err != nil || p == "" {
			return false
		}
	}
	_, err := hex.DecodeString(parts[2])
	return err == nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
