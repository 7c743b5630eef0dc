package identity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrDecryption is returned whenever ciphertext fails its integrity check.
// A rotated encryption key surfaces here as a hard error, never as garbage
// plaintext.
var ErrDecryption = errors.New("credential decryption failed")

// Sealer encrypts credential material at rest with AES-256-GCM. The cipher
// key is derived once from the configured secret; output framing is a version
// byte followed by nonce and ciphertext.
type Sealer struct {
	key [32]byte
}

func NewSealer(secret string) *Sealer {
	return &Sealer{key: sha256.Sum256([]byte(secret))}
}

func (s *Sealer) Encrypt(plaintext string) ([]byte, error) {
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	out := make([]byte, 1+len(nonce)+len(ct))
	out[0] = 0x01
	copy(out[1:1+len(nonce)], nonce)
	copy(out[1+len(nonce):], ct)
	return out, nil
}

func (s *Sealer) Decrypt(blob []byte) (string, error) {
	if len(blob) < 2 {
		return "", ErrDecryption
	}
	if blob[0] != 0x01 { // only version 1 exists
		return "", ErrDecryption
	}
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(blob) < 1+gcm.NonceSize() {
		return "", ErrDecryption
	}
	nonce := blob[1 : 1+gcm.NonceSize()]
	ct := blob[1+gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plain), nil
}

// Fingerprint computes the deduplication digest of a plaintext credential
// pair. It is computed before encryption so an identical re-registration can
// be detected without decrypting anything.
func Fingerprint(accessKey, secretKey string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", accessKey, secretKey)))
	return hex.EncodeToString(sum[:])
}
