package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"ledgerbook/internal/core"
)

const (
	kdfIterations = 100_000
	keyLength     = 32
	saltLength    = 16
	nonceLength   = 12
)

// Envelope wraps an encrypted export document. All three payload
// fields are base64; the marker lets importers detect encryption
// before asking for a password.
type Envelope struct {
	IsEncrypted   bool   `json:"isEncrypted"`
	Salt          string `json:"salt"`
	IV            string `json:"iv"`
	EncryptedData string `json:"encryptedData"`
}

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIterations, keyLength, sha256.New)
}

// Seal encrypts plaintext with a key derived from password and returns
// the JSON-ready envelope. A fresh salt and nonce are generated per
// call.
func Seal(plaintext []byte, password string) (*Envelope, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	return &Envelope{
		IsEncrypted:   true,
		Salt:          base64.StdEncoding.EncodeToString(salt),
		IV:            base64.StdEncoding.EncodeToString(nonce),
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Open decrypts an envelope. A wrong password and a corrupted payload
// are indistinguishable here; both surface as core.ErrDecryptionFailed,
// and no partial plaintext ever escapes.
func Open(env *Envelope, password string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt", core.ErrDecryptionFailed)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: bad iv", core.ErrDecryptionFailed)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload", core.ErrDecryptionFailed)
	}
	// GCM panics on a wrong-size nonce; a truncated iv field must fail
	// like any other corruption.
	if len(salt) != saltLength {
		return nil, fmt.Errorf("%w: bad salt", core.ErrDecryptionFailed)
	}
	if len(nonce) != nonceLength {
		return nil, fmt.Errorf("%w: bad iv", core.ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, core.ErrDecryptionFailed
	}
	return plaintext, nil
}

// IsEncrypted reports whether raw JSON carries the encryption marker.
func IsEncrypted(data []byte) bool {
	var probe struct {
		IsEncrypted bool `json:"isEncrypted"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.IsEncrypted
}
