// Package signer provides HMAC-SHA256 integrity signing for opaque byte payloads.
//
// A sealed token has the form base64url(payload ‖ mac) without padding, where mac is
// the 32-byte HMAC-SHA256 of payload under the process secret. Tokens are integrity
// protected, not encrypted: anyone can read the payload, nobody can forge it.
//
//	s, err := signer.New(secret)
//	token := s.Seal([]byte(`{"uid":1}`))
//	payload, err := s.Open(token)
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Size is the length in bytes of a signature.
const Size = sha256.Size

// MinSecretLength is the minimum secret length accepted by NewStrict.
const MinSecretLength = 32

// Signer signs and verifies payloads with a fixed secret.
// It is safe for concurrent use.
type Signer struct {
	secret []byte
}

// New creates a Signer for the given secret.
// Returns ErrNoSecret if the secret is empty.
func New(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// NewStrict is like New but also rejects secrets shorter than MinSecretLength.
func NewStrict(secret string) (*Signer, error) {
	if len(secret) < MinSecretLength {
		if secret == "" {
			return nil, ErrNoSecret
		}
		return nil, ErrWeakSecret
	}
	return New(secret)
}

// Sign returns the HMAC-SHA256 of payload.
func (s *Signer) Sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Verify reports whether sig is a valid signature of payload.
// The comparison is constant-time.
func (s *Signer) Verify(payload, sig []byte) bool {
	return hmac.Equal(sig, s.Sign(payload))
}

// Seal returns base64url(payload ‖ signature) without padding.
func (s *Signer) Seal(payload []byte) string {
	blob := make([]byte, 0, len(payload)+Size)
	blob = append(blob, payload...)
	blob = append(blob, s.Sign(payload)...)
	return base64.RawURLEncoding.EncodeToString(blob)
}

// Open decodes a sealed token and returns its payload.
// Returns ErrMalformed if the token is not valid base64url or too short,
// and ErrBadSignature if the trailing signature does not match.
func (s *Signer) Open(token string) ([]byte, error) {
	blob, err := decode(token)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(blob) < Size {
		return nil, ErrMalformed
	}

	payload, sig := blob[:len(blob)-Size], blob[len(blob)-Size:]
	if !s.Verify(payload, sig) {
		return nil, ErrBadSignature
	}
	return payload, nil
}

// decode accepts unpadded and padded base64url. Strict decoding rejects
// non-zero trailing bits so every bit of the token is covered by the signature.
func decode(token string) ([]byte, error) {
	if strings.HasSuffix(token, "=") {
		return base64.URLEncoding.Strict().DecodeString(token)
	}
	return base64.RawURLEncoding.Strict().DecodeString(token)
}
