package session

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/shipy/pkg/signer"
)

// Codec packs Values into signed URL-safe tokens and back.
type Codec struct {
	signer *signer.Signer
}

// NewCodec creates a Codec that signs with s.
func NewCodec(s *signer.Signer) *Codec {
	return &Codec{signer: s}
}

// Pack serializes v canonically (sorted keys, compact JSON) and seals it.
func (c *Codec) Pack(v Values) (string, error) {
	if v == nil {
		v = Values{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Join(ErrEncode, err)
	}
	return c.signer.Seal(raw), nil
}

// Unpack verifies and decodes a token.
// Any failure (bad encoding, bad signature, bad JSON, non-object payload)
// yields an empty Values: a tampered or stale cookie is an anonymous session.
func (c *Codec) Unpack(token string) Values {
	if token == "" {
		return Values{}
	}
	raw, err := c.signer.Open(token)
	if err != nil {
		return Values{}
	}

	var v Values
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || v == nil || dec.More() {
		return Values{}
	}
	return v
}
