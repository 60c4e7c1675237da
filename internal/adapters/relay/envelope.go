package relay

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// Envelope is the wire format for an encrypted publish body
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// ParseKey decodes a base64 32-byte secretbox key
func ParseKey(encoded string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("relay key is not valid base64: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("relay key must be 32 bytes, got %d", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// Seal encrypts a payload into a nonce+ciphertext envelope
func Seal(payload []byte, key *[32]byte) (Envelope, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nil, payload, &nonce, key)
	return Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
	}, nil
}

// Open decrypts an envelope. Used by tests and any co-located reader; the
// production reader is the external relay.
func Open(env Envelope, key *[32]byte) ([]byte, error) {
	nonceRaw, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonceRaw) != 24 {
		return nil, fmt.Errorf("invalid nonce")
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}

	var nonce [24]byte
	copy(nonce[:], nonceRaw)

	payload, ok := secretbox.Open(nil, sealed, &nonce, key)
	if !ok {
		return nil, fmt.Errorf("decryption failed")
	}
	return payload, nil
}

// Marshal renders the envelope as the POST body
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
