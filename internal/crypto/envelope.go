// Package crypto seals individual scratchpad entries behind a password.
//
// An envelope is a self-describing JSON object stored verbatim as the
// entry's content:
//
//	{"v":2,"kdf":"PBKDF2-SHA256","iters":200000,"salt":"…","iv":"…","ct":"…"}
//
// Version 2 encrypts "id|plaintext" with XChaCha20-Poly1305 under a key
// stretched from the password with a fresh random salt; iv carries the
// 24-byte nonce and ct the ciphertext followed by the Poly1305 tag. The
// header fields are bound as additional data. Version 1 is the unauthenticated
// AES-256-CBC format written by the original browser tool and can only be
// opened, never produced.
package crypto

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	errs "github.com/rcliao/tempnotes/internal/errors"
)

const (
	VersionLegacyCBC = 1
	Version          = 2
)

// Envelope is the serialized form of an encrypted entry. Byte fields are
// base64 (standard, padded) in JSON.
type Envelope struct {
	V     int    `json:"v"`
	KDF   string `json:"kdf"`
	Iters int    `json:"iters"`
	Mem   uint32 `json:"mem,omitempty"`
	Par   uint8  `json:"par,omitempty"`
	Salt  []byte `json:"salt"`
	IV    []byte `json:"iv"`
	CT    []byte `json:"ct"`
}

func (e *Envelope) params() Params {
	return Params{KDF: e.KDF, Iterations: e.Iters, MemoryKiB: e.Mem, Threads: e.Par}
}

func (e *Envelope) aad() []byte {
	return []byte(fmt.Sprintf("tempnotes/v%d/%s/%d/%d/%d", e.V, e.KDF, e.Iters, e.Mem, e.Par))
}

// String returns the JSON form persisted as entry content.
func (e *Envelope) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// ParseEnvelope decodes an envelope without attempting to open it.
func ParseEnvelope(payload string) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedPayload, err)
	}
	if e.V != Version && e.V != VersionLegacyCBC {
		return nil, fmt.Errorf("%w: %w: v=%d", errs.ErrMalformedPayload, errs.ErrUnsupportedVersion, e.V)
	}
	return &e, nil
}

// IsEnvelope reports whether s parses as a supported envelope.
func IsEnvelope(s string) bool {
	_, err := ParseEnvelope(s)
	return err == nil
}

// Sealer produces envelopes with fixed key-derivation parameters.
type Sealer struct {
	params Params
}

// NewSealer validates p and returns a Sealer using it.
func NewSealer(p Params) (*Sealer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Sealer{params: p}, nil
}

var defaultSealer = &Sealer{params: DefaultParams()}

// Encrypt seals plaintext for entry id with the default parameters.
func Encrypt(id, plaintext, password string) (string, error) {
	return defaultSealer.Encrypt(id, plaintext, password)
}

// Encrypt seals "id|plaintext" under a key derived from password. Every call
// draws a new salt and nonce, so identical inputs never produce identical
// envelopes.
func (s *Sealer) Encrypt(id, plaintext, password string) (string, error) {
	if password == "" {
		return "", errs.ErrMissingPassword
	}
	if id == "" || strings.Contains(id, "|") {
		return "", fmt.Errorf("identifier %q cannot be bound into an envelope", id)
	}

	e := &Envelope{
		V:     Version,
		KDF:   s.params.KDF,
		Iters: s.params.Iterations,
		Mem:   s.params.MemoryKiB,
		Par:   s.params.Threads,
		Salt:  make([]byte, saltSize),
		IV:    make([]byte, chacha20poly1305.NonceSizeX),
	}
	if _, err := rand.Read(e.Salt); err != nil {
		return "", err
	}
	if _, err := rand.Read(e.IV); err != nil {
		return "", err
	}

	key, err := deriveKey(password, e.Salt, e.params())
	if err != nil {
		return "", err
	}
	defer Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	e.CT = aead.Seal(nil, e.IV, []byte(id+"|"+plaintext), e.aad())
	return e.String(), nil
}

// Open decrypts payload and splits the bound identifier from the plaintext.
func Open(payload, password string) (id, plaintext string, err error) {
	if password == "" {
		return "", "", errs.ErrMissingPassword
	}
	e, err := ParseEnvelope(payload)
	if err != nil {
		return "", "", err
	}

	var raw []byte
	switch e.V {
	case Version:
		raw, err = openAEAD(e, password)
	case VersionLegacyCBC:
		raw, err = openLegacyCBC(e, password)
	}
	if err != nil {
		return "", "", err
	}

	id, plaintext, ok := strings.Cut(string(raw), "|")
	if !ok {
		return "", "", fmt.Errorf("%w: missing identifier segment", errs.ErrAuthentication)
	}
	return id, plaintext, nil
}

// Decrypt returns the plaintext sealed in payload.
func Decrypt(payload, password string) (string, error) {
	_, plaintext, err := Open(payload, password)
	return plaintext, err
}

// OpenFor decrypts payload and returns the plaintext only if the identifier
// bound inside it is exactly id.
func OpenFor(id, payload, password string) (string, error) {
	got, plaintext, err := Open(payload, password)
	if err != nil {
		return "", err
	}
	if got != id {
		return "", fmt.Errorf("%w: envelope belongs to another entry", errs.ErrAuthentication)
	}
	return plaintext, nil
}

// VerifyPassword reports whether password opens payload and the identifier
// bound inside it is exactly id.
func VerifyPassword(id, payload, password string) bool {
	_, err := OpenFor(id, payload, password)
	return err == nil
}

func openAEAD(e *Envelope, password string) ([]byte, error) {
	if len(e.IV) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: nonce length %d", errs.ErrMalformedPayload, len(e.IV))
	}
	if len(e.CT) < chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: ciphertext too short", errs.ErrMalformedPayload)
	}
	key, err := deriveKey(password, e.Salt, e.params())
	if err != nil {
		return nil, err
	}
	defer Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, e.IV, e.CT, e.aad())
	if err != nil {
		return nil, errs.ErrAuthentication
	}
	return pt, nil
}
