package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"unicode/utf8"

	errs "github.com/rcliao/tempnotes/internal/errors"
)

// openLegacyCBC reads v1 envelopes: AES-256-CBC with PKCS#7 padding and a
// PBKDF2-SHA256 key. There is no tag, so a wrong password is detected only by
// bad padding, invalid UTF-8, or, in the caller, a mismatched identifier.
func openLegacyCBC(e *Envelope, password string) ([]byte, error) {
	if e.KDF != "" && e.KDF != KDFPBKDF2 {
		return nil, fmt.Errorf("%w: legacy envelope with kdf %q", errs.ErrMalformedPayload, e.KDF)
	}
	if len(e.IV) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv length %d", errs.ErrMalformedPayload, len(e.IV))
	}
	if len(e.CT) == 0 || len(e.CT)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d", errs.ErrMalformedPayload, len(e.CT))
	}

	key, err := deriveKey(password, e.Salt, Params{KDF: KDFPBKDF2, Iterations: e.Iters})
	if err != nil {
		return nil, err
	}
	defer Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	pt := make([]byte, len(e.CT))
	cipher.NewCBCDecrypter(block, e.IV).CryptBlocks(pt, e.CT)

	pt, ok := unpadPKCS7(pt)
	if !ok || len(pt) == 0 || !utf8.Valid(pt) {
		return nil, errs.ErrAuthentication
	}
	return pt, nil
}

func unpadPKCS7(b []byte) ([]byte, bool) {
	if len(b) == 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
