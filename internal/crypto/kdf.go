package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	errs "github.com/rcliao/tempnotes/internal/errors"
)

const (
	KDFPBKDF2   = "PBKDF2-SHA256"
	KDFArgon2id = "argon2id"

	DefaultIterations = 200000
	MinIterations     = 100000
	maxIterations     = 10_000_000

	DefaultArgonTime    = 3
	DefaultArgonMemory  = 64 * 1024
	DefaultArgonThreads = 1
	minArgonMemory      = 8 * 1024
	maxArgonMemory      = 4 * 1024 * 1024

	keySize  = 32
	saltSize = 16
)

// Params selects the password-based key derivation used for new envelopes.
// Iterations is the PBKDF2 round count, or the argon2id time cost.
type Params struct {
	KDF        string
	Iterations int
	MemoryKiB  uint32
	Threads    uint8
}

// DefaultParams returns PBKDF2-SHA256 with 200,000 rounds.
func DefaultParams() Params {
	return Params{KDF: KDFPBKDF2, Iterations: DefaultIterations}
}

// DefaultArgonParams returns argon2id with t=3, m=64 MiB, p=1.
func DefaultArgonParams() Params {
	return Params{KDF: KDFArgon2id, Iterations: DefaultArgonTime, MemoryKiB: DefaultArgonMemory, Threads: DefaultArgonThreads}
}

// Validate rejects parameters too weak to encrypt with.
func (p Params) Validate() error {
	switch p.KDF {
	case KDFPBKDF2:
		if p.Iterations < MinIterations || p.Iterations > maxIterations {
			return fmt.Errorf("pbkdf2 iterations %d outside [%d, %d]", p.Iterations, MinIterations, maxIterations)
		}
	case KDFArgon2id:
		if p.Iterations < 1 || p.Iterations > 100 {
			return fmt.Errorf("argon2id time cost %d outside [1, 100]", p.Iterations)
		}
		if p.MemoryKiB < minArgonMemory || p.MemoryKiB > maxArgonMemory {
			return fmt.Errorf("argon2id memory %d KiB outside [%d, %d]", p.MemoryKiB, minArgonMemory, maxArgonMemory)
		}
		if p.Threads < 1 {
			return fmt.Errorf("argon2id threads must be at least 1")
		}
	default:
		return fmt.Errorf("unknown kdf %q", p.KDF)
	}
	return nil
}

// deriveKey stretches password into a 256-bit key. Parameters come from an
// envelope, so out-of-range values are reported as malformed payloads.
func deriveKey(password string, salt []byte, p Params) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", errs.ErrMalformedPayload)
	}
	switch p.KDF {
	case KDFPBKDF2, "":
		iters := p.Iterations
		if iters <= 0 {
			iters = DefaultIterations
		}
		if iters > maxIterations {
			return nil, fmt.Errorf("%w: iteration count %d", errs.ErrMalformedPayload, iters)
		}
		return pbkdf2.Key([]byte(password), salt, iters, keySize, sha256.New), nil
	case KDFArgon2id:
		if p.Iterations < 1 || p.Iterations > 100 || p.MemoryKiB < minArgonMemory || p.MemoryKiB > maxArgonMemory || p.Threads < 1 {
			return nil, fmt.Errorf("%w: argon2id parameters t=%d m=%d p=%d", errs.ErrMalformedPayload, p.Iterations, p.MemoryKiB, p.Threads)
		}
		return argon2.IDKey([]byte(password), salt, uint32(p.Iterations), p.MemoryKiB, p.Threads, keySize), nil
	default:
		return nil, fmt.Errorf("%w: unknown kdf %q", errs.ErrMalformedPayload, p.KDF)
	}
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
