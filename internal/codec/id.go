// Package codec holds the small primitives every other package leans on:
// identifiers, millisecond timestamps, UTF-16 aware text measurement.
package codec

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh, lexically sortable entry identifier.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Now returns the current time as integer milliseconds since the Unix epoch.
func Now() int64 {
	return time.Now().UnixMilli()
}

// Time converts a millisecond epoch value back to a time.Time.
func Time(ms int64) time.Time {
	return time.UnixMilli(ms)
}
