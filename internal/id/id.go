// Package id generates run identifiers.
package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"
)

// ulidEncoding uses Crockford's Base32 (excludes I, L, O, U to avoid ambiguity)
const ulidEncoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu      sync.Mutex
	ulidLastMs  int64
	ulidCounter uint16
)

// ULID generates a new ULID (Universally Unique Lexicographically Sortable
// Identifier). ULIDs are 26 characters long and time-sortable, so exported
// run snapshots list in creation order when sorted by run id.
func ULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	now := time.Now().UnixMilli()

	// Same millisecond: advance the counter; on overflow wait the
	// millisecond out.
	if now == ulidLastMs {
		ulidCounter++
		if ulidCounter == 0 {
			for now == ulidLastMs {
				time.Sleep(time.Millisecond)
				now = time.Now().UnixMilli()
			}
		}
	} else {
		ulidLastMs = now
		ulidCounter = 0
	}

	return encodeULID(now, ulidCounter)
}

// encodeULID encodes a timestamp and counter into a ULID string.
func encodeULID(ms int64, counter uint16) string {
	ulid := make([]byte, 26)

	// Timestamp: first 10 characters, 48 bits.
	for i := 0; i < 10; i++ {
		ulid[9-i] = ulidEncoding[(ms>>(5*i))&0x1F]
	}

	// Randomness: 80 bits across the last 16 characters, with the counter
	// mixed into the leading bytes for uniqueness within a millisecond.
	randomBytes := make([]byte, 10)
	_, _ = rand.Read(randomBytes)
	randomBytes[0] ^= byte(counter >> 8)
	randomBytes[1] ^= byte(counter)

	var acc uint32
	bits := 0
	pos := 10
	for _, b := range randomBytes {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			ulid[pos] = ulidEncoding[(acc>>bits)&0x1F]
			pos++
		}
	}
	return string(ulid)
}

// IsValid reports whether a string is a well-formed ULID.
func IsValid(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(ulidEncoding, c) {
			return false
		}
	}
	return true
}
