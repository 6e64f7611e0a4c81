// Package ident mints sortable player identifiers: a UUIDv7 rendered as
// 26 characters of Crockford base32. Lexicographic order follows creation
// time, which keeps logs and storage keys naturally chronological.
package ident

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// randRead is swapped out in tests for deterministic bytes.
var randRead = rand.Read

// New returns a fresh identifier.
func New() string {
	var raw [16]byte

	now := time.Now().UnixMilli()
	raw[0] = byte(now >> 40)
	raw[1] = byte(now >> 32)
	raw[2] = byte(now >> 24)
	raw[3] = byte(now >> 16)
	raw[4] = byte(now >> 8)
	raw[5] = byte(now)

	if _, err := randRead(raw[6:]); err != nil {
		panic("ident: reading random bytes: " + err.Error())
	}

	// UUIDv7 version and variant bits.
	raw[6] = (raw[6] & 0x0f) | 0x70
	raw[8] = (raw[8] & 0x3f) | 0x80

	return encode(raw)
}

// encode renders 128 bits as 26 base32 characters, 5 bits per character,
// left-aligned so the timestamp prefix stays in front.
func encode(raw [16]byte) string {
	var b strings.Builder
	b.Grow(26)

	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if bitIndex <= 3 {
			value = (raw[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (raw[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < 16 {
				value |= raw[byteIndex+1] >> (11 - bitIndex)
			}
		}
		b.WriteByte(alphabet[value])
	}

	return b.String()
}

// Valid reports whether id could have come from New.
func Valid(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("ident must be 26 characters, got %d", len(id))
	}
	// 128 bits in 130 bit positions: the first character carries only
	// 3 significant bits.
	if id[0] > '7' {
		return fmt.Errorf("ident first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if !strings.ContainsRune(alphabet, rune(id[i])) {
			return fmt.Errorf("ident has invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
