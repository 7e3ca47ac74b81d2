package fleet

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeyLen is the length of the text form of a Key.
const KeyLen = 22

var keyEncoding = base64.RawURLEncoding.Strict()

// Key is an opaque 128-bit identifier. Its text form is 22 characters of
// unpadded URL-safe base64.
type Key [16]byte

// NewKey returns a random key.
func NewKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("fleet: generating key: %w", err)
	}
	return k, nil
}

// ParseKey parses the text form of a key.
func ParseKey(s string) (Key, error) {
	var k Key
	if err := k.UnmarshalText([]byte(s)); err != nil {
		return Key{}, err
	}
	return k, nil
}

// MustParseKey is like ParseKey but panics on malformed input.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// IsZero reports whether k is the all-zero key.
func (k Key) IsZero() bool { return k == Key{} }

func (k Key) String() string {
	return keyEncoding.EncodeToString(k[:])
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	if len(text) != KeyLen {
		return fmt.Errorf("key must be %d characters, got %d", KeyLen, len(text))
	}
	var buf [18]byte
	n, err := keyEncoding.Decode(buf[:], text)
	if err != nil {
		return fmt.Errorf("malformed key: %w", err)
	}
	if n != len(k) {
		return fmt.Errorf("malformed key: decoded %d bytes", n)
	}
	copy(k[:], buf[:n])
	return nil
}
