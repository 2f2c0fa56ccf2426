// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"errors"
	"fmt"
)

// HashLength is the expected length of the common.Hash type
const HashLength = 32

// EmptyHash is the zero value of Hash.
var EmptyHash = Hash{}

// ErrInvalidHashFormat is returned when a hex string cannot be turned into a Hash.
var ErrInvalidHashFormat = errors.New("invalid hash format")

// Hash is a 32 byte blake2b hash, also used for relay-chain block hashes
// and state roots.
type Hash [HashLength]byte

// NewHash casts a byte slice to a Hash.
// If the input is longer than 32 bytes, only the first 32 bytes are used.
func NewHash(in []byte) (h Hash) {
	copy(h[:], in)
	return h
}

// String returns the 0x prefixed hex string for the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Short returns the first 4 bytes and the last 4 bytes of the hex string for the hash
func (h Hash) Short() string {
	const nBytes = 4
	return fmt.Sprintf("0x%x...%x", h[:nBytes], h[len(h)-nBytes:])
}

// HexToHash turns a 0x prefixed hex string into type Hash.
// The decoded bytes must not be longer than 32 bytes.
func HexToHash(in string) (Hash, error) {
	b, err := HexToBytes(in)
	if err != nil {
		return EmptyHash, err
	}

	if len(b) > HashLength {
		return EmptyHash, fmt.Errorf("%w: %d bytes is longer than %d bytes",
			ErrInvalidHashFormat, len(b), HashLength)
	}

	return NewHash(b), nil
}

// ParseHash turns a 0x prefixed hex string of exactly 32 bytes into type Hash.
func ParseHash(in string) (Hash, error) {
	b, err := HexToBytes(in)
	if err != nil {
		return EmptyHash, err
	}

	if len(in) != 2+2*HashLength {
		return EmptyHash, fmt.Errorf("%w: %q is not %d bytes long",
			ErrInvalidHashFormat, in, HashLength)
	}

	return NewHash(b), nil
}

// MustHexToHash turns a 0x prefixed hex string into type Hash
// it panics if it cannot turn the string into a Hash
func MustHexToHash(in string) Hash {
	h, err := HexToHash(in)
	if err != nil {
		panic(err)
	}
	return h
}
