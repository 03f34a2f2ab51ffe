package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressPrefix defines the different types of human-readable address prefixes.
type AddressPrefix string

const (
	// STXPrefix tags standard account identities.
	STXPrefix AddressPrefix = "stx"
)

// AddressLength is the fixed payload size of an account identity.
const AddressLength = 20

// Address represents a 20-byte account identity with a human-readable prefix.
// It carries no key material; identities are supplied by the host environment.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

func NewAddress(prefix AddressPrefix, b []byte) Address {
	if len(b) != AddressLength {
		panic("address must be 20 bytes long")
	}
	return Address{prefix: prefix, bytes: b}
}

func (a Address) String() string {
	return fmt.Sprintf("%s1%s", a.prefix, hex.EncodeToString(a.bytes))
}

func (a Address) Bytes() []byte {
	return a.bytes
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

// Equal reports whether two addresses share the same prefix and payload.
func (a Address) Equal(other Address) bool {
	return a.prefix == other.prefix && bytes.Equal(a.bytes, other.bytes)
}

// IsZero reports whether the address carries no payload.
func (a Address) IsZero() bool {
	return len(a.bytes) == 0
}

// DecodeAddress parses the textual form produced by String.
func DecodeAddress(addrStr string) (Address, error) {
	idx := strings.Index(addrStr, "1")
	if idx <= 0 || idx == len(addrStr)-1 {
		return Address{}, fmt.Errorf("invalid address %q: missing separator", addrStr)
	}
	raw, err := hex.DecodeString(addrStr[idx+1:])
	if err != nil {
		return Address{}, fmt.Errorf("invalid address payload: %w", err)
	}
	if len(raw) != AddressLength {
		return Address{}, fmt.Errorf("invalid address payload: got %d bytes, want %d", len(raw), AddressLength)
	}
	return NewAddress(AddressPrefix(addrStr[:idx]), raw), nil
}
