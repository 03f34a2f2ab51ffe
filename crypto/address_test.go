package crypto

import "testing"

func TestAddressRoundTrip(t *testing.T) {
	raw := make([]byte, AddressLength)
	raw[0] = 0x11
	raw[len(raw)-1] = 0xfe
	addr := NewAddress(STXPrefix, raw)

	decoded, err := DecodeAddress(addr.String())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(addr) {
		t.Fatalf("round trip mismatch: %s != %s", decoded, addr)
	}
	if decoded.Prefix() != STXPrefix {
		t.Fatalf("unexpected prefix: %s", decoded.Prefix())
	}
}

func TestDecodeAddressRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "stx1", "1deadbeef", "stx1zz", "stx1abcd"} {
		if _, err := DecodeAddress(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestAddressEqual(t *testing.T) {
	a := NewAddress(STXPrefix, make([]byte, AddressLength))
	b := NewAddress(STXPrefix, make([]byte, AddressLength))
	if !a.Equal(b) {
		t.Fatalf("expected equal addresses")
	}
	other := make([]byte, AddressLength)
	other[0] = 1
	if a.Equal(NewAddress(STXPrefix, other)) {
		t.Fatalf("expected unequal addresses")
	}
}
