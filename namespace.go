package w3ledger

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/w3ledger/w3ledger/schema"
)

// DeriveNamespace maps an address to the namespace its records are written under.
// The address body after an optional 0x prefix is decoded as standard base64, not hex,
// and the first 8 bytes are kept. Existing ledgers depend on this mapping.
func DeriveNamespace(address string) (schema.NamespaceId, error) {
	ns := schema.NamespaceId{}
	body := strings.TrimPrefix(address, "0x")
	by, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return ns, fmt.Errorf("%w: %v", schema.ErrInvalidAddressEncoding, err)
	}
	if len(by) < schema.NamespaceSize {
		return ns, fmt.Errorf("%w: decoded %d bytes, need %d", schema.ErrAddressTooShort, len(by), schema.NamespaceSize)
	}
	copy(ns[:], by[:schema.NamespaceSize])
	return ns, nil
}

// NormalizeAddress is the address form used for both index rows and namespaces.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
