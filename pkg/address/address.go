package address

import (
	"fmt"

	"github.com/cosmos/btcutil/bech32"
)

// maxBech32Length bounds decoding; standard account addresses are far below it.
const maxBech32Length = 1023

// ConvertPrefix re-encodes a bech32 address under a new human-readable
// prefix. The payload bytes are unchanged, so the operator and account
// addresses of the same key differ only in prefix. The conversion is
// deterministic: the same input always yields the same output.
func ConvertPrefix(prefix, addr string) (string, error) {
	_, data, err := bech32.Decode(addr, maxBech32Length)
	if err != nil {
		return "", fmt.Errorf("decode bech32 address %q: %w", addr, err)
	}
	converted, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", fmt.Errorf("encode bech32 address with prefix %q: %w", prefix, err)
	}
	return converted, nil
}

// Encode renders raw payload bytes as a bech32 address under the given prefix.
func Encode(prefix string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert address payload: %w", err)
	}
	encoded, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", fmt.Errorf("encode bech32 address with prefix %q: %w", prefix, err)
	}
	return encoded, nil
}
