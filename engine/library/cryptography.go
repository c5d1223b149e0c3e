package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func Sha256Sum(data interface{}) Sha256 {
	var b []byte
	switch d := data.(type) {
	case string:
		b = []byte(d)
	case []byte:
		b = d
	default:
		LogCLI("attempted to hash non-string or non-[]byte", 0)
	}
	h := sha256.New()
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// DecodeAccount parses a hex account into its 32 raw bytes.
func DecodeAccount(account Account) (key [32]byte, err error) {
	b, err := hex.DecodeString(account)
	if err != nil {
		return key, fmt.Errorf("account %q is not hex: %w", account, err)
	}
	if len(b) != 32 {
		return key, fmt.Errorf("account %q has %d bytes, want 32", account, len(b))
	}
	copy(key[:], b)
	return key, nil
}

func EncodeAccount(key [32]byte) Account {
	return hex.EncodeToString(key[:])
}
