package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Prefixes used for public identifiers.
const (
	PrefixConversation = "conv"
	PrefixMessage      = "msg"
)

// DefaultLength is the number of random characters after the prefix.
const DefaultLength = 16

// GenerateSecureID returns prefix + "_" + length random base36 characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid id length: %d", length)
	}
	base := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(len(prefix) + 1 + length)
	b.WriteString(prefix)
	b.WriteByte('_')
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate random id: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// ValidateIDFormat reports whether id is expectedPrefix + "_" + lowercase base36.
func ValidateIDFormat(id, expectedPrefix string) bool {
	rest, ok := strings.CutPrefix(id, expectedPrefix+"_")
	if !ok || rest == "" {
		return false
	}
	for _, c := range rest {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
