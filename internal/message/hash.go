package message

import (
	"crypto/sha1"
	"encoding/hex"
)

// Hash returns the hex SHA-1 digest of a message body. It is used only for
// change detection, never for security: equal bodies hash equal, and any
// byte difference changes the digest.
func Hash(body string) string {
	sum := sha1.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}
