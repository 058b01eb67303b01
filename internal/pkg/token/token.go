package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewCorrelationToken generates the opaque state value that binds an OAuth
// redirect back to the requester who initiated it. 32 bytes from a CSPRNG
// gives 256 bits of entropy; base64url keeps it safe inside a query string.
func NewCorrelationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate correlation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
