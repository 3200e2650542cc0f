package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainQuery separates query fingerprints from any other hash computed
// over the same bytes. The version suffix allows a future algorithm change.
const DomainQuery = "tsq/query/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for q.
// Queries with the same canonical JSON share a fingerprint, whatever the
// key order or formatting of the interchange text they came from.
func Fingerprint(q Query) (string, error) {
	canonical, err := q.Canonical()
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}
