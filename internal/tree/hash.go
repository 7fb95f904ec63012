package tree

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTree is the domain prefix for parse tree digests.
// The version suffix allows the canonical form to evolve.
const DomainTree = "mathdiff/tree/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the hex SHA-256 of v's canonical JSON.
// Callers normally digest canonicalized trees so equal trees share a digest.
func Digest(v Value) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainTree, data), nil
}

// ShortDigest is the first 12 hex characters of Digest, for display.
// Returns "" when v cannot be encoded.
func ShortDigest(v Value) string {
	d, err := Digest(v)
	if err != nil {
		return ""
	}
	return d[:12]
}
