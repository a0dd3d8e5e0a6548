// Layer checksums. SHA-256 over the layer's canonical JSON serialization;
// struct field order plus ticker-sorted aggregates make the byte stream
// deterministic, so export and verify always hash the same bytes.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Checksum computes the hex SHA-256 of v's JSON serialization.
func Checksum(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serializing for checksum: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
