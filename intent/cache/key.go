package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const DefaultKeyPrefix = "intentgraph:label:"

// labelKey hashes the utterance so arbitrary text yields a bounded,
// delimiter-free key.
func labelKey(prefix, text string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	sum := sha256.Sum256([]byte(text))
	return prefix + hex.EncodeToString(sum[:])
}
