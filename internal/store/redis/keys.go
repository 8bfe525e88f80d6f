package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefixSearch is the prefix for cached search responses
const KeyPrefixSearch = "tgvmax:search:"

// SearchKey returns the Redis key for a search URL. URLs carry station
// names with spaces and escapes, so the key uses their digest.
func SearchKey(searchURL string) string {
	sum := sha256.Sum256([]byte(searchURL))
	return KeyPrefixSearch + hex.EncodeToString(sum[:])
}
