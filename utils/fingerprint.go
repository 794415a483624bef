// Package utils holds small hashing helpers shared by the caches.
package utils

import "hash/fnv"

// FingerprintString returns the 64-bit FNV-1a hash of s.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
