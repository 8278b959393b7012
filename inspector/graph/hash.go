package graph

import (
	"fmt"

	"github.com/minio/highwayhash"
)

// hashKey must be 32 bytes long
var hashKey = []byte("jarhc-bytecode-hash-key-32bytes!")

// Hash returns the 64-bit HighwayHash of data; equal class files yield equal hashes
func Hash(data []byte) uint64 {
	return highwayhash.Sum64(data, hashKey)
}

// HashString formats a hash as fixed width hex
func HashString(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}
