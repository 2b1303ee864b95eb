package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
)

// keyVersion is mixed into every derived key. Bump it when the encoding of
// cached graphs or artifacts changes so older entries are never decoded.
const keyVersion = 1

// hashKey derives "<stage>:<sha256>" from the msgpack encoding of parts,
// streamed straight into the hash. Parts are strings, bools and string
// slices, which always encode.
func hashKey(stage string, parts ...any) string {
	h := sha256.New()
	enc := msgpack.NewEncoder(h)
	_ = enc.EncodeInt(keyVersion)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return stage + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. The pipeline content-addresses
// encoded graphs with it and [FileCache] names entry files after it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
