package dict

import (
	"encoding/binary"
	"hash/maphash"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// hashSeed parameterizes the default string hash variants. It is process
// wide so that independent dicts hashing the same bytes agree, which the
// owning store relies on when it shards keys across tables.
var hashSeed atomic.Uint64

// SetHashFunctionSeed sets the seed consumed by GenHashFunction and
// GenCaseHashFunction. It should be called once at process startup, before
// any dict is populated: hashes produced under different seeds do not mix.
func SetHashFunctionSeed(seed uint64) {
	hashSeed.Store(seed)
}

// GetHashFunctionSeed returns the current seed used by the default string
// hash variants.
func GetHashFunctionSeed() uint64 {
	return hashSeed.Load()
}

// GenHashFunction hashes an arbitrary byte slice with the process-wide seed.
// It is exposed as a building block for descriptor Hash hooks over byte or
// string keys.
func GenHashFunction(data []byte) uint64 {
	d := xxhash.NewWithSeed(hashSeed.Load())
	_, _ = d.Write(data)
	return d.Sum64()
}

// GenCaseHashFunction hashes a byte slice case-insensitively (ASCII), so
// keys differing only in letter case collide on purpose.
func GenCaseHashFunction(data []byte) uint64 {
	d := xxhash.NewWithSeed(hashSeed.Load())
	var buf [128]byte
	for len(data) > 0 {
		n := copy(buf[:], data)
		for i := 0; i < n; i++ {
			if c := buf[i]; c >= 'A' && c <= 'Z' {
				buf[i] = c + ('a' - 'A')
			}
		}
		_, _ = d.Write(buf[:n])
		data = data[n:]
	}
	return d.Sum64()
}

// hashStringSeeded is the Hash hook installed by the string descriptor
// presets.
func hashStringSeeded(key string) uint64 {
	d := xxhash.NewWithSeed(hashSeed.Load())
	_, _ = d.WriteString(key)
	return d.Sum64()
}

// mapSeed feeds the fallback hasher for descriptors that supply no Hash
// hook. maphash seeds are per process, which matches the stability contract:
// a dict never outlives the process.
var mapSeed = maphash.MakeSeed()

// defaultHasher builds a hash function for an arbitrary comparable key type.
func defaultHasher[K comparable]() func(K) uint64 {
	return func(key K) uint64 {
		return maphash.Comparable(mapSeed, key)
	}
}

// uint64Bytes is a tiny helper for tests and descriptor hooks that hash
// integer keys through the byte-oriented building blocks.
func uint64Bytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
