package dict

import "strings"

// Type is the descriptor that parameterizes a Dict. All hooks are optional:
// a nil Hash falls back to a per-process seeded hash for the key type, a nil
// KeyCompare falls back to ==, nil duplicators assign raw values, nil
// destructors do nothing and a nil ExpandAllowed permits every resize.
//
// Hooks receive the opaque private data supplied to New, so one descriptor
// can serve many dicts that carry per-instance context.
type Type[K comparable, V any] struct {
	// Hash maps a key to a 64-bit value. It must be stable for the
	// lifetime of any Dict using this descriptor and should distribute
	// well across the low bits; cryptographic strength is not required.
	Hash func(key K) uint64

	// KeyDup, when set, is applied to keys before they are stored, giving
	// the dict its own copy.
	KeyDup func(privData any, key K) K

	// ValDup, when set, is applied to object values before they are
	// stored. It is never invoked for the numeric value variants.
	ValDup func(privData any, val V) V

	// KeyCompare reports whether two keys are equal.
	KeyCompare func(privData any, a, b K) bool

	// KeyDestructor is invoked for a stored key when its entry is
	// destroyed.
	KeyDestructor func(privData any, key K)

	// ValDestructor is invoked for a stored object value when its entry
	// is destroyed or its value is replaced. It is never invoked for the
	// numeric value variants.
	ValDestructor func(privData any, val V)

	// ExpandAllowed gates table growth. moreMem is the additional bucket
	// memory the resize would allocate, usedRatio the current load
	// factor. Returning false refuses the resize, letting callers avoid
	// growth under memory pressure.
	ExpandAllowed func(moreMem uint64, usedRatio float64) bool
}

// StringType returns a descriptor for string keys that stores keys and
// values as given, without copying or destruction.
func StringType[V any]() *Type[string, V] {
	return &Type[string, V]{
		Hash: hashStringSeeded,
	}
}

// StringCopyKeyType returns a descriptor for string keys that detaches
// stored keys from their backing arrays via strings.Clone. Values are stored
// as given.
func StringCopyKeyType[V any]() *Type[string, V] {
	return &Type[string, V]{
		Hash: hashStringSeeded,
		KeyDup: func(_ any, key string) string {
			return strings.Clone(key)
		},
	}
}

// StringCopyType returns a descriptor for string keys and string values that
// detaches both from their backing arrays via strings.Clone.
func StringCopyType() *Type[string, string] {
	return &Type[string, string]{
		Hash: hashStringSeeded,
		KeyDup: func(_ any, key string) string {
			return strings.Clone(key)
		},
		ValDup: func(_ any, val string) string {
			return strings.Clone(val)
		},
	}
}
