package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFunctionSeed(t *testing.T) {
	old := GetHashFunctionSeed()
	defer SetHashFunctionSeed(old)

	SetHashFunctionSeed(0xdeadbeef)
	assert.Equal(t, uint64(0xdeadbeef), GetHashFunctionSeed())

	data := []byte("the quick brown fox")
	h1 := GenHashFunction(data)
	assert.Equal(t, h1, GenHashFunction(data))

	SetHashFunctionSeed(0xcafe)
	assert.NotEqual(t, h1, GenHashFunction(data))
}

func TestGenCaseHashFunction(t *testing.T) {
	old := GetHashFunctionSeed()
	defer SetHashFunctionSeed(old)
	SetHashFunctionSeed(42)

	assert.Equal(t,
		GenCaseHashFunction([]byte("Hello, World!")),
		GenCaseHashFunction([]byte("hello, world!")))
	assert.Equal(t,
		GenCaseHashFunction([]byte("HELLO, WORLD!")),
		GenCaseHashFunction([]byte("hello, world!")))
	assert.NotEqual(t,
		GenHashFunction([]byte("Hello")),
		GenHashFunction([]byte("hello")))

	// Inputs longer than the internal fold buffer.
	long := make([]byte, 1000)
	lower := make([]byte, 1000)
	for i := range long {
		long[i] = byte('A' + i%26)
		lower[i] = byte('a' + i%26)
	}
	assert.Equal(t, GenCaseHashFunction(long), GenCaseHashFunction(lower))
}

func TestHashStringSeeded(t *testing.T) {
	assert.Equal(t, hashStringSeeded("key"), GenHashFunction([]byte("key")))
}

func TestUint64Bytes(t *testing.T) {
	// Building block for integer keys going through the byte hashers.
	assert.Len(t, uint64Bytes(42), 8)
	assert.Equal(t,
		GenHashFunction(uint64Bytes(42)),
		GenHashFunction(uint64Bytes(42)))
	assert.NotEqual(t,
		GenHashFunction(uint64Bytes(1)),
		GenHashFunction(uint64Bytes(2)))
}

func TestDefaultHasher(t *testing.T) {
	h := defaultHasher[int]()
	assert.Equal(t, h(7), h(7))
	assert.NotEqual(t, h(1), h(2))

	type pair struct{ a, b string }
	hp := defaultHasher[pair]()
	assert.Equal(t, hp(pair{"x", "y"}), hp(pair{"x", "y"}))
}

func TestGetHash(t *testing.T) {
	d := New[string, int](StringType[int](), nil)
	assert.Equal(t, hashStringSeeded("k"), d.GetHash("k"))
}
