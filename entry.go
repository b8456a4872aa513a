package dict

import "math"

// Entries live in a per-dict arena of fixed-size blocks and refer to each
// other through int32 handles instead of pointers. Bucket heads store a
// handle too. Chains are rewired freely during rehash without any entry
// moving in memory, so an *Entry handed to a caller stays valid until the
// entry is deleted.

const (
	blockBits = 8
	blockSize = 1 << blockBits // entries per arena block
	blockMask = blockSize - 1

	// noEntry marks an empty bucket, the end of a chain and the end of
	// the arena free list.
	noEntry = int32(-1)
)

type valueKind uint8

const (
	valNone valueKind = iota
	valObject
	valUint64
	valInt64
	valFloat64
)

// Entry is a key/value slot of a Dict. Exactly one value variant is live at
// a time: an object of type V, an unsigned integer, a signed integer or a
// float, selected by how the value was last set.
//
// An Entry is owned by its Dict; it remains valid until it is deleted,
// freed after Unlink, or the Dict is emptied or released.
type Entry[K comparable, V any] struct {
	key  K
	val  V
	num  uint64
	kind valueKind
	self int32 // own arena handle
	next int32 // chain successor, or free-list successor when released
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K {
	return e.key
}

// Value returns the object value, or the zero value of V when a numeric
// variant is live.
func (e *Entry[K, V]) Value() V {
	if e.kind != valObject {
		var zero V
		return zero
	}
	return e.val
}

// SetUint64 stores an unsigned integer value, making it the live variant.
func (e *Entry[K, V]) SetUint64(v uint64) {
	var zero V
	e.val = zero
	e.num = v
	e.kind = valUint64
}

// Uint64 returns the unsigned integer value; zero if that variant is not
// live.
func (e *Entry[K, V]) Uint64() uint64 {
	if e.kind != valUint64 {
		return 0
	}
	return e.num
}

// SetInt64 stores a signed integer value, making it the live variant.
func (e *Entry[K, V]) SetInt64(v int64) {
	var zero V
	e.val = zero
	e.num = uint64(v)
	e.kind = valInt64
}

// Int64 returns the signed integer value; zero if that variant is not live.
func (e *Entry[K, V]) Int64() int64 {
	if e.kind != valInt64 {
		return 0
	}
	return int64(e.num)
}

// SetFloat64 stores a float value, making it the live variant.
func (e *Entry[K, V]) SetFloat64(v float64) {
	var zero V
	e.val = zero
	e.num = math.Float64bits(v)
	e.kind = valFloat64
}

// Float64 returns the float value; zero if that variant is not live.
func (e *Entry[K, V]) Float64() float64 {
	if e.kind != valFloat64 {
		return 0
	}
	return math.Float64frombits(e.num)
}

// arena is a slab allocator for entries. Blocks are never reallocated, so
// entry addresses are stable; deleted slots are recycled through an
// intrusive free list threaded over next.
type arena[K comparable, V any] struct {
	blocks [][]Entry[K, V]
	free   int32 // head of free list, noEntry if empty
	top    int32 // next never-used slot
}

// newArena returns an empty arena. The zero value is not usable: an empty
// free list is encoded as noEntry, not zero.
func newArena[K comparable, V any]() arena[K, V] {
	return arena[K, V]{free: noEntry}
}

// at resolves a handle. Resolving noEntry yields nil.
func (a *arena[K, V]) at(h int32) *Entry[K, V] {
	if h == noEntry {
		return nil
	}
	return &a.blocks[h>>blockBits][h&blockMask]
}

// alloc returns a zeroed entry slot, growing the arena by one block when
// both the free list and the current block are exhausted.
func (a *arena[K, V]) alloc() int32 {
	if a.free != noEntry {
		h := a.free
		a.free = a.at(h).next
		e := a.at(h)
		e.self = h
		e.next = noEntry
		return h
	}
	if int(a.top)>>blockBits == len(a.blocks) {
		a.blocks = append(a.blocks, make([]Entry[K, V], blockSize))
	}
	h := a.top
	a.top++
	e := a.at(h)
	e.self = h
	e.next = noEntry
	return h
}

// release zeroes a slot (dropping key and value references for the garbage
// collector) and pushes it onto the free list.
func (a *arena[K, V]) release(h int32) {
	e := a.at(h)
	*e = Entry[K, V]{}
	e.next = a.free
	a.free = h
}

// reset drops every block at once.
func (a *arena[K, V]) reset() {
	a.blocks = nil
	a.free = noEntry
	a.top = 0
}
