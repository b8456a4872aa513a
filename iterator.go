package dict

import "unsafe"

// Iterator is a cursor over every entry of a Dict, covering both tables when
// a rehash is in progress.
//
// A safe iterator pauses rehashing for its lifetime, which makes it legal to
// call Find, Add and Delete on the same dict while iterating; deleting the
// entry the iterator just yielded is explicitly supported, because the
// successor is pre-fetched before an entry is exposed.
//
// An unsafe iterator tolerates no mutation at all: a structural fingerprint
// is captured at creation and re-verified at Release, and a mismatch panics,
// since it is a programming defect rather than a runtime condition.
type Iterator[K comparable, V any] struct {
	d     *Dict[K, V]
	table int
	index int64
	safe  bool

	entry     *Entry[K, V]
	nextEntry *Entry[K, V]

	fingerprint uint64
}

// Iterator returns an unsafe, read-only iterator. The caller must not mutate
// the dict until Release.
func (d *Dict[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		d:     d,
		index: -1,
	}
}

// SafeIterator returns an iterator that permits mutating the dict while it
// is open. It holds a rehash pause scope until Release.
func (d *Dict[K, V]) SafeIterator() *Iterator[K, V] {
	it := d.Iterator()
	it.safe = true
	return it
}

// Next returns the next entry, or nil when the iteration is done.
func (it *Iterator[K, V]) Next() *Entry[K, V] {
	for {
		if it.entry == nil {
			if it.index == -1 && it.table == 0 {
				// First advance: pin the dict's shape one way
				// or the other.
				if it.safe {
					it.d.PauseRehashing()
				} else {
					it.fingerprint = it.d.fingerprint()
				}
			}
			it.index++
			ht := &it.d.ht[it.table]
			if uint64(it.index) >= ht.size {
				if it.d.IsRehashing() && it.table == 0 {
					it.table = 1
					it.index = 0
					ht = &it.d.ht[1]
				} else {
					return nil
				}
			}
			it.entry = it.d.arena.at(ht.buckets[it.index])
		} else {
			it.entry = it.nextEntry
		}
		if it.entry != nil {
			// Pre-fetch the successor: the caller may delete the
			// entry we are about to hand out.
			it.nextEntry = it.d.arena.at(it.entry.next)
			return it.entry
		}
	}
}

// Release ends the iteration. For a safe iterator it closes the rehash pause
// scope; for an unsafe one it re-verifies the fingerprint and panics if the
// dict was mutated while the iterator was open.
func (it *Iterator[K, V]) Release() {
	if it.index == -1 && it.table == 0 {
		return // never advanced
	}
	if it.safe {
		it.d.ResumeRehashing()
		return
	}
	if it.fingerprint != it.d.fingerprint() {
		panic("dict: dict was mutated during unsafe iteration")
	}
}

// fingerprint condenses the dict's structural state (table base addresses,
// sizes and entry counts) into a single value. Any resize, rehash progress
// or entry-count change alters it.
func (d *Dict[K, V]) fingerprint() uint64 {
	integers := [6]uint64{
		uint64(uintptr(unsafe.Pointer(unsafe.SliceData(d.ht[0].buckets)))),
		d.ht[0].size,
		d.ht[0].used,
		uint64(uintptr(unsafe.Pointer(unsafe.SliceData(d.ht[1].buckets)))),
		d.ht[1].size,
		d.ht[1].used,
	}

	// Chained 64-bit integer mixing (Tomas Wang), so the order of the
	// inputs matters: hash(hash(hash(int1)+int2)+int3)...
	var hash uint64
	for _, n := range integers {
		hash += n
		hash = ^hash + hash<<21
		hash ^= hash >> 24
		hash = hash + hash<<3 + hash<<8
		hash ^= hash >> 14
		hash = hash + hash<<2 + hash<<4
		hash ^= hash >> 28
		hash += hash << 31
	}
	return hash
}
