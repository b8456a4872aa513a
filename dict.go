package dict

import (
	"math/bits"
	"unsafe"
)

const (
	// InitialSize is the size of the first allocated table. Tables are
	// created lazily on the first write.
	InitialSize = 4

	// ForceResizeRatio is the used/size ratio beyond which growth happens
	// even when automatic resizing is disabled. Past this point chain
	// walks dominate every operation and growing is the lesser evil.
	ForceResizeRatio = 5

	// clearCallbackInterval is the bucket stride between progress
	// callbacks while emptying a dict.
	clearCallbackInterval = 65536
)

// table is one of the two bucket arrays of a Dict. size is always zero or a
// power of two; mask is only meaningful when size > 0.
type table struct {
	buckets []int32 // chain head handles, noEntry when empty
	size    uint64
	mask    uint64
	used    uint64
}

func (t *table) reset() {
	t.buckets = nil
	t.size = 0
	t.mask = 0
	t.used = 0
}

// Dict is a chained hash table with incremental rehashing. The zero value is
// not usable; create instances with New.
//
// A Dict is single-writer: it provides no internal locking and exactly one
// logical goroutine may operate on an instance at a time.
type Dict[K comparable, V any] struct {
	typ      *Type[K, V]
	privData any

	// ht[0] is the live table; ht[1] is the rehash target, empty unless a
	// rehash is in progress.
	ht    [2]table
	arena arena[K, V]

	// rehashIdx is the next ht[0] bucket to migrate, or -1 when no rehash
	// is in progress.
	rehashIdx int64

	// pauseRehash counts nested pause scopes; rehashing and resizing are
	// forbidden while it is positive.
	pauseRehash int

	// unlinked counts entries detached by Unlink and not yet freed. The
	// arena backing them cannot be dropped while any are outstanding.
	unlinked int

	resizeEnabled bool

	hasher  func(K) uint64
	compare func(a, b K) bool

	logger  *Logger
	metrics MetricsCollector
}

// New creates a Dict parameterized by the given type descriptor. typ may be
// nil, selecting default hashing and comparison for K. privData is handed
// opaquely to every descriptor hook. The descriptor and privData are
// borrowed: the caller keeps them alive for the Dict's lifetime.
//
// Both tables start unallocated; the first write allocates table 0, so a
// Dict that stays empty costs almost nothing.
func New[K comparable, V any](typ *Type[K, V], privData any, optFns ...Option) *Dict[K, V] {
	if typ == nil {
		typ = &Type[K, V]{}
	}
	opts := applyOptions(optFns)

	d := &Dict[K, V]{
		typ:           typ,
		privData:      privData,
		arena:         newArena[K, V](),
		rehashIdx:     -1,
		resizeEnabled: !opts.resizeDisabled,
		logger:        opts.logger,
		metrics:       opts.metricsCollector,
	}

	d.hasher = typ.Hash
	if d.hasher == nil {
		d.hasher = defaultHasher[K]()
	}
	if typ.KeyCompare != nil {
		d.compare = func(a, b K) bool { return typ.KeyCompare(privData, a, b) }
	} else {
		d.compare = func(a, b K) bool { return a == b }
	}

	if opts.initialSize > 0 {
		_ = d.expand(opts.initialSize, false)
	}
	return d
}

// Len returns the number of entries currently stored, across both tables.
func (d *Dict[K, V]) Len() uint64 {
	return d.ht[0].used + d.ht[1].used
}

// Slots returns the total bucket count of both tables.
func (d *Dict[K, V]) Slots() uint64 {
	return d.ht[0].size + d.ht[1].size
}

// IsRehashing reports whether an incremental rehash is in progress.
func (d *Dict[K, V]) IsRehashing() bool {
	return d.rehashIdx != -1
}

// GetHash returns the hash of key under this dict's hash function. Callers
// use it to precompute hashes for repeated probes.
func (d *Dict[K, V]) GetHash(key K) uint64 {
	return d.hasher(key)
}

// EnableResize re-enables automatic growth on insert.
func (d *Dict[K, V]) EnableResize() { d.resizeEnabled = true }

// DisableResize suppresses automatic growth on insert, except when the load
// ratio exceeds ForceResizeRatio. Used while the owning store writes a
// point-in-time snapshot, to keep copy-on-write pages cheap.
func (d *Dict[K, V]) DisableResize() { d.resizeEnabled = false }

// PauseRehashing opens a pause scope: no rehash step or resize runs until
// the matching ResumeRehashing. Pause scopes nest. Callers bracket read-only
// sequences that hold raw entry references, so migration cannot rewire
// chains mid-use.
func (d *Dict[K, V]) PauseRehashing() {
	d.pauseRehash++
}

// ResumeRehashing closes a pause scope opened by PauseRehashing.
func (d *Dict[K, V]) ResumeRehashing() {
	d.pauseRehash--
	if d.pauseRehash < 0 {
		panic("dict: ResumeRehashing without matching PauseRehashing")
	}
}

// Find returns the entry for key, or nil if absent.
func (d *Dict[K, V]) Find(key K) *Entry[K, V] {
	if d.Len() == 0 {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStep()
	}
	h := d.hasher(key)
	for t := 0; t < 2; t++ {
		ht := &d.ht[t]
		if ht.size == 0 {
			if !d.IsRehashing() {
				break
			}
			continue
		}
		idx := h & ht.mask
		for cur := ht.buckets[idx]; cur != noEntry; {
			e := d.arena.at(cur)
			if key == e.key || d.compare(key, e.key) {
				return e
			}
			cur = e.next
		}
		if !d.IsRehashing() {
			break
		}
	}
	return nil
}

// FetchValue returns the object value stored for key.
func (d *Dict[K, V]) FetchValue(key K) (V, bool) {
	if e := d.Find(key); e != nil {
		return e.Value(), true
	}
	var zero V
	return zero, false
}

// AddRaw inserts key with no value set and returns the new entry. If the key
// is already present, the existing entry is returned with ok == false; this
// is how callers distinguish "inserted" from "already existed". The caller
// sets the value afterwards, through SetVal or the entry's numeric setters.
func (d *Dict[K, V]) AddRaw(key K) (entry *Entry[K, V], ok bool) {
	if d.IsRehashing() {
		d.rehashStep()
	}

	idx, existing := d.keyIndex(key, d.hasher(key))
	if existing != nil {
		return existing, false
	}

	// Insert into the rehash target if migration is running, so the new
	// entry is never migrated twice.
	ht := &d.ht[0]
	if d.IsRehashing() {
		ht = &d.ht[1]
	}

	h := d.arena.alloc()
	e := d.arena.at(h)
	e.next = ht.buckets[idx]
	ht.buckets[idx] = h
	ht.used++

	if d.typ.KeyDup != nil {
		e.key = d.typ.KeyDup(d.privData, key)
	} else {
		e.key = key
	}
	return e, true
}

// Add inserts key with the given object value. Returns ErrKeyExists if the
// key is already present.
func (d *Dict[K, V]) Add(key K, val V) error {
	e, ok := d.AddRaw(key)
	if !ok {
		return ErrKeyExists
	}
	d.SetVal(e, val)
	return nil
}

// AddOrFind returns the entry for key, inserting one with no value set when
// the key is absent.
func (d *Dict[K, V]) AddOrFind(key K) *Entry[K, V] {
	e, _ := d.AddRaw(key)
	return e
}

// Replace sets the object value for key, inserting the entry if absent. It
// returns true when a new entry was created, false when an existing value
// was replaced.
//
// The new value is duplicated before the old one is destroyed, so replacing
// a value with itself (or something reachable from it) is sound.
func (d *Dict[K, V]) Replace(key K, val V) bool {
	e, ok := d.AddRaw(key)
	if ok {
		d.SetVal(e, val)
		return true
	}
	oldKind := e.kind
	oldVal := e.val
	d.SetVal(e, val)
	if oldKind == valObject && d.typ.ValDestructor != nil {
		d.typ.ValDestructor(d.privData, oldVal)
	}
	return false
}

// SetVal stores an object value into an entry, applying the descriptor's
// ValDup when present. The object variant becomes the live one.
func (d *Dict[K, V]) SetVal(e *Entry[K, V], val V) {
	if d.typ.ValDup != nil {
		val = d.typ.ValDup(d.privData, val)
	}
	e.val = val
	e.num = 0
	e.kind = valObject
}

// Delete removes key, destroying its key and value. It reports whether the
// key was present.
func (d *Dict[K, V]) Delete(key K) bool {
	return d.genericDelete(key, false) != nil
}

// Unlink detaches the entry for key from the dict without destroying it and
// returns it, or nil if absent. The caller may keep using the entry and must
// eventually pass it to FreeUnlinkedEntry. This is how a caller deletes an
// entry mid-iteration while still acting on its value.
func (d *Dict[K, V]) Unlink(key K) *Entry[K, V] {
	return d.genericDelete(key, true)
}

// FreeUnlinkedEntry destroys an entry previously detached with Unlink.
// Calling it with nil is a no-op.
func (d *Dict[K, V]) FreeUnlinkedEntry(e *Entry[K, V]) {
	if e == nil {
		return
	}
	d.freeEntry(e)
	d.unlinked--
}

// genericDelete is the common walk behind Delete and Unlink: find the owning
// bucket keeping a trailing link, unhook the entry, and either destroy it or
// hand it back intact.
func (d *Dict[K, V]) genericDelete(key K, nofree bool) *Entry[K, V] {
	if d.Len() == 0 {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStep()
	}
	h := d.hasher(key)
	for t := 0; t < 2; t++ {
		ht := &d.ht[t]
		if ht.size == 0 {
			if !d.IsRehashing() {
				break
			}
			continue
		}
		idx := h & ht.mask
		prev := noEntry
		for cur := ht.buckets[idx]; cur != noEntry; {
			e := d.arena.at(cur)
			if key == e.key || d.compare(key, e.key) {
				if prev != noEntry {
					d.arena.at(prev).next = e.next
				} else {
					ht.buckets[idx] = e.next
				}
				ht.used--
				if nofree {
					e.next = noEntry
					d.unlinked++
				} else {
					d.freeEntry(e)
				}
				return e
			}
			prev = cur
			cur = e.next
		}
		if !d.IsRehashing() {
			break
		}
	}
	return nil
}

// freeEntry runs the destructors and recycles the arena slot.
func (d *Dict[K, V]) freeEntry(e *Entry[K, V]) {
	if d.typ.KeyDestructor != nil {
		d.typ.KeyDestructor(d.privData, e.key)
	}
	if e.kind == valObject && d.typ.ValDestructor != nil {
		d.typ.ValDestructor(d.privData, e.val)
	}
	d.arena.release(e.self)
}

// keyIndex returns the bucket index key hashes to in the insertion target
// table, growing the table first when the load factor demands it. If the key
// already exists in either table, the existing entry is returned instead.
func (d *Dict[K, V]) keyIndex(key K, h uint64) (uint64, *Entry[K, V]) {
	d.expandIfNeeded()

	var idx uint64
	for t := 0; t < 2; t++ {
		ht := &d.ht[t]
		idx = h & ht.mask
		for cur := ht.buckets[idx]; cur != noEntry; {
			e := d.arena.at(cur)
			if key == e.key || d.compare(key, e.key) {
				return 0, e
			}
			cur = e.next
		}
		if !d.IsRehashing() {
			break
		}
	}
	return idx, nil
}

// Expand installs a rehash target sized to the next power of two >= size
// (minimum InitialSize) and starts incremental migration. On an unallocated
// dict it simply allocates table 0, with no migration.
//
// It fails with ErrRehashInProgress if a rehash is already running,
// ErrRehashPaused inside a pause scope, and ErrExpandDenied when the
// descriptor's allocation gate refuses the memory.
func (d *Dict[K, V]) Expand(size uint64) error {
	return d.expand(size, false)
}

// TryExpand is Expand, but additionally refuses with ErrInvalidSize any
// target too small to encode the entries currently stored.
func (d *Dict[K, V]) TryExpand(size uint64) error {
	return d.expand(size, true)
}

// Shrink resizes table 0 down to the minimal power of two that contains the
// current entries. Callers invoke it after large-scale deletion.
func (d *Dict[K, V]) Shrink() error {
	if !d.resizeEnabled {
		return ErrExpandDenied
	}
	minimal := d.ht[0].used
	if minimal < InitialSize {
		minimal = InitialSize
	}
	return d.expand(minimal, false)
}

func (d *Dict[K, V]) expand(size uint64, strict bool) error {
	if d.IsRehashing() {
		return ErrRehashInProgress
	}
	realSize := nextPower(size)
	if strict && realSize < d.ht[0].used {
		return ErrInvalidSize
	}
	if realSize == d.ht[0].size {
		return nil
	}

	firstAlloc := d.ht[0].size == 0
	if !firstAlloc && d.pauseRehash > 0 {
		return ErrRehashPaused
	}

	// The gate refuses growth under memory pressure; the minimal first
	// table is always granted so inserts cannot strand a nil table.
	if d.typ.ExpandAllowed != nil && realSize > InitialSize {
		moreMem := realSize * uint64(unsafe.Sizeof(int32(0)))
		var ratio float64
		if d.ht[0].size > 0 {
			ratio = float64(d.ht[0].used) / float64(d.ht[0].size)
		}
		if !d.typ.ExpandAllowed(moreMem, ratio) {
			d.logger.LogExpandDenied(realSize, ErrExpandDenied)
			return ErrExpandDenied
		}
	}

	buckets := make([]int32, realSize)
	for i := range buckets {
		buckets[i] = noEntry
	}
	n := table{
		buckets: buckets,
		size:    realSize,
		mask:    realSize - 1,
	}

	// First allocation is not a rehash: install the table directly.
	if firstAlloc {
		d.ht[0] = n
		return nil
	}

	d.logger.LogResize(d.ht[0].size, realSize, d.ht[0].used)
	if realSize < d.ht[0].size {
		d.metrics.RecordShrink(realSize)
	} else {
		d.metrics.RecordExpand(realSize)
	}
	d.ht[1] = n
	d.rehashIdx = 0
	return nil
}

// expandIfNeeded grows table 0 when it reaches its load threshold. The grow
// is silent: a refused gate or pause scope simply defers it to a later
// insert.
func (d *Dict[K, V]) expandIfNeeded() {
	if d.IsRehashing() {
		return
	}
	if d.ht[0].size == 0 {
		_ = d.expand(InitialSize, false)
		return
	}
	if d.ht[0].used >= d.ht[0].size &&
		(d.resizeEnabled || d.ht[0].used/d.ht[0].size > ForceResizeRatio) {
		_ = d.expand(d.ht[0].used+1, false)
	}
}

// Empty removes every entry from the dict, invoking the descriptor's
// destructors, and returns both tables to the unallocated state. Entries
// detached with Unlink are unaffected: they stay valid and must still be
// passed to FreeUnlinkedEntry. callback, when non-nil, is invoked every
// 65536 buckets so a huge dict can be emptied without starving the caller's
// event loop.
func (d *Dict[K, V]) Empty(callback func()) {
	released := d.Len()
	d.clearTable(0, callback)
	d.clearTable(1, callback)
	d.dropArena()
	d.rehashIdx = -1
	d.pauseRehash = 0
	d.logger.LogEmpty(released)
}

// Release destroys the dict's entries and tables. The Dict must not be used
// afterwards, except to free entries previously detached with Unlink.
func (d *Dict[K, V]) Release() {
	d.clearTable(0, nil)
	d.clearTable(1, nil)
	d.dropArena()
	d.rehashIdx = -1
	d.pauseRehash = 0
}

// dropArena releases the entry storage in one shot, unless detached entries
// are still alive inside it; those were recycled slot by slot in clearTable,
// so keeping the blocks leaks nothing.
func (d *Dict[K, V]) dropArena() {
	if d.unlinked == 0 {
		d.arena.reset()
	}
}

func (d *Dict[K, V]) clearTable(t int, callback func()) {
	ht := &d.ht[t]
	for i := uint64(0); i < ht.size && ht.used > 0; i++ {
		if callback != nil && i&(clearCallbackInterval-1) == 0 {
			callback()
		}
		for cur := ht.buckets[i]; cur != noEntry; {
			e := d.arena.at(cur)
			next := e.next
			if d.typ.KeyDestructor != nil {
				d.typ.KeyDestructor(d.privData, e.key)
			}
			if e.kind == valObject && d.typ.ValDestructor != nil {
				d.typ.ValDestructor(d.privData, e.val)
			}
			d.arena.release(cur)
			ht.used--
			cur = next
		}
	}
	ht.reset()
}

// nextPower returns the smallest power of two >= size, at least InitialSize.
func nextPower(size uint64) uint64 {
	if size <= InitialSize {
		return InitialSize
	}
	if size >= 1<<62 {
		return 1 << 62
	}
	return 1 << bits.Len64(size-1)
}
