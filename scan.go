package dict

import "math/bits"

// ScanFunc is invoked for every entry a Scan call visits.
type ScanFunc[K comparable, V any] func(e *Entry[K, V])

// ScanBucketFunc is invoked once per visited bucket, before its entries,
// with the chain head (nil for an empty bucket). It observes the scan at
// bucket granularity, e.g. to account for chain shapes or empty-bucket
// runs; the head is read-only and grants no license to modify the chain.
type ScanBucketFunc[K comparable, V any] func(head *Entry[K, V])

// Scan incrementally enumerates the dict. cursor starts at 0; each call
// visits the buckets the cursor selects, invokes fn for every entry found
// (and bucketFn, when non-nil, once per bucket) and returns the next cursor.
// The scan is finished when the returned cursor is 0 again.
//
// The cursor is a reversed binary counter over the table mask. Incrementing
// the reversed representation means that when the table grows or shrinks
// between calls, buckets already visited expand or fold onto cursor values
// the scan has already passed: entries present for the whole scan are
// visited at least once, though some may be visited more than once after a
// resize. During an in-progress rehash both tables are read, so migrated
// and not-yet-migrated entries are both covered.
//
// Between calls the caller holds nothing but the cursor, so the dict is free
// to mutate; only entries alive for the entire scan get the completeness
// guarantee.
func (d *Dict[K, V]) Scan(cursor uint64, fn ScanFunc[K, V], bucketFn ScanBucketFunc[K, V]) uint64 {
	if d.Len() == 0 {
		return 0
	}

	// Migration would rewire chains between the two table reads below.
	d.PauseRehashing()
	defer d.ResumeRehashing()

	if !d.IsRehashing() {
		t0 := &d.ht[0]
		m0 := t0.mask

		d.scanBucket(t0, cursor&m0, fn, bucketFn)

		cursor |= ^m0
		cursor = bits.Reverse64(cursor)
		cursor++
		cursor = bits.Reverse64(cursor)
		return cursor
	}

	// Keep t0 the smaller table so every t0 bucket maps onto a run of
	// t1 buckets sharing the same low bits.
	t0, t1 := &d.ht[0], &d.ht[1]
	if t0.size > t1.size {
		t0, t1 = t1, t0
	}
	m0, m1 := t0.mask, t1.mask

	d.scanBucket(t0, cursor&m0, fn, bucketFn)

	// Visit every larger-table bucket that folds onto the current
	// smaller-table bucket.
	for {
		d.scanBucket(t1, cursor&m1, fn, bucketFn)

		cursor |= ^m1
		cursor = bits.Reverse64(cursor)
		cursor++
		cursor = bits.Reverse64(cursor)

		if cursor&(m0^m1) == 0 {
			break
		}
	}
	return cursor
}

func (d *Dict[K, V]) scanBucket(t *table, idx uint64, fn ScanFunc[K, V], bucketFn ScanBucketFunc[K, V]) {
	head := t.buckets[idx]
	if bucketFn != nil {
		bucketFn(d.arena.at(head))
	}
	for cur := head; cur != noEntry; {
		e := d.arena.at(cur)
		next := e.next
		fn(e)
		cur = next
	}
}
