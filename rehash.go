package dict

import "time"

// emptyVisitsPerStep bounds how many consecutive empty buckets one rehash
// step may skip for each requested bucket migration. Without the bound a
// single step over a sparse table could scan an arbitrarily long empty run.
const emptyVisitsPerStep = 10

// rehashBatchBuckets is the bucket batch between time checks in RehashFor.
const rehashBatchBuckets = 100

// Rehash performs up to n bucket migrations from table 0 to the rehash
// target, visiting at most n*emptyVisitsPerStep empty buckets, so each call
// does bounded work. It returns true while entries remain to migrate and
// false once the rehash has completed (or none is in progress).
//
// Rehashing never proceeds inside a pause scope.
func (d *Dict[K, V]) Rehash(n int) bool {
	if !d.IsRehashing() {
		return false
	}
	if d.pauseRehash > 0 {
		return true
	}

	start := time.Now()
	moved := 0
	emptyVisits := n * emptyVisitsPerStep

	for n > 0 && d.ht[0].used != 0 {
		n--

		// rehashIdx cannot run off the table while ht[0].used != 0.
		for d.ht[0].buckets[d.rehashIdx] == noEntry {
			d.rehashIdx++
			emptyVisits--
			if emptyVisits == 0 {
				d.noteRehashProgress(moved, start)
				return true
			}
		}

		// Move every entry of this chain to the target table,
		// relinking each at the head of its new bucket. The arena
		// slot transfers ownership; nothing is copied.
		cur := d.ht[0].buckets[d.rehashIdx]
		for cur != noEntry {
			e := d.arena.at(cur)
			next := e.next
			idx := d.hasher(e.key) & d.ht[1].mask
			e.next = d.ht[1].buckets[idx]
			d.ht[1].buckets[idx] = cur
			d.ht[0].used--
			d.ht[1].used++
			cur = next
		}
		d.ht[0].buckets[d.rehashIdx] = noEntry
		d.rehashIdx++
		moved++
	}

	d.noteRehashProgress(moved, start)

	if d.ht[0].used == 0 {
		d.ht[0] = d.ht[1]
		d.ht[1].reset()
		d.rehashIdx = -1
		d.metrics.RecordRehashDone()
		d.logger.LogRehashDone(d.ht[0].size, d.ht[0].used)
		return false
	}
	return true
}

func (d *Dict[K, V]) noteRehashProgress(moved int, start time.Time) {
	if moved > 0 {
		d.metrics.RecordRehashStep(moved, time.Since(start))
	}
}

// RehashFor migrates buckets in batches of 100 until the time budget is
// exhausted or the rehash completes. It returns the number of batched bucket
// migrations attempted. A periodic driver calls this to finish rehashes even
// when the table is otherwise idle.
func (d *Dict[K, V]) RehashFor(budget time.Duration) int {
	if d.pauseRehash > 0 {
		return 0
	}
	start := time.Now()
	steps := 0
	for d.Rehash(rehashBatchBuckets) {
		steps += rehashBatchBuckets
		if time.Since(start) >= budget {
			break
		}
	}
	return steps
}

// rehashStep advances migration by a single bucket on behalf of a regular
// operation, unless a pause scope is open. This is the lazy, amortized path:
// every Find/Add/Delete on a rehashing dict pays for one bucket.
func (d *Dict[K, V]) rehashStep() {
	if d.pauseRehash == 0 {
		d.Rehash(1)
	}
}
