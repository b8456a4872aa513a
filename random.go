package dict

import "math/rand/v2"

// fairSamplePool is how many entries FairRandomEntry gathers before picking
// one uniformly. Larger pools flatten the distribution across uneven chain
// lengths at the cost of more work per call.
const fairSamplePool = 15

// RandomEntry returns a random entry, or nil if the dict is empty. It is
// suitable for randomized algorithms, but it is not perfectly uniform:
// entries sharing a bucket with long chains are undersampled relative to
// entries alone in theirs. Use FairRandomEntry when the distribution
// matters.
func (d *Dict[K, V]) RandomEntry() *Entry[K, V] {
	if d.Len() == 0 {
		return nil
	}
	if d.IsRehashing() {
		d.rehashStep()
	}

	var head int32
	if d.IsRehashing() {
		s0 := d.ht[0].size
		for {
			// Buckets below rehashIdx have already been drained
			// into the target table, so probe past them: the
			// remainder of table 0 plus all of table 1.
			h := uint64(d.rehashIdx) + rand.Uint64N(d.Slots()-uint64(d.rehashIdx))
			if h >= s0 {
				head = d.ht[1].buckets[h-s0]
			} else {
				head = d.ht[0].buckets[h]
			}
			if head != noEntry {
				break
			}
		}
	} else {
		m := d.ht[0].mask
		for {
			head = d.ht[0].buckets[rand.Uint64()&m]
			if head != noEntry {
				break
			}
		}
	}

	// The chain length is unknown, so pick uniformly with a single
	// reservoir pass.
	var chosen *Entry[K, V]
	n := uint64(0)
	for cur := head; cur != noEntry; {
		e := d.arena.at(cur)
		n++
		if rand.Uint64N(n) == 0 {
			chosen = e
		}
		cur = e.next
	}
	return chosen
}

// FairRandomEntry returns a random entry with a selection distribution much
// closer to uniform than RandomEntry. It gathers a bounded pool of entries
// from consecutive buckets and picks uniformly within the pool, trading a
// little extra work for flatness across chain-length variance.
func (d *Dict[K, V]) FairRandomEntry() *Entry[K, V] {
	entries := make([]*Entry[K, V], fairSamplePool)
	count := d.SomeEntries(entries)

	// The pool can come back empty on a sparse table; fall back to the
	// plain sampler rather than returning nothing.
	if count == 0 {
		return d.RandomEntry()
	}
	return entries[rand.IntN(count)]
}

// SomeEntries fills des with up to len(des) distinct entries and returns how
// many were stored. It walks consecutive buckets from a random start rather
// than sampling uniformly, which is cheap and good enough for approximate
// tasks like eviction candidate selection; do not rely on uniformity. Fewer
// than len(des) entries may be returned even when the dict holds more.
func (d *Dict[K, V]) SomeEntries(des []*Entry[K, V]) int {
	count := uint64(len(des))
	if d.Len() < count {
		count = d.Len()
	}
	if count == 0 {
		return 0
	}

	// Run a few migration steps first so the tables settle a little
	// before we read them.
	for j := uint64(0); j < count; j++ {
		if !d.IsRehashing() {
			break
		}
		d.rehashStep()
	}

	tables := 1
	if d.IsRehashing() {
		tables = 2
	}
	maxMask := d.ht[0].mask
	if tables > 1 && d.ht[1].mask > maxMask {
		maxMask = d.ht[1].mask
	}

	// Bound total work: a sparse table must not turn this into a full
	// table walk.
	maxSteps := count * 10
	stored := uint64(0)
	emptyRun := uint64(0)
	i := rand.Uint64() & maxMask

	for stored < count && maxSteps > 0 {
		maxSteps--
		for j := 0; j < tables; j++ {
			// During rehash there are no entries in table 0
			// below rehashIdx; skip the dead zone.
			if tables == 2 && j == 0 && i < uint64(d.rehashIdx) {
				if i >= d.ht[1].size {
					i = uint64(d.rehashIdx)
				} else {
					continue
				}
			}
			if i >= d.ht[j].size {
				continue
			}
			cur := d.ht[j].buckets[i]
			if cur == noEntry {
				// Jump elsewhere after a run of empty
				// buckets; contiguous empty runs are common
				// and not worth walking through.
				emptyRun++
				if emptyRun >= 5 && emptyRun > count {
					i = rand.Uint64() & maxMask
					emptyRun = 0
				}
				continue
			}
			emptyRun = 0
			for cur != noEntry {
				e := d.arena.at(cur)
				des[stored] = e
				stored++
				if stored == count {
					return int(stored)
				}
				cur = e.next
			}
		}
		i = (i + 1) & maxMask
	}
	return int(stored)
}
