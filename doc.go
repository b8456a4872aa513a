// Package dict implements a resizable chained hash table with incremental
// rehashing, intended as the primary indexing structure of an in-memory
// key/value store.
//
// The defining feature is that the table never performs a stop-the-world
// rehash: growing or shrinking sets up a second table and entries migrate a
// few buckets at a time, interleaved with normal operations. A dict holding
// millions of keys keeps serving lookups and writes while a resize is in
// flight.
//
// Core features:
//
//   - Dual-table storage with lazy, amortized bucket migration
//   - Arena-backed entries addressed by stable handles (no intrusive pointers)
//   - Tagged value slots: an object of type V, uint64, int64 or float64
//   - Safe and unsafe iterators; unsafe iterators detect illegal mutation
//     through a structural fingerprint
//   - A cursor-based full scan (reverse binary iteration) that stays correct
//     across concurrent resizes
//   - Random, fair-random and bulk sampling of entries without enumeration
//   - Pluggable type descriptor: hash, key/value duplication, comparison,
//     destructors and an allocation-gate predicate
//
// # Quick start
//
//	d := dict.New[string, string](dict.StringType[string](), nil)
//	defer d.Release()
//
//	if err := d.Add("name", "ada"); err != nil {
//	    panic(err)
//	}
//	if v, ok := d.FetchValue("name"); ok {
//	    fmt.Println(v)
//	}
//
// Iterate while deleting through a safe iterator:
//
//	it := d.SafeIterator()
//	for e := it.Next(); e != nil; e = it.Next() {
//	    if expired(e.Key()) {
//	        d.Delete(e.Key())
//	    }
//	}
//	it.Release()
//
// Enumerate every key incrementally with a scan cursor:
//
//	var cursor uint64
//	for {
//	    cursor = d.Scan(cursor, func(e *dict.Entry[string, string]) {
//	        visit(e.Key())
//	    }, nil)
//	    if cursor == 0 {
//	        break
//	    }
//	}
//
// # Concurrency model
//
// A Dict is single-writer: exactly one logical goroutine may mutate a given
// instance at a time, and the structure provides no internal locking. "Safe"
// iteration coordinates the interleaving of logical operations on that one
// goroutine (an open safe iterator pauses rehashing so entries are not
// migrated under the caller's feet); it is not cross-goroutine exclusion.
package dict
