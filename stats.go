package dict

import (
	"fmt"
	"strings"
)

// statsHistogramLen is the number of chain-length histogram slots; chains of
// length >= statsHistogramLen-1 share the last slot.
const statsHistogramLen = 50

// TableStats describes one bucket array for diagnostics.
type TableStats struct {
	// Size is the bucket count.
	Size uint64
	// Used is the number of live entries.
	Used uint64
	// NonEmpty is the number of buckets with at least one entry.
	NonEmpty uint64
	// MaxChainLen is the longest collision chain.
	MaxChainLen uint64
	// ChainLengths[n] counts buckets whose chain holds n entries; the
	// last slot aggregates everything longer.
	ChainLengths [statsHistogramLen]uint64
}

// AvgChainLen returns the mean chain length across non-empty buckets.
func (s *TableStats) AvgChainLen() float64 {
	if s.NonEmpty == 0 {
		return 0
	}
	return float64(s.Used) / float64(s.NonEmpty)
}

// Stats is a point-in-time diagnostic snapshot of a Dict.
type Stats struct {
	// Main describes table 0.
	Main TableStats
	// Rehash describes the rehash target; nil when no rehash is in
	// progress.
	Rehash *TableStats
}

// Stats collects per-table occupancy and chain-length histograms. It reads
// through both tables and costs a full table walk; intended for diagnostics,
// not hot paths.
func (d *Dict[K, V]) Stats() Stats {
	st := Stats{Main: d.tableStats(0)}
	if d.IsRehashing() {
		r := d.tableStats(1)
		st.Rehash = &r
	}
	return st
}

func (d *Dict[K, V]) tableStats(t int) TableStats {
	ht := &d.ht[t]
	st := TableStats{
		Size: ht.size,
		Used: ht.used,
	}
	for i := uint64(0); i < ht.size; i++ {
		chainLen := uint64(0)
		for cur := ht.buckets[i]; cur != noEntry; {
			chainLen++
			cur = d.arena.at(cur).next
		}
		if chainLen == 0 {
			st.ChainLengths[0]++
			continue
		}
		st.NonEmpty++
		if chainLen > st.MaxChainLen {
			st.MaxChainLen = chainLen
		}
		slot := chainLen
		if slot >= statsHistogramLen {
			slot = statsHistogramLen - 1
		}
		st.ChainLengths[slot]++
	}
	return st
}

// String renders the snapshot as a human-readable report. The format is for
// humans and diagnostics tooling; it is not a stable wire contract.
func (s Stats) String() string {
	var b strings.Builder
	writeTableStats(&b, 0, "main hash table", &s.Main)
	if s.Rehash != nil {
		writeTableStats(&b, 1, "rehashing target", s.Rehash)
	}
	return b.String()
}

func writeTableStats(b *strings.Builder, idx int, name string, st *TableStats) {
	fmt.Fprintf(b, "Hash table %d stats (%s):\n", idx, name)
	if st.Size == 0 {
		b.WriteString(" No hash table allocated\n")
		return
	}

	fmt.Fprintf(b, " table size: %d\n", st.Size)
	fmt.Fprintf(b, " number of elements: %d\n", st.Used)
	fmt.Fprintf(b, " different slots: %d\n", st.NonEmpty)
	fmt.Fprintf(b, " max chain length: %d\n", st.MaxChainLen)
	fmt.Fprintf(b, " avg chain length: %.2f\n", st.AvgChainLen())
	b.WriteString(" Chain length distribution:\n")
	for n, count := range st.ChainLengths {
		if count == 0 || n == 0 {
			continue
		}
		label := fmt.Sprintf("%d", n)
		if n == statsHistogramLen-1 {
			label = fmt.Sprintf(">= %d", n)
		}
		fmt.Fprintf(b, "   %s: %d (%.2f%%)\n",
			label, count, float64(count)/float64(st.Size)*100)
	}
}
