package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	t.Run("Unallocated", func(t *testing.T) {
		d := New[string, int](StringType[int](), nil)
		st := d.Stats()

		assert.Equal(t, uint64(0), st.Main.Size)
		assert.Nil(t, st.Rehash)
		assert.Contains(t, st.String(), "No hash table allocated")
	})

	t.Run("SingletonChains", func(t *testing.T) {
		d := New[uint64, int](identityType(), nil)
		for k := uint64(0); k < 100; k++ {
			require.NoError(t, d.Add(k, 0))
		}
		for d.Rehash(100) {
		}

		st := d.Stats()
		assert.Equal(t, uint64(128), st.Main.Size)
		assert.Equal(t, uint64(100), st.Main.Used)
		assert.Equal(t, uint64(100), st.Main.NonEmpty)
		assert.Equal(t, uint64(1), st.Main.MaxChainLen)
		assert.Equal(t, uint64(28), st.Main.ChainLengths[0])
		assert.Equal(t, uint64(100), st.Main.ChainLengths[1])
		assert.InDelta(t, 1.0, st.Main.AvgChainLen(), 0.001)
	})

	t.Run("LongChains", func(t *testing.T) {
		d := New[uint64, int](identityType(), nil,
			WithInitialSize(16), WithResizeDisabled())
		// Five keys per bucket across four buckets.
		for b := uint64(0); b < 4; b++ {
			for j := uint64(0); j < 5; j++ {
				require.NoError(t, d.Add(b+j*16, 0))
			}
		}

		st := d.Stats()
		assert.Equal(t, uint64(20), st.Main.Used)
		assert.Equal(t, uint64(4), st.Main.NonEmpty)
		assert.Equal(t, uint64(5), st.Main.MaxChainLen)
		assert.Equal(t, uint64(4), st.Main.ChainLengths[5])
		assert.InDelta(t, 5.0, st.Main.AvgChainLen(), 0.001)
	})

	t.Run("DuringRehash", func(t *testing.T) {
		d := startRehash(t, 65)
		st := d.Stats()

		require.NotNil(t, st.Rehash)
		assert.Equal(t, uint64(65), st.Main.Used+st.Rehash.Used)

		out := st.String()
		assert.Contains(t, out, "Hash table 0 stats (main hash table):")
		assert.Contains(t, out, "Hash table 1 stats (rehashing target):")
	})

	t.Run("StringReport", func(t *testing.T) {
		d := New[uint64, int](identityType(), nil)
		for k := uint64(0); k < 10; k++ {
			require.NoError(t, d.Add(k, 0))
		}
		for d.Rehash(100) {
		}

		out := d.Stats().String()
		assert.Contains(t, out, "table size: 16")
		assert.Contains(t, out, "number of elements: 10")
		assert.Contains(t, out, "Chain length distribution:")
	})
}

func TestTableStatsHistogramOverflow(t *testing.T) {
	// Chains at or beyond the histogram length share the last slot. The
	// growth gate keeps the table at four buckets even past the force
	// ratio, so one bucket accumulates the whole chain.
	typ := identityType()
	typ.ExpandAllowed = func(uint64, float64) bool { return false }
	d := New[uint64, int](typ, nil, WithResizeDisabled())
	for j := uint64(0); j < statsHistogramLen+5; j++ {
		require.NoError(t, d.Add(j*4, 0))
	}

	st := d.Stats()
	assert.Equal(t, uint64(statsHistogramLen+5), st.Main.MaxChainLen)
	assert.Equal(t, uint64(1), st.Main.ChainLengths[statsHistogramLen-1])
}
