package dict

import (
	"testing"

	"github.com/chxmo/dict/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomEntry(t *testing.T) {
	t.Run("EmptyDict", func(t *testing.T) {
		d := New[string, int](StringType[int](), nil)
		assert.Nil(t, d.RandomEntry())
		assert.Nil(t, d.FairRandomEntry())
	})

	t.Run("SingleEntry", func(t *testing.T) {
		d := New[string, int](StringType[int](), nil)
		require.NoError(t, d.Add("only", 1))

		for i := 0; i < 10; i++ {
			e := d.RandomEntry()
			require.NotNil(t, e)
			assert.Equal(t, "only", e.Key())
		}
	})

	t.Run("ReturnsMembers", func(t *testing.T) {
		rng := testutil.NewRNG(13)
		keys := rng.Keys(200)

		d := New[string, int](StringType[int](), nil)
		for i, k := range keys {
			require.NoError(t, d.Add(k, i))
		}

		for i := 0; i < 500; i++ {
			e := d.RandomEntry()
			require.NotNil(t, e)
			_, ok := d.FetchValue(e.Key())
			assert.True(t, ok, "sampled key %q not a member", e.Key())
		}
	})

	t.Run("DuringRehash", func(t *testing.T) {
		d := startRehash(t, 200)

		for i := 0; i < 500; i++ {
			e := d.RandomEntry()
			require.NotNil(t, e)
			assert.Less(t, e.Key(), uint64(200))
		}
	})
}

func TestSomeEntries(t *testing.T) {
	t.Run("EmptyDict", func(t *testing.T) {
		d := New[string, int](StringType[int](), nil)
		des := make([]*Entry[string, int], 10)
		assert.Equal(t, 0, d.SomeEntries(des))
	})

	t.Run("ReturnsMembers", func(t *testing.T) {
		rng := testutil.NewRNG(17)
		keys := rng.Keys(100)

		d := New[string, int](StringType[int](), nil)
		for i, k := range keys {
			require.NoError(t, d.Add(k, i))
		}

		des := make([]*Entry[string, int], 10)
		count := d.SomeEntries(des)
		require.LessOrEqual(t, count, 10)
		require.Positive(t, count)

		for _, e := range des[:count] {
			require.NotNil(t, e)
			_, ok := d.FetchValue(e.Key())
			assert.True(t, ok, "sampled key %q not a member", e.Key())
		}
	})

	t.Run("MoreRequestedThanStored", func(t *testing.T) {
		d := New[string, int](StringType[int](), nil)
		require.NoError(t, d.Add("a", 1))
		require.NoError(t, d.Add("b", 2))

		des := make([]*Entry[string, int], 16)
		count := d.SomeEntries(des)
		assert.LessOrEqual(t, count, 2)
	})
}

// skewedDict builds a fixed-size table where every ninth bucket carries a
// chain of eight entries and the rest carry a single entry, keeping the
// shape stable by disabling automatic resize.
func skewedDict(t *testing.T) (*Dict[uint64, int], []uint64) {
	t.Helper()

	const size = 1024
	d := New[uint64, int](identityType(), nil,
		WithInitialSize(size), WithResizeDisabled())

	var keys []uint64
	for b := uint64(0); b < 900; b++ {
		if b%9 == 0 {
			for j := uint64(0); j < 8; j++ {
				keys = append(keys, b+j*size)
			}
		} else {
			keys = append(keys, b)
		}
	}
	for _, k := range keys {
		require.NoError(t, d.Add(k, 0))
	}
	require.Equal(t, uint64(size), d.Slots())
	return d, keys
}

func TestFairRandomEntryDistribution(t *testing.T) {
	d, keys := skewedDict(t)
	const trials = 30000

	// Half the population sits in long chains. The plain sampler picks a
	// bucket first, so a key sharing a bucket with seven others is about
	// eight times less likely than a lone one; the fair sampler draws from
	// a pool of consecutive entries instead and ought to flatten that out.
	longChain := func(k uint64) bool { return (k % 1024 % 9) == 0 }

	index := make(map[uint64]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}

	plainCounts := make([]int, len(keys))
	plainLong := 0
	for i := 0; i < trials; i++ {
		e := d.RandomEntry()
		require.NotNil(t, e)
		plainCounts[index[e.Key()]]++
		if longChain(e.Key()) {
			plainLong++
		}
	}

	fairCounts := make([]int, len(keys))
	fairLong := 0
	for i := 0; i < trials; i++ {
		e := d.FairRandomEntry()
		require.NotNil(t, e)
		fairCounts[index[e.Key()]]++
		if longChain(e.Key()) {
			fairLong++
		}
	}

	plainShare := float64(plainLong) / trials
	fairShare := float64(fairLong) / trials
	assert.Less(t, plainShare, 0.25, "plain sampler should starve long chains")
	assert.Greater(t, fairShare, 0.30, "fair sampler should reach long chains")

	expected := float64(trials) / float64(len(keys))
	plainChi := testutil.ChiSquared(plainCounts, expected)
	fairChi := testutil.ChiSquared(fairCounts, expected)
	assert.Less(t, fairChi, plainChi,
		"fair sampler should be flatter: fair=%.1f plain=%.1f", fairChi, plainChi)
}
