package dict

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("EmitsResizeEvents", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))

		d := New[uint64, int](identityType(), nil, WithLogger(logger))
		for k := uint64(0); k < 100; k++ {
			require.NoError(t, d.Add(k, 0))
		}
		for d.Rehash(100) {
		}

		out := buf.String()
		assert.Contains(t, out, "table resize started")
		assert.Contains(t, out, `"new_size":128`)
		assert.Contains(t, out, "rehash completed")

		// Shrinks log under the same neutral message, sizes telling the
		// direction.
		buf.Reset()
		for k := uint64(10); k < 100; k++ {
			require.True(t, d.Delete(k))
		}
		require.NoError(t, d.Shrink())
		for d.Rehash(100) {
		}
		d.Empty(nil)

		out = buf.String()
		assert.Contains(t, out, "table resize started")
		assert.Contains(t, out, `"old_size":128`)
		assert.Contains(t, out, `"new_size":16`)
		assert.Contains(t, out, "dict emptied")
	})

	t.Run("EmitsDeniedExpand", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewTextHandler(&buf, nil))

		typ := identityType()
		typ.ExpandAllowed = func(uint64, float64) bool { return false }
		d := New[uint64, int](typ, nil, WithLogger(logger))
		require.NoError(t, d.Add(1, 0))
		require.ErrorIs(t, d.Expand(64), ErrExpandDenied)

		assert.Contains(t, buf.String(), "table expand denied")
	})

	t.Run("NoopDiscards", func(t *testing.T) {
		d := New[uint64, int](identityType(), nil) // noop logger by default
		for k := uint64(0); k < 10; k++ {
			require.NoError(t, d.Add(k, 0))
		}
	})
}
