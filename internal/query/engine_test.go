package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTrackedMemoizesWithoutRecompute(t *testing.T) {
	db := NewDatabase()
	input := NewInput[string, int]("n", func(a, b int) bool { return a == b })
	calls := 0

	double := NewTracked("double", DeepEqual[int], func(ctx *Ctx, key string) int {
		calls++
		v, _ := input.Get(ctx, key)
		return v * 2
	})

	db.Write(func() { input.Set(db, "x", 10) })

	snap := db.Snapshot()
	defer snap.Release()

	assert.Equal(t, 20, double.Get(snap.Ctx(), "x"))
	assert.Equal(t, 20, double.Get(snap.Ctx(), "x"))
	assert.Equal(t, 1, calls, "second call within the same revision must hit the memo")
}

func TestWriteInvalidatesDependents(t *testing.T) {
	db := NewDatabase()
	input := NewInput[string, int]("n", func(a, b int) bool { return a == b })
	calls := 0

	double := NewTracked("double", DeepEqual[int], func(ctx *Ctx, key string) int {
		calls++
		v, _ := input.Get(ctx, key)
		return v * 2
	})

	db.Write(func() { input.Set(db, "x", 10) })
	func() {
		snap := db.Snapshot()
		defer snap.Release()
		require.Equal(t, 20, double.Get(snap.Ctx(), "x"))
	}()

	db.Write(func() { input.Set(db, "x", 11) })
	func() {
		snap := db.Snapshot()
		defer snap.Release()
		require.Equal(t, 22, double.Get(snap.Ctx(), "x"))
	}()

	assert.Equal(t, 2, calls)
}

// TestGoldenInvariant models the spec's core guarantee: a tracked function
// whose recomputed value equals its old value (by Equal) never advances
// changedAt, so anything depending on it stays "verified" without
// recomputation — this is exactly how a body-only edit leaves
// schema_types untouched even though file_structure's parse re-ran.
func TestGoldenInvariant(t *testing.T) {
	db := NewDatabase()
	raw := NewInput[string, string]("raw", func(a, b string) bool { return a == b })

	signatureCalls := 0
	signature := NewTracked("signature", DeepEqual[int], func(ctx *Ctx, key string) int {
		signatureCalls++
		v, _ := raw.Get(ctx, key)
		// "signature" only depends on the length of the first line — a
		// stand-in for file_structure depending on names/shapes, not body text.
		for i, c := range v {
			if c == '\n' {
				return i
			}
		}
		return len(v)
	})

	aggregateCalls := 0
	aggregate := NewTracked("aggregate", DeepEqual[int], func(ctx *Ctx, key string) int {
		aggregateCalls++
		return signature.Get(ctx, key) * 100
	})

	db.Write(func() { raw.Set(db, "f", "query Q { hero }") })
	func() {
		snap := db.Snapshot()
		defer snap.Release()
		require.Equal(t, 1600, aggregate.Get(snap.Ctx(), "f"))
	}()
	require.Equal(t, 1, signatureCalls)
	require.Equal(t, 1, aggregateCalls)

	// Body-only edit: same length (16 chars), different body text.
	require.Len(t, "query Q { asdf }", 16)
	db.Write(func() { raw.Set(db, "f", "query Q { asdf }") })

	func() {
		snap := db.Snapshot()
		defer snap.Release()
		got := aggregate.Get(snap.Ctx(), "f")
		assert.Equal(t, 1600, got, "aggregate must be unchanged when signature is unchanged")
	}()

	assert.Equal(t, 2, signatureCalls, "signature recomputes because its input changed")
	assert.Equal(t, 1, aggregateCalls, "aggregate must NOT recompute: signature's value was unchanged by equality")
}

func TestCycleDetected(t *testing.T) {
	db := NewDatabase()
	var self *Tracked[string, int]
	self = NewTracked("self", DeepEqual[int], func(ctx *Ctx, key string) int {
		return self.Get(ctx, key) + 1
	})

	snap := db.Snapshot()
	defer snap.Release()

	assert.Panics(t, func() {
		self.Get(snap.Ctx(), "a")
	})
}

func TestSnapshotIsolation(t *testing.T) {
	db1 := NewDatabase()
	db2 := NewDatabase()

	in1 := NewInput[string, int]("a", nil)
	in2 := NewInput[string, int]("a", nil)

	db1.Write(func() { in1.Set(db1, "k", 1) })
	db2.Write(func() { in2.Set(db2, "k", 2) })

	s1 := db1.Snapshot()
	defer s1.Release()
	s2 := db2.Snapshot()
	defer s2.Release()

	v1, _ := in1.Get(s1.Ctx(), "k")
	v2, _ := in2.Get(s2.Ctx(), "k")
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestRemoveTombstones(t *testing.T) {
	db := NewDatabase()
	in := NewInput[string, int]("a", nil)

	db.Write(func() { in.Set(db, "k", 1) })
	func() {
		snap := db.Snapshot()
		defer snap.Release()
		v, ok := in.Get(snap.Ctx(), "k")
		require.True(t, ok)
		require.Equal(t, 1, v)
	}()

	db.Write(func() { in.Remove(db, "k") })
	snap := db.Snapshot()
	defer snap.Release()
	_, ok := in.Get(snap.Ctx(), "k")
	assert.False(t, ok)
}
