package collections_test

import (
	"testing"

	"github.com/alkime/speakerid/pkg/collections"

	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("basic types", func(t *testing.T) {
		ints := []int{1, 2, 3, 4}
		squared := collections.Apply(ints, func(i int) int {
			return i * i
		})

		require.Equal(t, []int{1, 4, 9, 16}, squared)
	})

	t.Run("structs keep order", func(t *testing.T) {
		type speaker struct {
			Name string
			Seat int
		}

		speakers := []speaker{
			{Name: "Alice", Seat: 3},
			{Name: "Bob", Seat: 1},
			{Name: "Charlie", Seat: 2},
		}

		names := collections.Apply(speakers, func(s speaker) string {
			return s.Name
		})
		require.Equal(t, []string{"Alice", "Bob", "Charlie"}, names)
	})
}

func TestCountAndAll(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }

	require.Equal(t, 2, collections.Count([]string{"a", "", "b"}, nonEmpty))
	require.False(t, collections.All([]string{"a", "", "b"}, nonEmpty))
	require.True(t, collections.All([]string{"a", "b"}, nonEmpty))
	require.True(t, collections.All([]string{}, nonEmpty), "vacuously true")
}

func TestRepeat(t *testing.T) {
	calls := 0
	items := collections.Repeat(3, func() []int {
		calls++
		return []int{calls}
	})

	require.Equal(t, 3, calls)
	require.Equal(t, [][]int{{1}, {2}, {3}}, items)

	items[0][0] = 42
	require.Equal(t, 2, items[1][0], "each item is independent")
}
