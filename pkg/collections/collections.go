// Package collections holds small generic slice helpers.
package collections

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

func ApplyVariadic[T, V any](applicator func(T) V, items ...T) []V {
	return Apply(items, applicator)
}

// Count returns how many items satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// All reports whether every item satisfies pred. An empty slice yields true.
func All[T any](items []T, pred func(T) bool) bool {
	return Count(items, pred) == len(items)
}

// Repeat returns a slice of n items, each produced by a fresh call to newItem.
func Repeat[T any](n int, newItem func() T) []T {
	result := make([]T, n)
	for i := range result {
		result[i] = newItem()
	}
	return result
}
