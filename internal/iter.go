package internal

import (
	"cmp"
	"iter"
	"slices"
)

// Concat2 chains key/value sequences, in order.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Sorted2 collects a key/value sequence and yields it in ascending key order.
// Later duplicates of a key replace earlier ones.
func Sorted2[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		values := map[K]V{}
		keys := []K{}
		for key, value := range seq {
			if _, ok := values[key]; !ok {
				keys = append(keys, key)
			}
			values[key] = value
		}

		slices.Sort(keys)
		for _, key := range keys {
			if !yield(key, values[key]) {
				return
			}
		}
	}
}
