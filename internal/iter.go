// Package internal holds iterator helpers shared by the rv32 packages.
package internal

import (
	"iter"
	"slices"
)

// IterSeq2Concat yields every pair of each sequence in turn, so the
// emulator, CPU and console define tables read as a single table.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := range seqs {
			for key, value := range seqs[n] {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted yields the pairs of seq ordered by key.
func IterSeq2Sorted[V any](seq iter.Seq2[string, V]) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		keys := []string{}
		values := map[string]V{}
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
