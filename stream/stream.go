// Package stream provides lazy combinators over iter.Seq and a line
// splitter for reading datasets with constant memory.
//
// Example usage with a record stream:
//
//	short := stream.Filter(p.Records(ctx), func(r regsynth.Record) bool {
//	    return r.Length < 10
//	})
//	for rec := range stream.Take(short, 100) {
//	    fmt.Println(rec.Regex)
//	}
package stream

import "iter"

// Filter yields the elements of seq for which keep returns true.
func Filter[T any](seq iter.Seq[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

// Map yields fn(v) for each element of seq.
func Map[T, U any](seq iter.Seq[T], fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			if !yield(fn(v)) {
				return
			}
		}
	}
}

// Take yields at most n elements of seq. n <= 0 means no limit.
// The source is not pulled past the n-th element.
func Take[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			i++
			if i == n {
				return
			}
		}
	}
}

// Tap calls fn on every element before passing it on.
func Tap[T any](seq iter.Seq[T], fn func(T)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			fn(v)
			if !yield(v) {
				return
			}
		}
	}
}

// Repeat calls next forever, yielding its results. It is the usual way to
// turn a random generator into an endless candidate source.
func Repeat[T any](next func() T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for yield(next()) {
		}
	}
}
