package testutil

import "math/rand"

// ConstSource is a rand.Source that always yields the same value, making
// every derived roll deterministic.
type ConstSource int64

// Int63 implements rand.Source.
func (s ConstSource) Int63() int64 { return int64(s) }

// Seed implements rand.Source.
func (s ConstSource) Seed(int64) {}

// Nat20Source returns a source for which rand.New(src).Intn(20) always
// yields 19, i.e. every d20 lands on a natural 20. Intn(20) takes the top 31
// bits of Int63 and reduces them modulo 20, so 19<<32 maps to 19.
func Nat20Source() rand.Source { return ConstSource(19 << 32) }

// Nat1Source returns a source for which every d20 lands on a natural 1.
func Nat1Source() rand.Source { return ConstSource(0) }
