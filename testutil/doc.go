// Package testutil provides testing utilities for the dict package.
//
// This package is intended for use in tests and benchmarks only. It provides
// seeded key generation so sampling and rehash tests are reproducible, and a
// chi-squared helper for checking sampling distributions.
//
// # Key Generation
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Keys(1000) // distinct random string keys
//
// # Distribution Checks
//
//	stat := testutil.ChiSquared(counts, expectedPerBin)
package testutil
