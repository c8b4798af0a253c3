// Package anonymize replaces detected PSI with masks or synthetic values.
//
// The random source is injected: New(WithSeed(42)) gives reproducible output,
// while New() is seeded from the clock and differs from run to run.
package anonymize
