// Package soc implements the Succinct Observation Container: the binary
// codec that stores decoded RINEX epochs and per-signal observation
// streams as a sequence of tagged chunks (§3, §4.F and §4.G).
//
// The container format follows a chunk-walking, lazy-offset-caching
// design, reworked as a Go reader/writer pair over in-memory byte
// slices instead of raw pointer arithmetic on a memory-mapped file.
package soc
