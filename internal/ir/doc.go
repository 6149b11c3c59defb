// Package ir provides the trace representation shared by the tally engine,
// the tape store and the conformance harness.
//
// This package contains record types and their canonical encoding only.
// All other internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Display values are strings exactly as the engine shows them; no
//     float types appear in any record
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
package ir
