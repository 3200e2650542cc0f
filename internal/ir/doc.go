// Package ir provides the structured query representation shared by every
// other tsq package.
//
// The Query type is the interchange object: encode produces it, decode
// consumes it, and presentation layers exchange it as JSON (or YAML/HuJSON)
// keyed exactly by the field names declared here.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Absent fields are nil (slices, pointers) or "" (dates); absence is the
//     only "unset" signal and omitted on the wire
//   - Counts are int64, never floats
//   - Canonical JSON (RFC 8785) is the only encoding used for fingerprints
//     and golden snapshots
package ir
