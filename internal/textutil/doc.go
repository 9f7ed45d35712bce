// Package textutil decodes legacy broadcast text and cleans it for display.
//
// The primary use cases are:
//   - Decoding STL text fields under a selectable code page (Latin-1, CP850,
//     ISO-8859-15 and friends, or lenient UTF-8)
//   - Removing control bytes and known code-page mismatch artifacts
//   - Sanitizing output file names for batch conversions
//
// Decoding is total: undecodable input becomes U+FFFD, which the default
// artifact table then drops. Cleaning is idempotent.
package textutil
