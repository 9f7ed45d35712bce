// Package scc writes Scenarist SCC caption files.
//
// Captions are encoded as EIA-608 channel 1 byte pairs. Characters and
// control codes come from a Table, which carries the basic, special and
// extended character sets, the miscellaneous control codes, the preamble
// address codes and the per-display-mode bracketing sequences. Tables are
// stored as 7-bit values; odd parity is applied when words are emitted.
//
// The default table follows the CEA-608 channel 1 assignments. Alternate
// tables can be loaded from YAML to match downstream decoders that expect a
// different mapping.
package scc
