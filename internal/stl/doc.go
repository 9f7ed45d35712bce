// Package stl reads EBU 3264 subtitle files.
//
// A file is a fixed-size General Subtitle Information (GSI) header followed by
// fixed-stride Text and Timing Information (TTI) blocks. Byte offsets are not
// hard-coded: they come from a Layout descriptor so that files produced by
// tools with non-standard layouts can be read by changing configuration.
//
// ParseHeader validates the header signature and extracts GSI fields. A
// Scanner then walks the TTI blocks once, in file order, yielding raw records;
// decoding timecodes and text is left to the caller.
package stl
