// Package timecode models broadcast timecodes (hours, minutes, seconds,
// frames) bound to a rational frame rate.
//
// Values are immutable: parsing produces a Timecode, conversion to another
// rate produces a new Timecode, and formatting renders either the colon
// separated non-drop form or the semicolon separated drop-style form. The
// drop-style separator is cosmetic; no SMPTE drop-frame arithmetic is applied.
//
// Timecodes read from STL files may be stored as literal binary bytes or as
// BCD nibbles depending on the producer, so both decode paths are exposed
// through the Encoding type.
package timecode
