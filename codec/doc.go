// Package codec maps binary tag trees to JSON document trees and back,
// losslessly.
//
// JSON's primitive set is narrower than the tag model's, so several variants
// travel as specially shaped strings:
//
//   - Byte 7        -> "7b"
//   - Short 7       -> "7s"
//   - Long 7        -> "7L"
//   - Float 1.5     -> "1.5f"
//   - Int 7         -> 7 (a real JSON number)
//   - Double 1.5    -> 1.5 (a real JSON number; non-finite values fall back
//     to the string form "NaNd")
//   - ByteArray     -> "B;<base64>"
//   - IntArray      -> "I;<base64 of big-endian 4-byte elements>"
//   - LongArray     -> "L;<base64 of big-endian 8-byte elements>"
//   - empty List    -> {"[]": "End"}
//
// A literal string whose shape collides with one of those encodings gets the
// two-character escape marker `\0` appended; the decoder strips exactly one
// marker before anything else. Strings already ending in the marker are
// escaped again so the single strip always recovers the original.
//
// Integral doubles are serialized with a trailing ".0" so the document
// literal keeps its float origin across a reparse; see jsondoc.Number.
package codec
