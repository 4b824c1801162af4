// Package hwl implements the HWL tape interpreter. Programs are flat strings
// where every character is one instruction acting on a fixed-size circular
// tape of byte cells:
//   - Pointer movement wraps around both ends of the tape.
//   - Cell arithmetic wraps modulo 256.
//   - `!` skips past its matching `?` when the current cell is zero, and `?`
//     jumps back just after its matching `!` when the cell is non-zero.
//   - Characters outside the configured alphabet are no-ops.
//
// Every run starts with a built-in preamble that prints a fixed greeting;
// caller code is appended to it verbatim. Variants (tape length, alphabet,
// preamble, or a canned message with no tape at all) come from an embedded
// TOML catalog and are fixed when an Engine is constructed.
package hwl
