// Package dump handles reading compressed Reddit comment dumps line-by-line
//
// Design choices:
// - Stream with bufio.Scanner but with a 32MB cap to reliably handle huge comments.
// - Decompressor picked by file extension (.gz, .bz2, .zst); anything else is read plain.
// - JSON decode per line; a bad line surfaces as a coded Parse error so the
//   service layer owns the skip-or-abort policy.
// - Required identity fields are checked with validator tags at decode time,
//   surfacing as a coded MissingField error per record
package dump
