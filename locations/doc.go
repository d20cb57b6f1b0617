// Package locations reads location tables: whitespace-delimited text files
// with one numeric row per line.
//
// Row 0 is a header/metadata row that distance computations skip; rows
// 1..n carry (x, y) coordinates. Rows may have any width, nothing is
// validated beyond tokenization.
//
// Numeric coercion is lenient by default: each token contributes the value
// of its longest numeric prefix, and a token with no numeric prefix reads
// as 0. Malformed files therefore produce truncated or garbage rows rather
// than errors. WithStrict turns that into ErrMalformedRow.
//
// A file that cannot be opened yields an empty Table plus an error wrapping
// ErrOpen; callers are expected to log it and carry on with the empty table.
package locations
