// Package coproto implements a self-describing, delimiter-framed encoding
// for a small closed set of values: Null, Boolean, Integer, Double, Bigint,
// String, Array and Command.
//
// Every encoding starts with a one-byte tag and ends with BufferEnd, so a
// decoder knows how many bytes a value occupied without a schema. Values
// nested in an Array or Command are embedded without their BufferEnd.
package coproto
