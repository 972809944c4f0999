// Package model defines the immutable document tree the editing engine
// operates on: blocks, text runs, inline atoms and marks, plus the pure
// functions (construction, normalization, offset arithmetic, mark-set
// algebra) that the step algebra and commands are built from.
//
// Every value in this package is immutable once constructed; edits always
// produce new values that share untouched subtrees with their predecessor.
package model
