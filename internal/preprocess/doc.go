// Package preprocess holds the content transforms that run over markdown
// pages before layouts are rendered: taking the title from the first
// heading, and deriving an excerpt and a plain text description.
//
// Transforms only fill fields that are still empty, so running them again
// over the same pages changes nothing.
package preprocess
