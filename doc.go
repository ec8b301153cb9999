// Copyright (c) 2025 the conread authors
// released under the ISC license

// Package conread reads standard input uniformly for command-line tools,
// whether they are driven by a human at a terminal or by a pipe that often
// carries JSON.
//
// The package resolves an input mode once per operation: in interactive mode
// input is a plain stream of text lines, in JSON mode the whole of standard
// input is parsed as a single JSON document and a top-level array fans out to
// one logical line per element. Both a blocking line stream (LineStream) and
// a cooperative one (StreamCursor, safe to await from concurrent code) are
// provided, along with a scalar prompt reader that supports defaults, masked
// input and type conversion.
//
// The console subpackage supplies the Prompter capability used for
// interactive prompts: a rich readline-backed console when stdin is a
// terminal, a plain stdio console otherwise.
//
// A demonstration CLI is in cmd/conread:
//
//	go install github.com/conreadio/conread/cmd/conread
package conread
