// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/conreadio/conread/console"
)

const (
	// InitialBufferSize is the starting size of a stream's line buffer.
	InitialBufferSize = 1024
	// MaxBufferSize caps a single line; longer lines terminate the stream
	// with ircreader.ErrReadQ.
	MaxBufferSize = 1024 * 1024
)

type options struct {
	input    io.Reader
	output   io.Writer
	errOut   io.Writer
	context  Context
	logger   *zap.Logger
	prompter console.Console
}

// Option configures a stream or prompt call.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		input:  os.Stdin,
		output: os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.L()
	}
	return o
}

// WithInput replaces os.Stdin as the data source.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.input = r }
}

// WithOutput replaces os.Stdout as the interactive prompt target.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithErrOutput replaces os.Stderr as the JSON-mode prompt target.
func WithErrOutput(w io.Writer) Option {
	return func(o *options) { o.errOut = w }
}

// WithContext supplies the ambient context explicitly instead of relying on
// a registered discovery function.
func WithContext(ctx Context) Option {
	return func(o *options) { o.context = ctx }
}

// WithLogger replaces the process-global zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPrompter replaces the console used for interactive prompts.
func WithPrompter(c console.Console) Option {
	return func(o *options) { o.prompter = c }
}
