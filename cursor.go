// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ergochat/irc-go/ircreader"
	"github.com/muesli/cancelreader"
	"go.uber.org/zap"
)

type cursorResult struct {
	line string
	err  error
}

// StreamCursor is the cooperative counterpart of LineStream: a reader
// goroutine is attached to the input on the first read, and ReadLine
// suspends only the calling goroutine until a full line (or EOF) is
// available. In JSON mode the read-everything step runs on the reader
// goroutine, off the caller's path, and the aggregated logical lines are
// handed back one by one.
//
// The process's standard input is a single shared resource: at most one
// cursor may be attached to it at a time, and attaching a second one while
// the first is live is a caller error that this type does not guard against.
//
// Cancelling the context of a pending ReadLine detaches the cursor and
// returns ctx.Err(); lines delivered before the cancellation remain valid
// and are never re-delivered. Close detaches idempotently.
type StreamCursor struct {
	opts options

	attachOnce sync.Once
	closeOnce  sync.Once
	results    chan cursorResult
	quit       chan struct{}

	cancelMu sync.Mutex
	cancel   cancelreader.CancelReader

	// consumer-side state, only touched by the goroutine calling ReadLine
	done  bool
	count int
}

// NewStreamCursor returns a cooperative stream over standard input. Nothing
// is attached until the first ReadLine call.
func NewStreamCursor(opts ...Option) *StreamCursor {
	return &StreamCursor{
		opts:    newOptions(opts),
		results: make(chan cursorResult),
		quit:    make(chan struct{}),
	}
}

// ReadLine returns the next line with its terminator stripped, or io.EOF
// once the input is exhausted.
func (c *StreamCursor) ReadLine(ctx context.Context) (string, error) {
	c.attachOnce.Do(c.attach)
	if c.done {
		return "", io.EOF
	}
	select {
	case <-ctx.Done():
		// the consumer is gone; release the descriptor attachment
		c.Close()
		return "", ctx.Err()
	case <-c.quit:
		return "", io.EOF
	case res, ok := <-c.results:
		if !ok {
			c.done = true
			return "", io.EOF
		}
		if res.err != nil {
			c.done = true
			return "", res.err
		}
		c.count++
		return res.line, nil
	}
}

// Close detaches the reader goroutine from the input. It never fails; the
// error return exists to satisfy io.Closer.
func (c *StreamCursor) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
		c.cancelMu.Lock()
		if c.cancel != nil {
			c.cancel.Cancel()
		}
		c.cancelMu.Unlock()
	})
	return nil
}

func (c *StreamCursor) attach() {
	modes := ResolveModes(c.opts.context)
	input := c.opts.input
	if cr, err := cancelreader.NewReader(input); err == nil {
		c.cancelMu.Lock()
		c.cancel = cr
		c.cancelMu.Unlock()
		input = cr
	} else {
		c.opts.logger.Debug("input does not support cancelable reads",
			zap.Error(err))
	}
	c.opts.logger.Debug("stream cursor attached", zap.Bool("json", modes.JSON))
	go c.run(modes, input)
}

func (c *StreamCursor) run(modes Modes, input io.Reader) {
	defer close(c.results)
	log := c.opts.logger
	count := 0

	if modes.JSON {
		data, err := io.ReadAll(input)
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				log.Debug("stream cursor canceled")
				return
			}
			log.Error("stream cursor terminated", zap.Error(err))
			c.send(cursorResult{err: err})
			return
		}
		for _, line := range aggregateLines(data, log) {
			if !c.send(cursorResult{line: line}) {
				return
			}
			count++
		}
		log.Debug("stream cursor ended", zap.Int("lines", count))
		return
	}

	var reader ircreader.Reader
	reader.Initialize(newTrailingNewlineReader(input),
		InitialBufferSize, MaxBufferSize)
	for {
		lineBytes, err := reader.ReadLine()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Debug("stream cursor ended", zap.Int("lines", count))
			case errors.Is(err, cancelreader.ErrCanceled):
				log.Debug("stream cursor canceled", zap.Int("lines", count))
			default:
				log.Error("stream cursor terminated",
					zap.Error(err), zap.Int("lines", count))
				c.send(cursorResult{err: err})
			}
			return
		}
		if !utf8.Valid(lineBytes) {
			log.Error("stream cursor terminated",
				zap.Error(ErrInvalidUTF8), zap.Int("lines", count))
			c.send(cursorResult{err: ErrInvalidUTF8})
			return
		}
		if !c.send(cursorResult{line: strings.TrimRight(string(lineBytes), "\r\n")}) {
			return
		}
		count++
	}
}

// send hands one result to the consumer, giving up if the cursor is closed.
func (c *StreamCursor) send(res cursorResult) bool {
	select {
	case c.results <- res:
		return true
	case <-c.quit:
		return false
	}
}
