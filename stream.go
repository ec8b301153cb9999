// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ergochat/irc-go/ircreader"
	"go.uber.org/zap"
)

// ErrInvalidUTF8 terminates a stream whose input contains a line that is not
// valid UTF-8. It is reported once; the stream is not restartable.
var ErrInvalidUTF8 = errors.New("input line is not valid UTF-8")

// LineSource is a forward-only sequence of decoded, terminator-stripped
// lines. ReadLine returns io.EOF after the last line; io.EOF is the normal
// end of a stream, not a failure. Both LineStream and StreamCursor
// implement it.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// LineStream is the blocking line stream: a lazy, forward-only,
// non-restartable sequence of lines from standard input (or the injected
// reader). The input mode is resolved once, on the first read. In JSON mode
// the first read consumes the entire input and subsequent reads replay the
// aggregated logical lines; in plain mode each read produces the next text
// line as it becomes available.
//
// ReadLine blocks the calling goroutine; the context is only checked
// between reads. Use StreamCursor when other work must keep running while
// waiting for input.
type LineStream struct {
	opts    options
	modes   Modes
	started bool
	done    bool

	reader ircreader.Reader

	// JSON mode state
	queued   []string
	startErr error

	count int
}

// NewLineStream returns a stream over standard input. The mode is not
// resolved until the first ReadLine call.
func NewLineStream(opts ...Option) *LineStream {
	return &LineStream{opts: newOptions(opts)}
}

// ReadLine returns the next line with its terminator stripped, or io.EOF
// once the input is exhausted.
func (s *LineStream) ReadLine(ctx context.Context) (string, error) {
	// cancellation is only honored between reads; this is the blocking API
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if !s.started {
		s.start()
	}
	if s.done {
		return "", io.EOF
	}
	if s.startErr != nil {
		err := s.startErr
		s.finish(err)
		return "", err
	}

	if s.modes.JSON {
		if len(s.queued) == 0 {
			s.finish(nil)
			return "", io.EOF
		}
		line := s.queued[0]
		s.queued = s.queued[1:]
		s.count++
		return line, nil
	}

	lineBytes, err := s.reader.ReadLine()
	if err != nil {
		s.finish(err)
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if !utf8.Valid(lineBytes) {
		s.finish(ErrInvalidUTF8)
		return "", ErrInvalidUTF8
	}
	s.count++
	return strings.TrimRight(string(lineBytes), "\r\n"), nil
}

func (s *LineStream) start() {
	s.started = true
	s.modes = ResolveModes(s.opts.context)
	s.opts.logger.Debug("line stream started", zap.Bool("json", s.modes.JSON))
	if s.modes.JSON {
		data, err := io.ReadAll(s.opts.input)
		if err != nil {
			s.startErr = err
			return
		}
		s.queued = aggregateLines(data, s.opts.logger)
	} else {
		s.reader.Initialize(newTrailingNewlineReader(s.opts.input),
			InitialBufferSize, MaxBufferSize)
	}
}

func (s *LineStream) finish(err error) {
	s.done = true
	if err == nil || errors.Is(err, io.EOF) {
		s.opts.logger.Debug("line stream ended", zap.Int("lines", s.count))
	} else {
		s.opts.logger.Error("line stream terminated",
			zap.Error(err), zap.Int("lines", s.count))
	}
}

// trailingNewlineReader compensates for ircreader only handing back
// terminated lines: a final line with no terminator would otherwise be
// dropped at EOF, so a terminator is injected for it.
type trailingNewlineReader struct {
	r        io.Reader
	sawData  bool
	endedNL  bool
	injected bool
	err      error // deferred error from a read that also returned data
}

func newTrailingNewlineReader(r io.Reader) *trailingNewlineReader {
	return &trailingNewlineReader{r: r}
}

func (t *trailingNewlineReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if t.err == nil {
		n, err := t.r.Read(p)
		if n > 0 {
			t.sawData = true
			t.endedNL = p[n-1] == '\n'
			// hold any error back so the data is delivered first
			t.err = err
			return n, nil
		}
		if err == nil {
			return 0, nil
		}
		t.err = err
	}
	if errors.Is(t.err, io.EOF) && t.sawData && !t.endedNL && !t.injected {
		t.injected = true
		p[0] = '\n'
		return 1, nil
	}
	return 0, t.err
}
