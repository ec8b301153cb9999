// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testContext struct {
	json  bool
	color bool
}

func (c testContext) IsJSONOutput() bool { return c.json }
func (c testContext) AllowsColor() bool  { return c.color }

func plainStream(t *testing.T, input string, ctx Context) *LineStream {
	t.Helper()
	return NewLineStream(
		WithInput(strings.NewReader(input)),
		WithContext(ctx),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func TestLineStreamPlainLines(t *testing.T) {
	s := plainStream(t, "one\ntwo\r\nthree\n", testContext{})
	ctx := context.Background()

	for _, want := range []string{"one", "two", "three"} {
		line, err := s.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := s.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
	// the stream is not restartable
	_, err = s.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineStreamDeliversUnterminatedFinalLine(t *testing.T) {
	s := plainStream(t, "first\nlast without newline", testContext{})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last without newline"}, lines)
}

func TestLineStreamEmptyInput(t *testing.T) {
	s := plainStream(t, "", testContext{})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLineStreamKeepsEmptyPlainLines(t *testing.T) {
	s := plainStream(t, "a\n\nb\n", testContext{})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, lines)
}

func TestLineStreamJSONArray(t *testing.T) {
	s := plainStream(t, `[1, "a", {"b": 2}]`, testContext{json: true})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "a", `{"b":2}`}, lines)
}

func TestLineStreamJSONObject(t *testing.T) {
	s := plainStream(t, `{"x": 1}`, testContext{json: true})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"x":1}`}, lines)
}

func TestLineStreamJSONMalformedFallsBack(t *testing.T) {
	s := plainStream(t, "not json at all\nsecond line", testContext{json: true})
	lines, err := CollectAll(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"not json at all", "second line"}, lines)
}

func TestLineStreamInvalidUTF8(t *testing.T) {
	s := plainStream(t, "good\n\xff\xfe\n", testContext{})
	ctx := context.Background()

	line, err := s.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "good", line)

	_, err = s.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	// terminated for good after the failure was reported once
	_, err = s.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineStreamHonorsContextBetweenReads(t *testing.T) {
	s := plainStream(t, "a\nb\n", testContext{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ReadLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBlockingAndCooperativeStreamsAgree(t *testing.T) {
	const input = "alpha\nbeta\r\n\ngamma\nlast one"

	blocking := plainStream(t, input, testContext{})
	fromBlocking, err := CollectAll(context.Background(), blocking)
	require.NoError(t, err)

	cursor := NewStreamCursor(
		WithInput(strings.NewReader(input)),
		WithContext(testContext{}),
		WithLogger(zaptest.NewLogger(t)),
	)
	defer cursor.Close()
	fromCursor, err := CollectAll(context.Background(), cursor)
	require.NoError(t, err)

	assert.Equal(t, fromBlocking, fromCursor)
	assert.Equal(t, []string{"alpha", "beta", "", "gamma", "last one"}, fromBlocking)
}

func TestTrailingNewlineReader(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"a", "a\n"},
		{"a\n", "a\n"},
		{"a\nb", "a\nb\n"},
		{"a\nb\n", "a\nb\n"},
	}
	for _, tc := range cases {
		data, err := io.ReadAll(newTrailingNewlineReader(strings.NewReader(tc.input)))
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data), "input %q", tc.input)
	}
}
