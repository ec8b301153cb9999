// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"context"
	"errors"
	"io"
)

// Collect reads up to limit lines from src, preserving order. A negative
// limit drains the stream. End of input is not an error; any other failure
// returns the lines gathered so far along with the error.
func Collect(ctx context.Context, src LineSource, limit int) ([]string, error) {
	var lines []string
	for limit < 0 || len(lines) < limit {
		line, err := src.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// CollectAll drains src to completion.
func CollectAll(ctx context.Context, src LineSource) ([]string, error) {
	return Collect(ctx, src, -1)
}
