// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// aggregateLines interprets the whole captured input as one JSON document
// and fans it out into logical lines: one line per element of a top-level
// array (exactly one level of fan-out; nested arrays stay single elements),
// or a single line for any other top-level value. Strings are emitted bare,
// everything else is re-serialized canonically. If the input is not valid
// JSON the captured bytes are split into plain lines instead, with empty
// lines dropped; a parse failure is never a hard error.
func aggregateLines(data []byte, log *zap.Logger) []string {
	doc, err := decodeDocument(data)
	if err != nil {
		log.Debug("input is not a JSON document, falling back to plain lines",
			zap.Error(err))
		return splitPlainLines(data)
	}
	if arr, ok := doc.([]any); ok {
		lines := make([]string, 0, len(arr))
		for _, elem := range arr {
			lines = append(lines, renderLine(elem))
		}
		return lines
	}
	return []string{renderLine(doc)}
}

// decodeDocument parses data as a single JSON value, preserving number
// formatting and rejecting trailing tokens.
func decodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

// renderLine converts one logical value to its line form: strings pass
// through unchanged, anything else becomes its canonical JSON serialization.
func renderLine(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		// values decoded from JSON always re-serialize
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func splitPlainLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
