// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/conreadio/conread/console"
)

// Converter turns the raw text of a prompt response into a typed value.
type Converter func(raw string) (any, error)

// PromptSpec configures one scalar read from standard input.
type PromptSpec struct {
	// Text is the prompt shown to the user; may be empty.
	Text string

	// Mask hides characters while they are typed.
	Mask bool

	// Default is used when the user submits empty input, and returned when
	// the input source fails. nil means no default.
	Default any

	// Convert, when set, produces the typed result from the raw response.
	// A conversion failure is not fatal: the unconverted value is used.
	Convert Converter

	// JSONKey wraps JSON-mode results as {JSONKey: value} instead of
	// returning them bare.
	JSONKey string

	// Color and Bold are advisory styling hints for the prompt text; they
	// are ignored silently when the terminal cannot style.
	Color string
	Bold  bool

	// Context overrides ambient context discovery for this call.
	Context Context
}

// Prompt reads one value from standard input according to spec. The input
// mode is resolved once, at the start of the call.
//
// In interactive mode the prompt is rendered (styled when permitted) and one
// line is read, with masking honored; empty input takes the default, then
// the converter runs. In JSON mode the prompt goes to the error channel so
// stdout stays machine-readable, the response line is parsed as JSON
// (falling back to the raw string), and JSONKey wraps the result.
//
// Read failures are surfaced in the result rather than only as an error:
// with a default configured the default is returned (wrapped with an "error"
// field in JSON mode) and the error is still returned for visibility.
func Prompt(spec PromptSpec, opts ...Option) (any, error) {
	o := newOptions(opts)
	if spec.Context != nil {
		o.context = spec.Context
	}
	modes := ResolveModes(o.context)
	if modes.JSON {
		return promptJSON(spec, o)
	}
	return promptInteractive(spec, o, modes)
}

// Confirm asks a yes/no question; empty input takes the default answer.
func Confirm(text string, defaultYes bool, opts ...Option) bool {
	hint, def := "[y/N]", "n"
	if defaultYes {
		hint, def = "[Y/n]", "y"
	}
	v, err := Prompt(PromptSpec{
		Text:    text + " " + hint,
		Default: def,
		Convert: func(raw string) (any, error) {
			raw = strings.ToLower(strings.TrimSpace(raw))
			return raw == "y" || raw == "yes", nil
		},
	}, opts...)
	if err != nil {
		return defaultYes
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultYes
}

func promptInteractive(spec PromptSpec, o options, modes Modes) (any, error) {
	prompter := o.prompter
	if prompter == nil {
		var err error
		prompter, err = console.NewStandardConsole(o.input, o.output)
		if err != nil {
			return nil, err
		}
	}

	prompt := ""
	if spec.Text != "" {
		prompt = styleText(spec.Text, spec.Color, spec.Bold, modes.Color) + " "
	}

	var raw string
	var err error
	if spec.Mask {
		raw, err = prompter.ReadSecret(prompt)
	} else {
		raw, err = prompter.ReadLine(prompt)
	}
	if err != nil {
		o.logger.Error("prompt read failed", zap.Error(err))
		if spec.Default != nil {
			return applyDefault(spec), err
		}
		return nil, err
	}

	if raw == "" && spec.Default != nil {
		return applyDefault(spec), nil
	}
	return convertRaw(spec, raw, o.logger), nil
}

func promptJSON(spec PromptSpec, o options) (any, error) {
	if spec.Text != "" {
		// stdout must stay machine-readable
		fmt.Fprint(o.errOut, spec.Text+" ")
	}

	raw, err := readOneLine(o.input)
	if err != nil {
		o.logger.Error("prompt read failed", zap.Error(err))
		if spec.Default != nil {
			return wrapJSONFailure(spec, spec.Default, err), err
		}
		return map[string]any{"error": err.Error()}, err
	}

	var value any = raw
	if doc, jsonErr := decodeDocument([]byte(raw)); jsonErr == nil {
		value = doc
	}
	if spec.Convert != nil {
		if v, cerr := spec.Convert(raw); cerr == nil {
			value = v
		} else {
			o.logger.Debug("prompt conversion failed, keeping unconverted value",
				zap.Error(cerr))
		}
	}

	if spec.JSONKey != "" {
		return map[string]any{spec.JSONKey: value}, nil
	}
	return value, nil
}

// applyDefault converts a string default the same way user input would be
// converted, so a default of "5" with an int converter yields 5.
func applyDefault(spec PromptSpec) any {
	if s, ok := spec.Default.(string); ok && spec.Convert != nil {
		if v, err := spec.Convert(s); err == nil {
			return v
		}
	}
	return spec.Default
}

func convertRaw(spec PromptSpec, raw string, log *zap.Logger) any {
	if spec.Convert == nil {
		return raw
	}
	v, err := spec.Convert(raw)
	if err != nil {
		log.Debug("prompt conversion failed, keeping unconverted value",
			zap.Error(err))
		return raw
	}
	return v
}

// wrapJSONFailure pairs a fallback value with the failure that forced it,
// keeping JSON-mode output well-formed.
func wrapJSONFailure(spec PromptSpec, value any, err error) map[string]any {
	key := spec.JSONKey
	if key == "" {
		key = "value"
	}
	return map[string]any{key: value, "error": err.Error()}
}

// readOneLine reads a single line without consuming anything beyond its
// terminator, so the rest of the stream stays available to later readers.
func readOneLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return strings.TrimRight(sb.String(), "\r"), nil
			}
			return "", err
		}
	}
}
