// Copyright (c) 2025 the conread authors
// released under the ISC license

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	docopt "github.com/docopt/docopt-go"
	"github.com/gorilla/websocket"
	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/conreadio/conread"
)

const version = "conread 1.0.0"

func main() {
	usage := `conread.
conread reads lines from standard input the way scriptable command-line
tools should: plain text lines when a human is typing, one JSON document
when input is piped by another program. In JSON mode a top-level array
fans out to one output line per element; any other document is a single
line, and input that turns out not to be JSON falls back to plain lines.

Usage:
	conread [options]
	conread prompt <text> [options]
	conread -h | --help
	conread --version

Options:
	--json              Treat standard input as one JSON document.
	--limit=<n>         Stop after <n> lines.
	--color=<mode>      Colorize output: auto, always, never [default: auto].
	--ws=<url>          Forward each line to a websocket URL as a text message.
	--mask              Hide prompt input while typing (prompt command).
	--default=<value>   Fallback when the prompt gets empty input (prompt command).
	--key=<key>         Wrap JSON-mode prompt results as {key: value} (prompt command).
	--verbose           Enable debug logging.
	-h --help           Show this screen.
	--version           Show version.`

	opts, err := docopt.ParseArgs(usage, nil, version)
	if err != nil {
		fmt.Fprintln(os.Stderr, "** conread error: could not parse arguments:", err.Error())
		os.Exit(1)
	}

	verbose, _ := opts.Bool("--verbose")
	logger := zap.NewNop()
	if verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	jsonMode, _ := opts.Bool("--json")
	colorMode, _ := opts.String("--color")
	allowColor := false
	switch colorMode {
	case "always":
		allowColor = true
	case "never", "":
	case "auto":
		allowColor = isatty.IsTerminal(os.Stdout.Fd())
	default:
		fmt.Fprintln(os.Stderr, "** conread error: --color must be auto, always or never")
		os.Exit(1)
	}

	// install the invocation context; the library discovers it per call
	invocation := cliContext{jsonOutput: jsonMode, color: allowColor}
	conread.SetContextDiscovery(func() conread.Context { return invocation })

	if isPrompt, _ := opts.Bool("prompt"); isPrompt {
		runPrompt(opts, jsonMode)
		return
	}

	limit := -1
	if limitString, _ := opts.String("--limit"); limitString != "" {
		limit, err = strconv.Atoi(limitString)
		if err != nil || limit < 0 {
			fmt.Fprintln(os.Stderr, "** conread error: --limit must be a non-negative number")
			os.Exit(1)
		}
	}

	var forwarder *wsForwarder
	if wsURL, _ := opts.String("--ws"); wsURL != "" {
		forwarder, err = newWSForwarder(wsURL)
		if err != nil {
			fmt.Fprintln(os.Stderr, "** conread error: could not connect websocket:", err.Error())
			os.Exit(1)
		}
		defer forwarder.Close()
	}

	stdout := colorable.NewColorableStdout()
	stream := conread.NewLineStream()
	ctx := context.Background()

	if limit >= 0 {
		lines, err := conread.Collect(ctx, stream, limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "** conread error: failed to read input:", err.Error())
			os.Exit(1)
		}
		for _, line := range lines {
			emitLine(stdout, forwarder, line)
		}
		return
	}

	for {
		line, err := stream.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "** conread error: failed to read input:", err.Error())
			os.Exit(1)
		}
		emitLine(stdout, forwarder, line)
	}
}

func emitLine(stdout io.Writer, forwarder *wsForwarder, line string) {
	if forwarder != nil {
		if err := forwarder.SendLine(line); err != nil {
			fmt.Fprintln(os.Stderr, "** conread error: failed to forward line:", err.Error())
			os.Exit(1)
		}
	}
	fmt.Fprintln(stdout, line)
}

func runPrompt(opts docopt.Opts, jsonMode bool) {
	text, _ := opts.String("<text>")
	mask, _ := opts.Bool("--mask")
	spec := conread.PromptSpec{
		Text:  text,
		Mask:  mask,
		Color: "cyan",
		Bold:  true,
	}
	if def, _ := opts.String("--default"); def != "" {
		spec.Default = def
	}
	if key, _ := opts.String("--key"); key != "" {
		spec.JSONKey = key
	}

	value, err := conread.Prompt(spec)
	if err != nil && value == nil {
		fmt.Fprintln(os.Stderr, "** conread error: prompt failed:", err.Error())
		os.Exit(1)
	}
	if jsonMode {
		encoded, err := json.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, "** conread error: could not encode result:", err.Error())
			os.Exit(1)
		}
		fmt.Println(string(encoded))
	} else {
		fmt.Println(value)
	}
}

type cliContext struct {
	jsonOutput bool
	color      bool
}

func (c cliContext) IsJSONOutput() bool { return c.jsonOutput }
func (c cliContext) AllowsColor() bool  { return c.color }

// wsForwarder sends each line to a websocket peer as one text message.
type wsForwarder struct {
	writeMutex sync.Mutex
	closeOnce  sync.Once
	conn       *websocket.Conn
}

func newWSForwarder(wsURL string) (*wsForwarder, error) {
	dialer := websocket.Dialer{}
	conn, resp, err := dialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %d", err, resp.StatusCode)
		}
		return nil, err
	}
	return &wsForwarder{conn: conn}, nil
}

func (w *wsForwarder) SendLine(line string) error {
	w.writeMutex.Lock()
	defer w.writeMutex.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (w *wsForwarder) Close() {
	w.closeOnce.Do(func() {
		w.conn.Close()
	})
}
