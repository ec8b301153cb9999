// Copyright (c) 2025 the conread authors
// released under the ISC license

//go:build !minimal

package console

import (
	"syscall"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// NewConsole returns the rich readline-backed console when standard input is
// an interactive terminal and readline is enabled, and the plain stdio
// console otherwise.
func NewConsole(enableReadline bool, historyFile string) (Console, error) {
	if !(enableReadline && term.IsTerminal(int(syscall.Stdin))) {
		return NewStandardConsole(nil, nil)
	}
	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyFile,
		HistoryLimit: 1000,
	})
	if err != nil {
		return nil, err
	}
	return &readlineConsole{rl: rl}, nil
}

type readlineConsole struct {
	rl *readline.Instance
}

func (c *readlineConsole) ReadLine(prompt string) (string, error) {
	c.rl.SetPrompt(prompt)
	return c.rl.Readline()
}

func (c *readlineConsole) ReadSecret(prompt string) (string, error) {
	secretBytes, err := c.rl.ReadPassword(prompt)
	return string(secretBytes), err
}

func (c *readlineConsole) Write(b []byte) (int, error) {
	return c.rl.Write(b)
}

func (c *readlineConsole) Close() error {
	return c.rl.Close()
}
