// Copyright (c) 2025 the conread authors
// released under the ISC license

//go:build minimal

package console

func NewConsole(enableReadline bool, historyFile string) (Console, error) {
	return NewStandardConsole(nil, nil)
}
