// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrMismatch is returned by ReadTerminal when the confirmation entry
// differs from the first entry.
var ErrMismatch = errors.New("secret: entries do not match")

// ReadFromPath reads a password from a file, or the first line of
// stdin if path is "-". Surrounding whitespace is trimmed; an empty
// result is an error. The caller must Close the returned Buffer.
func ReadFromPath(path string) (*Buffer, error) {
	if path == "-" {
		return ReadLine(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer Zero(data)
	return NewTrimmed(data)
}

// ReadLine reads the first line of reader into a Buffer, trimmed like
// ReadFromPath. It may consume input past the first line.
func ReadLine(reader io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading password line: %w", err)
		}
		return nil, fmt.Errorf("input is empty")
	}
	line := scanner.Bytes()
	defer Zero(line)
	return NewTrimmed(line)
}

// NewTrimmed copies data with surrounding whitespace removed into a
// Buffer. An empty result is an error. The caller zeroes data.
func NewTrimmed(data []byte) (*Buffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}
	return NewFromBytes(trimmed)
}

// ReadTerminal prompts on prompt and reads a line from the terminal
// fd with echo disabled. When confirm is non-empty the user is asked a
// second time and ErrMismatch is returned if the entries differ.
func ReadTerminal(fd int, prompt io.Writer, label, confirm string) (*Buffer, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("password prompt requires a terminal (use --password or --password-file)")
	}

	first, err := readNoEcho(fd, prompt, label)
	if err != nil {
		return nil, err
	}
	if confirm == "" {
		return first, nil
	}

	second, err := readNoEcho(fd, prompt, confirm)
	if err != nil {
		first.Close()
		return nil, err
	}
	defer second.Close()

	if !first.Equal(second) {
		first.Close()
		return nil, ErrMismatch
	}
	return first, nil
}

func readNoEcho(fd int, prompt io.Writer, label string) (*Buffer, error) {
	fmt.Fprintf(prompt, "%s: ", label)
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf("password is empty")
	}
	return NewFromBytes(line)
}
