// Package prompt asks the user to confirm or choose between options.
//
// Every question carries a default, so the same call sites serve both
// interactive runs (Terminal) and --no-interactive runs (Defaults).
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user aborts a prompt. Callers treat
// it as a clean exit with nothing written.
var ErrCancelled = errors.New("cancelled")

// Option is one choice in a menu.
type Option struct {
	Value string
	Label string
}

// Prompter asks questions.
type Prompter interface {
	Confirm(question string, def bool) (bool, error)
	Select(question string, options []Option, def string) (string, error)
	Input(question, def string) (string, error)
}

// Terminal prompts with numbered menus on a line-oriented reader and
// writer. Entering "q" or closing the input cancels.
type Terminal struct {
	r *bufio.Reader
	w io.Writer
}

// NewTerminal returns a Terminal reading answers from r and writing
// questions to w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{r: bufio.NewReader(r), w: w}
}

// Confirm asks a yes/no question. An empty answer selects def.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.w, "%s [%s]: ", question, hint)
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes", "o", "oui":
			return true, nil
		case "n", "no", "non":
			return false, nil
		}
		fmt.Fprintln(t.w, "Please answer y or n.")
	}
}

// Select presents options as a numbered list and returns the chosen
// value. An empty answer selects def.
func (t *Terminal) Select(question string, options []Option, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}
	defIdx := slices.IndexFunc(options, func(o Option) bool { return o.Value == def })

	fmt.Fprintf(t.w, "\n%s\n", question)
	for i, o := range options {
		marker := " "
		if i == defIdx {
			marker = "*"
		}
		fmt.Fprintf(t.w, " %s%d) %s\n", marker, i+1, o.Label)
	}
	for {
		if defIdx >= 0 {
			fmt.Fprintf(t.w, "Enter number [1-%d] (default %d): ", len(options), defIdx+1)
		} else {
			fmt.Fprintf(t.w, "Enter number [1-%d]: ", len(options))
		}
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		if line == "" && defIdx >= 0 {
			return options[defIdx].Value, nil
		}
		num, err := strconv.Atoi(line)
		if err == nil && num >= 1 && num <= len(options) {
			return options[num-1].Value, nil
		}
		// Accept the value itself as well as its number.
		if i := slices.IndexFunc(options, func(o Option) bool { return o.Value == line }); i >= 0 {
			return options[i].Value, nil
		}
		fmt.Fprintf(t.w, "Invalid selection %q: choose 1-%d.\n", line, len(options))
	}
}

// Input asks for free text. An empty answer selects def.
func (t *Terminal) Input(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.w, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(t.w, "%s: ", question)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "q") {
		return "", ErrCancelled
	}
	return line, nil
}

// Defaults answers every question with its default without asking.
type Defaults struct{}

func (Defaults) Confirm(_ string, def bool) (bool, error) { return def, nil }

func (Defaults) Select(question string, options []Option, def string) (string, error) {
	if def != "" {
		return def, nil
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}
	return options[0].Value, nil
}

func (Defaults) Input(_ string, def string) (string, error) { return def, nil }
