package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// ErrNoInput is returned when stdin closes before a valid choice was read.
var ErrNoInput = errors.New("no input")

// selector reads choices from stdin, re-prompting on invalid input.
type selector struct {
	in  *bufio.Reader
	out io.Writer
}

func newSelector(in io.Reader, out io.Writer) *selector {
	return &selector{in: bufio.NewReader(in), out: out}
}

func (s *selector) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", noInput()
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func noInput() error {
	if f, ok := stdin.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("%w: stdin is not a terminal, pass the value as an argument", ErrNoInput)
	}
	return ErrNoInput
}

// Category prompts for a category by index or name.
func (s *selector) Category() (domain.Category, error) {
	all := domain.AllCategories()
	for {
		fmt.Fprintln(s.out, "Select a category:")
		for i, c := range all {
			fmt.Fprintf(s.out, "  %d. %s (%s)\n", i, c, c.Description())
		}
		fmt.Fprint(s.out, "Enter choice: ")

		input, err := s.readLine()
		if err != nil {
			return "", err
		}
		c, err := domain.ParseCategory(input)
		if err == nil {
			return c, nil
		}
		fmt.Fprintf(s.out, "Invalid choice %q, try again.\n", input)
	}
}

// Mode prompts for a mode by index or name.
func (s *selector) Mode() (domain.Mode, error) {
	all := domain.AllModes()
	for {
		fmt.Fprintln(s.out, "Select a mode:")
		for i, m := range all {
			fmt.Fprintf(s.out, "  %d. %s (%s)\n", i, m, m.Description())
		}
		fmt.Fprint(s.out, "Enter choice: ")

		input, err := s.readLine()
		if err != nil {
			return "", err
		}
		m, err := domain.ParseMode(input)
		if err == nil {
			return m, nil
		}
		fmt.Fprintf(s.out, "Invalid choice %q, try again.\n", input)
	}
}

// Term prompts for a non-empty search term.
func (s *selector) Term() (string, error) {
	for {
		fmt.Fprint(s.out, "Search term (GitHub user): ")
		input, err := s.readLine()
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		fmt.Fprintln(s.out, "Search term is required.")
	}
}

// resolveCategory parses arg, or prompts when it is empty.
func resolveCategory(s *selector, arg string) (domain.Category, error) {
	if arg == "" {
		return s.Category()
	}
	return domain.ParseCategory(arg)
}

// resolveMode parses arg, or prompts when it is empty.
func resolveMode(s *selector, arg string) (domain.Mode, error) {
	if arg == "" {
		return s.Mode()
	}
	return domain.ParseMode(arg)
}

// resolveTerm returns arg, or prompts when the category needs a term.
func resolveTerm(s *selector, category domain.Category, arg string) (string, error) {
	if category != domain.CategoryRepositories || strings.TrimSpace(arg) != "" {
		return strings.TrimSpace(arg), nil
	}
	return s.Term()
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
