package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ContentRenderer turns a reply into what is printed on the terminal.
type ContentRenderer func(string) (string, error)

// Console commands. Anything else is sent to the flow.
const (
	cmdQuit  = "/salir"
	cmdReset = "/reset"
)

const consolePrompt = "> "

// Console is a line-oriented REPL driving a single identity.
type Console struct {
	dispatcher *Dispatcher
	identity   string

	in       io.Reader
	out      io.Writer
	renderer ContentRenderer
}

// ConsoleOption configures the Console.
type ConsoleOption func(*Console)

// WithInput sets the reader lines are read from (default os.Stdin).
func WithInput(r io.Reader) ConsoleOption {
	return func(c *Console) {
		c.in = r
	}
}

// WithOutput sets the writer replies are printed to (default os.Stdout).
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.out = w
	}
}

// WithRenderer renders every reply before printing it.
func WithRenderer(r ContentRenderer) ConsoleOption {
	return func(c *Console) {
		c.renderer = r
	}
}

// NewConsole creates a console that speaks for identity.
func NewConsole(d *Dispatcher, identity string, opts ...ConsoleOption) *Console {
	c := &Console{
		dispatcher: d,
		identity:   identity,
		in:         os.Stdin,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run prints the pending prompt of the identity and then relays lines until
// the input ends, the user types /salir, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	prompt, err := c.dispatcher.Prompt(ctx, c.identity)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	c.print(prompt)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, consolePrompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			done, err := c.handle(ctx, line)
			if err != nil || done {
				return err
			}
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case cmdQuit:
		return true, nil
	case cmdReset:
		if err := c.dispatcher.Reset(ctx, c.identity); err != nil {
			return false, err
		}
		prompt, err := c.dispatcher.Prompt(ctx, c.identity)
		if err != nil {
			return false, err
		}
		c.print(prompt)
		return false, nil
	}

	replies, err := c.dispatcher.Handle(ctx, Inbound{Identity: c.identity, Text: line})
	if err != nil {
		return false, err
	}
	for _, reply := range replies {
		c.print(reply)
	}
	return false, nil
}

func (c *Console) print(msg string) {
	if c.renderer != nil {
		if rendered, err := c.renderer(msg); err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, msg)
	fmt.Fprintln(c.out)
}
