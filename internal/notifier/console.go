package notifier

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"BazaarWatch/internal/model"
)

// ConsoleNotifier is a line-oriented terminal Frontend. Typing a number picks
// an entry from the last suggestion list.
type ConsoleNotifier struct {
	In  io.Reader
	Out io.Writer

	policy *bluemonday.Policy
	mu     sync.Mutex
	last   []model.Suggestion
}

// NewConsoleNotifier creates a console front end over the given streams.
func NewConsoleNotifier(in io.Reader, out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		In:     in,
		Out:    out,
		policy: bluemonday.StrictPolicy(),
	}
}

func (c *ConsoleNotifier) Name() string { return "console" }

// plain strips markup from a formatted message.
func (c *ConsoleNotifier) plain(s string) string {
	return html.UnescapeString(c.policy.Sanitize(s))
}

func (c *ConsoleNotifier) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.Out, format, args...)
	return err
}

func (c *ConsoleNotifier) ShowStatus(_ context.Context, status model.Status) error {
	return c.printf("[%s] %s\n", status.Level, c.plain(status.Text))
}

func (c *ConsoleNotifier) ClearStatus(_ context.Context) error { return nil }

func (c *ConsoleNotifier) Show(_ context.Context, view model.View) error {
	c.mu.Lock()
	switch {
	case len(view.Suggestions) > 0:
		c.last = view.Suggestions
	case view.HideSuggestions:
		c.last = nil
	}
	c.mu.Unlock()

	var b strings.Builder
	if view.Text != "" {
		if view.Invalid {
			b.WriteString("! ")
		}
		b.WriteString(strings.TrimRight(c.plain(view.Text), "\n"))
		b.WriteString("\n")
	}
	for i, s := range view.Suggestions {
		b.WriteString(fmt.Sprintf("  %d) %s\n", i+1, s.Label))
	}
	if b.Len() == 0 {
		return nil
	}
	return c.printf("%s", b.String())
}

// resolve maps a bare suggestion number to its raw identifier.
func (c *ConsoleNotifier) resolve(line string) string {
	n, err := strconv.Atoi(line)
	if err != nil {
		return line
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.last) {
		return line
	}
	return c.last[n-1].ID
}

// Run reads lines until EOF, "/quit", or ctx cancellation.
func (c *ConsoleNotifier) Run(ctx context.Context, handler CommandHandler) error {
	scanner := bufio.NewScanner(c.In)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if err := c.Show(ctx, handler(c.resolve(line))); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return scanner.Err()
}
