package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// ContentRenderer transforms markdown before it is printed (e.g. to ANSI).
type ContentRenderer func(string) (string, error)

// TextHandler prints assistant messages and reads user lines.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption configures a TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler over r and w, defaulting to stdio.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output prints assistant messages. Choice questions list their options;
// summaries go through the renderer.
func (h *TextHandler) Output(ctx context.Context, msgs []domain.Message) error {
	for _, msg := range msgs {
		if msg.Role != domain.RoleAssistant {
			continue
		}
		text := msg.Text
		if msg.Type == domain.MessageSummary && h.Renderer != nil {
			if rendered, err := h.Renderer(text); err == nil {
				text = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(text)); err != nil {
			return err
		}
		for i, opt := range msg.Options {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, opt)
		}
	}
	return nil
}

// Input prompts and waits for one line, or for ctx to end.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		fmt.Fprint(h.Writer, "> ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// SystemOutput prints a line that is not part of the dialogue.
func (h *TextHandler) SystemOutput(msg string) {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// resolveOption maps a numeric reply onto the option list of the last question.
func resolveOption(input string, options []string) string {
	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err != nil || fmt.Sprint(n) != input {
		return input
	}
	if n < 1 || n > len(options) {
		return input
	}
	return options[n-1]
}
