package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// IOHandler abstracts how the console talks to the user.
type IOHandler interface {
	// Output prints a block of text.
	Output(ctx context.Context, text string) error

	// Input shows prompt and reads one sanitized line.
	// It returns io.EOF when the input is exhausted.
	Input(ctx context.Context, prompt string) (string, error)
}

// TextHandler implements IOHandler over plain reader/writer streams.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

var _ IOHandler = (*TextHandler)(nil)

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
}

// initPump starts a single reader goroutine so that Input can honour ctx cancellation
// while a line is being typed.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(text, "\n"))
	return err
}

func (h *TextHandler) Input(ctx context.Context, prompt string) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, prompt)
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
			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
