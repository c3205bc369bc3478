// Package console holds the interactive input side of the query loop: line
// readers for terminals and pipes, and the prompt that offers to store results.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// LineReader prints a prompt and reads one line of input.
// End of input is reported as io.EOF.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ReaderConfig configures NewLineReader
type ReaderConfig struct {
	HistoryFile string
	// ForcePlain disables line editing even on a terminal
	ForcePlain bool
}

// NewLineReader returns a readline backed reader when in is a terminal, and a
// plain buffered reader otherwise.
func NewLineReader(in io.Reader, out io.Writer, cfg ReaderConfig) (LineReader, error) {
	if f, ok := in.(*os.File); ok && !cfg.ForcePlain && readline.IsTerminal(int(f.Fd())) {
		return NewReadlineReader(out, cfg.HistoryFile)
	}
	return NewPlainReader(in, out), nil
}

// PlainReader reads newline terminated lines from any io.Reader
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader creates a PlainReader
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements LineReader. A final line without a newline is still returned.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)

	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close implements LineReader
func (r *PlainReader) Close() error {
	return nil
}

// ReadlineReader adds line editing and history on a terminal
type ReadlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader creates a ReadlineReader writing prompts to out
func NewReadlineReader(out io.Writer, historyFile string) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	logger.Debug().Str("history", historyFile).Msg("Line editing enabled")
	return &ReadlineReader{rl: rl}, nil
}

// ReadLine implements LineReader. Ctrl-C on an empty line ends input,
// Ctrl-C with text discards the line and prompts again.
func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				return "", io.EOF
			}
			continue
		}
		if err != nil {
			return "", err
		}
		return line, nil
	}
}

// Close implements LineReader
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}
