package scanner

import (
	"context"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// ConsoleSource is an interactive prompt for bench testing without a
// scanner attached. Every entered line is treated as a scan.
type ConsoleSource struct {
	rl *readline.Instance
}

func NewConsoleSource() (*ConsoleSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "scan> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &ConsoleSource{rl: rl}, nil
}

// Stdout coordinates output with the prompt.
func (s *ConsoleSource) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Next blocks on the terminal; ctx is only checked between lines. Close
// the source to unblock a pending read.
func (s *ConsoleSource) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		l, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return "", io.EOF
		}
		return l, nil
	}
}

func (s *ConsoleSource) Close() error {
	return s.rl.Close()
}
