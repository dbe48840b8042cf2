package prompt

import (
	"context"
	"fmt"
	"io"
)

// Script is a Driver that replays canned answers, for tests and
// non-interactive runs. Selects consume Choices by option label; confirms
// consume Answers. Running out of input aborts.
type Script struct {
	Choices []string
	Answers []bool
	Out     io.Writer
}

var _ Driver = (*Script)(nil)

func (s *Script) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if len(s.Choices) == 0 {
		return -1, ErrAborted
	}
	choice := s.Choices[0]
	s.Choices = s.Choices[1:]
	idx := IndexOf(cfg.Options, choice)
	if idx < 0 {
		return -1, fmt.Errorf("prompt: %q is not one of %v", choice, cfg.Options)
	}
	return idx, nil
}

func (s *Script) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(s.Answers) == 0 {
		return false, ErrAborted
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

func (s *Script) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Out == nil {
		return nil
	}
	_, err := fmt.Fprintln(s.Out, msg)
	return err
}
