package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Settings are the CLI inputs a session can fill in.
type Settings struct {
	Input  string
	Target string
	Output string
	Header string
	Banner bool
}

// Complete asks for every setting that is still empty. targets lists the
// selectable backends; the current Target, when set, is kept.
func Complete(ctx context.Context, d Driver, s Settings, targets []string) (Settings, error) {
	if d == nil {
		return s, errors.New("prompt: driver is required")
	}

	if strings.TrimSpace(s.Input) == "" {
		input, err := d.Input(ctx, InputConfig{
			Message:   "Tree document (path or URL):",
			Help:      "YAML or JSON pseudo tree with a module root.",
			Validator: requireValue("input"),
		})
		if err != nil {
			return s, err
		}
		s.Input = strings.TrimSpace(input)
	}

	if s.Target == "" && len(targets) > 0 {
		idx, err := d.Select(ctx, SelectConfig{
			Message: "Target language:",
			Options: targets,
		})
		if err != nil {
			return s, err
		}
		if idx < 0 || idx >= len(targets) {
			return s, fmt.Errorf("prompt: no target selected")
		}
		s.Target = targets[idx]
	}

	if s.Header == "" {
		header, err := d.Input(ctx, InputConfig{
			Message: "Header comment (empty for none):",
		})
		if err != nil {
			return s, err
		}
		s.Header = strings.TrimSpace(header)
	}

	if !s.Banner {
		banner, err := d.Confirm(ctx, ConfirmConfig{
			Message: "Add a generated-code banner?",
			Default: true,
		})
		if err != nil {
			return s, err
		}
		s.Banner = banner
	}
	return s, nil
}

// ConfirmOverwrite asks before replacing an existing file. Missing files need
// no confirmation.
func ConfirmOverwrite(ctx context.Context, d Driver, path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	if d == nil {
		return false, errors.New("prompt: driver is required")
	}
	return d.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s exists. Overwrite?", path),
	})
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
