package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pseudo/internal/prompt"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	asked    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("unexpected input prompt")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(out); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.selects) == 0 {
		return -1, errors.New("unexpected select prompt")
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func TestComplete_AsksForMissingValues(t *testing.T) {
	d := &scriptedDriver{
		inputs:   []string{" tree.yaml ", "Copyright ACME"},
		selects:  []int{1},
		confirms: []bool{true},
	}

	got, err := prompt.Complete(context.Background(), d, prompt.Settings{}, []string{"cpp", "mini"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	want := prompt.Settings{Input: "tree.yaml", Target: "mini", Header: "Copyright ACME", Banner: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestComplete_KeepsGivenValues(t *testing.T) {
	d := &scriptedDriver{}
	given := prompt.Settings{Input: "a.yaml", Target: "cpp", Header: "h", Banner: true}

	got, err := prompt.Complete(context.Background(), d, given, []string{"cpp"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if diff := cmp.Diff(given, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	if len(d.asked) != 0 {
		t.Fatalf("unexpected prompts: %v", d.asked)
	}
}

func TestComplete_Errors(t *testing.T) {
	if _, err := prompt.Complete(context.Background(), nil, prompt.Settings{}, nil); err == nil {
		t.Fatalf("expected error for nil driver")
	}

	d := &scriptedDriver{inputs: []string{"  "}}
	if _, err := prompt.Complete(context.Background(), d, prompt.Settings{}, nil); err == nil {
		t.Fatalf("expected validation error for blank input")
	}

	d = &scriptedDriver{selects: []int{-1}}
	if _, err := prompt.Complete(context.Background(), d, prompt.Settings{Input: "a.yaml"}, []string{"cpp"}); err == nil {
		t.Fatalf("expected error for empty selection")
	}
}

func TestConfirmOverwrite(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "out.cpp")

	ok, err := prompt.ConfirmOverwrite(context.Background(), nil, missing)
	if err != nil || !ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(missing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := &scriptedDriver{confirms: []bool{false}}
	ok, err = prompt.ConfirmOverwrite(context.Background(), d, missing)
	if err != nil || ok {
		t.Fatalf("existing file: ok=%v err=%v", ok, err)
	}
}
