package ui

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(label string) (bool, error)
}

// Prompter asks the user for a line of text. ok is false when the user
// cancelled.
type Prompter interface {
	Prompt(label, defaultValue string) (value string, ok bool, err error)
}

// Revealer expands a section in the UI and scrolls it into view.
type Revealer interface {
	Reveal(title string)
}

// Terminal implements Confirmer and Prompter with promptui.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (t Terminal) Confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}
	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, nil
	}
	return false, err
}

func (t Terminal) Prompt(label, defaultValue string) (string, bool, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
		Stdin:     t.Stdin,
		Stdout:    t.Stdout,
	}
	value, err := p.Run()
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF), errors.Is(err, promptui.ErrAbort):
		return "", false, nil
	}
	return "", false, err
}

// Auto answers every question without user interaction. It backs --yes
// flags and tests.
type Auto struct {
	Answer bool
	// Value is returned by Prompt; empty means use the default.
	Value string
}

func (a Auto) Confirm(string) (bool, error) { return a.Answer, nil }

func (a Auto) Prompt(_ string, defaultValue string) (string, bool, error) {
	if a.Value != "" {
		return a.Value, true, nil
	}
	return defaultValue, true, nil
}

// RevealFunc adapts a function to Revealer.
type RevealFunc func(title string)

func (f RevealFunc) Reveal(title string) { f(title) }
