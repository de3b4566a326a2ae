package interactive

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// Confirmer asks yes/no questions on the terminal
type Confirmer struct {
	prompt func(label string) (string, error)
}

// NewConfirmer creates a new terminal confirmer
func NewConfirmer() *Confirmer {
	return &Confirmer{prompt: func(label string) (string, error) {
		p := promptui.Prompt{Label: label, IsConfirm: true}
		return p.Run()
	}}
}

// Confirm returns false when the user answers no. Interrupts are errors.
func (c *Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := c.prompt(message)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, usecase.ErrCancelled
	default:
		return false, err
	}
}

var _ usecase.Confirmer = (*Confirmer)(nil)
