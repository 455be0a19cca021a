package cli

import (
	"context"
	"errors"
	"todoTracker/internal/confirm"

	"github.com/charmbracelet/huh"
)

// HuhAsker спрашивает подтверждение в терминале
type HuhAsker struct{}

var _ confirm.Asker = HuhAsker{}

func (HuhAsker) Ask(ctx context.Context, question string) (bool, error) {
	var yes bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Да").
			Negative("Нет").
			Value(&yes),
	))

	if err := form.RunWithContext(ctx); err != nil {
		// Ctrl+C в форме считаем ответом "нет"
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return yes, nil
}
