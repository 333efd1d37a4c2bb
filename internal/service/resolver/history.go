// Package resolver implements the two non-SQL answer paths: answering
// from the stored conversation and answering from cached website pages.
package resolver

import (
	"context"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/prompts"
)

// History answers questions that refer back to the conversation itself.
// It never performs lookups; if the history does not identify the user or
// contain the fact, the model is instructed to ask for the missing detail.
type History struct {
	reasoning core.Completer
}

func NewHistory(reasoning core.Completer) *History {
	return &History{reasoning: reasoning}
}

func (h *History) Answer(ctx context.Context, history []core.StoredMessage, question string) (string, error) {
	return h.reasoning.Complete(ctx, prompts.AnswerFromHistory(window(history), question))
}

// window trims the supplied history the same way classification does: the
// last entry is the current question and is passed separately.
func window(history []core.StoredMessage) []core.StoredMessage {
	if len(history) == 0 {
		return nil
	}
	return history[:len(history)-1]
}
