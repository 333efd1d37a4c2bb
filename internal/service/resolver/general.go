package resolver

import (
	"context"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/prompts"
)

// General handles greetings and out-of-domain questions with a short
// redirect toward tournament topics. Uses the fast model, the reply does
// not need reasoning depth.
type General struct {
	fast core.Completer
}

func NewGeneral(fast core.Completer) *General {
	return &General{fast: fast}
}

func (g *General) Answer(ctx context.Context, question string) (string, error) {
	return g.fast.Complete(ctx, prompts.AnswerGeneral(question))
}
