package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/prompts"
	"github.com/fieldworks/matchbot/pkg/log"
)

// greetingPattern matches a message that is nothing but a greeting,
// optionally with trailing punctuation. Anchored on both ends so a real
// question that happens to start with "hello" still reaches the model.
var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hii+|hey|hello|hola|ciao|yo|good\s+(morning|afternoon|evening))\s*[.!?]*\s*$`)

// Router decides which branch answers the current message. A regex fast
// path short-circuits bare greetings; everything else goes through the
// fast completion model.
type Router struct {
	fast core.Completer
}

func NewRouter(fast core.Completer) *Router {
	return &Router{fast: fast}
}

func (r *Router) Classify(ctx context.Context, history []core.StoredMessage, question string) (core.Intent, error) {
	if greetingPattern.MatchString(question) {
		log.FromCtx(ctx).Debug().Msg("greeting fast path, skipping classification call")
		return core.IntentOutOfDomain, nil
	}

	label, err := r.fast.Complete(ctx, prompts.ClassifyIntent(contextWindow(history), question))
	if err != nil {
		return core.IntentOutOfDomain, err
	}

	intent := core.ParseIntent(label)
	log.FromCtx(ctx).Debug().
		Str("label", strings.TrimSpace(label)).
		Stringer("intent", intent).
		Msg("classified question")
	return intent, nil
}

// contextWindow drops the first and last entries of the history window.
// The last entry is the current question, already present in the request;
// the first is dropped to keep the window symmetric with it.
func contextWindow(history []core.StoredMessage) []core.StoredMessage {
	if len(history) <= 2 {
		return nil
	}
	return history[1 : len(history)-1]
}
