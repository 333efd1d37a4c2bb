// Package orchestrator sequences one question → answer turn: history
// load, intent classification and the branch that produces the reply.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/pkg/log"
)

// Classifier routes a question to one of the four answer branches.
type Classifier interface {
	Classify(ctx context.Context, history []core.StoredMessage, question string) (core.Intent, error)
}

// HistoryAnswerer answers from stored conversation only.
type HistoryAnswerer interface {
	Answer(ctx context.Context, history []core.StoredMessage, question string) (string, error)
}

// QuestionAnswerer answers from the question alone. Both the website
// branch and the out-of-domain branch have this shape.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Engine is the per-turn pipeline. Stages run strictly sequentially
// within a turn; concurrency only exists across turns, each with its own
// TurnState.
type Engine struct {
	store      core.ConversationStore
	classifier Classifier
	history    HistoryAnswerer
	web        QuestionAnswerer
	general    QuestionAnswerer
	sql        *SQLPipeline
	windowSize int
}

func NewEngine(
	store core.ConversationStore,
	classifier Classifier,
	history HistoryAnswerer,
	web QuestionAnswerer,
	general QuestionAnswerer,
	sql *SQLPipeline,
	windowSize int,
) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		history:    history,
		web:        web,
		general:    general,
		sql:        sql,
		windowSize: windowSize,
	}
}

// Run processes one turn and returns the final answer. Both sides of the
// exchange are persisted, so the next turn's history includes this one.
func (e *Engine) Run(ctx context.Context, threadID, question string) (string, error) {
	started := time.Now()
	logger := log.FromCtx(ctx)

	if err := e.store.Append(ctx, threadID, core.RoleUser, question); err != nil {
		return "", fmt.Errorf("failed to store question: %w", err)
	}

	history, err := e.store.LastN(ctx, threadID, e.windowSize)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	intent, err := e.classifier.Classify(ctx, history, question)
	if err != nil {
		return "", fmt.Errorf("classification failed: %w", err)
	}

	state := core.NewTurnState(threadID, question)
	answer, err := e.answer(ctx, state, intent, history)
	if err != nil {
		return "", err
	}

	if err := e.store.Append(ctx, threadID, core.RoleAssistant, answer); err != nil {
		return "", fmt.Errorf("failed to store answer: %w", err)
	}

	logger.Info().
		Str("thread", threadID).
		Stringer("intent", intent).
		Dur("took", time.Since(started)).
		Msg("turn completed")
	return answer, nil
}

func (e *Engine) answer(ctx context.Context, state *core.TurnState, intent core.Intent, history []core.StoredMessage) (string, error) {
	switch intent {
	case core.IntentPreviousConversation:
		return e.history.Answer(ctx, history, state.Question)
	case core.IntentWebContent:
		return e.web.Answer(ctx, state.Question)
	case core.IntentDBQuery:
		return e.sql.Answer(ctx, state, history)
	default:
		return e.general.Answer(ctx, state.Question)
	}
}
