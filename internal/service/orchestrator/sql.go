package orchestrator

import (
	"context"
	"strings"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/internal/service/prompts"
	"github.com/fieldworks/matchbot/pkg/log"
)

// AnswerNotAvailable is the fixed fallback when the database branch cannot
// produce an answer: retry exhaustion, execution errors, empty results.
const AnswerNotAvailable = "Sorry, the answer is not available at the moment. Please try again later."

// errorTag marks an execution failure flowing into Respond as content
// rather than as a Go error, so the empty-result handling applies to it.
const errorTag = "ERROR:"

type step int

const (
	stepGenerate step = iota
	stepExecute
	stepTerminalError
)

// SQLPipeline drives the generate → check → execute loop for database
// questions. Generation and response synthesis use the reasoning model,
// validation uses the fast one; the validator's verdict gates execution
// and retries are bounded by maxAttempts.
type SQLPipeline struct {
	reasoning   core.Completer
	fast        core.Completer
	runner      core.SQLRunner
	maxAttempts int
}

func NewSQLPipeline(reasoning, fast core.Completer, runner core.SQLRunner, maxAttempts int) *SQLPipeline {
	return &SQLPipeline{
		reasoning:   reasoning,
		fast:        fast,
		runner:      runner,
		maxAttempts: maxAttempts,
	}
}

func (p *SQLPipeline) Answer(ctx context.Context, state *core.TurnState, history []core.StoredMessage) (string, error) {
	logger := log.FromCtx(ctx)

	tables, err := p.runner.ListTables(ctx)
	if err != nil {
		return "", err
	}
	schema, err := p.runner.Schema(ctx, tables)
	if err != nil {
		return "", err
	}
	state.SchemaText = schema

	state.RetryCount = 0
	for {
		verdict := p.generateAndCheck(ctx, state, history)

		switch p.shouldContinue(verdict, state) {
		case stepExecute:
			state.RetryCount = 0
			result := p.execute(ctx, state)
			return p.respond(ctx, state, result)
		case stepGenerate:
			logger.Debug().Int("retry", state.RetryCount).Msg("sql rejected, regenerating")
		case stepTerminalError:
			logger.Warn().Int("attempts", state.RetryCount).Msg("sql validation retries exhausted")
			return p.respond(ctx, state, "")
		}
	}
}

// generateAndCheck produces one SQL candidate and validates it. Any model
// failure counts as an INVALID verdict so it consumes a retry instead of
// aborting the turn.
func (p *SQLPipeline) generateAndCheck(ctx context.Context, state *core.TurnState, history []core.StoredMessage) core.Verdict {
	logger := log.FromCtx(ctx)

	sqlText, err := p.reasoning.Complete(ctx, prompts.GenerateSQL(p.runner.Dialect(), state.SchemaText, history, state.Question))
	if err != nil {
		logger.Warn().Err(err).Msg("sql generation failed")
		return core.VerdictInvalid
	}
	state.SQLQuery = strings.TrimSpace(sqlText)
	state.Append(core.Assistant(state.SQLQuery))

	if state.SQLQuery == "" {
		return core.VerdictInvalid
	}

	raw, err := p.fast.Complete(ctx, prompts.CheckSQL(p.runner.Dialect(), state.SchemaText, state.Question, state.SQLQuery))
	if err != nil {
		logger.Warn().Err(err).Msg("sql validation failed")
		return core.VerdictInvalid
	}
	return core.ParseVerdict(raw)
}

// shouldContinue is the total routing function of the loop: every verdict
// and retry count maps to exactly one next step.
func (p *SQLPipeline) shouldContinue(verdict core.Verdict, state *core.TurnState) step {
	if verdict == core.VerdictValid {
		return stepExecute
	}
	state.RetryCount++
	if state.RetryCount >= p.maxAttempts {
		return stepTerminalError
	}
	return stepGenerate
}

// execute runs the validated candidate. Failures become error-tagged
// content so Respond treats them like any other unusable result.
func (p *SQLPipeline) execute(ctx context.Context, state *core.TurnState) string {
	candidate := strings.ToUpper(strings.TrimSpace(state.SQLQuery))
	if candidate == "VALID" || candidate == "INVALID" {
		// A verdict token leaked into the SQL slot; never run it.
		log.FromCtx(ctx).Error().Str("sql", state.SQLQuery).Msg("verdict token in sql candidate, refusing to execute")
		return errorTag + " verdict token is not a query"
	}

	result, err := p.runner.ExecuteReadOnly(ctx, state.SQLQuery)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("sql", state.SQLQuery).Msg("sql execution failed")
		return errorTag + " " + err.Error()
	}
	return result
}

// respond turns the raw result into the final answer. Empty and
// error-tagged results skip the model and return the fixed fallback,
// there is no data to phrase an answer from.
func (p *SQLPipeline) respond(ctx context.Context, state *core.TurnState, result string) (string, error) {
	if strings.TrimSpace(result) == "" || strings.HasPrefix(result, errorTag) {
		return AnswerNotAvailable, nil
	}
	return p.reasoning.Complete(ctx, prompts.RespondWithResult(state.SQLQuery, result, state.Question))
}
