package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	messages map[string][]core.StoredMessage
}

func newMemStore() *memStore {
	return &memStore{messages: map[string][]core.StoredMessage{}}
}

func (s *memStore) Append(_ context.Context, threadID, role, content string) error {
	s.messages[threadID] = append(s.messages[threadID], core.StoredMessage{Role: role, Content: content})
	return nil
}

func (s *memStore) LastN(_ context.Context, threadID string, n int) ([]core.StoredMessage, error) {
	all := s.messages[threadID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

type fixedClassifier struct {
	intent core.Intent
	err    error
}

func (f fixedClassifier) Classify(context.Context, []core.StoredMessage, string) (core.Intent, error) {
	return f.intent, f.err
}

type fakeHistoryAnswerer struct {
	answer      string
	calls       int
	lastHistory []core.StoredMessage
}

func (f *fakeHistoryAnswerer) Answer(_ context.Context, history []core.StoredMessage, _ string) (string, error) {
	f.calls++
	f.lastHistory = history
	return f.answer, nil
}

type fakeQuestionAnswerer struct {
	answer string
	calls  int
}

func (f *fakeQuestionAnswerer) Answer(context.Context, string) (string, error) {
	f.calls++
	return f.answer, nil
}

type engineFixture struct {
	engine  *Engine
	store   *memStore
	history *fakeHistoryAnswerer
	web     *fakeQuestionAnswerer
	general *fakeQuestionAnswerer
	runner  *fakeRunner
}

func newEngineFixture(intent core.Intent) *engineFixture {
	f := &engineFixture{
		store:   newMemStore(),
		history: &fakeHistoryAnswerer{answer: "from history"},
		web:     &fakeQuestionAnswerer{answer: "from website"},
		general: &fakeQuestionAnswerer{answer: "hello there"},
		runner:  &fakeRunner{tables: []string{"teams"}, execResult: "name\nPhoenix"},
	}
	sql := NewSQLPipeline(
		&fakeCompleter{script: []string{"SELECT name FROM teams", "Phoenix"}},
		&fakeCompleter{fixed: "VALID"},
		f.runner,
		2,
	)
	f.engine = NewEngine(f.store, fixedClassifier{intent: intent}, f.history, f.web, f.general, sql, 15)
	return f
}

func TestEngine_PersistsBothSides(t *testing.T) {
	f := newEngineFixture(core.IntentOutOfDomain)

	answer, err := f.engine.Run(context.Background(), "thread-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello there", answer)

	stored := f.store.messages["thread-1"]
	require.Len(t, stored, 2)
	assert.Equal(t, core.RoleUser, stored[0].Role)
	assert.Equal(t, "hello", stored[0].Content)
	assert.Equal(t, core.RoleAssistant, stored[1].Role)
	assert.Equal(t, "hello there", stored[1].Content)
}

func TestEngine_RoutesByIntent(t *testing.T) {
	tests := []struct {
		intent core.Intent
		want   string
	}{
		{core.IntentPreviousConversation, "from history"},
		{core.IntentWebContent, "from website"},
		{core.IntentDBQuery, "Phoenix"},
		{core.IntentOutOfDomain, "hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			f := newEngineFixture(tt.intent)

			answer, err := f.engine.Run(context.Background(), "thread-1", "question")
			require.NoError(t, err)
			assert.Equal(t, tt.want, answer)
		})
	}
}

func TestEngine_HistoryBranchTouchesNoDatabase(t *testing.T) {
	// "when is my next match" with no identity in history: the history
	// branch asks for the missing detail and no SQL is generated.
	f := newEngineFixture(core.IntentPreviousConversation)
	f.history.answer = "Which team do you play for?"

	answer, err := f.engine.Run(context.Background(), "thread-1", "when is my next match")
	require.NoError(t, err)
	assert.Equal(t, "Which team do you play for?", answer)
	assert.Zero(t, f.runner.execCalls)
	assert.Equal(t, 1, f.history.calls)
}

func TestEngine_WebBranchTouchesNoDatabase(t *testing.T) {
	f := newEngineFixture(core.IntentWebContent)

	_, err := f.engine.Run(context.Background(), "thread-1", "who won the football tournament")
	require.NoError(t, err)
	assert.Equal(t, 1, f.web.calls)
	assert.Zero(t, f.runner.execCalls)
}

func TestEngine_ClassificationErrorFailsTurn(t *testing.T) {
	f := newEngineFixture(core.IntentOutOfDomain)
	f.engine.classifier = fixedClassifier{err: errors.New("model down")}

	_, err := f.engine.Run(context.Background(), "thread-1", "question")
	require.Error(t, err)

	stored := f.store.messages["thread-1"]
	require.Len(t, stored, 1, "the question is stored, no answer is")
	assert.Equal(t, core.RoleUser, stored[0].Role)
}

func TestEngine_HistoryWindowIncludesCurrentQuestion(t *testing.T) {
	f := newEngineFixture(core.IntentPreviousConversation)
	ctx := context.Background()

	require.NoError(t, f.store.Append(ctx, "thread-1", core.RoleUser, "earlier question"))
	require.NoError(t, f.store.Append(ctx, "thread-1", core.RoleAssistant, "earlier answer"))

	_, err := f.engine.Run(ctx, "thread-1", "and what did I ask before?")
	require.NoError(t, err)

	require.Len(t, f.history.lastHistory, 3)
	assert.Equal(t, "and what did I ask before?", f.history.lastHistory[2].Content)
}
