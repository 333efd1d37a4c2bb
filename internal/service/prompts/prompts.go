// Package prompts holds the system prompts for every LLM call the bot
// makes. Classification and validation prompts pin the model to a closed
// output vocabulary; the parsing side of that contract lives in core.
package prompts

import (
	"fmt"
	"strings"

	"github.com/fieldworks/matchbot/internal/core"
)

const classifyIntent = `You are the routing step of a tournament Q&A assistant.
Classify the user's latest question into exactly one of these labels:

PREVIOUS_CONVERSATION - the question refers back to something already said in this conversation (e.g. "what did you just tell me?", "and the second one?").
WEB_CONTENT - the question is about tournament information published on the website: schedule, fixtures, winners, standings, sponsors, partners, organizers, contact details.
DB_QUERY - the question needs live tournament data: teams, players, matches, scores, results, group tables.
OUT_OF_DOMAIN - greetings, small talk, or anything unrelated to the tournament.

Answer with the label only. No explanation, no punctuation.`

const answerGeneral = `You are a friendly assistant for a sports tournament.
The user's question is out of scope: it is a greeting, small talk, or not about the tournament.
Reply briefly and politely, and steer the user toward tournament topics you can help with: schedule, results, teams, standings, sponsors and contact details.
Do not invent tournament facts.`

const answerFromHistory = `You are a tournament Q&A assistant.
Answer the user's question using only the earlier conversation provided below.
If the question is about the user personally (their team, their next match, their results) and the conversation does not say who they are, do not guess: ask them for the missing detail, for example which team they play for.
For anything else the conversation does not cover, say you do not have that information.

Conversation so far:
%s`

const answerFromPage = `You are a tournament Q&A assistant.
Answer the user's question using only the page content below.
If the content does not contain the answer, reply exactly:
I do not have sufficient information to answer this question.

Page content:
%s`

const generateSQL = `You are an expert %s engineer writing a query for a tournament database.

Database schema:
%s

Write one %s SELECT statement that answers the user's question.
Team, player and discipline names in the question may be misspelled or partial; match them tolerantly (LIKE with wildcards, case-insensitive).
Rules:
- output the SQL statement only, no markdown fences, no commentary
- a single SELECT statement, nothing that modifies data
- limit results to what the question asks for`

const checkSQL = `You are a strict %s reviewer.

Database schema:
%s

Decide whether the following query is a single valid read-only SELECT statement against this schema that plausibly answers the user's question.
Answer with exactly one word:
VALID - the query is well-formed, read-only and uses only tables and columns from the schema.
INVALID - anything else.`

const respondWithResult = `You are a tournament Q&A assistant.
A database query was run for the user's question. Turn the raw result below into a short, friendly answer.
Do not mention SQL, queries or databases. Do not add facts that are not in the result.

Query used:
%s

Query result:
%s`

// ClassifyIntent builds the fast-model classification request: the routing
// instructions, a window of recent history and the question itself.
func ClassifyIntent(history []core.StoredMessage, question string) []core.Message {
	messages := []core.Message{core.System(classifyIntent)}
	if len(history) > 0 {
		messages = append(messages, core.System("Recent conversation:\n"+RenderHistory(history)))
	}
	return append(messages, core.User(question))
}

func AnswerGeneral(question string) []core.Message {
	return []core.Message{core.System(answerGeneral), core.User(question)}
}

func AnswerFromHistory(history []core.StoredMessage, question string) []core.Message {
	return []core.Message{
		core.System(fmt.Sprintf(answerFromHistory, RenderHistory(history))),
		core.User(question),
	}
}

func AnswerFromPage(pageText, question string) []core.Message {
	return []core.Message{
		core.System(fmt.Sprintf(answerFromPage, pageText)),
		core.User(question),
	}
}

func GenerateSQL(dialect, schema string, history []core.StoredMessage, question string) []core.Message {
	messages := []core.Message{core.System(fmt.Sprintf(generateSQL, dialect, schema, dialect))}
	if len(history) > 0 {
		messages = append(messages, core.System("Recent conversation, for resolving references like \"my team\":\n"+RenderHistory(history)))
	}
	return append(messages, core.User(question))
}

func CheckSQL(dialect, schema, question, query string) []core.Message {
	return []core.Message{
		core.System(fmt.Sprintf(checkSQL, dialect, schema)),
		core.User(fmt.Sprintf("Question: %s\n\nQuery:\n%s", question, query)),
	}
}

func RespondWithResult(query, result, question string) []core.Message {
	return []core.Message{
		core.System(fmt.Sprintf(respondWithResult, query, result)),
		core.User(question),
	}
}

// RenderHistory flattens stored messages into a plain "role: content"
// transcript for embedding in a prompt.
func RenderHistory(history []core.StoredMessage) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
