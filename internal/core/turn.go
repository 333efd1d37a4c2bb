package core

// TurnState is the shared state threaded through the pipeline for one
// turn. Stages append messages and never mutate earlier ones; the last
// message is the authoritative input of the next stage. RetryCount and
// SQLQuery exist only for the duration of a DB_QUERY turn.
type TurnState struct {
	ThreadID   string
	Question   string
	Messages   []Message
	RetryCount int
	SQLQuery   string
	SchemaText string
}

func NewTurnState(threadID, question string) *TurnState {
	return &TurnState{
		ThreadID: threadID,
		Question: question,
		Messages: []Message{User(question)},
	}
}

func (t *TurnState) Append(msg Message) {
	t.Messages = append(t.Messages, msg)
}

// Last returns the most recently appended message. The pipeline never
// runs a stage on an empty state, but guard anyway.
func (t *TurnState) Last() Message {
	if len(t.Messages) == 0 {
		return Message{}
	}
	return t.Messages[len(t.Messages)-1]
}
