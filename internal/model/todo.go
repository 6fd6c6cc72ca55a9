package model

import "time"

// Todo status actions accepted by POST /todos/{id}.
const (
	ActionDone   = "DONE"
	ActionUndone = "UNDONE"
)

// Todo is a single entry of the remote todo collection. IDs are assigned
// by the server.
type Todo struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	IsDone    bool      `json:"isDone"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToggleAction returns the action that flips the todo's current state.
func (t Todo) ToggleAction() string {
	if t.IsDone {
		return ActionUndone
	}
	return ActionDone
}
