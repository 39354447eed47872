// Package task defines the task record exposed by the store and the API.
package task

import "strings"

// Task is a single to-do item. ID is assigned by the store and never reused.
type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"task"`
}

// Normalize trims surrounding whitespace from task text.
// Update applies it before both the emptiness check and the stored value.
func Normalize(text string) string {
	return strings.TrimSpace(text)
}

// SampleTasks are the rows written by `taskbox db init --seed`.
var SampleTasks = []string{
	"Buy groceries",
	"Write documentation",
	"Review pull requests",
}
