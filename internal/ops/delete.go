package ops

import (
	"context"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID int64
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Delete permanently removes a task. Deleting an id that is already gone
// fails with NOT_FOUND; a repeated delete is not a silent success.
func Delete(ctx context.Context, store TaskStore, input DeleteInput) (*DeleteOutput, error) {
	if err := store.DeleteTask(ctx, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      input.ID,
		Message: MsgTaskDeleted,
	}, nil
}
