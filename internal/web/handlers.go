package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/logger"
	"github.com/hpungsan/taskbox/internal/ops"
)

// maxBodyBytes caps request bodies; a task is one line of text.
const maxBodyBytes = 1 << 20

// Handlers contains HTTP route handlers for the task API.
type Handlers struct {
	store ops.TaskStore
	log   logger.Logger
}

// taskBody is the request body of POST and PUT. A nil Task means the field
// was absent (or null).
type taskBody struct {
	Task *string `json:"task"`
}

// HandleList handles GET /tasks.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := ops.List(r.Context(), h.store)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, tasks)
}

// HandleAdd handles POST /tasks.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	out, err := ops.Add(r.Context(), h.store, ops.AddInput{Task: body.Task})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	h.log.Debug("added task %d", out.ID)
	renderJSON(w, http.StatusCreated, messageResponse{Message: out.Message})
}

// HandleUpdate handles PUT /tasks/{id}.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	out, err := ops.Update(r.Context(), h.store, ops.UpdateInput{ID: id, Task: body.Task})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, messageResponse{Message: out.Message})
}

// HandleDelete handles DELETE /tasks/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}

	out, err := ops.Delete(r.Context(), h.store, ops.DeleteInput{ID: id})
	if err != nil {
		renderError(w, r, h.log, err)
		return
	}
	renderJSON(w, http.StatusOK, messageResponse{Message: out.Message})
}

// pathID parses {id}. Anything but a base-10 integer does not name a task.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		notFound := errors.NewTaskNotFound(0)
		notFound.Details = map[string]any{"id": raw}
		return 0, notFound
	}
	return id, nil
}

// decodeBody reads a JSON object body. An empty body decodes to an empty
// object so the handler reports the missing field.
func decodeBody(w http.ResponseWriter, r *http.Request) (*taskBody, error) {
	var body taskBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if err == io.EOF {
			return &body, nil
		}
		return nil, errors.NewInvalidRequest("Invalid JSON body")
	}
	return &body, nil
}
