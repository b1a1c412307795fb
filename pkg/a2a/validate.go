package a2a

import (
	"fmt"

	"github.com/cohesivestack/valgo"
	"github.com/go-playground/validator/v10"
)

// dtoValidator checks struct tags (`validate:"required"` etc.) on inbound
// JSON-RPC parameter DTOs before they reach an adapter, grounded on
// sammcj-go-a2a's dependency on the same library for its wire-model DTOs.
var dtoValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateParams runs struct-tag validation over an already-decoded params
// DTO (MessageSendParams, TaskQueryParams, TaskIDParams, ...). A non-nil
// error should be surfaced by the caller as ErrInvalidParams.
func ValidateParams(params any) error {
	return dtoValidator.Struct(params)
}

// ValidateTask checks the domain-level invariants a Task must satisfy
// before it is inserted into the store, grounded on the teacher's
// Task.Validate() (pkg/a2a/task.go, using the same valgo library).
func ValidateTask(t *Task) error {
	v := valgo.Is(
		valgo.String(t.ID, "id").Not().Blank(),
		valgo.String(t.ContextID, "contextId").Not().Blank(),
		valgo.String(string(t.Status.State), "status.state").Not().Blank(),
	)
	if !v.Valid() {
		return fmt.Errorf("a2a: task failed validation: %v", v.Errors())
	}
	return nil
}
