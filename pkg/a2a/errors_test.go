package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessagefLeavesSentinelUntouched(t *testing.T) {
	custom := ErrTaskNotFound.WithMessagef("task %s missing", "abc")
	assert.Equal(t, "task abc missing", custom.Message)
	assert.Equal(t, "task not found", ErrTaskNotFound.Message)
	assert.Equal(t, ErrorCodeTaskNotFound, custom.Code)
}

func TestWithDataLeavesSentinelUntouched(t *testing.T) {
	custom := ErrInvalidParams.WithData(map[string]string{"field": "id"})
	assert.NotNil(t, custom.Data)
	assert.Nil(t, ErrInvalidParams.Data)
}

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = ErrInternal
	assert.Contains(t, err.Error(), "internal error")
	assert.Contains(t, err.Error(), "-32603")
}
