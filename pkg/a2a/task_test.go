package a2a

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStateIsTerminal(t *testing.T) {
	terminal := []TaskState{TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}

	nonTerminal := []TaskState{TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired, TaskStateAuthRequired, TaskStateUnknown}
	for _, s := range nonTerminal {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

func TestNewTaskStatusStampsRFC3339UTC(t *testing.T) {
	status := NewTaskStatus(TaskStateWorking, nil)
	parsed, err := time.Parse(time.RFC3339, status.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, "UTC", parsed.Location().String())
}

func TestNewTaskSeedsSubmittedStateAndHistory(t *testing.T) {
	first := NewTextMessage("user", "m1", "hello")
	task := NewTask("t1", "c1", first)

	assert.Equal(t, TaskStateSubmitted, task.Status.State)
	require.Len(t, task.History, 1)
	assert.Equal(t, first, task.History[0])
	assert.Equal(t, "task", task.Kind)
}

func TestWithHistoryLimitZeroOrNegativeDropsHistory(t *testing.T) {
	task := Task{History: []Message{NewTextMessage("user", "1", "a"), NewTextMessage("user", "2", "b")}}

	assert.Nil(t, task.WithHistoryLimit(0).History)
	assert.Nil(t, task.WithHistoryLimit(-1).History)
}

func TestWithHistoryLimitTruncatesToLastN(t *testing.T) {
	task := Task{History: []Message{
		NewTextMessage("user", "1", "a"),
		NewTextMessage("user", "2", "b"),
		NewTextMessage("user", "3", "c"),
	}}

	out := task.WithHistoryLimit(2)
	require.Len(t, out.History, 2)
	assert.Equal(t, "b", out.History[0].Text())
	assert.Equal(t, "c", out.History[1].Text())
}

func TestWithHistoryLimitLargerThanHistoryKeepsAll(t *testing.T) {
	task := Task{History: []Message{NewTextMessage("user", "1", "a")}}
	out := task.WithHistoryLimit(10)
	require.Len(t, out.History, 1)
}
