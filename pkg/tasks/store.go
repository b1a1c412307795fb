// Package tasks implements the in-process task store (spec §4.2): a
// concurrency-safe TaskId -> Task map with status/artifact mutation
// operations. There is no persistence; a restart loses every task (spec §1
// Non-goals), and there is no cluster coordination — the store is a single
// mutex-guarded map, grounded on the shape of the teacher's
// pkg/stores/task_store.go.
package tasks

import (
	"sync"

	"github.com/lumenforge/a2a-go/pkg/a2a"
)

// Store is a concurrency-safe TaskId -> Task map. All mutations are
// serialized per-store; history mutations remain the caller's
// responsibility, per spec §4.2.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

// New constructs an empty Store.
func New() *Store {
	return &Store{tasks: make(map[string]*a2a.Task)}
}

// Add inserts a new task, overwriting any existing entry with the same ID.
func (s *Store) Add(task *a2a.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

// Get returns a snapshot copy of the task with the given id, or the zero
// Task and false if unknown. The copy has its own History and Artifacts
// slices; Metadata and Status.Message are still shared with the store.
func (s *Store) Get(id string) (a2a.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return a2a.Task{}, false
	}
	return cloneTask(*t), true
}

// UpdateStatus replaces the status of the task with the given id. Returns
// false (a silent no-op) if id is unknown — per spec §4.2, the caller must
// check the return value.
func (s *Store) UpdateStatus(id string, status a2a.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.Status = status
	return true
}

// UpdateArtifacts replaces the artifact list of the task with the given id.
// Returns false if id is unknown.
func (s *Store) UpdateArtifacts(id string, artifacts []a2a.Artifact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.Artifacts = artifacts
	return true
}

// AppendArtifact appends a single artifact to the task's artifact list,
// a convenience built atop the same replacement semantics UpdateArtifacts
// exposes.
func (s *Store) AppendArtifact(id string, artifact a2a.Artifact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.Artifacts = append(t.Artifacts, artifact)
	return true
}

// AppendHistory appends a message to the task's history. History mutation
// is the caller's responsibility per spec §4.2; this helper exists so the
// dispatcher doesn't need to reach past the store's mutex to do it safely.
func (s *Store) AppendHistory(id string, msg a2a.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.History = append(t.History, msg)
	return true
}

// SetPushNotificationConfig stores (without delivering, per Non-goals) a
// push notification config under the task's metadata.
func (s *Store) SetPushNotificationConfig(id string, cfg a2a.PushNotificationConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	t.Metadata["pushNotificationConfig"] = cfg
	return true
}

// GetPushNotificationConfig retrieves a previously-set config, or the zero
// value and false if none was ever set (or the task is unknown).
func (s *Store) GetPushNotificationConfig(id string) (a2a.PushNotificationConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return a2a.PushNotificationConfig{}, false
	}
	cfg, ok := t.Metadata["pushNotificationConfig"].(a2a.PushNotificationConfig)
	return cfg, ok
}

func cloneTask(t a2a.Task) a2a.Task {
	out := t
	if t.History != nil {
		out.History = append([]a2a.Message(nil), t.History...)
	}
	if t.Artifacts != nil {
		out.Artifacts = append([]a2a.Artifact(nil), t.Artifacts...)
	}
	return out
}
