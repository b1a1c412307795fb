package skill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/lumenforge/a2a-go/pkg/logging"
)

// SkillLoader discovers SKILL.md directories under Root, parses them on
// demand, and tracks which skills are currently activated. LoadSkill, Skill
// and Activate all return the full Skill, Body included; activation only
// records which skills are in the active set.
type SkillLoader struct {
	root   string
	parser *SkillParser

	mu         sync.RWMutex
	skills     map[string]*Skill
	activated  map[string]struct{}
	onActivate func(*Skill)

	watcher *fsnotify.Watcher
}

// NewSkillLoader constructs a loader rooted at root. Skill only sees what
// LoadAll or LoadSkill has cached; Activate loads on demand.
func NewSkillLoader(root string) *SkillLoader {
	return &SkillLoader{
		root:      root,
		parser:    NewSkillParser(),
		skills:    make(map[string]*Skill),
		activated: make(map[string]struct{}),
	}
}

// OnActivated registers a callback invoked synchronously whenever Activate
// or ActivateByName successfully activates a skill.
func (l *SkillLoader) OnActivated(fn func(*Skill)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onActivate = fn
}

// Discover lists the immediate subdirectories of root containing a
// SKILL.md, sorted lexicographically by directory name. It does not parse
// them; use LoadAll or LoadSkill for that.
func (l *SkillLoader) Discover() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("skill: discover %s: %w", l.root, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(l.root, e.Name(), "SKILL.md")
		if _, err := os.Stat(candidate); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadAll discovers and parses every skill under root, replacing the
// loader's metadata cache. Parse failures on individual skills are
// collected and returned together rather than aborting the whole load, so
// one malformed SKILL.md does not hide the rest.
func (l *SkillLoader) LoadAll() error {
	names, err := l.Discover()
	if err != nil {
		return err
	}

	loaded := make(map[string]*Skill, len(names))
	var errs []error
	for _, name := range names {
		s, err := l.parser.Parse(filepath.Join(l.root, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("skill %q: %w", name, err))
			continue
		}
		loaded[s.Name] = s
	}

	l.mu.Lock()
	l.skills = loaded
	l.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("skill: %d of %d skills failed to load: %v", len(errs), len(names), errs)
	}
	return nil
}

// ListMetadata discovers skills under root and parses only their
// frontmatter (spec §4.7 progressive disclosure), returning a cheap
// projection for every skill without touching the full-body metadata
// cache LoadAll/Activate populate. Parse failures on individual skills are
// collected and returned alongside whatever metadata did parse, mirroring
// LoadAll's partial-failure behavior.
func (l *SkillLoader) ListMetadata() ([]SkillMetadata, error) {
	names, err := l.Discover()
	if err != nil {
		return nil, err
	}

	out := make([]SkillMetadata, 0, len(names))
	var errs []error
	for _, name := range names {
		m, err := l.parser.ParseMetadata(filepath.Join(l.root, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("skill %q: %w", name, err))
			continue
		}
		out = append(out, *m)
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("skill: %d of %d skills failed metadata parse: %v", len(errs), len(names), errs)
	}
	return out, nil
}

// LoadSkill (re)parses a single skill by directory/frontmatter name and
// stores it in the metadata cache, without disturbing the rest.
func (l *SkillLoader) LoadSkill(name string) (*Skill, error) {
	s, err := l.parser.Parse(filepath.Join(l.root, name))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.skills[s.Name] = s
	l.mu.Unlock()
	return s, nil
}

// Skill returns the cached metadata for name, or ErrSkillNotFound.
func (l *SkillLoader) Skill(name string) (*Skill, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.skills[name]
	if !ok {
		return nil, newError(ErrSkillNotFound, "%s", name)
	}
	return s, nil
}

// Names returns every known skill name, sorted.
func (l *SkillLoader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.skills))
	for n := range l.skills {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Activate adds name to the activation set, loading it first if it is not
// already in the metadata cache; a name with no SKILL.md under root yields
// ErrSkillNotFound. Activating an already-active skill is a
// no-op success (spec §4.7 activation set is idempotent).
func (l *SkillLoader) Activate(name string) (*Skill, error) {
	l.mu.RLock()
	s, ok := l.skills[name]
	l.mu.RUnlock()

	if !ok {
		var err error
		s, err = l.LoadSkill(name)
		if err != nil {
			if errors.Is(err, SentinelFileNotFound) {
				return nil, newError(ErrSkillNotFound, "%s", name)
			}
			return nil, err
		}
	}

	l.mu.Lock()
	_, already := l.activated[name]
	l.activated[name] = struct{}{}
	cb := l.onActivate
	l.mu.Unlock()

	if !already && cb != nil {
		cb(s)
	}
	return s, nil
}

// Deactivate removes name from the activation set. Deactivating a skill
// that was never activated is a no-op.
func (l *SkillLoader) Deactivate(name string) {
	l.mu.Lock()
	delete(l.activated, name)
	l.mu.Unlock()
}

// DeactivateAll clears the activation set.
func (l *SkillLoader) DeactivateAll() {
	l.mu.Lock()
	l.activated = make(map[string]struct{})
	l.mu.Unlock()
}

// IsActivated reports whether name is currently in the activation set.
func (l *SkillLoader) IsActivated(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.activated[name]
	return ok
}

// ActivatedNames returns the current activation set, sorted.
func (l *SkillLoader) ActivatedNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.activated))
	for n := range l.activated {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Watch starts an fsnotify watch on root so external edits (a skill
// directory added/removed/rewritten on disk) refresh the metadata cache
// without requiring a caller to re-run LoadAll. It returns a stop function;
// watch errors are logged, not propagated, since a broken watch should
// degrade to "stale until next manual LoadAll", not crash the loader.
func (l *SkillLoader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("skill: watch %s: %w", l.root, err)
	}
	if err := w.Add(l.root); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("skill: watch %s: %w", l.root, err)
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if err := l.LoadAll(); err != nil {
					logging.L().Warn("skill reload after fs event failed", "event", ev.String(), "error", err)
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.L().Warn("skill watcher error", "error", werr)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = w.Close()
	}, nil
}
