// Package store implements the course tree store: the single source of truth
// for the currently open course, its derived tree, selection, loading and
// error flags, and the undo/redo history.
package store

import (
	"sync"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// DefaultMaxHistory bounds the undo/redo stack
const DefaultMaxHistory = 50

// Store holds all editing state for one open course.
//
// The store never issues network requests and its mutations never fail:
// callers persist entities through the API client first and mutate the store
// only after persistence succeeded. A mutex guards every operation, making
// the single-writer contract of the browser original explicit; construct one
// store per session and inject it, there is no shared instance.
type Store struct {
	mu sync.Mutex

	course      *models.Course
	tree        *tree.Node
	selectedKey string

	loading map[string]bool
	errors  map[string]string

	history      []Snapshot
	historyIndex int
	maxHistory   int

	// baseStale marks that the top of the stack no longer represents the
	// current state because a course load replaced it without a snapshot;
	// the next mutation re-pushes its pre-edit base.
	baseStale bool
}

// Option configures a Store
type Option func(*Store)

// WithMaxHistory overrides the history stack bound
func WithMaxHistory(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// New creates an empty course tree store
func New(opts ...Option) *Store {
	s := &Store{
		loading:      make(map[string]bool),
		errors:       make(map[string]string),
		historyIndex: -1,
		maxHistory:   DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCurrentCourse replaces the open course and rebuilds the tree.
// Selection is cleared. Loading a course is not an edit, so no history
// snapshot is taken and the history survives the reload — but the stack top
// is marked stale so the first edit after a load re-pushes its pre-edit base
// and a later undo restores this course's state, not the previous one's.
func (s *Store) SetCurrentCourse(course *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.course = course
	s.tree = tree.Build(course)
	s.selectedKey = ""
	s.baseStale = true
}

// CurrentCourse returns the currently open course, or nil
func (s *Store) CurrentCourse() *models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.course
}

// Tree returns a deep copy of the current tree, or nil when no course is open.
// Callers get a copy so they can never mutate store state behind the mutex.
func (s *Store) Tree() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Clone()
}

// SetSelectedNode records the selection by node key.
// Returns false and clears nothing when the key does not exist in the tree.
// Selection has no history impact and triggers no network activity.
func (s *Store) SetSelectedNode(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree.Find(key) == nil {
		return false
	}
	s.selectedKey = key
	return true
}

// ClearSelection drops the current selection
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedKey = ""
}

// SelectedKey returns the key of the selected node, or "" when nothing is
// selected
func (s *Store) SelectedKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedKey
}

// SelectedNode resolves the selected node in the current tree, or nil
func (s *Store) SelectedNode() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedKey == "" {
		return nil
	}
	return s.tree.Find(s.selectedKey).Clone()
}

// AddNode appends a node under the parent identified by parentKey.
//
// Precondition: the entity behind node was already persisted through the API
// client and carries its server-assigned ID. Returns false without touching
// the tree when parentKey does not exist — a silent no-op, never a panic.
func (s *Store) AddNode(parentKey string, node *tree.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	s.mutate(func() bool {
		parent := s.tree.Find(parentKey)
		if parent == nil || node == nil {
			return false
		}
		parent.Children = append(parent.Children, node)
		added = true
		return true
	})
	return added
}

// UpdateNode merges a partial update into the node identified by key.
// The patch goes into the node's data map; a "title" entry also refreshes
// the display title. Returns false when the key does not exist.
func (s *Store) UpdateNode(key string, patch map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	s.mutate(func() bool {
		node := s.tree.Find(key)
		if node == nil {
			return false
		}
		node.Merge(patch)
		updated = true
		return true
	})
	return updated
}

// DeleteNode removes the node identified by key from its parent's children.
// Deleting the selected node clears the selection. The root course node
// cannot be deleted this way. Returns false when the key does not exist.
func (s *Store) DeleteNode(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	s.mutate(func() bool {
		if s.tree == nil || s.tree.Key == key {
			return false
		}
		s.tree.Walk(func(n *tree.Node) bool {
			for i, child := range n.Children {
				if child.Key == key {
					n.Children = append(n.Children[:i], n.Children[i+1:]...)
					deleted = true
					return false
				}
			}
			return true
		})
		if deleted && s.selectedKey == key {
			s.selectedKey = ""
		}
		return deleted
	})
	return deleted
}

// SetLoading flips the loading flag for an entity type
func (s *Store) SetLoading(entityType string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[entityType] = loading
}

// IsLoading reports the loading flag for an entity type
func (s *Store) IsLoading(entityType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[entityType]
}

// SetError records the latest error message for an entity type
func (s *Store) SetError(entityType, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[entityType] = message
}

// ClearError drops the recorded error for an entity type
func (s *Store) ClearError(entityType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.errors, entityType)
}

// Errors returns a copy of the error map
func (s *Store) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// ClearErrors drops all recorded errors
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = make(map[string]string)
}

// Reset returns the store to its initial empty state, history included
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.course = nil
	s.tree = nil
	s.selectedKey = ""
	s.loading = make(map[string]bool)
	s.errors = make(map[string]string)
	s.history = nil
	s.historyIndex = -1
	s.baseStale = false
}
