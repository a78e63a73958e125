// Package tree holds the in-memory representation of the course hierarchy:
// a rooted, ordered N-ary tree of addressable nodes with stable keys.
package tree

import (
	"encoding/json"
	"fmt"
	"maps"
)

// NodeType identifies the entity kind a tree node wraps
type NodeType string

const (
	NodeTypeCourse   NodeType = "course"
	NodeTypeSection  NodeType = "section"
	NodeTypeLesson   NodeType = "lesson"
	NodeTypeQuiz     NodeType = "quiz"
	NodeTypeQuestion NodeType = "question"
)

// Node is a single addressable item in the course tree.
//
// Key is stable across rebuilds ("<type>-<entityID>") so selection survives a
// reload as long as the selected entity still exists. Data holds the entity
// record as a generic map, which is what partial updates merge into.
type Node struct {
	Key      string         `json:"key"`
	Title    string         `json:"title"`
	Type     NodeType       `json:"type"`
	Data     map[string]any `json:"data"`
	Children []*Node        `json:"children,omitempty"`
	IsLeaf   bool           `json:"isLeaf"`
}

// Key derives the stable tree key for an entity
func Key(t NodeType, id int) string {
	return fmt.Sprintf("%s-%d", t, id)
}

// NewNode builds a tree node from an entity record.
// The entity is converted to its wire-shape map so that later patches merge
// against the same field names the API uses.
func NewNode(t NodeType, id int, title string, entity any) *Node {
	leaf := t == NodeTypeLesson || t == NodeTypeQuestion
	return &Node{
		Key:    Key(t, id),
		Title:  title,
		Type:   t,
		Data:   EntityMap(entity),
		IsLeaf: leaf,
	}
}

// Find locates a node by key with a depth-first pre-order walk.
// Returns nil when the key is not present. Keys are unique, so the first
// match is the only match.
func (n *Node) Find(key string) *Node {
	if n == nil {
		return nil
	}
	if n.Key == key {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(key); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth-first pre-order. The walk stops early when fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Flatten returns every node of the tree in depth-first pre-order
func (n *Node) Flatten() []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		out = append(out, node)
		return true
	})
	return out
}

// Clone returns a deep copy of the subtree rooted at n.
// History snapshots rely on this so that later in-place mutations never leak
// into saved states.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Key:    n.Key,
		Title:  n.Title,
		Type:   n.Type,
		Data:   cloneMap(n.Data),
		IsLeaf: n.IsLeaf,
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// cloneMap deep-copies a data map, descending into nested maps and slices
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Merge applies a partial update to the node's data and refreshes the title
// when the patch carries one. The patch is not validated against the entity
// schema; callers only send fields the API accepted.
func (n *Node) Merge(patch map[string]any) {
	if n.Data == nil {
		n.Data = make(map[string]any, len(patch))
	}
	maps.Copy(n.Data, patch)
	if title, ok := patch["title"].(string); ok && title != "" {
		n.Title = title
	}
	// Questions display their question text as the node title
	if n.Type == NodeTypeQuestion {
		if text, ok := patch["question_text"].(string); ok && text != "" {
			n.Title = text
		}
	}
}

// EntityMap converts an entity struct to its JSON wire shape.
// Round-tripping through encoding/json keeps field names and number types
// consistent with patches decoded from request bodies.
func EntityMap(entity any) map[string]any {
	if entity == nil {
		return map[string]any{}
	}
	if m, ok := entity.(map[string]any); ok {
		return cloneMap(m)
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}
