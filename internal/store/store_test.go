package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/tree"
)

func testCourse() *models.Course {
	return &models.Course{
		ID:    1,
		Title: "Go from Scratch",
		Sections: []models.Section{
			{
				ID:    10,
				Title: "Basics",
				Lessons: []models.Lesson{
					{ID: 100, SectionID: 10, Title: "Variables"},
				},
			},
		},
	}
}

func openStore() *Store {
	s := New()
	s.SetCurrentCourse(testCourse())
	return s
}

func TestStore_SetCurrentCourse(t *testing.T) {
	s := New()
	assert.Nil(t, s.Tree())

	s.SetCurrentCourse(testCourse())

	root := s.Tree()
	require.NotNil(t, root)
	assert.Equal(t, "course-1", root.Key)

	// Loading a course is not an edit
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())

	// Selection never carries over into a newly opened course
	require.True(t, s.SetSelectedNode("lesson-100"))
	s.SetCurrentCourse(&models.Course{ID: 2, Title: "Another"})
	assert.Empty(t, s.SelectedKey())
}

func TestStore_Selection(t *testing.T) {
	s := openStore()

	t.Run("select existing node", func(t *testing.T) {
		assert.True(t, s.SetSelectedNode("lesson-100"))
		assert.Equal(t, "lesson-100", s.SelectedKey())

		node := s.SelectedNode()
		require.NotNil(t, node)
		assert.Equal(t, "Variables", node.Title)
	})

	t.Run("unknown key rejected without clearing", func(t *testing.T) {
		require.True(t, s.SetSelectedNode("section-10"))
		assert.False(t, s.SetSelectedNode("lesson-999"))
		assert.Equal(t, "section-10", s.SelectedKey())
	})

	t.Run("clear selection", func(t *testing.T) {
		s.ClearSelection()
		assert.Empty(t, s.SelectedKey())
		assert.Nil(t, s.SelectedNode())
	})

	t.Run("selection is not an edit", func(t *testing.T) {
		assert.False(t, s.CanUndo())
	})
}

func TestStore_AddNode(t *testing.T) {
	s := openStore()

	lesson := &models.Lesson{ID: 101, SectionID: 10, Title: "Functions"}
	node := tree.NewNode(tree.NodeTypeLesson, lesson.ID, lesson.Title, lesson)

	require.True(t, s.AddNode("section-10", node))

	root := s.Tree()
	require.NotNil(t, root.Find("lesson-101"))
	assert.True(t, s.CanUndo())

	t.Run("missing parent is a silent no-op", func(t *testing.T) {
		before := s.Tree().Flatten()
		orphan := tree.NewNode(tree.NodeTypeLesson, 999, "Orphan", nil)

		assert.False(t, s.AddNode("section-404", orphan))
		assert.Len(t, s.Tree().Flatten(), len(before))
	})

	t.Run("failed add leaves history untouched", func(t *testing.T) {
		depth := s.HistoryDepth()
		s.AddNode("section-404", tree.NewNode(tree.NodeTypeLesson, 998, "Orphan", nil))
		assert.Equal(t, depth, s.HistoryDepth())
	})
}

func TestStore_UpdateNode(t *testing.T) {
	s := openStore()

	require.True(t, s.UpdateNode("lesson-100", map[string]any{
		"title":    "Variables Revisited",
		"duration": 300,
	}))

	node := s.Tree().Find("lesson-100")
	require.NotNil(t, node)
	assert.Equal(t, "Variables Revisited", node.Title)
	assert.Equal(t, 300, node.Data["duration"])
	// Untouched fields survive the merge
	assert.Equal(t, "Variables Revisited", node.Data["title"])

	assert.False(t, s.UpdateNode("lesson-999", map[string]any{"title": "Ghost"}))
}

func TestStore_DeleteNode(t *testing.T) {
	t.Run("delete removes the subtree", func(t *testing.T) {
		s := openStore()
		require.True(t, s.DeleteNode("section-10"))

		root := s.Tree()
		assert.Nil(t, root.Find("section-10"))
		// The section's lesson goes with it
		assert.Nil(t, root.Find("lesson-100"))
	})

	t.Run("deleting the selected node clears selection", func(t *testing.T) {
		s := openStore()
		require.True(t, s.SetSelectedNode("lesson-100"))
		require.True(t, s.DeleteNode("lesson-100"))
		assert.Empty(t, s.SelectedKey())
	})

	t.Run("root course node is not deletable", func(t *testing.T) {
		s := openStore()
		assert.False(t, s.DeleteNode("course-1"))
		assert.NotNil(t, s.Tree())
	})

	t.Run("unknown key is a no-op", func(t *testing.T) {
		s := openStore()
		assert.False(t, s.DeleteNode("quiz-42"))
	})
}

func TestStore_UndoRedo(t *testing.T) {
	s := openStore()
	base := s.Tree()

	// Three edits: add, rename, delete
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))
	require.True(t, s.UpdateNode("lesson-101", map[string]any{"title": "Funcs"}))
	require.True(t, s.DeleteNode("lesson-100"))

	// Three undos land exactly on the pre-edit state
	require.True(t, s.Undo())
	require.True(t, s.Undo())
	require.True(t, s.Undo())
	assert.Equal(t, base, s.Tree())
	assert.False(t, s.CanUndo())

	// Undo at the bottom is a no-op
	assert.False(t, s.Undo())
	assert.Equal(t, base, s.Tree())

	// Redos walk forward through the same states
	require.True(t, s.Redo())
	assert.NotNil(t, s.Tree().Find("lesson-101"))
	require.True(t, s.Redo())
	assert.Equal(t, "Funcs", s.Tree().Find("lesson-101").Title)
	require.True(t, s.Redo())
	assert.Nil(t, s.Tree().Find("lesson-100"))

	// Redo at the top is a no-op
	assert.False(t, s.Redo())
	assert.False(t, s.CanRedo())
}

func TestStore_UndoThenEditDiscardsRedo(t *testing.T) {
	s := openStore()

	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 102, "Methods", nil)))

	require.True(t, s.Undo())
	assert.True(t, s.CanRedo())

	// A fresh edit truncates the redo branch
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 103, "Interfaces", nil)))
	assert.False(t, s.CanRedo())
	assert.False(t, s.Redo())

	root := s.Tree()
	assert.NotNil(t, root.Find("lesson-103"))
	assert.Nil(t, root.Find("lesson-102"))
}

func TestStore_UndoAfterCourseSwitch(t *testing.T) {
	s := openStore()
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))

	// Switch to a second course and edit it
	s.SetCurrentCourse(&models.Course{
		ID:    2,
		Title: "Advanced Go",
		Sections: []models.Section{
			{ID: 20, Title: "Generics"},
		},
	})
	require.True(t, s.AddNode("section-20",
		tree.NewNode(tree.NodeTypeLesson, 200, "Type Parameters", nil)))

	// Undoing the edit restores the second course's pre-edit state, never
	// the first course's
	require.True(t, s.Undo())
	root := s.Tree()
	require.NotNil(t, root)
	assert.Equal(t, "course-2", root.Key)
	assert.Nil(t, root.Find("lesson-200"))
	assert.NotNil(t, root.Find("section-20"))

	require.True(t, s.Redo())
	assert.NotNil(t, s.Tree().Find("lesson-200"))
}

func TestStore_AddDeleteRoundTrip(t *testing.T) {
	s := openStore()
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))

	before := s.Tree().Find("section-10").Children

	node := tree.NewNode(tree.NodeTypeLesson, 102, "Methods", nil)
	require.True(t, s.AddNode("section-10", node))
	require.True(t, s.DeleteNode("lesson-102"))

	// Same elements, same order as before the add
	after := s.Tree().Find("section-10").Children
	assert.Equal(t, before, after)
}

func TestStore_UpdateLeavesSiblingsUntouched(t *testing.T) {
	s := New()
	s.SetCurrentCourse(&models.Course{
		ID:    1,
		Title: "Go from Scratch",
		Sections: []models.Section{
			{
				ID:    10,
				Title: "Basics",
				Lessons: []models.Lesson{
					{ID: 100, SectionID: 10, Title: "Variables"},
					{ID: 101, SectionID: 10, Title: "Functions"},
				},
			},
			{ID: 11, Title: "Tooling"},
		},
	})

	flat := s.Tree().Flatten()
	beforeKeys := make([]string, 0, len(flat))
	beforeTitles := map[string]string{}
	beforeData := map[string]map[string]any{}
	for _, n := range flat {
		beforeKeys = append(beforeKeys, n.Key)
		beforeTitles[n.Key] = n.Title
		beforeData[n.Key] = n.Data
	}

	require.True(t, s.UpdateNode("lesson-100", map[string]any{"title": "New Title"}))

	after := s.Tree().Flatten()
	afterKeys := make([]string, 0, len(after))
	for _, n := range after {
		afterKeys = append(afterKeys, n.Key)
		if n.Key == "lesson-100" {
			assert.Equal(t, "New Title", n.Title)
			assert.Equal(t, "New Title", n.Data["title"])
			continue
		}
		assert.Equal(t, beforeTitles[n.Key], n.Title, "title of %s changed by an unrelated update", n.Key)
		assert.Equal(t, beforeData[n.Key], n.Data, "data of %s changed by an unrelated update", n.Key)
	}
	// Structure and ordering are untouched
	assert.Equal(t, beforeKeys, afterKeys)
}

func TestStore_HistoryBounded(t *testing.T) {
	s := New(WithMaxHistory(5))
	s.SetCurrentCourse(testCourse())

	for i := 0; i < 20; i++ {
		require.True(t, s.AddNode("section-10",
			tree.NewNode(tree.NodeTypeLesson, 1000+i, fmt.Sprintf("Lesson %d", i), nil)))
	}
	assert.Equal(t, 5, s.HistoryDepth())

	// Only the newest snapshots survive; undo bottoms out early
	undos := 0
	for s.Undo() {
		undos++
	}
	assert.Equal(t, 4, undos)
	// The oldest surviving snapshot still holds the earlier additions
	assert.NotNil(t, s.Tree().Find("lesson-1000"))
}

func TestStore_UndoKeepsStaleSelectionOnlyIfAlive(t *testing.T) {
	s := openStore()

	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))
	require.True(t, s.SetSelectedNode("lesson-101"))

	// Undoing the add removes the selected node from the restored tree
	require.True(t, s.Undo())
	assert.Empty(t, s.SelectedKey())
	assert.Nil(t, s.SelectedNode())
}

func TestStore_SnapshotsIsolated(t *testing.T) {
	s := openStore()

	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))

	// Mutating the tree after a snapshot must not corrupt the stack
	require.True(t, s.UpdateNode("lesson-101", map[string]any{"title": "Changed"}))
	require.True(t, s.Undo())
	assert.Equal(t, "Functions", s.Tree().Find("lesson-101").Title)

	// Mutating a returned tree copy must not touch store state
	external := s.Tree()
	external.Find("lesson-101").Title = "Hacked"
	assert.Equal(t, "Functions", s.Tree().Find("lesson-101").Title)
}

func TestStore_Flags(t *testing.T) {
	s := New()

	s.SetLoading("lessons", true)
	assert.True(t, s.IsLoading("lessons"))
	assert.False(t, s.IsLoading("quizzes"))
	s.SetLoading("lessons", false)
	assert.False(t, s.IsLoading("lessons"))

	s.SetError("lessons", "boom")
	assert.Equal(t, map[string]string{"lessons": "boom"}, s.Errors())
	s.ClearError("lessons")
	assert.Empty(t, s.Errors())

	s.SetError("lessons", "boom")
	s.SetError("quizzes", "bang")
	s.ClearErrors()
	assert.Empty(t, s.Errors())
}

func TestStore_Reset(t *testing.T) {
	s := openStore()
	require.True(t, s.AddNode("section-10",
		tree.NewNode(tree.NodeTypeLesson, 101, "Functions", nil)))
	require.True(t, s.SetSelectedNode("lesson-101"))
	s.SetError("lessons", "boom")

	s.Reset()

	assert.Nil(t, s.Tree())
	assert.Nil(t, s.CurrentCourse())
	assert.Empty(t, s.SelectedKey())
	assert.Empty(t, s.Errors())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Zero(t, s.HistoryDepth())
}
