package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/forms"
	"github.com/coursecraft/instructor-console/internal/middleware"
	"github.com/coursecraft/instructor-console/internal/services"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// ConsoleHandler handles session-scoped course tree operations
type ConsoleHandler struct {
	BaseHandler
	sessions *services.SessionManager
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(sessions *services.SessionManager, logger *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sessions:    sessions,
	}
}

// RegisterRoutes registers all session-scoped console routes
func (h *ConsoleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fields/{type}", h.GetFields)

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", h.CloseSession)

		r.Get("/courses", h.ListCourses)
		r.Post("/courses", h.CreateCourse)
		r.Delete("/courses/{courseID}", h.DeleteCourse)
		r.Post("/course/{courseID}/open", h.OpenCourse)
		r.Post("/course/reload", h.ReloadCourse)

		r.Get("/tree", h.GetTree)
		r.Get("/selection", h.GetSelection)
		r.Put("/selection", h.SetSelection)
		r.Delete("/selection", h.ClearSelection)

		r.Post("/sections", h.CreateSection)
		r.Post("/lessons", h.CreateLesson)
		r.Post("/lessons/media", h.CreateLessonWithMedia)
		r.Post("/uploads", h.UploadMedia)
		r.Post("/quizzes", h.CreateQuiz)
		r.Post("/questions", h.CreateQuestion)
		r.Patch("/nodes/{key}", h.UpdateNode)
		r.Delete("/nodes/{key}", h.DeleteNode)

		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Get("/history", h.GetHistory)

		r.Get("/notifications", h.DrainNotifications)
		r.Delete("/notifications/{id}", h.DismissNotification)

		r.Get("/lessons/{lessonID}/checkpoints", h.ListCheckpoints)
		r.Post("/lessons/{lessonID}/checkpoints", h.CreateCheckpoint)
		r.Patch("/checkpoints/{id}", h.UpdateCheckpoint)
		r.Delete("/checkpoints/{id}", h.DeleteCheckpoint)
	})
}

// session resolves the session from the URL and checks it belongs to the
// authenticated user. Writes the error response and returns nil on failure.
func (h *ConsoleHandler) session(w http.ResponseWriter, r *http.Request) *services.Session {
	id := chi.URLParam(r, "sessionID")
	sess, ok := h.sessions.Get(id)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "session not found or expired")
		return nil
	}
	if userID, ok := middleware.GetUserID(r.Context()); ok && userID != sess.User.ID {
		h.RespondError(w, http.StatusForbidden, "session belongs to another user")
		return nil
	}
	return sess
}

// parseNodeKey splits a "<type>-<id>" tree key into its parts
func parseNodeKey(key string) (tree.NodeType, string, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", false
	}
	t := tree.NodeType(parts[0])
	switch t {
	case tree.NodeTypeCourse, tree.NodeTypeSection, tree.NodeTypeLesson,
		tree.NodeTypeQuiz, tree.NodeTypeQuestion:
		return t, parts[1], true
	}
	return "", "", false
}

// CloseSession handles DELETE /sessions/{sessionID}
// @Summary Close an editing session
// @Description Destroy the session and all its local state
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 204 "Session closed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID} [delete]
func (h *ConsoleHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	h.sessions.Destroy(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// GetTree handles GET /sessions/{sessionID}/tree
// @Summary Get the course tree
// @Description Get the full tree of the open course, or null when no course is open
// @Tags tree
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} tree.Node "Course tree"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/tree [get]
func (h *ConsoleHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	st := sess.Editor.Store()
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"tree":   st.Tree(),
		"errors": st.Errors(),
	})
}

// GetSelection handles GET /sessions/{sessionID}/selection
// @Summary Get the selected node
// @Tags tree
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} tree.Node "Selected node, or null"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/selection [get]
func (h *ConsoleHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"key":  sess.Editor.Store().SelectedKey(),
		"node": sess.Editor.Store().SelectedNode(),
	})
}

// SetSelection handles PUT /sessions/{sessionID}/selection
// @Summary Select a tree node
// @Description Select the node with the given key; fails when the key is not in the tree
// @Tags tree
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body object true "Node key" SchemaExample({\"key\": \"lesson-12\"})
// @Success 200 {object} tree.Node "Selected node"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Session or node not found"
// @Router /sessions/{sessionID}/selection [put]
func (h *ConsoleHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Key == "" {
		h.RespondError(w, http.StatusBadRequest, "node key is required")
		return
	}

	st := sess.Editor.Store()
	if !st.SetSelectedNode(req.Key) {
		h.RespondError(w, http.StatusNotFound, "node not found in tree")
		return
	}
	h.RespondJSON(w, http.StatusOK, st.SelectedNode())
}

// ClearSelection handles DELETE /sessions/{sessionID}/selection
// @Summary Clear the selection
// @Tags tree
// @Param sessionID path string true "Session ID"
// @Success 204 "Selection cleared"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/selection [delete]
func (h *ConsoleHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.Editor.Store().ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles POST /sessions/{sessionID}/undo
// @Summary Undo the last tree mutation
// @Description Step the history cursor back one snapshot; a no-op at the oldest snapshot
// @Tags history
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]any "Resulting tree and history state"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/undo [post]
func (h *ConsoleHandler) Undo(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	st := sess.Editor.Store()
	applied := st.Undo()
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"applied":  applied,
		"tree":     st.Tree(),
		"can_undo": st.CanUndo(),
		"can_redo": st.CanRedo(),
	})
}

// Redo handles POST /sessions/{sessionID}/redo
// @Summary Redo the last undone tree mutation
// @Description Step the history cursor forward one snapshot; a no-op at the newest snapshot
// @Tags history
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]any "Resulting tree and history state"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/redo [post]
func (h *ConsoleHandler) Redo(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	st := sess.Editor.Store()
	applied := st.Redo()
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"applied":  applied,
		"tree":     st.Tree(),
		"can_undo": st.CanUndo(),
		"can_redo": st.CanRedo(),
	})
}

// GetHistory handles GET /sessions/{sessionID}/history
// @Summary Get undo/redo availability
// @Tags history
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} map[string]any "History state"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/history [get]
func (h *ConsoleHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	st := sess.Editor.Store()
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"can_undo": st.CanUndo(),
		"can_redo": st.CanRedo(),
		"depth":    st.HistoryDepth(),
	})
}

// DrainNotifications handles GET /sessions/{sessionID}/notifications
// @Summary Drain pending notifications
// @Description Return all queued notifications, oldest first, and empty the queue
// @Tags notifications
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {array} notify.Notification "Pending notifications"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/notifications [get]
func (h *ConsoleHandler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	h.RespondJSON(w, http.StatusOK, sess.Editor.Relay().Drain())
}

// DismissNotification handles DELETE /sessions/{sessionID}/notifications/{id}
// @Summary Dismiss a notification
// @Description Remove a queued notification by ID; unknown IDs are ignored
// @Tags notifications
// @Param sessionID path string true "Session ID"
// @Param id path string true "Notification ID"
// @Success 204 "Notification dismissed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/notifications/{id} [delete]
func (h *ConsoleHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.Editor.Relay().Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// GetFields handles GET /fields/{type}
// @Summary Get the form field configuration for a node type
// @Description Field names, labels, input kinds and constraints for the detail form of the given entity type
// @Tags forms
// @Produce json
// @Param type path string true "Node type (course, section, lesson, quiz, question)"
// @Success 200 {array} forms.Field "Field configuration"
// @Failure 404 {object} map[string]string "Unknown node type"
// @Router /fields/{type} [get]
func (h *ConsoleHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	t := tree.NodeType(chi.URLParam(r, "type"))
	fields := forms.FieldsFor(t)
	if fields == nil {
		h.RespondError(w, http.StatusNotFound, "unknown node type")
		return
	}
	h.RespondJSON(w, http.StatusOK, fields)
}
