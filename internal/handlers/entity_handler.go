package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursecraft/instructor-console/internal/format"
	"github.com/coursecraft/instructor-console/internal/forms"
	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// decodeJSON decodes a request body into out
func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// entityBody reads a request body once and returns both the raw bytes and
// the generic value map the form validator works on
func entityBody(r *http.Request) ([]byte, map[string]any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, nil, err
	}
	return raw, values, nil
}

// respondFieldErrors sends a 400 with per-field validation messages
func (h *ConsoleHandler) respondFieldErrors(w http.ResponseWriter, fieldErrs map[string]string) {
	h.RespondJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fieldErrs,
	})
}

// ListCourses handles GET /sessions/{sessionID}/courses
// @Summary List the instructor's courses
// @Description Get a paginated, sortable page of courses
// @Tags courses
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param sort query string false "Sort field"
// @Param order query string false "Sort order (ASC or DESC)"
// @Success 200 {object} models.ListResult[models.Course] "Page of courses"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/courses [get]
func (h *ConsoleHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	params := models.ListParams{
		Sort:  r.URL.Query().Get("sort"),
		Order: models.SortOrder(r.URL.Query().Get("order")),
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		params.Page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		params.Limit = l
	}

	result, err := sess.Editor.ListCourses(r.Context(), params)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, result)
}

// CreateCourse handles POST /sessions/{sessionID}/courses
// @Summary Create a course
// @Description Create a course; the new course is not opened automatically
// @Tags courses
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} models.Course "Created course"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/courses [post]
func (h *ConsoleHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.Validate(tree.NodeTypeCourse, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var req models.CreateCourseRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := sess.Editor.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, course)
}

// DeleteCourse handles DELETE /sessions/{sessionID}/courses/{courseID}
// @Summary Delete a course
// @Description Delete a course; deleting the open course resets the session state
// @Tags courses
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param courseID path int true "Course ID"
// @Success 204 "Course deleted"
// @Failure 404 {object} map[string]string "Session or course not found"
// @Router /sessions/{sessionID}/courses/{courseID} [delete]
func (h *ConsoleHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}
	if err := sess.Editor.DeleteCourse(r.Context(), id); err != nil {
		h.RespondAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenCourse handles POST /sessions/{sessionID}/course/{courseID}/open
// @Summary Open a course for editing
// @Description Fetch the full nested course, build its tree and make it the session's current course
// @Tags courses
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param courseID path int true "Course ID"
// @Success 200 {object} tree.Node "Course tree"
// @Failure 404 {object} map[string]string "Session or course not found"
// @Router /sessions/{sessionID}/course/{courseID}/open [post]
func (h *ConsoleHandler) OpenCourse(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid course ID")
		return
	}
	if _, err := sess.Editor.OpenCourse(r.Context(), id); err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, sess.Editor.Store().Tree())
}

// ReloadCourse handles POST /sessions/{sessionID}/course/reload
// @Summary Reload the open course
// @Description Re-fetch the open course from the backend and rebuild the tree; the selection survives when the selected entity still exists
// @Tags courses
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} tree.Node "Rebuilt course tree"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "No course is open"
// @Router /sessions/{sessionID}/course/reload [post]
func (h *ConsoleHandler) ReloadCourse(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if sess.Editor.Store().CurrentCourse() == nil {
		h.RespondError(w, http.StatusConflict, "no course is currently open")
		return
	}
	if _, err := sess.Editor.ReloadCourse(r.Context()); err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, sess.Editor.Store().Tree())
}

// CreateSection handles POST /sessions/{sessionID}/sections
// @Summary Create a section
// @Description Persist a section on the backend, then attach its node under the course root
// @Tags sections
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body models.CreateSectionRequest true "Section payload with course_id"
// @Success 201 {object} models.Section "Created section"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/sections [post]
func (h *ConsoleHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.Validate(tree.NodeTypeSection, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var req models.CreateSectionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseID == 0 {
		h.RespondError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	section, err := sess.Editor.CreateSection(r.Context(), &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, section)
}

// CreateLesson handles POST /sessions/{sessionID}/lessons
// @Summary Create a lesson
// @Description Persist a lesson on the backend, then attach its leaf node under its section
// @Tags lessons
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body models.CreateLessonRequest true "Lesson payload with section_id"
// @Success 201 {object} models.Lesson "Created lesson"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/lessons [post]
func (h *ConsoleHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.Validate(tree.NodeTypeLesson, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var req models.CreateLessonRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SectionID == 0 {
		h.RespondError(w, http.StatusBadRequest, "section_id is required")
		return
	}

	lesson, err := sess.Editor.CreateLesson(r.Context(), &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, lesson)
}

// CreateQuiz handles POST /sessions/{sessionID}/quizzes
// @Summary Create a quiz
// @Description Persist a quiz owned by a lesson. The body also carries section_id so the node can attach at section level in the tree.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body models.CreateQuizRequest true "Quiz payload with lesson_id and section_id"
// @Success 201 {object} models.Quiz "Created quiz"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/quizzes [post]
func (h *ConsoleHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.Validate(tree.NodeTypeQuiz, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var req struct {
		models.CreateQuizRequest
		SectionID int `json:"section_id"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LessonID == 0 {
		h.RespondError(w, http.StatusBadRequest, "lesson_id is required")
		return
	}

	quiz, err := sess.Editor.CreateQuiz(r.Context(), req.SectionID, &req.CreateQuizRequest)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, quiz)
}

// CreateQuestion handles POST /sessions/{sessionID}/questions
// @Summary Create a question
// @Description Persist a question on the backend, then attach its leaf node under its quiz
// @Tags questions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body models.CreateQuestionRequest true "Question payload with quiz_id"
// @Success 201 {object} models.Question "Created question"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/questions [post]
func (h *ConsoleHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.Validate(tree.NodeTypeQuestion, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var req models.CreateQuestionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuizID == 0 {
		h.RespondError(w, http.StatusBadRequest, "quiz_id is required")
		return
	}

	question, err := sess.Editor.CreateQuestion(r.Context(), &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, question)
}

// UpdateNode handles PATCH /sessions/{sessionID}/nodes/{key}
// @Summary Update the entity behind a tree node
// @Description Partial update routed by the node key's type prefix. The backend persists first; the node is then patched from the entity the server returned.
// @Tags tree
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param key path string true "Node key, e.g. lesson-12"
// @Param request body object true "Partial entity payload"
// @Success 200 {object} map[string]any "Updated entity"
// @Failure 400 {object} map[string]string "Invalid key or validation failed"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/nodes/{key} [patch]
func (h *ConsoleHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	key := chi.URLParam(r, "key")
	nodeType, idStr, ok := parseNodeKey(key)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid node key")
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid node key")
		return
	}

	raw, values, err := entityBody(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrs := forms.ValidatePartial(nodeType, values); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs)
		return
	}

	var entity any
	var decodeErr error
	switch nodeType {
	case tree.NodeTypeCourse:
		var req models.UpdateCourseRequest
		if decodeErr = json.Unmarshal(raw, &req); decodeErr == nil {
			entity, err = sess.Editor.UpdateCourse(r.Context(), id, &req)
		}
	case tree.NodeTypeSection:
		var req models.UpdateSectionRequest
		if decodeErr = json.Unmarshal(raw, &req); decodeErr == nil {
			entity, err = sess.Editor.UpdateSection(r.Context(), id, &req)
		}
	case tree.NodeTypeLesson:
		var req models.UpdateLessonRequest
		if decodeErr = json.Unmarshal(raw, &req); decodeErr == nil {
			entity, err = sess.Editor.UpdateLesson(r.Context(), id, &req)
		}
	case tree.NodeTypeQuiz:
		var req models.UpdateQuizRequest
		if decodeErr = json.Unmarshal(raw, &req); decodeErr == nil {
			entity, err = sess.Editor.UpdateQuiz(r.Context(), id, &req)
		}
	case tree.NodeTypeQuestion:
		var req models.UpdateQuestionRequest
		if decodeErr = json.Unmarshal(raw, &req); decodeErr == nil {
			entity, err = sess.Editor.UpdateQuestion(r.Context(), id, &req)
		}
	}
	// A body that doesn't fit the typed request is the client's fault,
	// never the backend's
	if decodeErr != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, entity)
}

// DeleteNode handles DELETE /sessions/{sessionID}/nodes/{key}
// @Summary Delete the entity behind a tree node
// @Description Delete routed by the node key's type prefix. The backend deletes first; the node and its subtree are then removed locally. The course root cannot be deleted this way.
// @Tags tree
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param key path string true "Node key, e.g. section-3"
// @Success 204 "Entity deleted"
// @Failure 400 {object} map[string]string "Invalid key or course root"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/nodes/{key} [delete]
func (h *ConsoleHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	key := chi.URLParam(r, "key")
	nodeType, idStr, ok := parseNodeKey(key)
	if !ok {
		h.RespondError(w, http.StatusBadRequest, "invalid node key")
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid node key")
		return
	}

	switch nodeType {
	case tree.NodeTypeCourse:
		// The open course root is deleted through the courses endpoint
		h.RespondError(w, http.StatusBadRequest, "course nodes cannot be deleted through the tree")
		return
	case tree.NodeTypeSection:
		err = sess.Editor.DeleteSection(r.Context(), id)
	case tree.NodeTypeLesson:
		err = sess.Editor.DeleteLesson(r.Context(), id)
	case tree.NodeTypeQuiz:
		err = sess.Editor.DeleteQuiz(r.Context(), id)
	case tree.NodeTypeQuestion:
		err = sess.Editor.DeleteQuestion(r.Context(), id)
	}
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCheckpoints handles GET /sessions/{sessionID}/lessons/{lessonID}/checkpoints
// @Summary List a lesson's video checkpoints
// @Tags checkpoints
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lessonID path int true "Lesson ID"
// @Success 200 {array} models.LessonCheckpoint "Checkpoints"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/lessons/{lessonID}/checkpoints [get]
func (h *ConsoleHandler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	lessonID, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}
	checkpoints, err := sess.Editor.ListCheckpoints(r.Context(), lessonID)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}

	// playback positions are echoed as display strings for the timeline view
	views := make([]checkpointView, 0, len(checkpoints))
	for _, cp := range checkpoints {
		views = append(views, checkpointView{
			LessonCheckpoint: cp,
			TimeLabel:        format.Duration(cp.TimeInVideo),
		})
	}
	h.RespondJSON(w, http.StatusOK, views)
}

// checkpointView is a checkpoint annotated with its rendered playback position
type checkpointView struct {
	models.LessonCheckpoint
	TimeLabel string `json:"time_label"`
}

// CreateCheckpoint handles POST /sessions/{sessionID}/lessons/{lessonID}/checkpoints
// @Summary Create a video checkpoint
// @Description Attach a quiz to a playback position of a lesson's video
// @Tags checkpoints
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lessonID path int true "Lesson ID"
// @Param request body models.CreateCheckpointRequest true "Checkpoint payload"
// @Success 201 {object} models.LessonCheckpoint "Created checkpoint"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/lessons/{lessonID}/checkpoints [post]
func (h *ConsoleHandler) CreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	lessonID, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	var req models.CreateCheckpointRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuizID == 0 {
		h.RespondError(w, http.StatusBadRequest, "quiz_id is required")
		return
	}
	if req.TimeInVideo < 0 {
		h.RespondError(w, http.StatusBadRequest, "time_in_video must not be negative")
		return
	}

	checkpoint, err := sess.Editor.CreateCheckpoint(r.Context(), lessonID, &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, checkpoint)
}

// UpdateCheckpoint handles PATCH /sessions/{sessionID}/checkpoints/{id}
// @Summary Update a video checkpoint
// @Tags checkpoints
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param id path int true "Checkpoint ID"
// @Param request body models.UpdateCheckpointRequest true "Partial checkpoint payload"
// @Success 200 {object} models.LessonCheckpoint "Updated checkpoint"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/checkpoints/{id} [patch]
func (h *ConsoleHandler) UpdateCheckpoint(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid checkpoint ID")
		return
	}

	var req models.UpdateCheckpointRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TimeInVideo != nil && *req.TimeInVideo < 0 {
		h.RespondError(w, http.StatusBadRequest, "time_in_video must not be negative")
		return
	}

	checkpoint, err := sess.Editor.UpdateCheckpoint(r.Context(), id, &req)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, checkpoint)
}

// DeleteCheckpoint handles DELETE /sessions/{sessionID}/checkpoints/{id}
// @Summary Delete a video checkpoint
// @Tags checkpoints
// @Param sessionID path string true "Session ID"
// @Param id path int true "Checkpoint ID"
// @Success 204 "Checkpoint deleted"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/checkpoints/{id} [delete]
func (h *ConsoleHandler) DeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid checkpoint ID")
		return
	}
	if err := sess.Editor.DeleteCheckpoint(r.Context(), id); err != nil {
		h.RespondAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
