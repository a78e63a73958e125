// Package services coordinates the API client, the course tree store and the
// notification relay for one editing session. The store never talks to the
// network; every flow here persists through the API first and mutates local
// state only after the server confirmed, reconciling the touched node from
// the entity the server returned.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/notify"
	"github.com/coursecraft/instructor-console/internal/store"
	"github.com/coursecraft/instructor-console/internal/tree"
)

// Loading/error flag keys, one per entity type
const (
	FlagCourses     = "courses"
	FlagCourse      = "course"
	FlagSections    = "sections"
	FlagLessons     = "lessons"
	FlagQuizzes     = "quizzes"
	FlagQuestions   = "questions"
	FlagCheckpoints = "checkpoints"
	FlagUploads     = "uploads"
)

// EntityAPI is the slice of the API client the editor consumes.
//
// Every method returns the stored entity as the server persisted it; the
// editor reconciles the local tree from those return values, never from the
// request payloads it sent.
type EntityAPI interface {
	ListCourses(ctx context.Context, params models.ListParams) (*models.ListResult[models.Course], error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int, req *models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int) error

	CreateSection(ctx context.Context, req *models.CreateSectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, id int, req *models.UpdateSectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id int) error

	CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error)
	CreateLessonWithMedia(ctx context.Context, req *models.CreateLessonRequest, media *models.Media) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int, req *models.UpdateLessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int) error

	UploadFile(ctx context.Context, media *models.Media) (string, error)

	CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, id int, req *models.UpdateQuizRequest) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id int) error

	CreateQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id int, req *models.UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int) error

	ListCheckpoints(ctx context.Context, lessonID int) ([]models.LessonCheckpoint, error)
	CreateCheckpoint(ctx context.Context, lessonID int, req *models.CreateCheckpointRequest) (*models.LessonCheckpoint, error)
	UpdateCheckpoint(ctx context.Context, id int, req *models.UpdateCheckpointRequest) (*models.LessonCheckpoint, error)
	DeleteCheckpoint(ctx context.Context, id int) error
}

// errNoCourse reports tree operations attempted with no open course
var errNoCourse = errors.New("no course is currently open")

// Editor drives the tree-editing protocol for one session
type Editor struct {
	api    EntityAPI
	store  *store.Store
	relay  *notify.Relay
	logger *zap.Logger
}

// NewEditor creates an editor over one session's store and relay
func NewEditor(api EntityAPI, st *store.Store, relay *notify.Relay, logger *zap.Logger) *Editor {
	return &Editor{api: api, store: st, relay: relay, logger: logger}
}

// Store exposes the session's course tree store
func (e *Editor) Store() *store.Store {
	return e.store
}

// Relay exposes the session's notification relay
func (e *Editor) Relay() *notify.Relay {
	return e.relay
}

// fail records the error for an entity type and surfaces it as a
// notification. Failures route through the relay; nothing panics and
// nothing escapes to the caller beyond the returned error.
func (e *Editor) fail(flag, message string, err error) error {
	e.store.SetError(flag, err.Error())
	e.relay.Error(message, err.Error())
	e.logger.Warn(message, zap.Error(err))
	return err
}

// ListCourses pages through the instructor's courses
func (e *Editor) ListCourses(ctx context.Context, params models.ListParams) (*models.ListResult[models.Course], error) {
	e.store.SetLoading(FlagCourses, true)
	defer e.store.SetLoading(FlagCourses, false)

	result, err := e.api.ListCourses(ctx, params)
	if err != nil {
		return nil, e.fail(FlagCourses, "Failed to load courses", err)
	}
	e.store.ClearError(FlagCourses)
	return result, nil
}

// OpenCourse fetches the full nested course and makes it the current one.
// Opening is a load, not an edit: selection clears and no snapshot is taken.
func (e *Editor) OpenCourse(ctx context.Context, id int) (*models.Course, error) {
	e.store.SetLoading(FlagCourse, true)
	defer e.store.SetLoading(FlagCourse, false)

	course, err := e.api.GetCourse(ctx, id)
	if err != nil {
		return nil, e.fail(FlagCourse, "Failed to open course", err)
	}
	e.store.SetCurrentCourse(course)
	e.store.ClearError(FlagCourse)
	return course, nil
}

// ReloadCourse re-fetches the open course from server truth and rebuilds the
// tree. The selection survives the reload when the selected entity still
// exists; stable keys make that possible.
func (e *Editor) ReloadCourse(ctx context.Context) (*models.Course, error) {
	current := e.store.CurrentCourse()
	if current == nil {
		return nil, e.fail(FlagCourse, "No course is open", errNoCourse)
	}

	selected := e.store.SelectedKey()
	course, err := e.OpenCourse(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if selected != "" {
		e.store.SetSelectedNode(selected)
	}
	return course, nil
}

// CreateCourse creates a course. The new course is not opened; the tree is
// untouched until the caller opens it.
func (e *Editor) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	e.store.SetLoading(FlagCourse, true)
	defer e.store.SetLoading(FlagCourse, false)

	course, err := e.api.CreateCourse(ctx, req)
	if err != nil {
		return nil, e.fail(FlagCourse, "Failed to create course", err)
	}
	e.relay.Success("Course created", course.Title)
	return course, nil
}

// UpdateCourse updates a course; when it is the open course the root node is
// patched from the server's returned entity
func (e *Editor) UpdateCourse(ctx context.Context, id int, req *models.UpdateCourseRequest) (*models.Course, error) {
	e.store.SetLoading(FlagCourse, true)
	defer e.store.SetLoading(FlagCourse, false)

	course, err := e.api.UpdateCourse(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagCourse, "Failed to update course", err)
	}
	if current := e.store.CurrentCourse(); current != nil && current.ID == id {
		e.store.UpdateNode(tree.Key(tree.NodeTypeCourse, id), tree.EntityMap(course))
	}
	e.relay.Success("Course updated", course.Title)
	return course, nil
}

// DeleteCourse deletes a course; deleting the open course resets the session
// state entirely
func (e *Editor) DeleteCourse(ctx context.Context, id int) error {
	e.store.SetLoading(FlagCourse, true)
	defer e.store.SetLoading(FlagCourse, false)

	if err := e.api.DeleteCourse(ctx, id); err != nil {
		return e.fail(FlagCourse, "Failed to delete course", err)
	}
	if current := e.store.CurrentCourse(); current != nil && current.ID == id {
		e.store.Reset()
	}
	e.relay.Success("Course deleted", "")
	return nil
}

// CreateSection persists a section and attaches its node under the course
// root
func (e *Editor) CreateSection(ctx context.Context, req *models.CreateSectionRequest) (*models.Section, error) {
	e.store.SetLoading(FlagSections, true)
	defer e.store.SetLoading(FlagSections, false)

	section, err := e.api.CreateSection(ctx, req)
	if err != nil {
		return nil, e.fail(FlagSections, "Failed to create section", err)
	}

	parentKey := tree.Key(tree.NodeTypeCourse, section.CourseID)
	node := tree.NewNode(tree.NodeTypeSection, section.ID, section.Title, section)
	if !e.store.AddNode(parentKey, node) {
		e.logger.Warn("section parent missing from tree, skipping local attach",
			zap.String("parent_key", parentKey))
	}
	e.store.ClearError(FlagSections)
	e.relay.Success("Section created", section.Title)
	return section, nil
}

// UpdateSection persists a section update and patches its node from the
// returned entity
func (e *Editor) UpdateSection(ctx context.Context, id int, req *models.UpdateSectionRequest) (*models.Section, error) {
	e.store.SetLoading(FlagSections, true)
	defer e.store.SetLoading(FlagSections, false)

	section, err := e.api.UpdateSection(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagSections, "Failed to update section", err)
	}
	e.store.UpdateNode(tree.Key(tree.NodeTypeSection, id), tree.EntityMap(section))
	e.store.ClearError(FlagSections)
	e.relay.Success("Section updated", section.Title)
	return section, nil
}

// DeleteSection deletes a section and removes its subtree locally
func (e *Editor) DeleteSection(ctx context.Context, id int) error {
	e.store.SetLoading(FlagSections, true)
	defer e.store.SetLoading(FlagSections, false)

	if err := e.api.DeleteSection(ctx, id); err != nil {
		return e.fail(FlagSections, "Failed to delete section", err)
	}
	e.store.DeleteNode(tree.Key(tree.NodeTypeSection, id))
	e.store.ClearError(FlagSections)
	e.relay.Success("Section deleted", "")
	return nil
}

// CreateLesson persists a lesson and attaches its leaf node under its section
func (e *Editor) CreateLesson(ctx context.Context, req *models.CreateLessonRequest) (*models.Lesson, error) {
	e.store.SetLoading(FlagLessons, true)
	defer e.store.SetLoading(FlagLessons, false)

	lesson, err := e.api.CreateLesson(ctx, req)
	if err != nil {
		return nil, e.fail(FlagLessons, "Failed to create lesson", err)
	}

	parentKey := tree.Key(tree.NodeTypeSection, lesson.SectionID)
	node := tree.NewNode(tree.NodeTypeLesson, lesson.ID, lesson.Title, lesson)
	if !e.store.AddNode(parentKey, node) {
		e.logger.Warn("lesson parent missing from tree, skipping local attach",
			zap.String("parent_key", parentKey))
	}
	e.store.ClearError(FlagLessons)
	e.relay.Success("Lesson created", lesson.Title)
	return lesson, nil
}

// CreateLessonWithMedia persists a lesson together with its media file in a
// single multipart call and attaches the stored lesson's node under its
// section
func (e *Editor) CreateLessonWithMedia(ctx context.Context, req *models.CreateLessonRequest, media *models.Media) (*models.Lesson, error) {
	e.store.SetLoading(FlagLessons, true)
	defer e.store.SetLoading(FlagLessons, false)

	lesson, err := e.api.CreateLessonWithMedia(ctx, req, media)
	if err != nil {
		return nil, e.fail(FlagLessons, "Failed to create lesson", err)
	}

	parentKey := tree.Key(tree.NodeTypeSection, lesson.SectionID)
	node := tree.NewNode(tree.NodeTypeLesson, lesson.ID, lesson.Title, lesson)
	if !e.store.AddNode(parentKey, node) {
		e.logger.Warn("lesson parent missing from tree, skipping local attach",
			zap.String("parent_key", parentKey))
	}
	e.store.ClearError(FlagLessons)
	e.relay.Success("Lesson created", lesson.Title)
	return lesson, nil
}

// UploadMedia uploads a standalone media file and returns the stored URL.
// Uploads never touch the tree; the URL is referenced by a later entity edit.
func (e *Editor) UploadMedia(ctx context.Context, media *models.Media) (string, error) {
	url, err := e.api.UploadFile(ctx, media)
	if err != nil {
		return "", e.fail(FlagUploads, "Failed to upload file", err)
	}
	e.relay.Success("File uploaded", media.Filename)
	return url, nil
}

// UpdateLesson persists a lesson update and patches its node from the
// returned entity
func (e *Editor) UpdateLesson(ctx context.Context, id int, req *models.UpdateLessonRequest) (*models.Lesson, error) {
	e.store.SetLoading(FlagLessons, true)
	defer e.store.SetLoading(FlagLessons, false)

	lesson, err := e.api.UpdateLesson(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagLessons, "Failed to update lesson", err)
	}
	e.store.UpdateNode(tree.Key(tree.NodeTypeLesson, id), tree.EntityMap(lesson))
	e.store.ClearError(FlagLessons)
	e.relay.Success("Lesson updated", lesson.Title)
	return lesson, nil
}

// DeleteLesson deletes a lesson and removes its node locally
func (e *Editor) DeleteLesson(ctx context.Context, id int) error {
	e.store.SetLoading(FlagLessons, true)
	defer e.store.SetLoading(FlagLessons, false)

	if err := e.api.DeleteLesson(ctx, id); err != nil {
		return e.fail(FlagLessons, "Failed to delete lesson", err)
	}
	e.store.DeleteNode(tree.Key(tree.NodeTypeLesson, id))
	e.store.ClearError(FlagLessons)
	e.relay.Success("Lesson deleted", "")
	return nil
}

// CreateQuiz persists a quiz owned by a lesson. The node attaches under the
// section that holds the lesson: quizzes display at section level while
// lessons stay leaves.
func (e *Editor) CreateQuiz(ctx context.Context, sectionID int, req *models.CreateQuizRequest) (*models.Quiz, error) {
	e.store.SetLoading(FlagQuizzes, true)
	defer e.store.SetLoading(FlagQuizzes, false)

	quiz, err := e.api.CreateQuiz(ctx, req)
	if err != nil {
		return nil, e.fail(FlagQuizzes, "Failed to create quiz", err)
	}

	if quiz.SectionID != 0 {
		sectionID = quiz.SectionID
	}
	parentKey := tree.Key(tree.NodeTypeSection, sectionID)
	node := tree.NewNode(tree.NodeTypeQuiz, quiz.ID, quiz.Title, quiz)
	if !e.store.AddNode(parentKey, node) {
		e.logger.Warn("quiz parent missing from tree, skipping local attach",
			zap.String("parent_key", parentKey))
	}
	e.store.ClearError(FlagQuizzes)
	e.relay.Success("Quiz created", quiz.Title)
	return quiz, nil
}

// UpdateQuiz persists a quiz update and patches its node from the returned
// entity
func (e *Editor) UpdateQuiz(ctx context.Context, id int, req *models.UpdateQuizRequest) (*models.Quiz, error) {
	e.store.SetLoading(FlagQuizzes, true)
	defer e.store.SetLoading(FlagQuizzes, false)

	quiz, err := e.api.UpdateQuiz(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagQuizzes, "Failed to update quiz", err)
	}
	e.store.UpdateNode(tree.Key(tree.NodeTypeQuiz, id), tree.EntityMap(quiz))
	e.store.ClearError(FlagQuizzes)
	e.relay.Success("Quiz updated", quiz.Title)
	return quiz, nil
}

// DeleteQuiz deletes a quiz and removes its subtree locally
func (e *Editor) DeleteQuiz(ctx context.Context, id int) error {
	e.store.SetLoading(FlagQuizzes, true)
	defer e.store.SetLoading(FlagQuizzes, false)

	if err := e.api.DeleteQuiz(ctx, id); err != nil {
		return e.fail(FlagQuizzes, "Failed to delete quiz", err)
	}
	e.store.DeleteNode(tree.Key(tree.NodeTypeQuiz, id))
	e.store.ClearError(FlagQuizzes)
	e.relay.Success("Quiz deleted", "")
	return nil
}

// CreateQuestion persists a question and attaches its leaf node under its
// quiz
func (e *Editor) CreateQuestion(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	e.store.SetLoading(FlagQuestions, true)
	defer e.store.SetLoading(FlagQuestions, false)

	question, err := e.api.CreateQuestion(ctx, req)
	if err != nil {
		return nil, e.fail(FlagQuestions, "Failed to create question", err)
	}

	parentKey := tree.Key(tree.NodeTypeQuiz, question.QuizID)
	node := tree.NewNode(tree.NodeTypeQuestion, question.ID, question.QuestionText, question)
	if !e.store.AddNode(parentKey, node) {
		e.logger.Warn("question parent missing from tree, skipping local attach",
			zap.String("parent_key", parentKey))
	}
	e.store.ClearError(FlagQuestions)
	e.relay.Success("Question created", "")
	return question, nil
}

// UpdateQuestion persists a question update and patches its node from the
// returned entity
func (e *Editor) UpdateQuestion(ctx context.Context, id int, req *models.UpdateQuestionRequest) (*models.Question, error) {
	e.store.SetLoading(FlagQuestions, true)
	defer e.store.SetLoading(FlagQuestions, false)

	question, err := e.api.UpdateQuestion(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagQuestions, "Failed to update question", err)
	}
	e.store.UpdateNode(tree.Key(tree.NodeTypeQuestion, id), tree.EntityMap(question))
	e.store.ClearError(FlagQuestions)
	e.relay.Success("Question updated", "")
	return question, nil
}

// DeleteQuestion deletes a question and removes its node locally
func (e *Editor) DeleteQuestion(ctx context.Context, id int) error {
	e.store.SetLoading(FlagQuestions, true)
	defer e.store.SetLoading(FlagQuestions, false)

	if err := e.api.DeleteQuestion(ctx, id); err != nil {
		return e.fail(FlagQuestions, "Failed to delete question", err)
	}
	e.store.DeleteNode(tree.Key(tree.NodeTypeQuestion, id))
	e.store.ClearError(FlagQuestions)
	e.relay.Success("Question deleted", "")
	return nil
}

// ListCheckpoints lists a lesson's video checkpoints.
// Checkpoints never enter the tree; failures still surface via the relay.
func (e *Editor) ListCheckpoints(ctx context.Context, lessonID int) ([]models.LessonCheckpoint, error) {
	e.store.SetLoading(FlagCheckpoints, true)
	defer e.store.SetLoading(FlagCheckpoints, false)

	checkpoints, err := e.api.ListCheckpoints(ctx, lessonID)
	if err != nil {
		return nil, e.fail(FlagCheckpoints, "Failed to load checkpoints", err)
	}
	return checkpoints, nil
}

// CreateCheckpoint attaches a quiz to a playback position of a lesson
func (e *Editor) CreateCheckpoint(ctx context.Context, lessonID int, req *models.CreateCheckpointRequest) (*models.LessonCheckpoint, error) {
	e.store.SetLoading(FlagCheckpoints, true)
	defer e.store.SetLoading(FlagCheckpoints, false)

	checkpoint, err := e.api.CreateCheckpoint(ctx, lessonID, req)
	if err != nil {
		return nil, e.fail(FlagCheckpoints, "Failed to create checkpoint", err)
	}
	e.relay.Success("Checkpoint created", "")
	return checkpoint, nil
}

// UpdateCheckpoint updates a checkpoint
func (e *Editor) UpdateCheckpoint(ctx context.Context, id int, req *models.UpdateCheckpointRequest) (*models.LessonCheckpoint, error) {
	e.store.SetLoading(FlagCheckpoints, true)
	defer e.store.SetLoading(FlagCheckpoints, false)

	checkpoint, err := e.api.UpdateCheckpoint(ctx, id, req)
	if err != nil {
		return nil, e.fail(FlagCheckpoints, "Failed to update checkpoint", err)
	}
	e.relay.Success("Checkpoint updated", "")
	return checkpoint, nil
}

// DeleteCheckpoint deletes a checkpoint
func (e *Editor) DeleteCheckpoint(ctx context.Context, id int) error {
	e.store.SetLoading(FlagCheckpoints, true)
	defer e.store.SetLoading(FlagCheckpoints, false)

	if err := e.api.DeleteCheckpoint(ctx, id); err != nil {
		return e.fail(FlagCheckpoints, "Failed to delete checkpoint", err)
	}
	e.relay.Success("Checkpoint deleted", "")
	return nil
}
