package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/apiclient"
	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/services"
)

// fakeBackend is a minimal stand-in for the remote instructor API
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	course := &models.Course{
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

	// Method-prefixed ServeMux patterns need Go 1.22+, so routes are
	// registered by path with an explicit method guard.
	mux := http.NewServeMux()
	withMethod := func(method string, fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"not found"}`))
				return
			}
			fn(w, r)
		}
	}
	mux.HandleFunc("/courses/1", withMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": course})
	}))
	mux.HandleFunc("/sections", withMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateSectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": models.Section{ID: 11, CourseID: req.CourseID, Title: req.Title},
		})
	}))
	mux.HandleFunc("/lessons/100", withMethod(http.MethodDelete, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("/uploads", withMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": "/media/" + header.Filename})
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
	return httptest.NewServer(mux)
}

func newConsoleEnv(t *testing.T) (*chi.Mux, *services.Session) {
	t.Helper()
	backend := fakeBackend(t)
	t.Cleanup(backend.Close)

	factory := func(tokenSource func() string, onUnauthorized func()) services.EntityAPI {
		return apiclient.New(backend.URL,
			apiclient.WithTokenSource(tokenSource),
			apiclient.WithOnUnauthorized(onUnauthorized),
		)
	}
	sessions := services.NewSessionManager(time.Hour, 0, factory, zap.NewNop())
	sess := sessions.Create(models.User{ID: 1, Username: "prof", IsInstructor: true}, "tok")

	r := chi.NewRouter()
	NewConsoleHandler(sessions, zap.NewNop()).RegisterRoutes(r)
	return r, sess
}

func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestConsoleHandler_EditFlow(t *testing.T) {
	router, sess := newConsoleEnv(t)
	base := "/sessions/" + sess.ID

	// Open the course
	rec := doRequest(router, http.MethodPost, base+"/course/1/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var root struct {
		Key      string `json:"key"`
		Children []any  `json:"children"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, "course-1", root.Key)
	assert.Len(t, root.Children, 1)

	// Select a node
	rec = doRequest(router, http.MethodPut, base+"/selection", map[string]string{"key": "lesson-100"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Selecting a missing node is a 404
	rec = doRequest(router, http.MethodPut, base+"/selection", map[string]string{"key": "lesson-999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Create a section; the tree should grow
	rec = doRequest(router, http.MethodPost, base+"/sections", map[string]any{
		"course_id": 1, "title": "Advanced",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(router, http.MethodGet, base+"/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "section-11")

	// Delete a lesson through its node key
	rec = doRequest(router, http.MethodDelete, base+"/nodes/lesson-100", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(router, http.MethodGet, base+"/tree", nil)
	assert.NotContains(t, rec.Body.String(), "lesson-100")

	// Undo restores the lesson locally
	rec = doRequest(router, http.MethodPost, base+"/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lesson-100")

	// Redo removes it again
	rec = doRequest(router, http.MethodPost, base+"/redo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"lesson-100"`)

	// History reports availability
	rec = doRequest(router, http.MethodGet, base+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		CanUndo bool `json:"can_undo"`
		CanRedo bool `json:"can_redo"`
		Depth   int  `json:"depth"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.True(t, history.CanUndo)
	assert.False(t, history.CanRedo)
	assert.NotZero(t, history.Depth)

	// Drain the notifications raised by the edits
	rec = doRequest(router, http.MethodGet, base+"/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notifications))
	assert.NotEmpty(t, notifications)

	// A second drain comes back empty
	rec = doRequest(router, http.MethodGet, base+"/notifications", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestConsoleHandler_ValidationErrors(t *testing.T) {
	router, sess := newConsoleEnv(t)
	base := "/sessions/" + sess.ID

	rec := doRequest(router, http.MethodPost, base+"/course/1/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Section without a title fails form validation before any network call
	rec = doRequest(router, http.MethodPost, base+"/sections", map[string]any{"course_id": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "title")

	// Malformed node keys are rejected
	rec = doRequest(router, http.MethodDelete, base+"/nodes/banana", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The course root is not deletable through the tree
	rec = doRequest(router, http.MethodDelete, base+"/nodes/course-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A body that passes the form check but doesn't fit the typed request
	// is still the client's fault, not a server error
	rec = doRequest(router, http.MethodPatch, base+"/nodes/course-1", map[string]any{
		"demo_video_url": 123,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleHandler_UnknownSession(t *testing.T) {
	router, _ := newConsoleEnv(t)

	rec := doRequest(router, http.MethodGet, "/sessions/not-a-session/tree", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsoleHandler_GetFields(t *testing.T) {
	router, _ := newConsoleEnv(t)

	for _, nodeType := range []string{"course", "section", "lesson", "quiz", "question"} {
		rec := doRequest(router, http.MethodGet, fmt.Sprintf("/fields/%s", nodeType), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var fields []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		assert.NotEmpty(t, fields)
	}

	rec := doRequest(router, http.MethodGet, "/fields/playlist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsoleHandler_CloseSession(t *testing.T) {
	router, sess := newConsoleEnv(t)

	rec := doRequest(router, http.MethodDelete, "/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(router, http.MethodGet, "/sessions/"+sess.ID+"/tree", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartUpload(t *testing.T, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := writer.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("media bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestConsoleHandler_UploadMedia(t *testing.T) {
	router, sess := newConsoleEnv(t)
	target := "/sessions/" + sess.ID + "/uploads"

	t.Run("stores the file and echoes the slugged name", func(t *testing.T) {
		body, contentType := multipartUpload(t, "Course Thumb.PNG", "image/png")
		req := httptest.NewRequest(http.MethodPost, target, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "/media/course-thumb.png", resp["url"])
		assert.Equal(t, "course-thumb.png", resp["filename"])
		assert.Equal(t, "11 B", resp["size_label"])
	})

	t.Run("rejects an unsupported media type", func(t *testing.T) {
		body, contentType := multipartUpload(t, "notes.txt", "text/plain")
		req := httptest.NewRequest(http.MethodPost, target, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing file part", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.Close())
		req := httptest.NewRequest(http.MethodPost, target, &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
