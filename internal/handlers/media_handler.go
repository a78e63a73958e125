package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coursecraft/instructor-console/internal/format"
	"github.com/coursecraft/instructor-console/internal/models"
)

// maxUploadMemory bounds how much of a multipart body stays in memory before
// spilling to disk
const maxUploadMemory = 32 << 20

// mediaFromRequest pulls the file part out of a multipart form, gates it by
// declared content type and normalizes its filename to a slug
func mediaFromRequest(r *http.Request) (*models.Media, multipart.File, int64, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, 0, fmt.Errorf("file part is required")
	}

	contentType := header.Header.Get("Content-Type")
	if !format.IsVideoType(contentType) && !format.IsImageType(contentType) {
		file.Close()
		return nil, nil, 0, fmt.Errorf("unsupported media type %q", contentType)
	}

	base := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(base))
	name := format.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "upload"
	}

	media := &models.Media{
		Filename:    name + ext,
		ContentType: contentType,
		Reader:      file,
	}
	return media, file, header.Size, nil
}

// CreateLessonWithMedia handles POST /sessions/{sessionID}/lessons/media
// @Summary Create a lesson with an attached media file
// @Description Persist a lesson and its video or image in one multipart call, then attach the stored lesson's node under its section
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param section_id formData int true "Section ID"
// @Param title formData string true "Lesson title"
// @Param description formData string false "Lesson description"
// @Param duration formData int false "Duration in seconds"
// @Param file formData file true "Video or image file"
// @Success 201 {object} models.Lesson "Created lesson"
// @Failure 400 {object} map[string]string "Invalid form or unsupported media type"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/lessons/media [post]
func (h *ConsoleHandler) CreateLessonWithMedia(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := models.CreateLessonRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
	}
	if req.Title == "" {
		h.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}
	sectionID, err := strconv.Atoi(r.FormValue("section_id"))
	if err != nil || sectionID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "section_id is required")
		return
	}
	req.SectionID = sectionID
	if d, err := strconv.Atoi(r.FormValue("duration")); err == nil && d > 0 {
		req.Duration = d
	}

	media, file, _, err := mediaFromRequest(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	if format.IsVideoType(media.ContentType) {
		req.ContentType = models.ContentTypeVideo
	} else {
		req.ContentType = models.ContentTypeFile
	}

	lesson, err := sess.Editor.CreateLessonWithMedia(r.Context(), &req, media)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, lesson)
}

// UploadMedia handles POST /sessions/{sessionID}/uploads
// @Summary Upload a standalone media file
// @Description Upload an image or video and get back the stored URL for a later entity edit (thumbnails, preview videos)
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param file formData file true "Image or video file"
// @Success 201 {object} map[string]string "Stored file URL"
// @Failure 400 {object} map[string]string "Missing file or unsupported media type"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{sessionID}/uploads [post]
func (h *ConsoleHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	media, file, size, err := mediaFromRequest(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	url, err := sess.Editor.UploadMedia(r.Context(), media)
	if err != nil {
		h.RespondAPIError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"url":        url,
		"filename":   media.Filename,
		"size":       size,
		"size_label": format.FileSize(size),
	})
}
