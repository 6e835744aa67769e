package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/http/response"
	"github.com/yungbote/maiopinion/internal/pipeline"
	"github.com/yungbote/maiopinion/internal/platform/apierr"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

type Runner interface {
	Run(ctx context.Context, req pipeline.Request, n pipeline.Notifier) (domain.Report, error)
}

var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
}

type DiagnoseHandler struct {
	log       *logger.Logger
	runner    Runner
	uploadDir string
	maxBytes  int64
}

func NewDiagnoseHandler(log *logger.Logger, runner Runner, uploadDir string, maxBytes int64) *DiagnoseHandler {
	if log == nil {
		log = logger.Nop()
	}
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	return &DiagnoseHandler{
		log:       log.With("handler", "DiagnoseHandler"),
		runner:    runner,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

// Diagnose accepts a multipart upload and streams pipeline progress.
// Input problems are reported as a single error event.
func (h *DiagnoseHandler) Diagnose(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondAPIError(c, apierr.TooLarge("file_too_large", errors.New("File too large")))
			return
		}
		h.rejectInput(c, "No image file provided")
		return
	}
	condition, ok := c.GetPostForm("condition")
	if !ok || strings.TrimSpace(condition) == "" {
		h.rejectInput(c, "No condition description provided")
		return
	}
	if file.Filename == "" {
		h.rejectInput(c, "No file selected")
		return
	}
	if !AllowedFile(file.Filename) {
		h.rejectInput(c, "Invalid file type")
		return
	}

	name := SecureFilename(file.Filename)
	dir, err := os.MkdirTemp(h.uploadDir, "upload-")
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			h.log.Warn("upload cleanup failed", "dir", dir, "error", err)
		}
	}()
	path := filepath.Join(dir, name)
	if err := saveUpload(file, path); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}

	stream := newEventStream(c.Writer, h.log)
	c.Status(http.StatusOK)
	_, err = h.runner.Run(c.Request.Context(), pipeline.Request{
		ImagePath: path,
		ImageName: name,
		Condition: condition,
		Email:     strings.TrimSpace(c.PostForm("email")),
	}, stream)
	if err != nil {
		h.log.Warn("diagnosis run failed", "error", err)
	}
}

func (h *DiagnoseHandler) rejectInput(c *gin.Context, msg string) {
	stream := newEventStream(c.Writer, h.log)
	c.Status(http.StatusOK)
	stream.Notify(pipeline.Event{Type: pipeline.EventError, Message: msg})
}

func AllowedFile(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(name[i+1:])]
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces an uploaded name to a safe base name.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "upload"
	}
	return name
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
