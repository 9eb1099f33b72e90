package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/metrics"
	"github.com/ErlanBelekov/bookshelf/internal/transport/http/middleware"
	"github.com/ErlanBelekov/bookshelf/internal/view"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	maxBytes int64
	logger   *slog.Logger
}

func NewUploadHandler(maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		maxBytes: maxBytes,
		logger:   logger.With("component", "upload_handler"),
	}
}

type uploadPage struct {
	MaxMB    int64
	Uploaded []string
}

func (h *UploadHandler) page(uploaded []string) uploadPage {
	return uploadPage{MaxMB: h.maxBytes >> 20, Uploaded: uploaded}
}

// GET /upload
func (h *UploadHandler) Page(c *gin.Context) {
	render(c, http.StatusOK, view.PageUpload, "Media Upload", h.page(nil))
}

// POST /upload
// Files are classified by their content, not by the name or the type the
// browser declared; anything that does not sniff as image/* is skipped.
func (h *UploadHandler) Upload(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			sess.Error(errUploadTooLarge)
			render(c, http.StatusRequestEntityTooLarge, view.PageUpload, "Media Upload", h.page(nil))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			h.logger.WarnContext(ctx, "parse upload form", "error", err)
		}
		form = &multipart.Form{}
	}
	defer func() { _ = form.RemoveAll() }()

	var (
		files   []apiclient.UploadFile
		names   []string
		skipped int
	)
	for _, fh := range form.File["images"] {
		f, contentType, ok := openImage(fh)
		if !ok {
			skipped++
			continue
		}
		defer func() { _ = f.Close() }()
		files = append(files, apiclient.UploadFile{Name: fh.Filename, ContentType: contentType, Body: f})
		names = append(names, fh.Filename)
	}
	metrics.UploadFilesTotal.WithLabelValues("skipped").Add(float64(skipped))

	if skipped > 0 {
		sess.Error(errSkippedFiles)
	}
	if len(files) == 0 {
		sess.Error(errNoImages)
		render(c, http.StatusUnprocessableEntity, view.PageUpload, "Media Upload", h.page(nil))
		return
	}

	if _, err := sess.Client.UploadImages(ctx, files); err != nil {
		metrics.UploadFilesTotal.WithLabelValues("failed").Add(float64(len(files)))
		if expired(c, sess, err) {
			return
		}
		msg := apiclient.MessageOf(err)
		if msg == "" {
			h.logger.ErrorContext(ctx, "upload images", "error", err)
			msg = errUploadFailed
		}
		sess.Error(msg)
		render(c, statusFor(err), view.PageUpload, "Media Upload", h.page(nil))
		return
	}

	metrics.UploadFilesTotal.WithLabelValues("uploaded").Add(float64(len(files)))
	sess.Success(msgImagesUpload)
	render(c, http.StatusOK, view.PageUpload, "Media Upload", h.page(names))
}

// openImage opens fh and reports its sniffed content type when it is an
// image. The returned file is rewound to the start.
func openImage(fh *multipart.FileHeader) (multipart.File, string, bool) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", false
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil || !strings.HasPrefix(mt.String(), "image/") {
		_ = f.Close()
		return nil, "", false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, "", false
	}
	return f, mt.String(), true
}
